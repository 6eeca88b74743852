// Copyright 2024 The Balloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import (
	"errors"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// mmap on Windows is a two-step process: CreateFileMapping gets a
// handle backed by the system paging file, then MapViewOfFile maps a
// view of it into the process's address space. We keep handleMap so we
// can get back the original handle from the memory address once the
// caller only has the address to give us back.
var handleMap = map[uintptr]windows.Handle{}

func mmapRegion(size uintptr) (unsafe.Pointer, error) {
	// The maximum size is the area of the file, starting from 0, that we
	// wish to allow to be mappable. This does not map the data into
	// memory by itself.
	maxSizeHigh := uint32(uint64(size) >> 32)
	maxSizeLow := uint32(uint64(size) & 0xFFFFFFFF)

	h, err := windows.CreateFileMapping(windows.InvalidHandle, nil, windows.PAGE_READWRITE, maxSizeHigh, maxSizeLow, nil)
	if err != nil {
		return nil, os.NewSyscallError("CreateFileMapping", err)
	}

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_WRITE, 0, 0, size)
	if err != nil {
		windows.CloseHandle(h)
		return nil, os.NewSyscallError("MapViewOfFile", err)
	}

	handleMap[addr] = h
	return unsafe.Pointer(addr), nil
}

func munmapRegion(addr unsafe.Pointer, size uintptr) error {
	// Unmapping the view and forgetting the handle must not interleave
	// with another goroutine doing the same for a different region that
	// the OS has since reused at the same address.
	base := uintptr(addr)

	if err := windows.UnmapViewOfFile(base); err != nil {
		return err
	}

	h, ok := handleMap[base]
	if !ok {
		// should be impossible; we would've errored above
		return errors.New("alloc: unknown mapping base address")
	}
	delete(handleMap, base)

	return os.NewSyscallError("CloseHandle", windows.CloseHandle(h))
}
