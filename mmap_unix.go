// Copyright 2024 The Balloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin || dragonfly || freebsd || linux || openbsd || solaris || netbsd

package alloc

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// mmapRegion obtains a zeroed, anonymous, private mapping of size bytes
// from the OS and returns its base address.
func mmapRegion(size uintptr) (unsafe.Pointer, error) {
	b, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(&b[0]), nil
}

// munmapRegion releases a region previously obtained from mmapRegion.
func munmapRegion(addr unsafe.Pointer, size uintptr) error {
	b := unsafe.Slice((*byte)(addr), int(size))
	return unix.Munmap(b)
}
