// Copyright 2024 The Balloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import (
	"errors"
	"fmt"
	"unsafe"
)

// primaryRegionSize is the 64 MiB mapped once, lazily, on first use.
const primaryRegionSize = 64 << 20

// ErrHeapUnavailable is returned when the primary region could not be
// mapped from the OS on a previous call; the allocator is then
// permanently unable to serve primary-region requests.
var ErrHeapUnavailable = errors.New("alloc: primary heap unavailable")

// maxAllocationSize is 128 MiB minus one block's metadata, matching the
// original design's kMaxAllocationSize. It depends on blockMetaSize,
// which is a package-level variable, so it is a variable too.
var maxAllocationSize = uintptr(128<<20) - blockMetaSize

// Allocator is a single heap: one primary mmap'd region carved with
// boundary-tag blocks and coalesced on free, plus a side path for
// requests too large for an empty primary region to ever satisfy.
//
// The zero value is ready to use. An Allocator is not safe for
// concurrent use by multiple goroutines; callers needing that must
// serialize access themselves (see spec §5 / DESIGN.md).
type Allocator struct {
	heapStart uintptr // first byte after the low fencepost; 0 until mapped
	heapEnd   uintptr // address of the high fencepost of the primary region

	freeLists [numFreeListClasses]*block
	mmapped   *block // head of the live-oversize-block registry

	heapSize       uintptr // Hk: cumulative bytes ever obtained from the OS
	currentPayload uintptr // Pk: sum of payload sizes of live blocks
	peakPayload    uintptr // max Pi: running maximum of currentPayload

	heapFailed bool // sticky: primary region mmap previously failed
}

// ensureHeap lazily maps the primary region on first use, installs its
// fenceposts, and seeds the free-list index with one large free block.
func (a *Allocator) ensureHeap() error {
	if a.heapStart != 0 {
		return nil
	}
	if a.heapFailed {
		return ErrHeapUnavailable
	}

	mem, err := mmapRegion(primaryRegionSize)
	if err != nil {
		a.heapFailed = true
		logTrace("ensureHeap: mmap failed: %v", err)
		return fmt.Errorf("%w: %v", ErrHeapUnavailable, err)
	}

	a.heapSize += primaryRegionSize

	low := (*block)(mem)
	low.header = 0
	setAllocated(low, true)
	setFencepost(low, true)

	high := (*block)(unsafe.Pointer(uintptr(mem) + primaryRegionSize - blockMetaSize))
	high.header = 0
	setAllocated(high, true)
	setFencepost(high, true)

	free := (*block)(unsafe.Pointer(uintptr(mem) + blockMetaSize))
	setSize(free, primaryRegionSize-2*blockMetaSize)
	setAllocated(free, false)
	setFencepost(free, false)
	setMapped(free, false)
	free.next, free.prev = nil, nil
	writeFooter(free)

	a.heapStart = uintptr(unsafe.Pointer(free))
	a.heapEnd = uintptr(unsafe.Pointer(high))
	a.addFree(free)

	return nil
}

// primaryCarveCapacity is the largest block size the primary region can
// ever hand out: its full size minus the two fencepost headers.
func primaryCarveCapacity() uintptr {
	return primaryRegionSize - 2*blockMetaSize
}

func (a *Allocator) withinPrimary(b *block) bool {
	addr := uintptr(unsafe.Pointer(b))
	return a.heapStart != 0 && addr >= a.heapStart && addr < a.heapEnd
}
