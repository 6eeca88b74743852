// Copyright 2024 The Balloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import "unsafe"

// These are pure observers: they never mutate allocator state or
// free-list bookkeeping. They back both the allocator's own test suite
// and the external fragmentation-measurement harness.

// GetStartBlock returns the first non-fencepost block of the primary
// region, or nil if the primary region has not been created yet.
func (a *Allocator) GetStartBlock() unsafe.Pointer {
	if a.heapStart == 0 {
		return nil
	}
	return unsafe.Pointer(a.heapStart)
}

// GetNextBlock returns the block immediately following b in memory, or
// nil at the end of b's region (a fencepost, or no further block).
func (a *Allocator) GetNextBlock(b unsafe.Pointer) unsafe.Pointer {
	next := nextBlock((*block)(b))
	if next == nil {
		return nil
	}
	return unsafe.Pointer(next)
}

// GetPrevBlock returns the block immediately preceding b in memory, or
// nil at the start of b's region.
func (a *Allocator) GetPrevBlock(b unsafe.Pointer) unsafe.Pointer {
	prev := prevBlock((*block)(b))
	if prev == nil {
		return nil
	}
	return unsafe.Pointer(prev)
}

// IsFree reports whether b is currently free (i.e. not allocated, and
// not a fencepost — a fencepost is never considered free).
func (a *Allocator) IsFree(b unsafe.Pointer) bool {
	bl := (*block)(b)
	return bl != nil && !isAllocated(bl) && !isFencepost(bl)
}

// BlockSize returns b's total size in bytes, including its header,
// footer, and (if free) list pointers.
func (a *Allocator) BlockSize(b unsafe.Pointer) uintptr {
	if b == nil {
		return 0
	}
	return getSize((*block)(b))
}

// PtrToBlock recovers the owning block's address from a payload pointer
// previously returned by Malloc. It performs no validation: it is raw
// pointer arithmetic, not a safe cast — callers that cannot already
// trust p should go through Free's validation instead.
func PtrToBlock(p unsafe.Pointer) unsafe.Pointer {
	if p == nil {
		return nil
	}
	return unsafe.Pointer(blockFromPointer(p))
}

// GetPeakMemoryUsage returns max Pi: the largest aggregate payload size
// ever observed across the life of this Allocator.
func (a *Allocator) GetPeakMemoryUsage() uintptr {
	return a.peakPayload
}

// GetHeapSize returns Hk: the cumulative number of bytes ever obtained
// from the OS by this Allocator. It never decreases, even across
// oversize frees that return their backing memory to the OS.
func (a *Allocator) GetHeapSize() uintptr {
	return a.heapSize
}
