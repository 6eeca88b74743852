// Copyright 2024 The Balloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import "unsafe"

// allocOversize serves a request that could never fit an empty primary
// region by mapping it directly from the OS: two fenceposts bracketing a
// single allocated, MAPPED block. The block is pushed onto the
// mapped-block registry (never the free-list index — it is never split,
// never coalesced, and exists in our bookkeeping solely so Free can
// validate the pointer later).
func (a *Allocator) allocOversize(blockSize uintptr) (unsafe.Pointer, error) {
	mmapSize := blockSize + 2*blockMetaSize

	mem, err := mmapRegion(mmapSize)
	if err != nil {
		logTrace("allocOversize: mmap failed: %v", err)
		return nil, err
	}

	a.heapSize += mmapSize

	low := (*block)(mem)
	low.header = 0
	setAllocated(low, true)
	setFencepost(low, true)
	setMapped(low, true)

	high := (*block)(unsafe.Pointer(uintptr(mem) + mmapSize - blockMetaSize))
	high.header = 0
	setAllocated(high, true)
	setFencepost(high, true)
	setMapped(high, true)

	mid := (*block)(unsafe.Pointer(uintptr(mem) + blockMetaSize))
	setSize(mid, mmapSize-2*blockMetaSize)
	setAllocated(mid, true)
	setFencepost(mid, false)
	setMapped(mid, true)
	writeFooter(mid)

	a.registerMapped(mid)
	a.accountAlloc(getSize(mid))

	return payloadStart(mid), nil
}

// registerMapped pushes b onto the head of the mapped-block registry.
func (a *Allocator) registerMapped(b *block) {
	b.next = a.mmapped
	if a.mmapped != nil {
		a.mmapped.prev = b
	}
	b.prev = nil
	a.mmapped = b
}

// unregisterMapped unlinks b from the mapped-block registry.
func (a *Allocator) unregisterMapped(b *block) {
	if b.prev != nil {
		b.prev.next = b.next
	} else {
		a.mmapped = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	}
	b.next, b.prev = nil, nil
}

// isRegisteredMapped walks the mapped-block registry looking for b by
// identity; it is the sole mechanism by which a pointer outside the
// primary region is accepted as valid.
func (a *Allocator) isRegisteredMapped(b *block) bool {
	for cur := a.mmapped; cur != nil; cur = cur.next {
		if cur == b {
			return true
		}
	}
	return false
}

// freeOversize unmaps b's backing region. heapSize is not decremented:
// Hk is the cumulative total ever obtained from the OS, not the amount
// currently held.
func (a *Allocator) freeOversize(b *block) error {
	size := getSize(b) + 2*blockMetaSize
	addr := unsafe.Pointer(uintptr(unsafe.Pointer(b)) - blockMetaSize)
	if err := munmapRegion(addr, size); err != nil {
		logTrace("freeOversize: munmap failed: %v", err)
		return err
	}
	return nil
}
