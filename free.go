// Copyright 2024 The Balloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import "unsafe"

// Free releases the block owned by p, a pointer previously returned by
// Malloc. It is a silent no-op for nil, a misaligned pointer, a pointer
// that falls outside both the primary region and the mapped-block
// registry, and a pointer to a block that is already free (double
// free) — none of these change allocator state. Any munmap failure on
// the oversize path is logged, not propagated: the block is still
// treated as released for accounting purposes.
func (a *Allocator) Free(p unsafe.Pointer) {
	if trace {
		defer logTrace("Free(%p)", p)
	}

	if p == nil {
		return
	}

	b := blockFromPointer(p)
	if uintptr(unsafe.Pointer(b))%wordSize != 0 {
		logTrace("Free(%p): misaligned pointer, ignoring", p)
		return
	}

	if !a.withinPrimary(b) && !a.isRegisteredMapped(b) {
		logTrace("Free(%p): not a live allocation, ignoring", p)
		return
	}

	if !isAllocated(b) {
		logTrace("Free(%p): double free, ignoring", p)
		return
	}

	setAllocated(b, false)
	writeFooter(b)
	a.currentPayload -= getSize(b) - blockOverhead

	if isMapped(b) {
		a.unregisterMapped(b)
		_ = a.freeOversize(b)
		return
	}

	a.coalesceAndRelease(b)
}

// coalesceAndRelease merges b with a free neighbor on either side, if
// any, and inserts the (possibly grown) result into the free-list
// index. Coalescing is immediate and bidirectional: order only matters
// for correct size bookkeeping, not for the final shape of the merged
// block.
func (a *Allocator) coalesceAndRelease(b *block) {
	if next := nextBlock(b); next != nil && !isFencepost(next) && !isAllocated(next) {
		a.removeFree(next)
		setSize(b, getSize(b)+getSize(next))
		writeFooter(b)
	}

	if prev := prevBlock(b); prev != nil && !isFencepost(prev) && !isAllocated(prev) {
		a.removeFree(prev)
		setSize(prev, getSize(prev)+getSize(b))
		writeFooter(prev)
		b = prev
	}

	a.addFree(b)
}
