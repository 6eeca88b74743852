// Copyright 2024 The Balloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import "unsafe"

// block is the boundary-tag header shared by every block of heap memory,
// free or allocated. Its layout mirrors a C struct deliberately: the
// header word (size plus flags) comes first so that footer-to-header
// arithmetic between adjacent blocks is just pointer addition, and next/
// prev sit right after it.
//
// next and prev are part of the block's metadata, not of its payload:
// payloadStart returns the first byte after them, so the caller's bytes
// never overlap them. They link a free block into its free list and a
// live oversize block into the mapped-block registry.
type block struct {
	header uintptr
	next   *block
	prev   *block
}

const (
	allocatedFlag uintptr = 0x1
	fencepostFlag uintptr = 0x2
	mappedFlag    uintptr = 0x4
	flagMask      uintptr = allocatedFlag | fencepostFlag | mappedFlag
	sizeMask      uintptr = ^flagMask
)

var (
	wordSize      = unsafe.Sizeof(uintptr(0))
	blockMetaSize = unsafe.Sizeof(block{}) // header + next + prev
	footerSize    = wordSize
	blockOverhead = blockMetaSize + footerSize
)

// kMinAllocationSize in spec.md terms: the smallest carve-out beyond
// overhead, and the smallest leftover a split will bother producing.
var minAllocationSize = wordSize

// roundUp rounds n up to the next multiple of m, m a power of two.
func roundUp(n, m uintptr) uintptr {
	return (n + m - 1) &^ (m - 1)
}

func getSize(b *block) uintptr {
	return b.header & sizeMask
}

func setSize(b *block, size uintptr) {
	b.header = (b.header &^ sizeMask) | (size & sizeMask)
}

func isAllocated(b *block) bool { return b.header&allocatedFlag != 0 }
func isFencepost(b *block) bool { return b.header&fencepostFlag != 0 }
func isMapped(b *block) bool    { return b.header&mappedFlag != 0 }

func setAllocated(b *block, v bool) { setFlag(b, allocatedFlag, v) }
func setFencepost(b *block, v bool) { setFlag(b, fencepostFlag, v) }
func setMapped(b *block, v bool)    { setFlag(b, mappedFlag, v) }

func setFlag(b *block, flag uintptr, v bool) {
	if v {
		b.header |= flag
	} else {
		b.header &^= flag
	}
}

// footerAddr returns the address of b's footer word: the last word of
// the block, which replicates b.header.
func footerAddr(b *block) *uintptr {
	return (*uintptr)(unsafe.Pointer(uintptr(unsafe.Pointer(b)) + getSize(b) - footerSize))
}

// writeFooter copies b's header word into its footer, restoring the
// header(b) == *footer(b) invariant. Callers must not call this on a
// fencepost (size zero blocks have no footer slot of their own).
func writeFooter(b *block) {
	*footerAddr(b) = b.header
}

// nextBlock returns the block immediately following b in memory, or nil
// if b is a fencepost or the candidate is not a real block (zero size or
// itself a fencepost, i.e. the end of the OS-obtained region).
func nextBlock(b *block) *block {
	if b == nil || isFencepost(b) {
		return nil
	}
	cand := (*block)(unsafe.Pointer(uintptr(unsafe.Pointer(b)) + getSize(b)))
	if getSize(cand) == 0 || isFencepost(cand) {
		return nil
	}
	return cand
}

// prevBlock returns the block immediately preceding b, reading the word
// just before b's header as the previous block's footer. Returns nil at
// the low end of a region (fencepost, zero-size footer, or a footer that
// would not move the pointer backward at all).
func prevBlock(b *block) *block {
	if b == nil {
		return nil
	}
	footer := (*uintptr)(unsafe.Pointer(uintptr(unsafe.Pointer(b)) - footerSize))
	prevSize := *footer & sizeMask
	if prevSize == 0 {
		return nil
	}
	cand := (*block)(unsafe.Pointer(uintptr(unsafe.Pointer(b)) - prevSize))
	if cand == b || isFencepost(cand) {
		return nil
	}
	return cand
}

// payloadStart returns the address of the first usable byte of b, the
// address Malloc hands back to the caller.
func payloadStart(b *block) unsafe.Pointer {
	return unsafe.Pointer(uintptr(unsafe.Pointer(b)) + blockMetaSize)
}

// blockFromPointer is the inverse of payloadStart: given a pointer the
// caller received from Malloc, recover the owning block header.
func blockFromPointer(p unsafe.Pointer) *block {
	return (*block)(unsafe.Pointer(uintptr(p) - blockMetaSize))
}
