// Copyright 2024 The Balloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import "unsafe"

// Malloc returns a word-aligned pointer to at least size usable bytes,
// or nil if size is zero, exceeds the maximum allocation size, or no
// memory is available. A non-nil error means the OS refused to hand
// over memory (primary region mapping, or the oversize mmap path);
// a nil pointer with a nil error means the request itself was rejected
// (zero size, oversized request, or no free block fits) and the
// allocator's state did not change.
func (a *Allocator) Malloc(size uintptr) (unsafe.Pointer, error) {
	if trace {
		defer func() {
			logTrace("Malloc(%#x)", size)
		}()
	}

	if size == 0 || size > maxAllocationSize {
		return nil, nil
	}

	if err := a.ensureHeap(); err != nil {
		return nil, err
	}

	blockSize := roundUp(size+blockOverhead, wordSize)

	if blockSize > primaryCarveCapacity() {
		return a.allocOversize(blockSize)
	}

	best := a.findBestFit(blockSize)
	if best == nil {
		return nil, nil
	}

	a.removeFree(best)
	a.carve(best, blockSize)

	setAllocated(best, true)
	writeFooter(best)
	best.next, best.prev = nil, nil

	a.accountAlloc(getSize(best))

	return payloadStart(best), nil
}

// findBestFit walks the free-list classes from blockSize's class
// upward, tracking the smallest candidate block at least blockSize
// bytes, and stopping as soon as an exact fit is seen. Classes are
// unordered, so within a class this is a linear scan; narrow,
// factor-of-two classes keep that scan short in practice.
func (a *Allocator) findBestFit(blockSize uintptr) *block {
	var best *block
	for class := freeListClass(blockSize); class < numFreeListClasses; class++ {
		for cand := a.freeLists[class]; cand != nil; cand = cand.next {
			sz := getSize(cand)
			if sz < blockSize {
				continue
			}
			if best == nil || sz < getSize(best) {
				best = cand
				if sz == blockSize {
					break
				}
			}
		}
		if best != nil && getSize(best) == blockSize {
			break
		}
	}
	return best
}

// carve trims winner down to exactly size bytes if the leftover is
// large enough to be a useful free block on its own, reinserting the
// tail into the free-list index. winner keeps its address; the tail
// inherits winner's MAPPED bit (always clear for primary-region blocks).
func (a *Allocator) carve(winner *block, size uintptr) {
	total := getSize(winner)
	leftover := total - size
	if leftover < blockOverhead+minAllocationSize {
		return
	}

	tail := (*block)(unsafe.Pointer(uintptr(unsafe.Pointer(winner)) + size))
	setSize(tail, leftover)
	setAllocated(tail, false)
	setFencepost(tail, false)
	setMapped(tail, isMapped(winner))
	tail.next, tail.prev = nil, nil
	writeFooter(tail)

	setSize(winner, size)

	a.addFree(tail)
}

func (a *Allocator) accountAlloc(totalBlockSize uintptr) {
	payload := totalBlockSize - blockOverhead
	a.currentPayload += payload
	if a.currentPayload > a.peakPayload {
		a.peakPayload = a.currentPayload
	}
}
