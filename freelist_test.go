// Copyright 2024 The Balloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import (
	"testing"
	"unsafe"
)

func TestAddRemoveFreeList(t *testing.T) {
	var a Allocator

	buf := make([]byte, 3*blockMetaSize)
	b1 := (*block)(unsafe.Pointer(&buf[0]))
	setSize(b1, blockMetaSize)
	b2 := (*block)(unsafe.Pointer(uintptr(unsafe.Pointer(&buf[0])) + blockMetaSize))
	setSize(b2, blockMetaSize)

	class := freeListClass(blockMetaSize)

	a.addFree(b1)
	if a.freeLists[class] != b1 {
		t.Fatalf("addFree(b1) did not become the list head")
	}

	a.addFree(b2)
	if a.freeLists[class] != b2 || b2.next != b1 || b1.prev != b2 {
		t.Fatalf("addFree(b2) did not push b2 to the head ahead of b1")
	}

	a.removeFree(b1)
	if b2.next != nil {
		t.Fatalf("removing the tail did not clear its former neighbor's next")
	}

	a.removeFree(b2)
	if a.freeLists[class] != nil {
		t.Fatalf("free list should be empty after removing both blocks")
	}
}

func TestFreeListClassIsMonotonic(t *testing.T) {
	prev := -1
	for size := minAllocationSize; size < 1<<20; size *= 2 {
		class := freeListClass(size)
		if class < prev {
			t.Fatalf("freeListClass(%d) = %d regressed below previous class %d", size, class, prev)
		}
		prev = class
	}
}
