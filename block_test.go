// Copyright 2024 The Balloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import (
	"testing"
	"unsafe"
)

func TestRoundUp(t *testing.T) {
	cases := []struct{ n, m, want uintptr }{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{17, 8, 24},
	}
	for _, c := range cases {
		if got := roundUp(c.n, c.m); got != c.want {
			t.Errorf("roundUp(%d, %d) = %d, want %d", c.n, c.m, got, c.want)
		}
	}
}

func TestFreeListClass(t *testing.T) {
	cases := []struct {
		size uintptr
		want int
	}{
		{0, 3},             // clamped up to minAllocationSize (1 word, 8 bytes) -> class 3
		{1, 3},
		{2, 3},
		{3, 3},
		{4, 3},
		{1 << 10, 10},
		{(1 << 10) + 1, 10},
		{1 << 58, 58},
		{1 << 62, 58}, // clamped to the last class
	}
	for _, c := range cases {
		if got := freeListClass(c.size); got != c.want {
			t.Errorf("freeListClass(%d) = %d, want %d", c.size, got, c.want)
		}
	}
}

func TestFlagBits(t *testing.T) {
	var b block
	setSize(&b, 256)
	if getSize(&b) != 256 {
		t.Fatalf("getSize = %d, want 256", getSize(&b))
	}

	setAllocated(&b, true)
	if !isAllocated(&b) || isFencepost(&b) || isMapped(&b) {
		t.Fatalf("unexpected flags after setAllocated(true): %#x", b.header)
	}
	if getSize(&b) != 256 {
		t.Fatalf("size corrupted by flag set: got %d", getSize(&b))
	}

	setFencepost(&b, true)
	setMapped(&b, true)
	if !isAllocated(&b) || !isFencepost(&b) || !isMapped(&b) {
		t.Fatalf("expected all three flags set: %#x", b.header)
	}

	setAllocated(&b, false)
	if isAllocated(&b) {
		t.Fatal("setAllocated(false) did not clear the flag")
	}
	if !isFencepost(&b) || !isMapped(&b) {
		t.Fatal("clearing one flag disturbed another")
	}
}

func TestFooterRoundTrip(t *testing.T) {
	buf := make([]byte, 128)
	b := (*block)(unsafe.Pointer(&buf[0]))
	setSize(b, 128)
	setAllocated(b, false)
	writeFooter(b)

	if *footerAddr(b) != b.header {
		t.Fatalf("header(b) == *footer(b) invariant violated: %#x != %#x", b.header, *footerAddr(b))
	}
}

func TestNextPrevBlockFencepostBoundary(t *testing.T) {
	// Lay out: [low fencepost][free block][high fencepost] by hand and
	// walk it, mirroring what ensureHeap does for the primary region.
	buf := make([]byte, 4*blockMetaSize+footerSize)
	base := unsafe.Pointer(&buf[0])

	low := (*block)(base)
	low.header = 0
	setAllocated(low, true)
	setFencepost(low, true)

	mid := (*block)(unsafe.Pointer(uintptr(base) + blockMetaSize))
	setSize(mid, uintptr(len(buf))-2*blockMetaSize)
	setAllocated(mid, false)
	writeFooter(mid)

	high := (*block)(unsafe.Pointer(uintptr(base) + uintptr(len(buf)) - blockMetaSize))
	high.header = 0
	setAllocated(high, true)
	setFencepost(high, true)

	if got := nextBlock(low); got != nil {
		t.Fatalf("nextBlock on a fencepost must return nil, got %p", got)
	}
	if got := nextBlock(mid); got != nil {
		t.Fatalf("nextBlock(mid) should hit the high fencepost and return nil, got %p", got)
	}
	if got := prevBlock(mid); got != nil {
		t.Fatalf("prevBlock(mid) should hit the low fencepost and return nil, got %p", got)
	}
	if nextBlock(high) != nil {
		t.Fatal("nextBlock on a fencepost must return nil")
	}
}
