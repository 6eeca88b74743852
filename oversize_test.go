// Copyright 2024 The Balloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMappedRegistryTracksMultipleLiveBlocks(t *testing.T) {
	var a Allocator

	p1, err := a.Malloc(80 << 20)
	require.NoError(t, err)
	p2, err := a.Malloc(90 << 20)
	require.NoError(t, err)
	p3, err := a.Malloc(70 << 20)
	require.NoError(t, err)

	require.True(t, a.isRegisteredMapped(blockFromPointer(p1)))
	require.True(t, a.isRegisteredMapped(blockFromPointer(p2)))
	require.True(t, a.isRegisteredMapped(blockFromPointer(p3)))

	a.Free(p2)
	require.True(t, a.isRegisteredMapped(blockFromPointer(p1)))
	require.False(t, a.isRegisteredMapped(blockFromPointer(p2)))
	require.True(t, a.isRegisteredMapped(blockFromPointer(p3)))

	a.Free(p1)
	a.Free(p3)
	require.Nil(t, a.mmapped)
}

func TestOversizeBlockIsNeverInFreeListIndex(t *testing.T) {
	var a Allocator

	p, err := a.Malloc(120 << 20)
	require.NoError(t, err)
	b := blockFromPointer(p)

	for class := 0; class < numFreeListClasses; class++ {
		for cur := a.freeLists[class]; cur != nil; cur = cur.next {
			require.NotEqual(t, b, cur, "a mapped block must never be linked into the free-list index")
		}
	}
}

func TestIsValidPointerRejectsForeignMappedBlock(t *testing.T) {
	var a Allocator

	p, err := a.Malloc(110 << 20)
	require.NoError(t, err)
	b := blockFromPointer(p)
	require.True(t, a.isRegisteredMapped(b))

	var other Allocator
	// A block from a different Allocator's registry must not validate
	// against this one.
	require.False(t, other.isRegisteredMapped(b))
}
