// Copyright 2024 The Balloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package alloc implements a general-purpose dynamic memory allocator
// backed by anonymous pages obtained from the operating system.
//
// The heap is a flat byte region reinterpreted at many offsets: every
// block of it carries a boundary tag (a header word at its low end and a
// matching footer word at its high end) so that a neighbor in either
// direction can be located and inspected in O(1), which is what makes
// immediate bidirectional coalescing on free cheap. Free blocks are kept
// in a segregated index of 59 doubly linked lists, bucketed by the
// power-of-two class of their size; Malloc does a best-fit scan starting
// at the requested size's class and walking upward. Requests too large
// to ever fit an empty primary region are served by mapping them
// directly from the OS instead of carving the shared heap.
//
// An Allocator is single-threaded and holds all of its bookkeeping
// state in one value; nothing here is safe for concurrent use without
// an external lock, and the zero value is ready to use: the primary
// 64 MiB region is mapped lazily on the first call to Malloc.
package alloc
