// Copyright 2024 The Balloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command fragbench drives the allocator through a long run of random
// allocate/free toggles and reports how much of the heap it ever
// obtained from the OS actually carried live payload at peak.
//
// It is a direct restatement of the fragmentation-measurement driver
// this allocator's design was distilled from: a fixed-width slot array
// is visited -reps times at random; an empty slot gets a random-sized allocation,
// an occupied one is freed. Usage mirrors the original C harness: an
// optional unsigned PRNG seed as the first positional argument
// (time-seeded when absent), with -reps/-slots/-max-size available to
// override the original's hardcoded constants.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"
	"unsafe"

	"github.com/cznic/mathutil"
	alloc "github.com/kalbhor/balloc"
)

const (
	defaultReps    = 100000
	defaultSlots   = 10000
	defaultMaxSize = 4096
)

func main() {
	reps := flag.Int("reps", defaultReps, "number of allocate/free toggle steps")
	slots := flag.Int("slots", defaultSlots, "width of the pointer slot array")
	maxSize := flag.Int("max-size", defaultMaxSize, "largest single allocation size, in bytes")
	flag.Parse()

	seed := uint32(time.Now().UnixNano())
	if args := flag.Args(); len(args) > 0 {
		v, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fragbench: invalid seed %q: %v\n", args[0], err)
			os.Exit(1)
		}
		seed = uint32(v)
	}
	fmt.Fprintf(os.Stderr, "Running fragmentation test with random seed: %d\n", seed)

	maxPi, hk, err := run(seed, *reps, *slots, *maxSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fragbench: %v\n", err)
		os.Exit(1)
	}

	uk := float64(maxPi) / float64(hk)
	fmt.Printf("Maximum aggregate payload (max Pi): %d bytes\n", maxPi)
	fmt.Printf("Current heap size (Hk): %d bytes\n", hk)
	fmt.Printf("Peak memory utilization (Uk): %.4f%%\n", uk*100)
}

// run performs the toggle loop against a fresh Allocator and returns
// (max Pi, Hk, error). It is separated from main for testability.
func run(seed uint32, reps, slots, maxSize int) (uintptr, uintptr, error) {
	rng, err := mathutil.NewFC32(0, math.MaxInt32, true)
	if err != nil {
		return 0, 0, err
	}
	rng.Seed(int64(seed))

	var a alloc.Allocator
	ptrs := make([]unsafe.Pointer, slots)
	sizes := make([]uintptr, slots)

	var currentPayload uintptr
	var maxPayload uintptr

	for i := 0; i < reps; i++ {
		idx := rng.Next() % slots
		if ptrs[idx] == nil {
			size := uintptr(rng.Next()%maxSize + 1)
			p, err := a.Malloc(size)
			if err != nil {
				return 0, 0, fmt.Errorf("malloc: %w", err)
			}
			if p == nil {
				continue
			}
			ptrs[idx] = p
			sizes[idx] = size
			currentPayload += size
			if currentPayload > maxPayload {
				maxPayload = currentPayload
			}
		} else {
			a.Free(ptrs[idx])
			currentPayload -= sizes[idx]
			sizes[idx] = 0
			ptrs[idx] = nil
		}
	}

	return maxPayload, a.GetHeapSize(), nil
}
