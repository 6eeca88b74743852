// Copyright 2024 The Balloc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alloc

import (
	"fmt"
	"os"
)

// trace gates the allocator's debug logging. It is unexported and off by
// default; flip it in a debugger session or a _test.go file's init to
// see every Malloc and Free call, rejected free, and mmap/munmap
// failure as it happens.
var trace = false

func logTrace(format string, args ...interface{}) {
	if !trace {
		return
	}
	fmt.Fprintf(os.Stderr, "alloc: "+format+"\n", args...)
}
