// Copyright 2026 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the host execution provider.
package cpu

import (
	internalcpu "github.com/loom-ml/loom/internal/backend/cpu"
)

// Backend represents the CPU backend implementation.
//
// The CPU backend executes transfers synchronously while preserving the
// asynchronous stream contract, which makes it suitable both for
// production host execution and as a deterministic test double.
type Backend = internalcpu.Backend

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/loom-ml/loom/backend/cpu"
//	    "github.com/loom-ml/loom/optim"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    ctx := backend.Context()
//	    _ = optim.ClipGradNorm(ctx, 1.0, grads, grads)
//	}
func New() *Backend {
	return internalcpu.New()
}
