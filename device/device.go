// Copyright 2026 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package device provides the public API for execution-provider
// abstractions in the Loom runtime.
//
// The package defines the contracts every backend implements:
//   - Tensor: device-resident tensor storage
//   - Stream: ordered asynchronous transfer queue
//   - Allocator: device memory allocation
//   - Context: stream plus allocator, passed to kernels
//   - Seq: ordered tensor sequence (optimizer parameter groups)
//
// Example:
//
//	backend := cpu.New()
//	ctx := backend.Context()
//	err := optim.SGDStep(ctx, cfg, weights, grads, moms, weights, moms)
package device

import (
	"github.com/loom-ml/loom/internal/device"
)

// Tensor is device-resident tensor storage.
type Tensor = device.Tensor

// Stream is an ordered asynchronous transfer queue.
type Stream = device.Stream

// Allocator allocates device tensors.
type Allocator = device.Allocator

// Context carries the stream and allocator a kernel dispatches against.
type Context = device.Context

// NewContext builds a context from a stream and an allocator.
func NewContext(stream Stream, alloc Allocator) *Context {
	return device.NewContext(stream, alloc)
}

// Seq is an ordered sequence of tensors.
type Seq = device.Seq

// NewSeq builds a sequence from the given elements.
func NewSeq(elems ...Tensor) *Seq {
	return device.NewSeq(elems...)
}

// TransferError reports a failed transfer enqueue. Index is the position
// of the failing element within a sequence, or -1 for a scalar transfer.
type TransferError = device.TransferError

// AllocError reports a failed device allocation.
type AllocError = device.AllocError
