// Copyright 2026 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU execution provider for
// GPU-resident tensors.
//
// WebGPU is a cross-platform graphics and compute API that works on:
//   - Windows (via D3D12)
//   - macOS (via Metal)
//   - Linux (via Vulkan)
//
// Example:
//
//	import (
//	    "github.com/loom-ml/loom/backend/webgpu"
//	    "github.com/loom-ml/loom/optim"
//	)
//
//	func main() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Release()
//
//	    ctx := gpu.Context()
//	    _ = optim.CopyIfNotSameBufferSeq(ctx, n, src, dst)
//	}
package webgpu

import (
	internalwebgpu "github.com/loom-ml/loom/internal/backend/webgpu"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// New creates a new WebGPU backend.
//
// This function initializes the WebGPU device and returns a backend
// ready for transfers. Call Release() when done to free GPU resources.
//
// Returns an error if WebGPU initialization fails (e.g., no compatible GPU).
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// It attempts to initialize a WebGPU adapter to verify that a compatible
// GPU and drivers are present, which allows graceful fallback to the CPU
// backend:
//
//	if webgpu.IsAvailable() {
//	    gpu, _ := webgpu.New()
//	    ctx = gpu.Context()
//	} else {
//	    ctx = cpu.New().Context()
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}

// ListAdapters returns information about available GPU adapters.
func ListAdapters() ([]*AdapterInfo, error) {
	return internalwebgpu.ListAdapters()
}

// AdapterInfo describes a GPU adapter.
type AdapterInfo = internalwebgpu.AdapterInfo
