// Package cpu implements the host execution provider: a stream whose
// transfers complete at enqueue time and an allocator backed by host
// memory. It is the reference provider used by kernel tests.
package cpu

import (
	"github.com/loom-ml/loom/internal/device"
	"github.com/loom-ml/loom/internal/tensor"
)

// Backend bundles the host stream and allocator.
type Backend struct {
	stream *Stream
	alloc  *Allocator
}

// New creates a new host backend.
func New() *Backend {
	return &Backend{
		stream: NewStream(),
		alloc:  NewAllocator(),
	}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "cpu"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return tensor.CPU
}

// Stream returns the backend's execution stream.
func (b *Backend) Stream() *Stream {
	return b.stream
}

// Allocator returns the backend's allocator.
func (b *Backend) Allocator() *Allocator {
	return b.alloc
}

// Context builds a kernel dispatch context on this backend.
func (b *Backend) Context() *device.Context {
	return device.NewContext(b.stream, b.alloc)
}
