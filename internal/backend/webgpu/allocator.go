package webgpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/device"
	"github.com/loom-ml/loom/internal/tensor"
)

// Verify that Allocator implements device.Allocator.
var _ device.Allocator = (*Allocator)(nil)

// Allocator hands out GPU-resident tensors backed by the backend's
// buffer pool. Recycled buffers keep stale contents; callers overwrite
// the full region.
type Allocator struct {
	backend *Backend
}

func newAllocator(b *Backend) *Allocator {
	return &Allocator{backend: b}
}

// Alloc returns a GPU tensor with the given shape and element type.
func (a *Allocator) Alloc(shape tensor.Shape, dtype tensor.DataType) (device.Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("webgpu: invalid shape: %w", err)
	}
	if a.backend.device == nil {
		return nil, fmt.Errorf("webgpu: backend released")
	}

	//nolint:gosec // G115: byte sizes are non-negative
	byteSize := uint64(shape.NumElements() * dtype.Size())
	if byteSize < 4 {
		byteSize = 4
	}
	alignedSize := (byteSize + 3) &^ 3

	buffer := a.backend.bufferPool.Get(alignedSize)
	if buffer == nil {
		return nil, fmt.Errorf("webgpu: buffer allocation of %d bytes failed", alignedSize)
	}

	return &GPUTensor{
		buffer:     buffer,
		shape:      shape.Clone(),
		dtype:      dtype,
		bufferSize: alignedSize,
		backend:    a.backend,
	}, nil
}
