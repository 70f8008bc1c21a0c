package cpu

import (
	"sync/atomic"

	"github.com/loom-ml/loom/internal/device"
	"github.com/loom-ml/loom/internal/tensor"
)

// Verify that Allocator implements device.Allocator.
var _ device.Allocator = (*Allocator)(nil)

// Allocator hands out host-resident tensors.
type Allocator struct {
	allocated atomic.Int64 // total bytes handed out
	count     atomic.Int64
}

// NewAllocator creates a new host allocator.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Alloc returns a fresh zero-initialized host tensor.
func (a *Allocator) Alloc(shape tensor.Shape, dtype tensor.DataType) (device.Tensor, error) {
	raw, err := tensor.NewRaw(shape, dtype, tensor.CPU)
	if err != nil {
		return nil, err
	}
	a.allocated.Add(int64(raw.ByteSize()))
	a.count.Add(1)
	return raw, nil
}

// Stats returns the total bytes and tensor count allocated so far.
func (a *Allocator) Stats() (bytes, count int64) {
	return a.allocated.Load(), a.count.Load()
}
