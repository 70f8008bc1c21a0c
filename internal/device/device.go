// Package device defines the execution-provider surface of the Loom
// runtime: streams for ordering asynchronous device work, allocators for
// device storage, tensor sequences, and the kernel dispatch context.
//
// The package owns no memory and runs no work itself. Streams and
// allocators are implemented by the backends (backend/cpu, backend/webgpu);
// kernels borrow them for the duration of one dispatch.
package device

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// Tensor is the surface the transfer layer requires of any tensor
// implementation: storage identity plus shape and type metadata.
//
// Host *tensor.RawTensor and the WebGPU backend's GPUTensor both satisfy
// it. The transfer layer never reads element values through this
// interface.
type Tensor interface {
	// View returns the tensor's storage view. Base identity must be
	// stable for the tensor's lifetime.
	View() tensor.BufferView

	// Shape returns the tensor's dimensions.
	Shape() tensor.Shape

	// DType returns the tensor's element type.
	DType() tensor.DataType

	// ByteSize returns the total storage size in bytes.
	ByteSize() int
}

// Stream orders asynchronous device operations. Transfers enqueued on the
// same Stream execute in FIFO submission order; transfers on different
// streams are unordered relative to each other.
//
// Streams are owned by the backend that created them. Kernels only
// enqueue work; they never create, destroy, or synchronize a stream on
// their own.
type Stream interface {
	// MemcpyAsync enqueues a device-to-device copy of src.Bytes bytes from
	// src into dst. It returns once the transfer is enqueued, not when it
	// completes. A non-nil error means the enqueue itself was rejected;
	// nothing was queued.
	MemcpyAsync(dst, src tensor.BufferView) error

	// Sync blocks until every transfer enqueued so far has completed.
	Sync() error
}

// Allocator provides backing storage for kernel outputs and temporaries.
type Allocator interface {
	// Alloc returns a fresh tensor with the given shape and element type
	// on the allocator's device. Callers are expected to overwrite the
	// full region; the contents are unspecified (pooled allocators may
	// return recycled storage).
	Alloc(shape tensor.Shape, dtype tensor.DataType) (Tensor, error)
}

// Context carries the per-dispatch execution state handed to a kernel:
// the stream to enqueue work on and the allocator for output storage.
type Context struct {
	stream Stream
	alloc  Allocator
}

// NewContext builds a kernel context from a stream and an allocator.
func NewContext(stream Stream, alloc Allocator) *Context {
	return &Context{stream: stream, alloc: alloc}
}

// Stream returns the execution stream for this dispatch.
func (c *Context) Stream() Stream {
	return c.stream
}

// Allocator returns the allocation facility for this dispatch.
func (c *Context) Allocator() Allocator {
	return c.alloc
}
