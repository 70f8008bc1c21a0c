package webgpu

import (
	"fmt"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/loom-ml/loom/internal/device"
	"github.com/loom-ml/loom/internal/tensor"
)

// Verify that GPUTensor implements device.Tensor.
var _ device.Tensor = (*GPUTensor)(nil)

// GPUTensor holds tensor data in GPU memory without transferring to CPU.
// Its storage identity for transfer purposes is the *wgpu.Buffer pointer,
// so two GPUTensors alias iff they wrap the same buffer.
type GPUTensor struct {
	buffer     *wgpu.Buffer
	shape      tensor.Shape
	dtype      tensor.DataType
	bufferSize uint64 // allocated size, aligned to 4 bytes for WebGPU
	backend    *Backend
}

// Shape returns the tensor's shape.
func (t *GPUTensor) Shape() tensor.Shape {
	return t.shape
}

// DType returns the tensor's data type.
func (t *GPUTensor) DType() tensor.DataType {
	return t.dtype
}

// NumElements returns the total number of elements in the tensor.
func (t *GPUTensor) NumElements() int {
	return t.shape.NumElements()
}

// ByteSize returns the logical data size in bytes (without alignment
// padding).
func (t *GPUTensor) ByteSize() int {
	return t.NumElements() * t.dtype.Size()
}

// View returns the storage view used by the transfer layer. Base carries
// the *wgpu.Buffer pointer; only streams of this backend interpret it.
func (t *GPUTensor) View() tensor.BufferView {
	return tensor.BufferView{
		Base:  unsafe.Pointer(t.buffer),
		DType: t.dtype,
		Bytes: t.ByteSize(),
	}
}

// Buffer returns the underlying GPU buffer.
// This is exposed for internal backend operations.
func (t *GPUTensor) Buffer() *wgpu.Buffer {
	return t.buffer
}

// Release returns the GPU buffer to the backend's pool.
// The tensor must not be used afterwards.
func (t *GPUTensor) Release() {
	if t.buffer != nil {
		t.backend.bufferPool.Put(t.buffer, t.bufferSize)
		t.buffer = nil
	}
}

// UploadTensor copies a host tensor into a fresh GPU tensor.
func (b *Backend) UploadTensor(raw *tensor.RawTensor) *GPUTensor {
	//nolint:gosec // G115: byte sizes are non-negative
	byteSize := uint64(raw.ByteSize())
	if byteSize < 4 {
		byteSize = 4
	}
	alignedSize := (byteSize + 3) &^ 3

	alignedData := make([]byte, alignedSize)
	copy(alignedData, raw.Data())

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})
	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), alignedSize)
	copy(mappedSlice, alignedData)
	buffer.Unmap()

	return &GPUTensor{
		buffer:     buffer,
		shape:      raw.Shape().Clone(),
		dtype:      raw.DType(),
		bufferSize: alignedSize,
		backend:    b,
	}
}

// ToCPU transfers tensor data from GPU to CPU memory through a staging
// buffer. This drains the stream first so pending copies land before the
// readback.
func (t *GPUTensor) ToCPU() (*tensor.RawTensor, error) {
	if err := t.backend.stream.Sync(); err != nil {
		return nil, err
	}

	data, err := t.backend.readBuffer(t.buffer, t.bufferSize)
	if err != nil {
		return nil, fmt.Errorf("webgpu: readback failed: %w", err)
	}

	raw, err := tensor.NewRaw(t.shape, t.dtype, tensor.CPU)
	if err != nil {
		return nil, err
	}
	copy(raw.Data(), data[:t.ByteSize()])
	return raw, nil
}

// readBuffer reads data back from a GPU buffer to CPU memory.
// Uses a staging buffer since storage buffers can't be mapped directly.
func (b *Backend) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	stagingBuffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer stagingBuffer.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, stagingBuffer, 0, size)
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	err := stagingBuffer.MapAsync(b.device, wgpu.MapModeRead, 0, size)
	if err != nil {
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}

	mappedPtr := stagingBuffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)

	stagingBuffer.Unmap()
	return result, nil
}
