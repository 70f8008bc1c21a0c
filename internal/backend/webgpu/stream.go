package webgpu

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/loom-ml/loom/internal/device"
	"github.com/loom-ml/loom/internal/tensor"
)

// Verify that Stream implements device.Stream.
var _ device.Stream = (*Stream)(nil)

// Stream is the WebGPU execution stream. Each transfer is encoded as one
// buffer-to-buffer copy command; commands accumulate and are submitted to
// the device queue in enqueue order, either on Sync or when the pending
// batch reaches maxPendingCommands.
type Stream struct {
	backend *Backend

	mu       sync.Mutex
	pending  []*wgpu.CommandBuffer
	enqueued uint64
}

// maxPendingCommands bounds the pending batch before an automatic flush.
const maxPendingCommands = 64

func newStream(b *Backend) *Stream {
	return &Stream{backend: b}
}

// MemcpyAsync encodes a device-to-device copy of src.Bytes bytes. The
// views' Base pointers must identify wgpu buffers created by this
// backend; host views are rejected at enqueue time.
func (s *Stream) MemcpyAsync(dst, src tensor.BufferView) error {
	srcBuf := (*wgpu.Buffer)(src.Base)
	dstBuf := (*wgpu.Buffer)(dst.Base)
	if srcBuf == nil || dstBuf == nil {
		return fmt.Errorf("webgpu: memcpy on nil buffer")
	}
	if s.backend.device == nil {
		return fmt.Errorf("webgpu: backend released")
	}

	encoder := s.backend.device.CreateCommandEncoder(nil)
	//nolint:gosec // G115: transfer sizes are non-negative
	encoder.CopyBufferToBuffer(srcBuf, 0, dstBuf, 0, uint64(src.Bytes))
	cmd := encoder.Finish(nil)

	s.mu.Lock()
	s.pending = append(s.pending, cmd)
	s.enqueued++
	flush := len(s.pending) >= maxPendingCommands
	if flush {
		s.flushLocked()
	}
	s.mu.Unlock()
	return nil
}

// Sync submits all pending copy commands to the queue. Submission order
// equals enqueue order, so completion on the queue preserves FIFO
// semantics relative to earlier submissions.
func (s *Stream) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
	return nil
}

// flushLocked submits pending commands (must hold mu).
func (s *Stream) flushLocked() {
	if len(s.pending) == 0 {
		return
	}
	s.backend.queue.Submit(s.pending...)
	s.pending = s.pending[:0]
}

// EnqueuedCount returns the number of transfers enqueued so far.
func (s *Stream) EnqueuedCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enqueued
}
