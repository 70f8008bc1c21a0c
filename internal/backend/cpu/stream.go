package cpu

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/loom-ml/loom/internal/device"
	"github.com/loom-ml/loom/internal/tensor"
)

// Verify that Stream implements device.Stream.
var _ device.Stream = (*Stream)(nil)

// Transfer records one enqueued copy, kept for stream inspection.
type Transfer struct {
	Dst   tensor.BufferView
	Src   tensor.BufferView
	Bytes int
}

// Stream is the host execution stream. Host-to-host transfers complete
// at enqueue time, which trivially satisfies FIFO ordering; every
// transfer is recorded in submission order so tests and diagnostics can
// inspect what a kernel enqueued.
type Stream struct {
	mu        sync.Mutex
	transfers []Transfer
}

// NewStream creates a new host stream.
func NewStream() *Stream {
	return &Stream{}
}

// MemcpyAsync copies src.Bytes bytes from src into dst and records the
// transfer. The destination must be at least as large as the source;
// a short destination is rejected at enqueue time, before any bytes move.
func (s *Stream) MemcpyAsync(dst, src tensor.BufferView) error {
	if dst.Bytes < src.Bytes {
		return fmt.Errorf("cpu: destination buffer too small: %d < %d bytes", dst.Bytes, src.Bytes)
	}

	if src.Bytes > 0 {
		//nolint:gosec // unsafe.Slice reconstructs the caller-owned regions described by the views
		d := unsafe.Slice((*byte)(dst.Base), src.Bytes)
		//nolint:gosec // see above
		sb := unsafe.Slice((*byte)(src.Base), src.Bytes)
		copy(d, sb)
	}

	s.mu.Lock()
	s.transfers = append(s.transfers, Transfer{Dst: dst, Src: src, Bytes: src.Bytes})
	s.mu.Unlock()
	return nil
}

// Sync is a no-op: host transfers complete at enqueue time.
func (s *Stream) Sync() error {
	return nil
}

// Transfers returns a snapshot of every transfer enqueued so far, in
// submission order.
func (s *Stream) Transfers() []Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Transfer, len(s.transfers))
	copy(out, s.transfers)
	return out
}

// TransferCount returns the number of transfers enqueued so far.
func (s *Stream) TransferCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transfers)
}
