package optim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/device"
	"github.com/loom-ml/loom/internal/tensor"
)

var errEnqueue = errors.New("enqueue rejected")

// failingStream rejects the enqueue with ordinal failAt (0-based) and
// delegates everything else to a host stream.
type failingStream struct {
	inner  *cpu.Stream
	failAt int
	calls  int
}

func (s *failingStream) MemcpyAsync(dst, src tensor.BufferView) error {
	call := s.calls
	s.calls++
	if call == s.failAt {
		return errEnqueue
	}
	return s.inner.MemcpyAsync(dst, src)
}

func (s *failingStream) Sync() error {
	return s.inner.Sync()
}

// failingAllocator rejects every allocation.
type failingAllocator struct{}

func (failingAllocator) Alloc(tensor.Shape, tensor.DataType) (device.Tensor, error) {
	return nil, errors.New("out of memory")
}

func hostTensor(t *testing.T, vals ...float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromSlice(vals, tensor.Shape{len(vals)})
	require.NoError(t, err)
	return raw
}

func hostSeq(t *testing.T, sizes ...int) *device.Seq {
	t.Helper()
	s := device.NewSeq()
	for i, n := range sizes {
		vals := make([]float32, n)
		for j := range vals {
			vals[j] = float32(i*100 + j)
		}
		s.Add(hostTensor(t, vals...))
	}
	return s
}

func TestCopyAliasedIsNoOp(t *testing.T) {
	stream := cpu.NewStream()
	src := hostTensor(t, 1, 2, 3)

	// Source and destination view the same memory: the in-place case.
	require.NoError(t, CopyIfNotSameBuffer(stream, src, src))
	assert.Equal(t, 0, stream.TransferCount())

	// Idempotent: a second call still enqueues nothing.
	require.NoError(t, CopyIfNotSameBuffer(stream, src, src))
	assert.Equal(t, 0, stream.TransferCount())
}

func TestCopyDistinctBuffers(t *testing.T) {
	stream := cpu.NewStream()
	src := hostTensor(t, 1, 2, 3, 4)
	dst := hostTensor(t, 0, 0, 0, 0)

	require.NoError(t, CopyIfNotSameBuffer(stream, src, dst))
	require.NoError(t, stream.Sync())

	require.Equal(t, 1, stream.TransferCount())
	transfers := stream.Transfers()
	assert.Equal(t, src.ByteSize(), transfers[0].Bytes)
	assert.Equal(t, []float32{1, 2, 3, 4}, dst.AsFloat32())

	// Each repeated call on a distinct pair enqueues one more transfer.
	require.NoError(t, CopyIfNotSameBuffer(stream, src, dst))
	assert.Equal(t, 2, stream.TransferCount())
}

func TestCopyPropagatesEnqueueFailure(t *testing.T) {
	stream := &failingStream{inner: cpu.NewStream(), failAt: 0}
	src := hostTensor(t, 1)
	dst := hostTensor(t, 0)

	err := CopyIfNotSameBuffer(stream, src, dst)
	require.Error(t, err)

	var te *device.TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, -1, te.Index)
	assert.ErrorIs(t, err, errEnqueue)
}

func TestReconcileSeqResizes(t *testing.T) {
	alloc := cpu.NewAllocator()
	src := hostSeq(t, 2, 3, 4)

	tests := []struct {
		name string
		dst  *device.Seq
	}{
		{"empty destination", device.NewSeq()},
		{"too short", hostSeq(t, 2)},
		{"too long", hostSeq(t, 2, 3, 4, 5)},
		{"shape mismatch", hostSeq(t, 9, 9, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, ReconcileSeq(alloc, 3, src, tt.dst))
			require.Equal(t, 3, tt.dst.Len())
			for i := 0; i < 3; i++ {
				se, de := src.Get(i), tt.dst.Get(i)
				assert.True(t, de.Shape().Equal(se.Shape()), "element %d shape", i)
				assert.Equal(t, se.DType(), de.DType(), "element %d dtype", i)
			}
		})
	}
}

func TestReconcileSeqKeepsMatchingElements(t *testing.T) {
	alloc := cpu.NewAllocator()
	src := hostSeq(t, 2, 3)

	// Destination element 0 matches and must survive; element 1 does not.
	keep := hostTensor(t, 7, 7)
	dst := device.NewSeq(keep, hostTensor(t, 9))

	require.NoError(t, ReconcileSeq(alloc, 2, src, dst))
	require.Equal(t, 2, dst.Len())
	assert.Same(t, keep, dst.Get(0))
	assert.True(t, dst.Get(1).Shape().Equal(tensor.Shape{3}))
}

func TestReconcileSeqAliasedDestinationUntouched(t *testing.T) {
	alloc := cpu.NewAllocator()
	a, b := hostTensor(t, 1, 2), hostTensor(t, 3)
	src := device.NewSeq(a, b)
	dst := device.NewSeq(a, b)

	require.NoError(t, ReconcileSeq(alloc, 2, src, dst))
	assert.Same(t, a, dst.Get(0))
	assert.Same(t, b, dst.Get(1))
}

func TestReconcileSeqSourceLengthMismatch(t *testing.T) {
	alloc := cpu.NewAllocator()
	src := hostSeq(t, 2)

	require.Error(t, ReconcileSeq(alloc, 3, src, device.NewSeq()))
}

func TestReconcileSeqAllocationFailure(t *testing.T) {
	src := hostSeq(t, 2)
	dst := device.NewSeq()

	err := ReconcileSeq(failingAllocator{}, 1, src, dst)
	require.Error(t, err)

	var ae *device.AllocError
	require.ErrorAs(t, err, &ae)
	assert.True(t, ae.Shape.Equal(tensor.Shape{2}))
	assert.Equal(t, tensor.Float32, ae.DType)
}

func TestCopySeqDistinct(t *testing.T) {
	backend := cpu.New()
	ctx := backend.Context()

	src := hostSeq(t, 2, 3)
	dst := device.NewSeq()

	require.NoError(t, CopyIfNotSameBufferSeq(ctx, 2, src, dst))
	require.NoError(t, ctx.Stream().Sync())

	assert.Equal(t, 2, backend.Stream().TransferCount())
	for i := 0; i < 2; i++ {
		want := src.Get(i).(*tensor.RawTensor).AsFloat32()
		got := dst.Get(i).(*tensor.RawTensor).AsFloat32()
		assert.Equal(t, want, got, "element %d", i)
	}
}

func TestCopySeqAliasedElements(t *testing.T) {
	backend := cpu.New()
	ctx := backend.Context()

	a, b := hostTensor(t, 1, 2), hostTensor(t, 3, 4, 5)
	src := device.NewSeq(a, b)
	dst := device.NewSeq(a, b)

	require.NoError(t, CopyIfNotSameBufferSeq(ctx, 2, src, dst))
	assert.Equal(t, 0, backend.Stream().TransferCount())
}

func TestCopySeqMixedAliasing(t *testing.T) {
	backend := cpu.New()
	ctx := backend.Context()

	// Element 0 aliased (in-place), element 1 distinct.
	a := hostTensor(t, 1, 2)
	srcB := hostTensor(t, 3, 4)
	dstB := hostTensor(t, 0, 0)
	src := device.NewSeq(a, srcB)
	dst := device.NewSeq(a, dstB)

	require.NoError(t, CopyIfNotSameBufferSeq(ctx, 2, src, dst))
	require.NoError(t, ctx.Stream().Sync())

	assert.Equal(t, 1, backend.Stream().TransferCount())
	assert.Equal(t, []float32{3, 4}, dstB.AsFloat32())
}

func TestCopySeqZeroLength(t *testing.T) {
	backend := cpu.New()
	ctx := backend.Context()

	src := device.NewSeq()
	dst := hostSeq(t, 2, 3)

	require.NoError(t, CopyIfNotSameBufferSeq(ctx, 0, src, dst))
	assert.Equal(t, 0, dst.Len())
	assert.Equal(t, 0, backend.Stream().TransferCount())
}

func TestCopySeqFailFast(t *testing.T) {
	host := cpu.NewStream()
	stream := &failingStream{inner: host, failAt: 1}
	ctx := device.NewContext(stream, cpu.NewAllocator())

	src := hostSeq(t, 2, 2, 2)
	dst := hostSeq(t, 9, 9, 9) // shape mismatch forces fresh storage, all distinct

	err := CopyIfNotSameBufferSeq(ctx, 3, src, dst)
	require.Error(t, err)

	var te *device.TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, te.Index)
	assert.ErrorIs(t, err, errEnqueue)

	// Element 0 was already enqueued before the failure; nothing after it was.
	assert.Equal(t, 1, host.TransferCount())
	assert.Equal(t, 2, stream.calls) // one success, one rejected attempt, none for element 2

	// Destination stays shape-valid after the partial failure.
	require.Equal(t, 3, dst.Len())
	for i := 0; i < 3; i++ {
		assert.True(t, dst.Get(i).Shape().Equal(src.Get(i).Shape()), "element %d", i)
	}
}
