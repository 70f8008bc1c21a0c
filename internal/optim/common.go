package optim

import (
	"fmt"

	"github.com/loom-ml/loom/internal/device"
)

// CopyIfNotSameBuffer enqueues an asynchronous copy of src's bytes into
// dst on stream, unless both tensors already view the same device memory.
//
// The aliased case is the in-place kernel fast path: it returns success
// immediately with no stream work. Otherwise exactly one transfer of
// src's declared byte length is enqueued; the call returns once the
// transfer is enqueued, not when it completes. Source and destination
// must describe identical element types and byte lengths; that is the
// caller's obligation and is not re-verified here.
//
// A platform enqueue failure is returned as a *device.TransferError
// wrapping the original cause. No retry, no partial-copy recovery.
func CopyIfNotSameBuffer(stream device.Stream, src, dst device.Tensor) error {
	s, d := src.View(), dst.View()
	if s.Aliases(d) {
		return nil
	}
	if err := stream.MemcpyAsync(d, s); err != nil {
		return &device.TransferError{Index: -1, Cause: err}
	}
	return nil
}

// ReconcileSeq is the shape phase of a sequence copy: it brings dst to
// exactly n elements whose element type and shape match the corresponding
// src element. Matching destination elements are kept (preserving any
// aliasing with src); every other slot gets fresh storage from alloc.
//
// It enqueues no stream work, so it can be exercised without a device.
func ReconcileSeq(alloc device.Allocator, n int, src, dst *device.Seq) error {
	if src.Len() != n {
		return fmt.Errorf("optim: source sequence has %d elements, expected %d", src.Len(), n)
	}

	elems := make([]device.Tensor, n)
	fresh := false
	for i := 0; i < n; i++ {
		se := src.Get(i)
		if i < dst.Len() {
			if de := dst.Get(i); de != nil &&
				de.DType() == se.DType() && de.Shape().Equal(se.Shape()) {
				elems[i] = de
				continue
			}
		}
		t, err := alloc.Alloc(se.Shape(), se.DType())
		if err != nil {
			return &device.AllocError{Shape: se.Shape(), DType: se.DType(), Cause: err}
		}
		elems[i] = t
		fresh = true
	}

	if !fresh && dst.Len() == n {
		return nil
	}

	dst.Clear()
	dst.Reserve(n)
	for _, e := range elems {
		dst.Add(e)
	}
	return nil
}

// CopyIfNotSameBufferSeq reconciles dst to the shape of src and then
// applies CopyIfNotSameBuffer element-wise, in index order, on ctx's
// stream. Using one stream keeps the element copies FIFO-ordered relative
// to each other and to the caller's surrounding work on that stream.
//
// n is the element count the kernel logically produces; src must already
// hold exactly n elements. On the first element failure the error is
// returned immediately, tagged with the element index; earlier elements
// keep their already-enqueued copies (the transfers are independent and
// write disjoint destination regions, so no cleanup is required).
func CopyIfNotSameBufferSeq(ctx *device.Context, n int, src, dst *device.Seq) error {
	if err := ReconcileSeq(ctx.Allocator(), n, src, dst); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		s, d := src.Get(i).View(), dst.Get(i).View()
		if s.Aliases(d) {
			continue
		}
		if err := ctx.Stream().MemcpyAsync(d, s); err != nil {
			return &device.TransferError{Index: i, Cause: err}
		}
	}
	return nil
}
