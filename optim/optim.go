// Copyright 2026 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/loom-ml/loom/internal/device"
	"github.com/loom-ml/loom/internal/optim"
)

// Copy guards

// CopyIfNotSameBuffer enqueues a copy from src to dst unless the two
// tensors already share storage, in which case it does nothing.
func CopyIfNotSameBuffer(stream device.Stream, src, dst device.Tensor) error {
	return optim.CopyIfNotSameBuffer(stream, src, dst)
}

// CopyIfNotSameBufferSeq reconciles dst to mirror src element-for-element
// and enqueues copies for every non-aliased pair. n is the expected
// element count of src.
func CopyIfNotSameBufferSeq(ctx *device.Context, n int, src, dst *device.Seq) error {
	return optim.CopyIfNotSameBufferSeq(ctx, n, src, dst)
}

// ReconcileSeq resizes and re-populates dst so that every position holds
// a tensor matching src's shape and dtype, preserving already-matching
// destination elements. It performs no data transfers.
func ReconcileSeq(alloc device.Allocator, n int, src, dst *device.Seq) error {
	return optim.ReconcileSeq(alloc, n, src, dst)
}

// SGD (Stochastic Gradient Descent)

// SGDConfig contains configuration for the SGD kernel.
type SGDConfig = optim.SGDConfig

// SGDStep applies one SGD update with optional momentum and publishes
// the results through the sequence copy guard.
func SGDStep(ctx *device.Context, cfg SGDConfig, weights, grads, momentums, updatedWeights, updatedMomentums *device.Seq) error {
	return optim.SGDStep(ctx, cfg, weights, grads, momentums, updatedWeights, updatedMomentums)
}

// Adam (Adaptive Moment Estimation)

// AdamConfig contains configuration for the Adam kernel.
type AdamConfig = optim.AdamConfig

// AdamStep applies one Adam update with bias correction. step is the
// 1-based timestep.
func AdamStep(ctx *device.Context, cfg AdamConfig, step int, weights, grads, moment1, moment2, updatedWeights, updatedMoment1, updatedMoment2 *device.Seq) error {
	return optim.AdamStep(ctx, cfg, step, weights, grads, moment1, moment2, updatedWeights, updatedMoment1, updatedMoment2)
}

// Gradient clipping

// ClipGradNorm scales grads so their total L2 norm does not exceed
// maxNorm and publishes the result into clipped. Passing the same
// sequence for both arguments clips in place without copies.
func ClipGradNorm(ctx *device.Context, maxNorm float32, grads, clipped *device.Seq) error {
	return optim.ClipGradNorm(ctx, maxNorm, grads, clipped)
}

// L2Norm returns the total L2 norm across all tensors in the sequence.
func L2Norm(seq *device.Seq) (float32, error) {
	return optim.L2Norm(seq)
}
