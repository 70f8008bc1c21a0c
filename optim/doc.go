// Copyright 2026 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimizer kernels and the conditional-copy
// guards that route their outputs.
//
// # Overview
//
// This package contains:
//   - CopyIfNotSameBuffer: copy a tensor unless source and destination
//     already share storage
//   - CopyIfNotSameBufferSeq: the sequence form, with destination
//     reconciliation
//   - SGDStep, AdamStep, ClipGradNorm: optimizer kernels built on the
//     guards
//
// # Copy Guards
//
// Optimizer kernels compute updates in place and then publish them to
// caller-provided outputs. When a caller passes the same tensors for
// input and output, publishing is free; the guards detect shared
// storage and skip the transfer:
//
//	backend := cpu.New()
//	ctx := backend.Context()
//
//	// In-place update: weights double as the output, no copies happen.
//	err := optim.SGDStep(ctx, optim.SGDConfig{LR: 0.01},
//	    weights, grads, moms, weights, moms)
//
//	// Separate outputs: updated values are copied out on the stream.
//	err = optim.SGDStep(ctx, optim.SGDConfig{LR: 0.01},
//	    weights, grads, moms, updatedWeights, updatedMoms)
//
// Transfers are asynchronous; call ctx.Stream().Sync() before reading
// destination contents.
//
// # Optimizers
//
// SGD (Stochastic Gradient Descent with momentum):
//
//	err := optim.SGDStep(ctx, optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	}, weights, grads, moms, weights, moms)
//
// Adam (Adaptive Moment Estimation with bias correction):
//
//	err := optim.AdamStep(ctx, optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float32{0.9, 0.999},
//	    Eps:   1e-8,
//	}, step, weights, grads, m1, m2, weights, m1, m2)
//
// Gradient norm clipping:
//
//	err := optim.ClipGradNorm(ctx, 1.0, grads, grads)
package optim
