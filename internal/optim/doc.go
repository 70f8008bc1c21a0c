// Package optim implements optimizer update kernels and the
// device-to-device output reconciliation they share.
//
// Optimizer kernels may compute a parameter's new value in a scratch
// buffer or in place. Either way the logical output tensor handed back to
// the caller must hold the fresh value, so every kernel finishes by
// routing its outputs through CopyIfNotSameBuffer /
// CopyIfNotSameBufferSeq: a conditional copy that is a no-op when the
// output already aliases the buffer the value was computed in, and an
// asynchronous stream-ordered transfer otherwise.
//
// This package provides:
//   - CopyIfNotSameBuffer: conditional copy for a single tensor
//   - CopyIfNotSameBufferSeq: conditional copy across a tensor sequence
//   - SGDStep, AdamStep: momentum / adaptive-moment parameter updates
//   - ClipGradNorm: global-norm gradient clipping over a sequence
package optim
