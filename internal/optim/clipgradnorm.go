package optim

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/device"
)

// clipNormEpsilon guards the clip coefficient against a zero norm.
const clipNormEpsilon = 1e-6

// L2Norm returns the global L2 norm over every element of the sequence.
// Accumulation runs in float64 to keep the reduction stable for large
// sequences.
func L2Norm(grads *device.Seq) (float32, error) {
	gd, err := seqFloat32(grads)
	if err != nil {
		return 0, fmt.Errorf("optim: grads: %w", err)
	}

	var sum float64
	for _, g := range gd {
		for _, x := range g {
			sum += float64(x) * float64(x)
		}
	}
	return float32(math.Sqrt(sum)), nil
}

// ClipGradNorm scales every gradient in grads so the global L2 norm does
// not exceed maxNorm:
//
//	coefficient = min(maxNorm / (totalNorm + epsilon), 1.0)
//
// The scaling is applied in place; clipped is then populated through the
// sequence copy guard. Passing grads itself as clipped is the in-place
// dispatch and enqueues nothing.
func ClipGradNorm(ctx *device.Context, maxNorm float32, grads, clipped *device.Seq) error {
	totalNorm, err := L2Norm(grads)
	if err != nil {
		return err
	}

	coefficient := maxNorm / (totalNorm + clipNormEpsilon)
	if coefficient > 1.0 {
		coefficient = 1.0
	}

	gd, err := seqFloat32(grads)
	if err != nil {
		return fmt.Errorf("optim: grads: %w", err)
	}
	for _, g := range gd {
		for j := range g {
			g[j] *= coefficient
		}
	}

	if grads == clipped {
		return nil
	}
	return CopyIfNotSameBufferSeq(ctx, grads.Len(), grads, clipped)
}
