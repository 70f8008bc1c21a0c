package optim

import (
	"fmt"

	"github.com/loom-ml/loom/internal/device"
)

// SGDConfig holds hyperparameters for the momentum SGD update.
type SGDConfig struct {
	LR       float32 // Learning rate (default: 0.01)
	Momentum float32 // Momentum factor (default: 0.0, range: [0, 1))
}

// SGDStep applies one SGD update across a sequence of parameters.
//
// Update rule per parameter i:
//
//	velocity[i] = momentum * velocity[i] + grad[i]
//	weight[i]  -= lr * velocity[i]
//
// The update is computed in place in the weights and momentums buffers,
// then both output sequences are populated through the sequence copy
// guard: callers that pass the input sequences as outputs (the fully
// in-place dispatch) get a zero-transfer fast path, while distinct output
// sequences receive asynchronous copies on ctx's stream.
func SGDStep(ctx *device.Context, cfg SGDConfig, weights, grads, momentums, updatedWeights, updatedMomentums *device.Seq) error {
	if cfg.LR == 0 {
		cfg.LR = 0.01
	}

	n := weights.Len()
	if grads.Len() != n || momentums.Len() != n {
		return fmt.Errorf("optim: sequence length mismatch: %d weights, %d grads, %d momentums",
			n, grads.Len(), momentums.Len())
	}

	wd, err := seqFloat32(weights)
	if err != nil {
		return fmt.Errorf("optim: weights: %w", err)
	}
	gd, err := seqFloat32(grads)
	if err != nil {
		return fmt.Errorf("optim: grads: %w", err)
	}
	vd, err := seqFloat32(momentums)
	if err != nil {
		return fmt.Errorf("optim: momentums: %w", err)
	}

	for i := 0; i < n; i++ {
		w, g, v := wd[i], gd[i], vd[i]
		if len(g) != len(w) || len(v) != len(w) {
			return fmt.Errorf("optim: element %d size mismatch: %d weights, %d grads, %d momentums",
				i, len(w), len(g), len(v))
		}
		for j := range w {
			v[j] = cfg.Momentum*v[j] + g[j]
			w[j] -= cfg.LR * v[j]
		}
	}

	if err := CopyIfNotSameBufferSeq(ctx, n, weights, updatedWeights); err != nil {
		return err
	}
	return CopyIfNotSameBufferSeq(ctx, n, momentums, updatedMomentums)
}
