package optim

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/device"
)

// AdamConfig holds hyperparameters for the Adam update.
type AdamConfig struct {
	LR    float32    // Learning rate (default: 0.001)
	Betas [2]float32 // Coefficients for the moment running averages (default: [0.9, 0.999])
	Eps   float32    // Term for numerical stability (default: 1e-8)
}

// AdamStep applies one Adam update across a sequence of parameters.
//
// Update rule per parameter, with step the 1-based timestep:
//
//	m = beta1 * m + (1-beta1) * g
//	v = beta2 * v + (1-beta2) * g²
//	m_hat = m / (1 - beta1^step)
//	v_hat = v / (1 - beta2^step)
//	w -= lr * m_hat / (sqrt(v_hat) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014).
//
// Like SGDStep, the math runs in place in the weights and moment buffers
// and the three output sequences are populated through the sequence copy
// guard, so aliased outputs enqueue nothing.
func AdamStep(ctx *device.Context, cfg AdamConfig, step int, weights, grads, moment1, moment2,
	updatedWeights, updatedMoment1, updatedMoment2 *device.Seq) error {
	if cfg.LR == 0 {
		cfg.LR = 0.001
	}
	if cfg.Betas[0] == 0 {
		cfg.Betas[0] = 0.9
	}
	if cfg.Betas[1] == 0 {
		cfg.Betas[1] = 0.999
	}
	if cfg.Eps == 0 {
		cfg.Eps = 1e-8
	}
	if step < 1 {
		return fmt.Errorf("optim: adam timestep must be >= 1, got %d", step)
	}

	n := weights.Len()
	if grads.Len() != n || moment1.Len() != n || moment2.Len() != n {
		return fmt.Errorf("optim: sequence length mismatch: %d weights, %d grads, %d moment1, %d moment2",
			n, grads.Len(), moment1.Len(), moment2.Len())
	}

	wd, err := seqFloat32(weights)
	if err != nil {
		return fmt.Errorf("optim: weights: %w", err)
	}
	gd, err := seqFloat32(grads)
	if err != nil {
		return fmt.Errorf("optim: grads: %w", err)
	}
	md, err := seqFloat32(moment1)
	if err != nil {
		return fmt.Errorf("optim: moment1: %w", err)
	}
	vd, err := seqFloat32(moment2)
	if err != nil {
		return fmt.Errorf("optim: moment2: %w", err)
	}

	beta1, beta2 := cfg.Betas[0], cfg.Betas[1]
	biasCorrection1 := float32(1.0 - math.Pow(float64(beta1), float64(step)))
	biasCorrection2 := float32(1.0 - math.Pow(float64(beta2), float64(step)))

	for i := 0; i < n; i++ {
		w, g, m, v := wd[i], gd[i], md[i], vd[i]
		if len(g) != len(w) || len(m) != len(w) || len(v) != len(w) {
			return fmt.Errorf("optim: element %d size mismatch", i)
		}
		for j := range w {
			grad := g[j]
			m[j] = beta1*m[j] + (1.0-beta1)*grad
			v[j] = beta2*v[j] + (1.0-beta2)*grad*grad
			mHat := m[j] / biasCorrection1
			vHat := v[j] / biasCorrection2
			w[j] -= cfg.LR * mHat / (float32(math.Sqrt(float64(vHat))) + cfg.Eps)
		}
	}

	if err := CopyIfNotSameBufferSeq(ctx, n, weights, updatedWeights); err != nil {
		return err
	}
	if err := CopyIfNotSameBufferSeq(ctx, n, moment1, updatedMoment1); err != nil {
		return err
	}
	return CopyIfNotSameBufferSeq(ctx, n, moment2, updatedMoment2)
}
