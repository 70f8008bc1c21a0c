package optim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/device"
)

// refNorm computes the reference global L2 norm in float64.
func refNorm(vals ...float64) float64 {
	return floats.Norm(vals, 2)
}

func TestL2Norm(t *testing.T) {
	grads := device.NewSeq(hostTensor(t, 3, 4), hostTensor(t, 12))

	norm, err := L2Norm(grads)
	require.NoError(t, err)
	assert.InDelta(t, refNorm(3, 4, 12), float64(norm), 1e-5)
}

func TestClipGradNormScalesDown(t *testing.T) {
	backend := cpu.New()
	ctx := backend.Context()

	grads := device.NewSeq(hostTensor(t, 3, 4)) // norm 5
	require.NoError(t, ClipGradNorm(ctx, 1.0, grads, grads))

	got := seqValues(t, grads, 0)
	norm, err := L2Norm(grads)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, float64(norm), 1e-4)
	assert.InDeltaSlice(t, []float32{0.6, 0.8}, got, 1e-4)

	// In-place dispatch: no transfers.
	assert.Equal(t, 0, backend.Stream().TransferCount())
}

func TestClipGradNormBelowThreshold(t *testing.T) {
	ctx := cpu.New().Context()

	grads := device.NewSeq(hostTensor(t, 0.3, 0.4)) // norm 0.5
	require.NoError(t, ClipGradNorm(ctx, 10.0, grads, grads))

	// Coefficient clamps at 1: gradients untouched.
	assert.InDeltaSlice(t, []float32{0.3, 0.4}, seqValues(t, grads, 0), 1e-6)
}

func TestClipGradNormSeparateOutput(t *testing.T) {
	backend := cpu.New()
	ctx := backend.Context()

	grads := device.NewSeq(hostTensor(t, 6, 8)) // norm 10
	clipped := device.NewSeq()

	require.NoError(t, ClipGradNorm(ctx, 5.0, grads, clipped))
	require.NoError(t, ctx.Stream().Sync())

	require.Equal(t, 1, clipped.Len())
	assert.Equal(t, 1, backend.Stream().TransferCount())
	assert.InDeltaSlice(t, []float32{3, 4}, seqValues(t, clipped, 0), 1e-4)
}

func TestClipGradNormEmptySequence(t *testing.T) {
	ctx := cpu.New().Context()

	grads := device.NewSeq()
	require.NoError(t, ClipGradNorm(ctx, 1.0, grads, grads))
}
