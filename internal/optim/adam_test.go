package optim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/device"
)

func TestAdamStepFirstTimestep(t *testing.T) {
	backend := cpu.New()
	ctx := backend.Context()

	weights := device.NewSeq(hostTensor(t, 1))
	grads := device.NewSeq(hostTensor(t, 0.5))
	m1 := device.NewSeq(hostTensor(t, 0))
	m2 := device.NewSeq(hostTensor(t, 0))

	cfg := AdamConfig{} // defaults: lr 0.001, betas 0.9/0.999, eps 1e-8
	require.NoError(t, AdamStep(ctx, cfg, 1, weights, grads, m1, m2, weights, m1, m2))

	// m = 0.1*0.5 = 0.05; v = 0.001*0.25 = 0.00025
	// mHat = 0.05/0.1 = 0.5; vHat = 0.00025/0.001 = 0.25
	// w = 1 - 0.001*0.5/(0.5+1e-8) ≈ 0.999
	g := 0.5
	mHat := (0.1 * g) / 0.1
	vHat := (0.001 * g * g) / 0.001
	want := 1 - 0.001*mHat/(math.Sqrt(vHat)+1e-8)

	assert.InDelta(t, want, float64(seqValues(t, weights, 0)[0]), 1e-6)
	assert.InDeltaSlice(t, []float32{0.05}, seqValues(t, m1, 0), 1e-7)
	assert.InDeltaSlice(t, []float32{0.00025}, seqValues(t, m2, 0), 1e-8)

	// Fully in-place: nothing enqueued.
	assert.Equal(t, 0, backend.Stream().TransferCount())
}

func TestAdamStepSeparateOutputs(t *testing.T) {
	backend := cpu.New()
	ctx := backend.Context()

	weights := device.NewSeq(hostTensor(t, 1, 2))
	grads := device.NewSeq(hostTensor(t, 1, -1))
	m1 := device.NewSeq(hostTensor(t, 0, 0))
	m2 := device.NewSeq(hostTensor(t, 0, 0))

	uw := device.NewSeq()
	um1 := device.NewSeq()
	um2 := device.NewSeq()

	require.NoError(t, AdamStep(ctx, AdamConfig{LR: 0.01}, 1, weights, grads, m1, m2, uw, um1, um2))
	require.NoError(t, ctx.Stream().Sync())

	// Three output sequences, one fresh element each.
	assert.Equal(t, 3, backend.Stream().TransferCount())
	assert.Equal(t, seqValues(t, weights, 0), seqValues(t, uw, 0))
	assert.Equal(t, seqValues(t, m1, 0), seqValues(t, um1, 0))
	assert.Equal(t, seqValues(t, m2, 0), seqValues(t, um2, 0))
}

func TestAdamStepInvalidTimestep(t *testing.T) {
	ctx := cpu.New().Context()
	s := device.NewSeq()

	require.Error(t, AdamStep(ctx, AdamConfig{}, 0, s, s, s, s, s, s, s))
}

func TestAdamStepLengthMismatch(t *testing.T) {
	ctx := cpu.New().Context()

	weights := device.NewSeq(hostTensor(t, 1))
	empty := device.NewSeq()

	require.Error(t, AdamStep(ctx, AdamConfig{}, 1, weights, empty, empty, empty, weights, empty, empty))
}
