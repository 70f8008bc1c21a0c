package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-ml/loom/internal/tensor"
)

func newElem(t *testing.T, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	return raw
}

func TestSeqBasics(t *testing.T) {
	s := NewSeq()
	assert.Equal(t, 0, s.Len())

	a := newElem(t, tensor.Shape{2})
	b := newElem(t, tensor.Shape{3})
	s.Add(a)
	s.Add(b)

	require.Equal(t, 2, s.Len())
	assert.Same(t, a, s.Get(0))
	assert.Same(t, b, s.Get(1))

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestSeqReserveKeepsElements(t *testing.T) {
	a := newElem(t, tensor.Shape{2})
	s := NewSeq(a)
	s.Reserve(16)

	require.Equal(t, 1, s.Len())
	assert.Same(t, a, s.Get(0))
}
