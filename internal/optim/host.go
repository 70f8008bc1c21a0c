package optim

import (
	"fmt"

	"github.com/loom-ml/loom/internal/device"
	"github.com/loom-ml/loom/internal/tensor"
)

// hostFloat32 returns the mutable host float32 view of t.
//
// The update kernels in this package are the host execution provider's:
// their math runs on CPU-visible memory even when outputs are later
// reconciled onto a device stream.
func hostFloat32(t device.Tensor) ([]float32, error) {
	raw, ok := t.(*tensor.RawTensor)
	if !ok {
		return nil, fmt.Errorf("optim: %T is not host-resident", t)
	}
	if raw.DType() != tensor.Float32 {
		return nil, fmt.Errorf("optim: element dtype is %s, want float32", raw.DType())
	}
	return raw.AsFloat32(), nil
}

// seqFloat32 extracts the host views of every element of a sequence.
func seqFloat32(s *device.Seq) ([][]float32, error) {
	out := make([][]float32, s.Len())
	for i := 0; i < s.Len(); i++ {
		data, err := hostFloat32(s.Get(i))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = data
	}
	return out, nil
}
