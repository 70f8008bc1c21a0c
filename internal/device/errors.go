package device

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// TransferError reports a failed enqueue of an asynchronous device
// transfer. The platform-reported cause is preserved unwrapped underneath
// so callers can inspect it with errors.Is / errors.As.
type TransferError struct {
	// Index is the element index within a sequence copy, or -1 for a
	// scalar copy.
	Index int
	Cause error
}

// Error implements the error interface.
func (e *TransferError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("device: transfer failed: %v", e.Cause)
	}
	return fmt.Sprintf("device: transfer failed at element %d: %v", e.Index, e.Cause)
}

// Unwrap returns the platform-reported cause.
func (e *TransferError) Unwrap() error {
	return e.Cause
}

// AllocError reports that backing storage for a tensor could not be
// obtained, typically while resizing a destination sequence.
type AllocError struct {
	Shape tensor.Shape
	DType tensor.DataType
	Cause error
}

// Error implements the error interface.
func (e *AllocError) Error() string {
	return fmt.Sprintf("device: allocation of %s%v failed: %v", e.DType, e.Shape, e.Cause)
}

// Unwrap returns the underlying allocator error.
func (e *AllocError) Unwrap() error {
	return e.Cause
}
