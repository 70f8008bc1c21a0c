// Copyright 2026 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor storage in the Loom
// runtime.
//
// The package defines the core types shared by every execution provider:
//   - RawTensor: contiguous host tensor storage with typed accessors
//   - BufferView: the storage identity used by transfer streams
//   - Shape, DataType, Device: core type definitions
//
// Example:
//
//	w, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3})
//	fmt.Println(w.DType(), w.Shape())
package tensor

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor element types.
// Supported types: float32, float64, int32, int64.
type DType = tensor.DType

// DataType represents the underlying element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
)

// Shape represents tensor dimensions.
type Shape = tensor.Shape

// Device identifies where tensor storage lives.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	WebGPU Device = tensor.WebGPU
)

// RawTensor is contiguous host tensor storage.
type RawTensor = tensor.RawTensor

// BufferView identifies a tensor's storage for the transfer layer.
// Two views alias iff they share the same Base.
type BufferView = tensor.BufferView

// NewRaw creates a zero-initialized host tensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromSlice creates a host tensor holding a copy of data.
//
// Example:
//
//	grad, err := tensor.FromSlice([]float32{0.1, 0.2}, tensor.Shape{2})
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}
