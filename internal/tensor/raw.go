package tensor

import (
	"fmt"
	"unsafe"

	"github.com/born-ml/jitconv/internal/status"
)

// Device represents the compute device an engine or tensor belongs to.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	GPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case GPU:
		return "GPU"
	default:
		return "Unknown"
	}
}

// RawTensor is a bound tensor handle: a flat buffer holding the physical
// elements of one tensor in whatever layout its memory descriptor resolved to.
// The primitive never allocates these; callers do.
type RawTensor struct {
	data   []byte
	dims   Dims
	dtype  DataType
	device Device
}

// NewRaw allocates a zeroed tensor with the given dimensions and type.
func NewRaw(dims Dims, dtype DataType, device Device) (*RawTensor, error) {
	if err := dims.Validate(); err != nil {
		return nil, status.InvalidArgument("invalid dims: %v", err)
	}
	if !dtype.Valid() {
		return nil, status.InvalidArgument("cannot allocate elements of type %s", dtype)
	}
	return &RawTensor{
		data:   make([]byte, dims.NumElements()*dtype.Size()),
		dims:   dims.Clone(),
		dtype:  dtype,
		device: device,
	}, nil
}

// FromFloat32 creates a Float32 tensor on the CPU holding a copy of data.
func FromFloat32(dims Dims, data []float32) (*RawTensor, error) {
	if dims.NumElements() != len(data) {
		return nil, status.InvalidArgument("dims %v require %d elements, but got %d", []int(dims), dims.NumElements(), len(data))
	}
	r, err := NewRaw(dims, Float32, CPU)
	if err != nil {
		return nil, err
	}
	copy(r.AsFloat32(), data)
	return r, nil
}

// Dims returns the tensor's dimensions.
func (r *RawTensor) Dims() Dims {
	return r.dims
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.dims.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return len(r.data)
}

// Data returns the raw byte slice.
func (r *RawTensor) Data() []byte {
	return r.data
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not f32", r.dtype))
	}
	if len(r.data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.data[0])), r.NumElements())
}
