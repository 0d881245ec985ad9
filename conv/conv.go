// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package conv

import (
	"log/slog"

	internalconv "github.com/born-ml/jitconv/internal/conv"
	"github.com/born-ml/jitconv/internal/engine"
	"github.com/born-ml/jitconv/internal/event"
	"github.com/born-ml/jitconv/internal/isa"
	"github.com/born-ml/jitconv/internal/kernel"
	"github.com/born-ml/jitconv/internal/memory"
	"github.com/born-ml/jitconv/internal/primitive"
	"github.com/born-ml/jitconv/internal/status"
	"github.com/born-ml/jitconv/internal/tensor"
)

// Descriptors.
type (
	// OperationDesc describes one convolution: propagation kind, algorithm,
	// the four tensors, strides and padding.
	OperationDesc = internalconv.OperationDesc
	// ActivationDesc parameterizes the fused leaky ReLU.
	ActivationDesc = internalconv.ActivationDesc
	// PropKind is the propagation kind of an operation.
	PropKind = internalconv.PropKind
	// AlgKind is the convolution algorithm.
	AlgKind = internalconv.AlgKind
	// MemoryDesc is a tensor's dimensions, data type and layout.
	MemoryDesc = memory.Desc
	// Format is a physical tensor layout.
	Format = memory.Format
	// Dims are logical tensor dimensions.
	Dims = tensor.Dims
	// DataType is a tensor element type.
	DataType = tensor.DataType
)

// Propagation kinds.
const (
	ForwardTraining  = internalconv.ForwardTraining
	ForwardInference = internalconv.ForwardInference
	BackwardData     = internalconv.BackwardData
	BackwardWeights  = internalconv.BackwardWeights
	BackwardBias     = internalconv.BackwardBias
)

// Algorithms.
const (
	Direct   = internalconv.Direct
	Winograd = internalconv.Winograd
)

// Data types.
const (
	DataTypeUndef = tensor.DataTypeUndef
	Float32       = tensor.Float32
	Int8          = tensor.Int8
	Uint8         = tensor.Uint8
	Int32         = tensor.Int32
)

// Memory formats.
const (
	FormatUndef       = memory.Undef
	FormatAny         = memory.Any
	FormatX           = memory.X
	FormatNCHW        = memory.NCHW
	FormatNHWC        = memory.NHWC
	FormatNChw8c      = memory.NChw8c
	FormatNChw16c     = memory.NChw16c
	FormatOIHW        = memory.OIHW
	FormatOIhw8i8o    = memory.OIhw8i8o
	FormatOIhw16i16o  = memory.OIhw16i16o
	FormatOhwi8o      = memory.Ohwi8o
	FormatOhwi16o     = memory.Ohwi16o
	FormatGOIHW       = memory.GOIHW
	FormatGOIhw8i8o   = memory.GOIhw8i8o
	FormatGOIhw16i16o = memory.GOIhw16i16o
)

// Outcomes. Compare with errors.Is.
var (
	ErrUnimplemented   = status.ErrUnimplemented
	ErrInvalidArgument = status.ErrInvalidArgument
	ErrOutOfResources  = status.ErrOutOfResources
)

// Primitive types.
type (
	// Variant selects the plain or the ReLU-fused primitive.
	Variant = primitive.Variant
	// Plain is the convolution without fused activation.
	Plain = primitive.Plain
	// ReLU is the convolution with fused leaky ReLU.
	ReLU = primitive.ReLU
	// PrimitiveDesc is a validated descriptor with resolved formats.
	PrimitiveDesc[V Variant] = primitive.Desc[V]
	// Primitive is an executable convolution owning its kernel.
	Primitive[V Variant] = primitive.Primitive[V]
	// Inputs are the tensors a primitive reads.
	Inputs = primitive.Inputs
	// Outputs are the tensors a primitive writes.
	Outputs = primitive.Outputs
	// Option configures Init and NewPrimitive.
	Option = primitive.Option
	// Engine is the execution context a descriptor is validated against.
	Engine = engine.Engine
	// Event is the completion signal Execute sets.
	Event = event.Event
	// Tensor is a bound tensor buffer.
	Tensor = tensor.RawTensor
	// KernelOptions configures kernel instantiation.
	KernelOptions = kernel.Options
)

// ISA is an x86 instruction-set level.
type ISA = isa.ISA

// Instruction-set levels for NewCPUEngineWithISA.
const (
	ISASSE42      = isa.SSE42
	ISAAVX2       = isa.AVX2
	ISAAVX512Core = isa.AVX512Core
)

// Strategy names accepted by WithStrategy.
const (
	JitSSE42      = primitive.JitSSE42
	JitAVX2       = primitive.JitAVX2
	JitAVX512Core = primitive.JitAVX512Core
)

// NewMemoryDesc returns a memory descriptor.
func NewMemoryDesc(dims Dims, dt DataType, f Format) MemoryDesc {
	return memory.NewDesc(dims, dt, f)
}

// NewOperationDesc builds and validates a convolution descriptor. Pass a
// zero MemoryDesc as bias for a convolution without bias.
func NewOperationDesc(prop PropKind, alg AlgKind, src, weights, bias, dst MemoryDesc,
	strides, padding, paddingR [2]int) (*OperationDesc, error) {
	return internalconv.NewDesc(prop, alg, src, weights, bias, dst, strides, padding, paddingR)
}

// NewCPUEngine returns a CPU engine for the host's detected instruction set.
// On an AVX-512 host, Init then serves descriptors with jit:avx512_core and
// its 16-channel blocked layouts.
func NewCPUEngine() Engine {
	return engine.NewCPU()
}

// NewCPUEngineWithISA returns a CPU engine pinned to level. Pinning below the
// host's level selects a narrower kernel and its layouts.
func NewCPUEngineWithISA(level ISA) Engine {
	return engine.NewCPUWithISA(level)
}

// NewEvent returns a NotReady event.
func NewEvent() *Event {
	return event.New()
}

// NewTensor allocates a zeroed CPU tensor holding n elements of dt, enough
// to bind to a memory descriptor with NumElements() == n.
func NewTensor(n int, dt DataType) (*Tensor, error) {
	return tensor.NewRaw(Dims{n}, dt, tensor.CPU)
}

// Init validates desc on eng and resolves its formats. hint may be nil.
func Init[V Variant](eng Engine, desc *OperationDesc, hint *PrimitiveDesc[V], opts ...Option) (*PrimitiveDesc[V], error) {
	return primitive.Init[V](eng, desc, hint, opts...)
}

// NewPrimitive binds tensors to pd and instantiates its kernel.
func NewPrimitive[V Variant](pd *PrimitiveDesc[V], inputs Inputs, outputs Outputs, opts ...Option) (*Primitive[V], error) {
	return primitive.NewPrimitive(pd, inputs, outputs, opts...)
}

// IsUnimplemented reports whether err means "try another implementation".
func IsUnimplemented(err error) bool {
	return status.IsUnimplemented(err)
}

// WithLogger routes diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return primitive.WithLogger(l)
}

// WithStrategy pins initialization to the named strategy.
func WithStrategy(name string) Option {
	return primitive.WithStrategy(name)
}

// WithKernelOptions sets kernel instantiation options.
func WithKernelOptions(ko KernelOptions) Option {
	return primitive.WithKernelOptions(ko)
}

// DefaultKernelOptions returns the kernel options used when none are given.
func DefaultKernelOptions() KernelOptions {
	return kernel.DefaultOptions()
}

// HostISA returns the name of the instruction set detected on this host.
func HostISA() string {
	return isa.Detect().String()
}
