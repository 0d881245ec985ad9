// Package engine provides the execution engine a primitive descriptor is
// created against.
package engine

import (
	"github.com/born-ml/jitconv/internal/isa"
	"github.com/born-ml/jitconv/internal/tensor"
)

// Engine is the device abstraction consumed by primitive descriptors.
type Engine interface {
	// Kind returns the device kind the engine executes on.
	Kind() tensor.Device
	// ISA returns the instruction-set level kernels may target.
	ISA() isa.ISA
}

// CPUEngine executes on the host CPU.
type CPUEngine struct {
	isa isa.ISA
}

// NewCPU creates a CPU engine targeting the host's detected instruction set.
func NewCPU() *CPUEngine {
	return &CPUEngine{isa: isa.Detect()}
}

// NewCPUWithISA creates a CPU engine pinned to the given instruction-set
// level. Pinning lower than the host is how tests and callers force a
// narrower kernel.
func NewCPUWithISA(level isa.ISA) *CPUEngine {
	return &CPUEngine{isa: level}
}

// Kind returns tensor.CPU.
func (e *CPUEngine) Kind() tensor.Device {
	return tensor.CPU
}

// ISA returns the engine's instruction-set level.
func (e *CPUEngine) ISA() isa.ISA {
	return e.isa
}
