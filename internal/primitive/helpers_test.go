package primitive

import (
	"testing"

	"github.com/born-ml/jitconv/internal/conv"
	"github.com/born-ml/jitconv/internal/engine"
	"github.com/born-ml/jitconv/internal/isa"
	"github.com/born-ml/jitconv/internal/memory"
	"github.com/born-ml/jitconv/internal/tensor"
)

// sse42 pins the block factor to 8 regardless of the machine running tests.
var sse42 = engine.NewCPUWithISA(isa.SSE42)

type gpuEngine struct{}

func (gpuEngine) Kind() tensor.Device { return tensor.GPU }
func (gpuEngine) ISA() isa.ISA        { return isa.Generic }

type convShape struct {
	mb, ic, oc, groups int
	hw, k, pad         int
	bias               bool
}

// anyDesc builds a descriptor whose formats are all Any.
func anyDesc(t *testing.T, s convShape, prop conv.PropKind, act *conv.ActivationDesc) *conv.OperationDesc {
	t.Helper()
	out := s.hw + 2*s.pad - s.k + 1
	weights := tensor.Dims{s.oc, s.ic, s.k, s.k}
	if s.groups > 1 {
		weights = tensor.Dims{s.groups, s.oc / s.groups, s.ic / s.groups, s.k, s.k}
	}
	d := &conv.OperationDesc{
		PropKind:   prop,
		AlgKind:    conv.Direct,
		Src:        memory.NewDesc(tensor.Dims{s.mb, s.ic, s.hw, s.hw}, tensor.Float32, memory.Any),
		Weights:    memory.NewDesc(weights, tensor.Float32, memory.Any),
		Dst:        memory.NewDesc(tensor.Dims{s.mb, s.oc, out, out}, tensor.Float32, memory.Any),
		Strides:    [2]int{1, 1},
		Padding:    [2]int{s.pad, s.pad},
		PaddingR:   [2]int{s.pad, s.pad},
		Activation: act,
	}
	if s.bias {
		d.Bias = memory.NewDesc(tensor.Dims{s.oc}, tensor.Float32, memory.Any)
	}
	return d
}

func relu(slope float32) *conv.ActivationDesc {
	return &conv.ActivationDesc{NegativeSlope: slope}
}
