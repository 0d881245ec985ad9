package primitive

import (
	"log/slog"

	"github.com/born-ml/jitconv/internal/event"
	"github.com/born-ml/jitconv/internal/kernel"
	"github.com/born-ml/jitconv/internal/memory"
	"github.com/born-ml/jitconv/internal/status"
	"github.com/born-ml/jitconv/internal/tensor"
	"github.com/pkg/errors"
)

// State is the lifecycle state of a Primitive.
type State int

// Primitive states. A Primitive exists only once its kernel is
// instantiated, so it starts Ready.
const (
	StateReady State = iota
	StateExecuting
	StateDestroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateExecuting:
		return "executing"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Inputs are the tensors a forward convolution reads. Bias is nil without bias.
type Inputs struct {
	Src, Weights, Bias *tensor.RawTensor
}

// Outputs are the tensors a forward convolution writes.
type Outputs struct {
	Dst *tensor.RawTensor
}

// Primitive is an executable forward convolution: a validated descriptor,
// bound tensors and the kernel it owns. It is not safe for concurrent use;
// run one Primitive per goroutine or serialize Execute calls.
type Primitive[V Variant] struct {
	pd      Desc[V]
	inputs  Inputs
	outputs Outputs
	kernel  *kernel.Kernel
	state   State
	logger  *slog.Logger
}

// NewPrimitive binds tensors to pd and instantiates its kernel. Kernel
// instantiation runs here, once; if it fails the primitive is not created.
func NewPrimitive[V Variant](pd *Desc[V], inputs Inputs, outputs Outputs, opts ...Option) (*Primitive[V], error) {
	if pd == nil {
		return nil, status.InvalidArgument("primitive descriptor is required")
	}
	o := newOptions(opts)

	if err := bind("src", inputs.Src, pd.desc.Src); err != nil {
		return nil, err
	}
	if err := bind("weights", inputs.Weights, pd.desc.Weights); err != nil {
		return nil, err
	}
	if err := bind("dst", outputs.Dst, pd.desc.Dst); err != nil {
		return nil, err
	}
	switch {
	case pd.WithBias():
		if err := bind("bias", inputs.Bias, pd.desc.Bias); err != nil {
			return nil, err
		}
	case inputs.Bias != nil:
		return nil, status.InvalidArgument("bias bound to a convolution without bias")
	}

	k, err := kernel.New(pd.jcp, o.kernel)
	if err != nil {
		return nil, errors.Wrapf(err, "instantiate %s kernel", pd.strategy.Name)
	}

	return &Primitive[V]{
		pd:      *pd,
		inputs:  inputs,
		outputs: outputs,
		kernel:  k,
		state:   StateReady,
		logger:  o.logger,
	}, nil
}

func bind(name string, t *tensor.RawTensor, md memory.Desc) error {
	switch {
	case t == nil:
		return status.InvalidArgument("%s tensor is required", name)
	case t.DType() != md.DataType:
		return status.InvalidArgument("%s tensor is %s, descriptor wants %s", name, t.DType(), md.DataType)
	case t.NumElements() != md.NumElements():
		return status.InvalidArgument("%s tensor has %d elements, %s needs %d", name, t.NumElements(), md, md.NumElements())
	}
	return nil
}

// Desc returns the primitive's descriptor.
func (p *Primitive[V]) Desc() *Desc[V] {
	pd := p.pd
	return &pd
}

// State returns the lifecycle state.
func (p *Primitive[V]) State() State {
	return p.state
}

// Execute runs one forward pass over the bound tensors and then sets ev
// Ready. ev must be NotReady on entry. Execute may be called any number of
// times; each call is a full forward pass.
func (p *Primitive[V]) Execute(ev *event.Event) error {
	switch {
	case ev == nil:
		return status.InvalidArgument("event is required")
	case p.state == StateDestroyed:
		return status.InvalidArgument("primitive is closed")
	case ev.State() == event.Ready:
		return status.InvalidArgument("event is already ready")
	}

	p.state = StateExecuting
	args := kernel.Args{
		Src:     p.inputs.Src.AsFloat32(),
		Weights: p.inputs.Weights.AsFloat32(),
		Dst:     p.outputs.Dst.AsFloat32(),
	}
	if p.inputs.Bias != nil {
		args.Bias = p.inputs.Bias.AsFloat32()
	}
	err := p.kernel.Forward(args)
	p.state = StateReady
	if err != nil {
		return errors.Wrap(err, "forward")
	}

	ev.SetState(event.Ready)
	return nil
}

// Close releases the kernel. Later Execute calls fail. Close is idempotent.
func (p *Primitive[V]) Close() error {
	if p.state == StateDestroyed {
		return nil
	}
	p.kernel.Release()
	p.kernel = nil
	p.state = StateDestroyed
	p.logger.Debug("primitive destroyed", "strategy", p.pd.strategy.Name)
	return nil
}
