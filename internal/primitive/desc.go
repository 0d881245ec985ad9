// Package primitive validates forward convolution descriptors against a
// kernel strategy, resolves unspecified memory formats and wraps the
// instantiated kernel in an executable primitive.
package primitive

import (
	"github.com/born-ml/jitconv/internal/conv"
	"github.com/born-ml/jitconv/internal/engine"
	"github.com/born-ml/jitconv/internal/kernel"
	"github.com/born-ml/jitconv/internal/memory"
	"github.com/born-ml/jitconv/internal/status"
	"github.com/born-ml/jitconv/internal/tensor"
)

// Desc is a validated forward convolution primitive descriptor: the
// operation descriptor with every format resolved, and the kernel
// configuration derived from it. It is immutable once Init returns.
type Desc[V Variant] struct {
	engine   engine.Engine
	desc     conv.OperationDesc
	jcp      kernel.Config
	strategy Strategy
	hint     *Desc[V]
}

// Init validates desc for variant V on eng. It fails with
// status.ErrUnimplemented when this implementation cannot serve the
// descriptor, and with status.ErrInvalidArgument when the descriptor is
// malformed. hint may be nil. No kernel is built.
func Init[V Variant](eng engine.Engine, desc *conv.OperationDesc, hint *Desc[V], opts ...Option) (*Desc[V], error) {
	o := newOptions(opts)
	if eng == nil || desc == nil {
		return nil, status.InvalidArgument("engine and descriptor are required")
	}

	pd := &Desc[V]{
		engine: eng,
		desc:   *desc.Clone(),
		hint:   hint,
	}
	if err := pd.init(o); err != nil {
		var v V
		o.logger.Debug("convolution descriptor rejected",
			"kind", v.Kind().String(),
			"strategy", pd.strategy.Name,
			"desc", desc.String(),
			"err", err,
		)
		return nil, err
	}
	o.logger.Debug("convolution descriptor initialized",
		"strategy", pd.strategy.Name,
		"src", pd.desc.Src.String(),
		"weights", pd.desc.Weights.String(),
		"dst", pd.desc.Dst.String(),
	)
	return pd, nil
}

func (pd *Desc[V]) init(o *options) error {
	var v V
	cd := &pd.desc

	switch {
	case pd.engine.Kind() != tensor.CPU:
		return status.Unimplemented("engine kind %s is not CPU", pd.engine.Kind())
	case !cd.PropKind.IsForward():
		return status.Unimplemented("prop kind %s is not forward", cd.PropKind)
	case v.Fused() && cd.PropKind != conv.ForwardInference:
		return status.Unimplemented("fused activation needs forward_inference, got %s", cd.PropKind)
	case v.Fused() && cd.Activation == nil:
		return status.Unimplemented("%s needs an activation descriptor", v.Kind())
	case !v.Fused() && cd.Activation != nil:
		return status.Unimplemented("%s cannot fuse an activation", v.Kind())
	case cd.AlgKind != conv.Direct:
		return status.Unimplemented("algorithm %s is not direct", cd.AlgKind)
	case !tensor.Everyone(tensor.Float32, cd.Src.DataType, cd.Weights.DataType, cd.Dst.DataType):
		return status.Unimplemented("data types %s/%s/%s are not all f32",
			cd.Src.DataType, cd.Weights.DataType, cd.Dst.DataType)
	case cd.WithBias() && cd.Bias.DataType != tensor.Float32:
		return status.Unimplemented("bias data type %s is not f32", cd.Bias.DataType)
	}

	if err := cd.Validate(); err != nil {
		return err
	}

	s, err := o.registry.strategyFor(o.strategy, cd.AlgKind, cd.Src.DataType, pd.engine.ISA())
	if err != nil {
		return err
	}
	pd.strategy = s

	if err := pd.setDefaultParams(); err != nil {
		return err
	}

	jcp, err := s.InitConf(cd, cd.Src, cd.Weights, cd.Dst, v.Fused(), cd.NegativeSlope(), pd.engine.ISA(), s.Target())
	if err != nil {
		if status.IsUnimplemented(err) {
			return err
		}
		return status.Unimplemented("%s: %v", s.Name, err)
	}
	pd.jcp = jcp
	return nil
}

// setDefaultParams resolves every Any format for the strategy's block.
func (pd *Desc[V]) setDefaultParams() error {
	cd := &pd.desc
	block := pd.strategy.Block
	grouped := cd.WithGroups()
	srcDims := cd.Src.Dims

	if err := resolve(&cd.Src, RoleSrc, srcDims, grouped, block); err != nil {
		return err
	}
	if err := resolve(&cd.Dst, RoleDst, srcDims, grouped, block); err != nil {
		return err
	}
	if err := resolve(&cd.Weights, RoleWeights, srcDims, grouped, block); err != nil {
		return err
	}
	if cd.WithBias() {
		if err := resolve(&cd.Bias, RoleBias, srcDims, grouped, block); err != nil {
			return err
		}
	}
	return nil
}

// Name returns the name of the strategy serving the descriptor.
func (pd *Desc[V]) Name() string { return pd.strategy.Name }

// Kind returns the primitive kind of the variant.
func (pd *Desc[V]) Kind() Kind {
	var v V
	return v.Kind()
}

// Engine returns the engine the descriptor was created on.
func (pd *Desc[V]) Engine() engine.Engine { return pd.engine }

// Hint returns the hint descriptor passed to Init, or nil.
func (pd *Desc[V]) Hint() *Desc[V] { return pd.hint }

// OpDesc returns a copy of the resolved operation descriptor.
func (pd *Desc[V]) OpDesc() *conv.OperationDesc { return pd.desc.Clone() }

// SrcDesc returns the resolved source memory descriptor.
func (pd *Desc[V]) SrcDesc() memory.Desc { return pd.desc.Src.Clone() }

// WeightsDesc returns the resolved weights memory descriptor.
func (pd *Desc[V]) WeightsDesc() memory.Desc { return pd.desc.Weights.Clone() }

// BiasDesc returns the resolved bias memory descriptor; its format is
// memory.Undef without bias.
func (pd *Desc[V]) BiasDesc() memory.Desc { return pd.desc.Bias.Clone() }

// DstDesc returns the resolved destination memory descriptor.
func (pd *Desc[V]) DstDesc() memory.Desc { return pd.desc.Dst.Clone() }

// Conf returns the kernel configuration.
func (pd *Desc[V]) Conf() kernel.Config { return pd.jcp }

// WithBias reports whether the convolution has a bias.
func (pd *Desc[V]) WithBias() bool { return pd.desc.WithBias() }

// WithGroups reports whether the convolution is grouped.
func (pd *Desc[V]) WithGroups() bool { return pd.desc.WithGroups() }

// NegativeSlope returns the fused activation slope.
func (pd *Desc[V]) NegativeSlope() float32 { return pd.desc.NegativeSlope() }
