// Package conv defines the forward convolution operation descriptor: the
// user-facing description of shapes, data types, algorithm and fused
// activation that primitive descriptors validate.
package conv

import (
	"fmt"

	"github.com/born-ml/jitconv/internal/memory"
	"github.com/born-ml/jitconv/internal/status"
)

// PropKind is the propagation kind.
type PropKind int

// Propagation kinds. Only the forward kinds are served by forward
// primitives; the rest exist so a descriptor can carry them.
const (
	PropKindUndef PropKind = iota
	ForwardTraining
	ForwardInference
	BackwardData
	BackwardWeights
	BackwardBias
)

// String returns the propagation kind name.
func (p PropKind) String() string {
	switch p {
	case ForwardTraining:
		return "forward_training"
	case ForwardInference:
		return "forward_inference"
	case BackwardData:
		return "backward_data"
	case BackwardWeights:
		return "backward_weights"
	case BackwardBias:
		return "backward_bias"
	default:
		return "undef"
	}
}

// IsForward reports whether p is a forward propagation kind.
func (p PropKind) IsForward() bool {
	return p == ForwardTraining || p == ForwardInference
}

// AlgKind is the convolution algorithm.
type AlgKind int

// Algorithms.
const (
	AlgKindUndef AlgKind = iota
	Direct
	Winograd
)

// String returns the algorithm name.
func (a AlgKind) String() string {
	switch a {
	case Direct:
		return "convolution_direct"
	case Winograd:
		return "convolution_winograd"
	default:
		return "undef"
	}
}

// ActivationDesc requests a fused leaky ReLU: y = x for x >= 0, x*NegativeSlope otherwise.
type ActivationDesc struct {
	NegativeSlope float32
}

// OperationDesc describes one forward convolution.
//
// Src and Dst are [N, C, H, W]. Weights are [OC, IC, KH, KW], or
// [G, OC/G, IC/G, KH, KW] for grouped convolution. Bias is [OC]; a Bias
// whose Format is memory.Undef means the convolution has no bias.
type OperationDesc struct {
	PropKind PropKind
	AlgKind  AlgKind

	Src     memory.Desc
	Weights memory.Desc
	Bias    memory.Desc
	Dst     memory.Desc

	Strides  [2]int // h, w
	Padding  [2]int // top, left
	PaddingR [2]int // bottom, right

	// Activation is non-nil when a fused activation is requested.
	Activation *ActivationDesc
}

// NewDesc builds and validates a forward convolution descriptor. Pass a
// zero memory.Desc as bias for a convolution without bias.
func NewDesc(prop PropKind, alg AlgKind, src, weights, bias, dst memory.Desc,
	strides, padding, paddingR [2]int) (*OperationDesc, error) {
	d := &OperationDesc{
		PropKind: prop,
		AlgKind:  alg,
		Src:      src.Clone(),
		Weights:  weights.Clone(),
		Bias:     bias.Clone(),
		Dst:      dst.Clone(),
		Strides:  strides,
		Padding:  padding,
		PaddingR: paddingR,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Clone returns a deep copy.
func (d *OperationDesc) Clone() *OperationDesc {
	c := *d
	c.Src = d.Src.Clone()
	c.Weights = d.Weights.Clone()
	c.Bias = d.Bias.Clone()
	c.Dst = d.Dst.Clone()
	if d.Activation != nil {
		act := *d.Activation
		c.Activation = &act
	}
	return &c
}

// WithBias reports whether the convolution has a bias.
func (d *OperationDesc) WithBias() bool {
	return d.Bias.Present()
}

// WithGroups reports whether the weights carry a leading group axis.
func (d *OperationDesc) WithGroups() bool {
	return len(d.Weights.Dims) == len(d.Src.Dims)+1
}

// Groups returns the number of groups, 1 when ungrouped.
func (d *OperationDesc) Groups() int {
	if d.WithGroups() {
		return d.Weights.Dims[0]
	}
	return 1
}

// MB returns the minibatch size.
func (d *OperationDesc) MB() int { return d.Src.Dims[0] }

// IC returns the total number of input channels.
func (d *OperationDesc) IC() int { return d.Src.Dims[1] }

// OC returns the total number of output channels.
func (d *OperationDesc) OC() int { return d.Dst.Dims[1] }

// KH returns the kernel height.
func (d *OperationDesc) KH() int { return d.Weights.Dims[len(d.Weights.Dims)-2] }

// KW returns the kernel width.
func (d *OperationDesc) KW() int { return d.Weights.Dims[len(d.Weights.Dims)-1] }

// NegativeSlope returns the activation slope, or 0 without activation.
func (d *OperationDesc) NegativeSlope() float32 {
	if d.Activation == nil {
		return 0
	}
	return d.Activation.NegativeSlope
}

// Validate checks the descriptor for malformed shapes. It does not judge
// whether any implementation can serve the descriptor.
func (d *OperationDesc) Validate() error {
	if len(d.Src.Dims) != 4 || len(d.Dst.Dims) != 4 {
		return status.InvalidArgument("src and dst must be 4-D, got %d-D and %d-D", len(d.Src.Dims), len(d.Dst.Dims))
	}
	if r := len(d.Weights.Dims); r != 4 && r != 5 {
		return status.InvalidArgument("weights must be 4-D or 5-D, got %d-D", r)
	}
	for _, md := range []struct {
		name string
		desc memory.Desc
	}{{"src", d.Src}, {"weights", d.Weights}, {"dst", d.Dst}} {
		if err := md.desc.Dims.Validate(); err != nil {
			return status.InvalidArgument("%s: %v", md.name, err)
		}
	}
	for i := 0; i < 2; i++ {
		if d.Strides[i] <= 0 {
			return status.InvalidArgument("stride %d must be positive, got %d", i, d.Strides[i])
		}
		if d.Padding[i] < 0 || d.PaddingR[i] < 0 {
			return status.InvalidArgument("padding must be non-negative, got %v/%v", d.Padding, d.PaddingR)
		}
	}

	g := d.Groups()
	w := d.Weights.Dims
	off := 0
	if d.WithGroups() {
		off = 1
	}
	if d.IC()%g != 0 || d.OC()%g != 0 {
		return status.InvalidArgument("channels %d/%d not divisible by %d groups", d.IC(), d.OC(), g)
	}
	if w[off] != d.OC()/g || w[off+1] != d.IC()/g {
		return status.InvalidArgument("weights %v do not match ic=%d oc=%d groups=%d", []int(w), d.IC(), d.OC(), g)
	}
	if d.MB() != d.Dst.Dims[0] {
		return status.InvalidArgument("minibatch mismatch: src %d, dst %d", d.MB(), d.Dst.Dims[0])
	}
	for i := 0; i < 2; i++ {
		in, out, k := d.Src.Dims[2+i], d.Dst.Dims[2+i], w[off+2+i]
		want := (in+d.Padding[i]+d.PaddingR[i]-k)/d.Strides[i] + 1
		if want <= 0 || out != want {
			return status.InvalidArgument("%s output %d inconsistent with input %d, kernel %d, stride %d, padding %d/%d (want %d)",
				spatialName(i), out, in, k, d.Strides[i], d.Padding[i], d.PaddingR[i], want)
		}
	}
	if d.WithBias() && (len(d.Bias.Dims) != 1 || d.Bias.Dims[0] != d.OC()) {
		return status.InvalidArgument("bias %v must be [%d]", []int(d.Bias.Dims), d.OC())
	}
	return nil
}

func spatialName(i int) string {
	if i == 0 {
		return "height"
	}
	return "width"
}

// String renders the descriptor for logs.
func (d *OperationDesc) String() string {
	return fmt.Sprintf("%s %s src=%s wei=%s bia=%s dst=%s strides=%v pad=%v/%v",
		d.PropKind, d.AlgKind, d.Src, d.Weights, d.Bias, d.Dst, d.Strides, d.Padding, d.PaddingR)
}
