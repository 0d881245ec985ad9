package primitive

// Kind is the primitive kind a variant implements.
type Kind int

// Primitive kinds.
const (
	KindConvolution Kind = iota
	KindConvolutionReLU
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindConvolutionReLU {
		return "convolution_relu"
	}
	return "convolution"
}

// Variant selects, at compile time, whether a primitive fuses an activation.
// Plain and ReLU share all validation and format selection; only the
// activation checks and the flag handed to the kernel differ.
type Variant interface {
	Kind() Kind
	Fused() bool
}

// Plain is the forward convolution without fused activation.
type Plain struct{}

// Kind returns KindConvolution.
func (Plain) Kind() Kind { return KindConvolution }

// Fused returns false.
func (Plain) Fused() bool { return false }

// ReLU is the forward convolution with a fused leaky ReLU.
type ReLU struct{}

// Kind returns KindConvolutionReLU.
func (ReLU) Kind() Kind { return KindConvolutionReLU }

// Fused returns true.
func (ReLU) Fused() bool { return true }
