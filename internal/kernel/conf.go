// Package kernel is the vectorized forward convolution kernel collaborator:
// a configuration builder that decides whether a descriptor can be served
// with a given SIMD blocking, and a kernel built from that configuration.
//
// The kernel here is a portable Go rendition of the JIT kernel's loop
// structure. It honors the same blocking and layout contract, so the
// configuration layer above it is exercised exactly as it would be against
// generated code.
package kernel

import (
	"github.com/born-ml/jitconv/internal/conv"
	"github.com/born-ml/jitconv/internal/isa"
	"github.com/born-ml/jitconv/internal/memory"
	"github.com/born-ml/jitconv/internal/status"
	"github.com/born-ml/jitconv/internal/tensor"
)

// Target names the instruction set a kernel is generated for and the
// number of float32 channels it processes per block.
type Target struct {
	ISA       isa.ISA
	SIMDWidth int
}

// Config is the kernel configuration derived from a validated descriptor
// and its resolved formats. It is comparable with ==.
type Config struct {
	PropKind conv.PropKind
	Target   Target

	NGroups, MB      int
	IC, OC           int // per group
	IH, IW, OH, OW   int
	KH, KW           int
	TPad, LPad       int
	StrideH, StrideW int

	SrcFmt, WeightsFmt, BiasFmt, DstFmt memory.Format

	WithGroups        bool
	WithBias          bool
	WithReLU          bool
	ReLUNegativeSlope float32

	UrH, UrW, UrWTail int
	NbOCBlocking      int

	ICBlock, NbIC   int
	OCBlock, NbOC   int
	NbICBlocking    int
	NbICBlockingMax int
}

// Kernel unroll and blocking constants of the forward kernel.
const (
	defaultUrW          = 3
	defaultNbOCBlocking = 4
	vectorRegisters     = 16
	fwdNbICBlocking     = 12
	fwdNbICBlockingMax  = 16
)

// InitConf builds the kernel configuration for cd with the given resolved
// formats, or reports why the kernel cannot serve it. Every failure wraps
// status.ErrUnimplemented.
func InitConf(cd *conv.OperationDesc, src, weights, dst memory.Desc,
	withReLU bool, slope float32, host isa.ISA, target Target) (Config, error) {
	var jcp Config

	if !isa.MayUse(host, target.ISA) {
		return jcp, status.Unimplemented("host isa %s cannot run %s kernel", host, target.ISA)
	}
	simdW := target.SIMDWidth
	if simdW <= 0 {
		return jcp, status.Unimplemented("invalid simd width %d", simdW)
	}

	jcp.PropKind = cd.PropKind
	jcp.Target = target

	jcp.WithGroups = len(weights.Dims) == len(src.Dims)+1
	jcp.NGroups = 1
	if jcp.WithGroups {
		jcp.NGroups = weights.Dims[0]
	}
	g := 0
	if jcp.WithGroups {
		g = 1
	}

	jcp.MB = src.Dims[0]
	jcp.OC = dst.Dims[1] / jcp.NGroups
	jcp.IC = src.Dims[1] / jcp.NGroups
	jcp.IH, jcp.IW = src.Dims[2], src.Dims[3]
	jcp.OH, jcp.OW = dst.Dims[2], dst.Dims[3]
	jcp.KH, jcp.KW = weights.Dims[g+2], weights.Dims[g+3]
	jcp.TPad, jcp.LPad = cd.Padding[0], cd.Padding[1]
	jcp.StrideH, jcp.StrideW = cd.Strides[0], cd.Strides[1]

	jcp.SrcFmt = src.Format
	jcp.WeightsFmt = weights.Format
	jcp.DstFmt = dst.Format
	jcp.BiasFmt = memory.Undef
	jcp.WithBias = cd.WithBias()
	if jcp.WithBias {
		jcp.BiasFmt = memory.X
	}
	jcp.WithReLU = withReLU
	jcp.ReLUNegativeSlope = slope

	flat := jcp.IC == 3
	mimo := !flat

	wantWeights := memory.WeightsBlocked(simdW)
	switch {
	case jcp.WithGroups:
		wantWeights = memory.WeightsGroupedBlocked(simdW)
	case flat:
		wantWeights = memory.WeightsOutputBlocked(simdW)
	}
	blocked := memory.ChannelBlocked(simdW)

	switch {
	case flat && src.Format != memory.NCHW && src.Format != memory.NHWC:
		return jcp, status.Unimplemented("flat src must be nchw or nhwc, got %s", src.Format)
	case mimo && src.Format != blocked:
		return jcp, status.Unimplemented("src must be %s, got %s", blocked, src.Format)
	case weights.Format != wantWeights:
		return jcp, status.Unimplemented("weights must be %s, got %s", wantWeights, weights.Format)
	case cd.Bias.Format != memory.Undef && cd.Bias.Format != memory.Any && cd.Bias.Format != memory.X:
		return jcp, status.Unimplemented("bias must be x, got %s", cd.Bias.Format)
	case dst.Format != blocked:
		return jcp, status.Unimplemented("dst must be %s, got %s", blocked, dst.Format)
	}

	jcp.UrH = 1
	jcp.UrW = defaultUrW
	if jcp.OW < jcp.UrW {
		jcp.UrW = jcp.OW
	}
	jcp.UrWTail = jcp.OW % jcp.UrW
	jcp.NbOCBlocking = defaultNbOCBlocking

	switch {
	case jcp.OC%simdW != 0:
		return jcp, status.Unimplemented("oc %d not a multiple of %d", jcp.OC, simdW)
	case jcp.LPad > jcp.UrW:
		return jcp, status.Unimplemented("left padding %d exceeds ur_w %d", jcp.LPad, jcp.UrW)
	case jcp.KW > 7 && !(jcp.TPad == 0 && jcp.LPad == 0) && !(jcp.StrideW == 1 && jcp.StrideH == 1):
		return jcp, status.Unimplemented("kw %d with padding needs unit strides", jcp.KW)
	case mimo && jcp.IC%simdW != 0:
		return jcp, status.Unimplemented("ic %d not a multiple of %d", jcp.IC, simdW)
	}

	if rPad := jcp.rightPadNoTail(); rPad > jcp.UrW {
		jcp.UrW = rPad + 1
		jcp.NbOCBlocking = ((vectorRegisters - 1) - jcp.UrW) / jcp.UrW
		jcp.UrWTail = jcp.OW % jcp.UrW
		if rPad = jcp.rightPadNoTail(); rPad > jcp.UrW || jcp.OW < jcp.UrW || jcp.NbOCBlocking < 1 {
			return jcp, status.Unimplemented("right padding %d cannot be covered by ur_w %d", rPad, jcp.UrW)
		}
	}
	if jcp.LPad > jcp.UrW {
		return jcp, status.Unimplemented("left padding %d exceeds ur_w %d", jcp.LPad, jcp.UrW)
	}

	jcp.ICBlock = simdW
	if jcp.IC%simdW != 0 {
		jcp.ICBlock = jcp.IC
	}
	jcp.NbIC = jcp.IC / jcp.ICBlock
	jcp.OCBlock = simdW
	jcp.NbOC = jcp.OC / jcp.OCBlock
	for jcp.NbOC%jcp.NbOCBlocking != 0 {
		jcp.NbOCBlocking--
	}

	jcp.NbICBlocking = fwdNbICBlocking
	jcp.NbICBlockingMax = fwdNbICBlockingMax

	return jcp, nil
}

func (jcp *Config) rightPadNoTail() int {
	return max(0, (jcp.OW-jcp.UrWTail-1)*jcp.StrideW+(jcp.KW-1)-(jcp.IW+jcp.LPad-1))
}

// OCChunks returns the number of output-channel chunks the kernel iterates.
func (jcp *Config) OCChunks() int {
	return jcp.NbOC / jcp.NbOCBlocking
}

// SrcDesc returns the memory descriptor of the source the kernel reads.
func (jcp *Config) SrcDesc() memory.Desc {
	return memory.Desc{Dims: []int{jcp.MB, jcp.IC * jcp.NGroups, jcp.IH, jcp.IW}, DataType: tensor.Float32, Format: jcp.SrcFmt}
}

// WeightsDesc returns the memory descriptor of the weights the kernel reads.
func (jcp *Config) WeightsDesc() memory.Desc {
	if jcp.WithGroups {
		return memory.Desc{Dims: []int{jcp.NGroups, jcp.OC, jcp.IC, jcp.KH, jcp.KW}, DataType: tensor.Float32, Format: jcp.WeightsFmt}
	}
	return memory.Desc{Dims: []int{jcp.OC, jcp.IC, jcp.KH, jcp.KW}, DataType: tensor.Float32, Format: jcp.WeightsFmt}
}

// DstDesc returns the memory descriptor of the destination the kernel writes.
func (jcp *Config) DstDesc() memory.Desc {
	return memory.Desc{Dims: []int{jcp.MB, jcp.OC * jcp.NGroups, jcp.OH, jcp.OW}, DataType: tensor.Float32, Format: jcp.DstFmt}
}
