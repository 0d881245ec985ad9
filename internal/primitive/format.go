package primitive

import (
	"github.com/born-ml/jitconv/internal/memory"
	"github.com/born-ml/jitconv/internal/tensor"
)

// Role identifies which tensor of a convolution a format is chosen for.
type Role int

// Tensor roles.
const (
	RoleSrc Role = iota
	RoleWeights
	RoleBias
	RoleDst
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleSrc:
		return "src"
	case RoleWeights:
		return "weights"
	case RoleBias:
		return "bias"
	case RoleDst:
		return "dst"
	default:
		return "unknown"
	}
}

// flatChannels is the input channel count served with an unblocked source,
// the typical first layer of an image network.
const flatChannels = 3

// SelectFormat picks the layout a kernel blocking by block channels wants
// for a tensor of the given role. srcDims are the source's logical dims and
// grouped reports a leading group axis on the weights.
func SelectFormat(role Role, srcDims tensor.Dims, grouped bool, block int) memory.Format {
	flat := len(srcDims) > 1 && srcDims[1] == flatChannels
	switch role {
	case RoleSrc:
		if flat {
			return memory.NCHW
		}
		return memory.ChannelBlocked(block)
	case RoleDst:
		return memory.ChannelBlocked(block)
	case RoleWeights:
		switch {
		case grouped:
			return memory.WeightsGroupedBlocked(block)
		case flat:
			return memory.WeightsOutputBlocked(block)
		default:
			return memory.WeightsBlocked(block)
		}
	default:
		return memory.X
	}
}

// resolve sets md's format if it is still Any. Explicit formats are kept.
func resolve(md *memory.Desc, role Role, srcDims tensor.Dims, grouped bool, block int) error {
	if md.Format != memory.Any {
		return nil
	}
	return md.SetFormat(SelectFormat(role, srcDims, grouped, block))
}
