package primitive

import (
	"testing"

	"github.com/born-ml/jitconv/internal/memory"
	"github.com/born-ml/jitconv/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectFormat(t *testing.T) {
	flat := tensor.Dims{1, 3, 224, 224}
	deep := tensor.Dims{1, 64, 56, 56}

	tests := []struct {
		name    string
		role    Role
		src     tensor.Dims
		grouped bool
		block   int
		want    memory.Format
	}{
		{"src flat", RoleSrc, flat, false, 8, memory.NCHW},
		{"src blocked", RoleSrc, deep, false, 8, memory.NChw8c},
		{"src blocked 16", RoleSrc, deep, false, 16, memory.NChw16c},
		{"dst", RoleDst, flat, false, 8, memory.NChw8c},
		{"dst 16", RoleDst, deep, true, 16, memory.NChw16c},
		{"weights grouped", RoleWeights, deep, true, 8, memory.GOIhw8i8o},
		{"weights grouped flat", RoleWeights, flat, true, 8, memory.GOIhw8i8o},
		{"weights flat", RoleWeights, flat, false, 8, memory.Ohwi8o},
		{"weights blocked", RoleWeights, deep, false, 8, memory.OIhw8i8o},
		{"weights blocked 16", RoleWeights, deep, false, 16, memory.OIhw16i16o},
		{"bias", RoleBias, deep, false, 8, memory.X},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectFormat(tt.role, tt.src, tt.grouped, tt.block))
		})
	}
}

func TestResolveKeepsExplicitFormats(t *testing.T) {
	src := tensor.Dims{1, 64, 8, 8}

	tests := []struct {
		role Role
		md   memory.Desc
	}{
		{RoleSrc, memory.NewDesc(src, tensor.Float32, memory.NHWC)},
		{RoleWeights, memory.NewDesc(tensor.Dims{64, 64, 3, 3}, tensor.Float32, memory.OIHW)},
		{RoleBias, memory.NewDesc(tensor.Dims{64}, tensor.Float32, memory.X)},
		{RoleDst, memory.NewDesc(tensor.Dims{1, 64, 6, 6}, tensor.Float32, memory.NCHW)},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			md := tt.md.Clone()
			require.NoError(t, resolve(&md, tt.role, src, false, 8))
			assert.Equal(t, tt.md.Format, md.Format)
		})
	}
}
