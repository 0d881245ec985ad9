package memory

import (
	"testing"

	"github.com/born-ml/jitconv/internal/status"
	"github.com/born-ml/jitconv/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMetadata(t *testing.T) {
	assert.Equal(t, 8, NChw8c.Block())
	assert.Equal(t, 16, GOIhw16i16o.Block())
	assert.Equal(t, 1, NCHW.Block())
	assert.False(t, Ohwi8o.Block() == 1)
	assert.Equal(t, 5, GOIhw8i8o.Rank())
	assert.Equal(t, 0, Any.Rank())
	assert.Equal(t, "nChw8c", NChw8c.String())
	assert.Equal(t, "unknown", Format(999).String())
}

func TestSetFormat(t *testing.T) {
	d := NewDesc(tensor.Dims{2, 16, 5, 5}, tensor.Float32, Any)

	require.NoError(t, d.SetFormat(NChw8c))
	assert.Equal(t, NChw8c, d.Format)

	err := d.SetFormat(GOIhw8i8o)
	assert.ErrorIs(t, err, status.ErrInvalidArgument)
	assert.Equal(t, NChw8c, d.Format)

	assert.ErrorIs(t, d.SetFormat(Any), status.ErrInvalidArgument)
}

// Every layout must map the logical index space one-to-one onto the
// physical buffer when channels are a multiple of the block.
func TestOffsetIsBijective(t *testing.T) {
	tests := []struct {
		format Format
		dims   tensor.Dims
	}{
		{NCHW, tensor.Dims{2, 3, 4, 5}},
		{NHWC, tensor.Dims{2, 3, 4, 5}},
		{NChw8c, tensor.Dims{2, 16, 3, 3}},
		{NChw16c, tensor.Dims{1, 32, 2, 3}},
		{OIHW, tensor.Dims{8, 3, 3, 3}},
		{OIhw8i8o, tensor.Dims{16, 8, 3, 3}},
		{OIhw16i16o, tensor.Dims{16, 32, 1, 2}},
		{Ohwi8o, tensor.Dims{16, 3, 3, 3}},
		{GOIHW, tensor.Dims{2, 4, 3, 2, 2}},
		{GOIhw8i8o, tensor.Dims{2, 8, 16, 3, 3}},
		{X, tensor.Dims{24}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			d := NewDesc(tt.dims, tensor.Float32, tt.format)
			n := d.NumElements()
			require.Equal(t, tt.dims.NumElements(), n)

			seen := make([]bool, n)
			forEachIndex(tt.dims, func(idx []int) {
				off := d.Offset(idx...)
				require.GreaterOrEqual(t, off, 0)
				require.Less(t, off, n)
				require.False(t, seen[off], "offset %d hit twice", off)
				seen[off] = true
			})
		})
	}
}

func TestBlockedOffsets(t *testing.T) {
	src := NewDesc(tensor.Dims{1, 16, 2, 2}, tensor.Float32, NChw8c)
	// channel 9 lives in the second block, lane 1
	assert.Equal(t, (1*2*2+0)*8+1, src.Offset(0, 9, 0, 0))

	w := NewDesc(tensor.Dims{16, 8, 1, 1}, tensor.Float32, OIhw8i8o)
	// o=10 -> block 1, lane 2; i=3 -> block 0, lane 3
	assert.Equal(t, 1*64+3*8+2, w.Offset(10, 3, 0, 0))

	flat := NewDesc(tensor.Dims{8, 3, 1, 1}, tensor.Float32, Ohwi8o)
	assert.Equal(t, 2*8+5, flat.Offset(5, 2, 0, 0))
}

func TestNumElementsPadsBlocks(t *testing.T) {
	d := NewDesc(tensor.Dims{1, 3, 4, 4}, tensor.Float32, NChw8c)
	assert.Equal(t, 8*4*4, d.NumElements())
}

func TestOffsetPanicsOnAny(t *testing.T) {
	d := NewDesc(tensor.Dims{1, 8, 1, 1}, tensor.Float32, Any)
	assert.Panics(t, func() { d.Offset(0, 0, 0, 0) })
}

func forEachIndex(dims tensor.Dims, f func(idx []int)) {
	idx := make([]int, len(dims))
	for {
		f(idx)
		k := len(dims) - 1
		for k >= 0 {
			idx[k]++
			if idx[k] < dims[k] {
				break
			}
			idx[k] = 0
			k--
		}
		if k < 0 {
			return
		}
	}
}
