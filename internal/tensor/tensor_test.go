package tensor

import (
	"testing"

	"github.com/born-ml/jitconv/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataType(t *testing.T) {
	tests := []struct {
		dt   DataType
		size int
		name string
	}{
		{Float32, 4, "f32"},
		{Float64, 8, "f64"},
		{Int32, 4, "s32"},
		{Int16, 2, "s16"},
		{Int8, 1, "s8"},
		{Uint8, 1, "u8"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.size, tt.dt.Size(), tt.name)
		assert.Equal(t, tt.name, tt.dt.String())
	}
	assert.Equal(t, "undef", DataTypeUndef.String())
	assert.False(t, DataTypeUndef.Valid())
	assert.False(t, DataType(42).Valid())
	assert.True(t, Uint8.Valid())
	assert.Panics(t, func() { DataTypeUndef.Size() })
}

func TestEveryone(t *testing.T) {
	assert.True(t, Everyone(Float32))
	assert.True(t, Everyone(Float32, Float32, Float32))
	assert.False(t, Everyone(Float32, Float32, Int8))
}

func TestDims(t *testing.T) {
	d := Dims{2, 3, 4}
	assert.Equal(t, 24, d.NumElements())
	assert.Equal(t, 0, Dims{}.NumElements())
	require.NoError(t, d.Validate())
	assert.Error(t, Dims{}.Validate())
	assert.Error(t, Dims{2, 0}.Validate())

	c := d.Clone()
	assert.True(t, d.Equal(c))
	c[0] = 9
	assert.False(t, d.Equal(c))
	assert.False(t, d.Equal(Dims{2, 3}))
	assert.Nil(t, Dims(nil).Clone())
}

func TestRawTensor(t *testing.T) {
	r, err := NewRaw(Dims{2, 3}, Float32, CPU)
	require.NoError(t, err)
	assert.Equal(t, 6, r.NumElements())
	assert.Equal(t, 24, r.ByteSize())
	assert.Equal(t, Float32, r.DType())
	assert.Equal(t, CPU, r.Device())

	f := r.AsFloat32()
	require.Len(t, f, 6)
	f[4] = 1.5
	assert.Equal(t, float32(1.5), r.AsFloat32()[4], "AsFloat32 is a view")

	_, err = NewRaw(Dims{2, -1}, Float32, CPU)
	assert.ErrorIs(t, err, status.ErrInvalidArgument)

	_, err = NewRaw(Dims{4}, DataTypeUndef, CPU)
	assert.ErrorIs(t, err, status.ErrInvalidArgument)

	i, err := NewRaw(Dims{4}, Int32, CPU)
	require.NoError(t, err)
	assert.Panics(t, func() { i.AsFloat32() })
}

func TestFromFloat32(t *testing.T) {
	src := []float32{1, 2, 3, 4}
	r, err := FromFloat32(Dims{2, 2}, src)
	require.NoError(t, err)
	src[0] = 100
	assert.Equal(t, []float32{1, 2, 3, 4}, r.AsFloat32())

	_, err = FromFloat32(Dims{3}, src)
	assert.ErrorIs(t, err, status.ErrInvalidArgument)
}

func TestDevice(t *testing.T) {
	assert.Equal(t, "CPU", CPU.String())
	assert.Equal(t, "GPU", GPU.String())
	assert.Equal(t, "Unknown", Device(9).String())
}
