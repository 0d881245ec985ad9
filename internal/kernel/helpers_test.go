package kernel

import (
	"testing"

	"github.com/born-ml/jitconv/internal/conv"
	"github.com/born-ml/jitconv/internal/isa"
	"github.com/born-ml/jitconv/internal/memory"
	"github.com/born-ml/jitconv/internal/tensor"
	"github.com/stretchr/testify/require"
)

var sse42 = Target{ISA: isa.SSE42, SIMDWidth: 8}

type shape struct {
	mb, ic, oc, groups int
	ih, iw, kh, kw     int
	stride, pad        int
	bias               bool
}

// opDesc builds a descriptor with concrete formats picked the way the
// primitive layer picks them for a block of 8.
func opDesc(t *testing.T, s shape, prop conv.PropKind) *conv.OperationDesc {
	t.Helper()
	oh := (s.ih+2*s.pad-s.kh)/s.stride + 1
	ow := (s.iw+2*s.pad-s.kw)/s.stride + 1

	src := memory.NewDesc(tensor.Dims{s.mb, s.ic, s.ih, s.iw}, tensor.Float32, memory.NChw8c)
	if s.ic == 3 {
		src.Format = memory.NCHW
	}
	weights := memory.NewDesc(tensor.Dims{s.oc, s.ic, s.kh, s.kw}, tensor.Float32, memory.OIhw8i8o)
	if s.groups > 1 {
		weights = memory.NewDesc(tensor.Dims{s.groups, s.oc / s.groups, s.ic / s.groups, s.kh, s.kw},
			tensor.Float32, memory.GOIhw8i8o)
	} else if s.ic == 3 {
		weights.Format = memory.Ohwi8o
	}
	var bias memory.Desc
	if s.bias {
		bias = memory.NewDesc(tensor.Dims{s.oc}, tensor.Float32, memory.X)
	}
	dst := memory.NewDesc(tensor.Dims{s.mb, s.oc, oh, ow}, tensor.Float32, memory.NChw8c)

	cd, err := conv.NewDesc(prop, conv.Direct, src, weights, bias, dst,
		[2]int{s.stride, s.stride}, [2]int{s.pad, s.pad}, [2]int{s.pad, s.pad})
	require.NoError(t, err)
	return cd
}

func initConf(t *testing.T, cd *conv.OperationDesc, relu bool, slope float32) (Config, error) {
	t.Helper()
	return InitConf(cd, cd.Src, cd.Weights, cd.Dst, relu, slope, isa.AVX512Core, sse42)
}

// pack scatters a logical tensor, stored in row-major order of d.Dims,
// into d's physical layout.
func pack(d memory.Desc, logical []float32) []float32 {
	out := make([]float32, d.NumElements())
	i := 0
	eachIndex(d.Dims, func(idx []int) {
		out[d.Offset(idx...)] = logical[i]
		i++
	})
	return out
}

// unpack gathers d's physical layout back into row-major logical order.
func unpack(d memory.Desc, physical []float32) []float32 {
	out := make([]float32, d.Dims.NumElements())
	i := 0
	eachIndex(d.Dims, func(idx []int) {
		out[i] = physical[d.Offset(idx...)]
		i++
	})
	return out
}

func eachIndex(dims tensor.Dims, f func(idx []int)) {
	idx := make([]int, len(dims))
	for {
		f(idx)
		k := len(dims) - 1
		for ; k >= 0; k-- {
			idx[k]++
			if idx[k] < dims[k] {
				break
			}
			idx[k] = 0
		}
		if k < 0 {
			return
		}
	}
}

func ramp(n int, scale float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i%13-6) * scale
	}
	return out
}

// naiveConv computes a grouped convolution over logical NCHW / GOIHW data.
func naiveConv(s shape, src, weights, bias []float32, relu bool, slope float32) []float32 {
	g := max(s.groups, 1)
	oh := (s.ih+2*s.pad-s.kh)/s.stride + 1
	ow := (s.iw+2*s.pad-s.kw)/s.stride + 1
	icg, ocg := s.ic/g, s.oc/g

	out := make([]float32, s.mb*s.oc*oh*ow)
	for n := 0; n < s.mb; n++ {
		for oc := 0; oc < s.oc; oc++ {
			grp := oc / ocg
			for y := 0; y < oh; y++ {
				for x := 0; x < ow; x++ {
					var acc float32
					if bias != nil {
						acc = bias[oc]
					}
					for ic := 0; ic < icg; ic++ {
						for ky := 0; ky < s.kh; ky++ {
							for kx := 0; kx < s.kw; kx++ {
								iy := y*s.stride - s.pad + ky
								ix := x*s.stride - s.pad + kx
								if iy < 0 || iy >= s.ih || ix < 0 || ix >= s.iw {
									continue
								}
								sv := src[((n*s.ic+grp*icg+ic)*s.ih+iy)*s.iw+ix]
								wv := weights[((oc*icg+ic)*s.kh+ky)*s.kw+kx]
								acc += sv * wv
							}
						}
					}
					if relu && acc < 0 {
						acc *= slope
					}
					out[((n*s.oc+oc)*oh+y)*ow+x] = acc
				}
			}
		}
	}
	return out
}
