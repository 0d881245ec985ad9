package memory

import (
	"fmt"

	"github.com/born-ml/jitconv/internal/status"
	"github.com/born-ml/jitconv/internal/tensor"
)

// Desc describes one tensor: logical dimensions, element type and layout.
type Desc struct {
	Dims     tensor.Dims
	DataType tensor.DataType
	Format   Format
}

// NewDesc creates a descriptor, copying dims.
func NewDesc(dims tensor.Dims, dt tensor.DataType, f Format) Desc {
	return Desc{Dims: dims.Clone(), DataType: dt, Format: f}
}

// Present reports whether the descriptor describes a tensor at all.
func (d Desc) Present() bool {
	return d.Format != Undef
}

// Clone returns a deep copy.
func (d Desc) Clone() Desc {
	return Desc{Dims: d.Dims.Clone(), DataType: d.DataType, Format: d.Format}
}

// Equal reports whether two descriptors are identical.
func (d Desc) Equal(other Desc) bool {
	return d.DataType == other.DataType && d.Format == other.Format && d.Dims.Equal(other.Dims)
}

// SetFormat sets a concrete layout, checking it against the dims' rank.
func (d *Desc) SetFormat(f Format) error {
	if f == Any || f == Undef {
		return status.InvalidArgument("cannot set format %s", f)
	}
	if f.Rank() != len(d.Dims) {
		return status.InvalidArgument("format %s needs %d dims, desc has %d", f, f.Rank(), len(d.Dims))
	}
	d.Format = f
	return nil
}

// String renders the descriptor for logs.
func (d Desc) String() string {
	return fmt.Sprintf("%s:%s%v", d.DataType, d.Format, []int(d.Dims))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func roundUp(a, b int) int {
	return ceilDiv(a, b) * b
}

// NumElements returns the number of physical elements, including the
// padding blocked layouts add when a channel count is not a multiple of the
// block factor.
func (d Desc) NumElements() int {
	b := d.Format.Block()
	dims := d.Dims
	switch d.Format {
	case NChw8c, NChw16c:
		return dims[0] * roundUp(dims[1], b) * dims[2] * dims[3]
	case OIhw8i8o, OIhw16i16o:
		return roundUp(dims[0], b) * roundUp(dims[1], b) * dims[2] * dims[3]
	case Ohwi8o, Ohwi16o:
		return roundUp(dims[0], b) * dims[1] * dims[2] * dims[3]
	case GOIhw8i8o, GOIhw16i16o:
		return dims[0] * roundUp(dims[1], b) * roundUp(dims[2], b) * dims[3] * dims[4]
	default:
		return dims.NumElements()
	}
}

// Offset maps a logical index, in the order of Dims, to the element offset
// within a buffer laid out as Format. Panics on Any and Undef.
func (d Desc) Offset(idx ...int) int {
	if len(idx) != len(d.Dims) {
		panic(fmt.Sprintf("memory: index rank %d != desc rank %d", len(idx), len(d.Dims)))
	}
	dims := d.Dims
	b := d.Format.Block()
	switch d.Format {
	case X:
		return idx[0]
	case NCHW, OIHW:
		return ((idx[0]*dims[1]+idx[1])*dims[2]+idx[2])*dims[3] + idx[3]
	case NHWC:
		n, c, h, w := idx[0], idx[1], idx[2], idx[3]
		return ((n*dims[2]+h)*dims[3]+w)*dims[1] + c
	case NChw8c, NChw16c:
		n, c, h, w := idx[0], idx[1], idx[2], idx[3]
		nbC := ceilDiv(dims[1], b)
		return (((n*nbC+c/b)*dims[2]+h)*dims[3]+w)*b + c%b
	case OIhw8i8o, OIhw16i16o:
		return oihwBlocked(dims, idx, b)
	case Ohwi8o, Ohwi16o:
		o, i, kh, kw := idx[0], idx[1], idx[2], idx[3]
		return ((((o/b)*dims[2]+kh)*dims[3]+kw)*dims[1]+i)*b + o%b
	case GOIHW:
		perGroup := dims[1] * dims[2] * dims[3] * dims[4]
		return idx[0]*perGroup + (((idx[1]*dims[2]+idx[2])*dims[3]+idx[3])*dims[4] + idx[4])
	case GOIhw8i8o, GOIhw16i16o:
		perGroup := roundUp(dims[1], b) * roundUp(dims[2], b) * dims[3] * dims[4]
		return idx[0]*perGroup + oihwBlocked(dims[1:], idx[1:], b)
	default:
		panic(fmt.Sprintf("memory: no offsets for format %s", d.Format))
	}
}

func oihwBlocked(dims tensor.Dims, idx []int, b int) int {
	o, i, kh, kw := idx[0], idx[1], idx[2], idx[3]
	nbI := ceilDiv(dims[1], b)
	return ((((o/b)*nbI+i/b)*dims[2]+kh)*dims[3]+kw)*b*b + (i%b)*b + o%b
}
