// Package tensor provides the data types, dimensions and bound tensor handles
// shared by the convolution primitive, its memory descriptors and the kernel.
package tensor

// DataType represents runtime type information for tensor elements.
type DataType int

// Supported data types. DataTypeUndef is the zero value and marks a descriptor
// that was never filled in.
const (
	DataTypeUndef DataType = iota
	Float32
	Float64
	Int32
	Int16
	Int8
	Uint8
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float64:
		return 8
	case Float32, Int32:
		return 4
	case Int16:
		return 2
	case Int8, Uint8:
		return 1
	default:
		panic("unknown data type")
	}
}

// Valid reports whether dt is a concrete element type.
func (dt DataType) Valid() bool {
	return dt >= Float32 && dt <= Uint8
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case DataTypeUndef:
		return "undef"
	case Float32:
		return "f32"
	case Float64:
		return "f64"
	case Int32:
		return "s32"
	case Int16:
		return "s16"
	case Int8:
		return "s8"
	case Uint8:
		return "u8"
	default:
		return "unknown"
	}
}

// Everyone reports whether every given type equals want.
func Everyone(want DataType, types ...DataType) bool {
	for _, dt := range types {
		if dt != want {
			return false
		}
	}
	return true
}
