// Package memory describes tensors as logical dimensions plus a physical
// layout tag, and maps logical indices to element offsets for every layout
// the convolution kernel reads or writes.
package memory

// Format tags the physical layout of a tensor.
type Format int

// Layouts. Names follow the usual convention: upper-case letters are full
// dimensions, a lower-case letter with a number is the inner block of that
// dimension (nChw8c keeps channels in blocks of 8 innermost).
const (
	// Undef marks an absent tensor (no bias).
	Undef Format = iota
	// Any lets the implementation choose.
	Any
	// X is a flat one-dimensional layout.
	X
	NCHW
	NHWC
	NChw8c
	NChw16c
	OIHW
	OIhw8i8o
	OIhw16i16o
	Ohwi8o
	Ohwi16o
	GOIHW
	GOIhw8i8o
	GOIhw16i16o
)

var formatNames = map[Format]string{
	Undef:       "undef",
	Any:         "any",
	X:           "x",
	NCHW:        "nchw",
	NHWC:        "nhwc",
	NChw8c:      "nChw8c",
	NChw16c:     "nChw16c",
	OIHW:        "oihw",
	OIhw8i8o:    "OIhw8i8o",
	OIhw16i16o:  "OIhw16i16o",
	Ohwi8o:      "Ohwi8o",
	Ohwi16o:     "Ohwi16o",
	GOIHW:       "goihw",
	GOIhw8i8o:   "gOIhw8i8o",
	GOIhw16i16o: "gOIhw16i16o",
}

// String returns the conventional layout name.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// Rank returns the number of logical dimensions the layout describes,
// or 0 for Undef and Any.
func (f Format) Rank() int {
	switch f {
	case X:
		return 1
	case NCHW, NHWC, NChw8c, NChw16c, OIHW, OIhw8i8o, OIhw16i16o, Ohwi8o, Ohwi16o:
		return 4
	case GOIHW, GOIhw8i8o, GOIhw16i16o:
		return 5
	default:
		return 0
	}
}

// Block returns the channel block factor, or 1 for unblocked layouts.
func (f Format) Block() int {
	switch f {
	case NChw8c, OIhw8i8o, Ohwi8o, GOIhw8i8o:
		return 8
	case NChw16c, OIhw16i16o, Ohwi16o, GOIhw16i16o:
		return 16
	default:
		return 1
	}
}

// IsBlocked reports whether the layout splits a channel dimension into blocks.
func (f Format) IsBlocked() bool {
	return f.Block() > 1
}

// ChannelBlocked returns the activation layout blocked by block channels.
func ChannelBlocked(block int) Format {
	if block == 16 {
		return NChw16c
	}
	return NChw8c
}

// WeightsBlocked returns the symmetric input/output-blocked weights layout.
func WeightsBlocked(block int) Format {
	if block == 16 {
		return OIhw16i16o
	}
	return OIhw8i8o
}

// WeightsOutputBlocked returns the weights layout blocking only output channels.
func WeightsOutputBlocked(block int) Format {
	if block == 16 {
		return Ohwi16o
	}
	return Ohwi8o
}

// WeightsGroupedBlocked returns the grouped, symmetric blocked weights layout.
func WeightsGroupedBlocked(block int) Format {
	if block == 16 {
		return GOIhw16i16o
	}
	return GOIhw8i8o
}
