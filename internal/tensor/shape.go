package tensor

import "fmt"

// Dims holds the logical dimensions of a tensor, outermost first.
//
// Activations use [N, C, H, W], weights [OC, IC, KH, KW] or, for grouped
// convolutions, [G, OC/G, IC/G, KH, KW]; bias is [OC].
type Dims []int

// NumElements returns the total number of elements.
func (d Dims) NumElements() int {
	if len(d) == 0 {
		return 0
	}
	n := 1
	for _, dim := range d {
		n *= dim
	}
	return n
}

// Validate checks that all dimensions are positive.
func (d Dims) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("empty dimensions")
	}
	for i, dim := range d {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two dimension lists are equal.
func (d Dims) Equal(other Dims) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if d[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the dimensions.
func (d Dims) Clone() Dims {
	if d == nil {
		return nil
	}
	clone := make(Dims, len(d))
	copy(clone, d)
	return clone
}
