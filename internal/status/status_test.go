package status

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestWrappedSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unimplemented", Unimplemented("prop kind %d", 3), ErrUnimplemented},
		{"invalid", InvalidArgument("src rank %d", 2), ErrInvalidArgument},
		{"resources", OutOfResources("scratch %d bytes", 10), ErrOutOfResources},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.want)
			assert.Contains(t, tt.err.Error(), tt.want.Error())
		})
	}
}

func TestIsUnimplemented(t *testing.T) {
	assert.True(t, IsUnimplemented(Unimplemented("x")))
	assert.True(t, IsUnimplemented(errors.Wrap(Unimplemented("x"), "outer")))
	assert.False(t, IsUnimplemented(InvalidArgument("x")))
	assert.False(t, IsUnimplemented(nil))
}
