package config

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError_Is(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind ErrorKind
		want error
	}{
		{MissingField, ErrMissingField},
		{OutOfRange, ErrOutOfRange},
		{TypeMismatch, ErrTypeMismatch},
	}

	all := []error{ErrMissingField, ErrOutOfRange, ErrTypeMismatch}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.kind.String(), func(t *testing.T) {
			t.Parallel()

			err := fmt.Errorf("loading: %w", newError(tt.kind, "port", "x", nil))
			for _, sentinel := range all {
				assert.Equal(t, sentinel == tt.want, errors.Is(err, sentinel), "errors.Is(%v, %v)", err, sentinel)
			}
		})
	}
}

func TestConfigError_Message(t *testing.T) {
	t.Parallel()

	cause := errors.New("port must be between 1 and 65535")
	err := newError(OutOfRange, "port", "70000", cause)

	assert.Equal(t, `config port: out-of-range (got "70000"): port must be between 1 and 65535`, err.Error())
	assert.ErrorIs(t, err, cause)

	bare := newError(MissingField, "masters", "", nil)
	assert.Equal(t, "config masters: missing-field", bare.Error())
}

func TestErrors_Flattens(t *testing.T) {
	t.Parallel()

	a := newError(OutOfRange, "port", "0", nil)
	b := newError(MissingField, "masters", "", nil)
	c := newError(TypeMismatch, "verbose", "maybe", nil)

	joined := errors.Join(a, errors.Join(b, c))
	assert.Equal(t, []*ConfigError{a, b, c}, Errors(joined))
	assert.Equal(t, []*ConfigError{a}, Errors(a))
	assert.Nil(t, Errors(nil))
	assert.Nil(t, Errors(errors.New("plain")))
}

func TestErrorKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "missing-field", MissingField.String())
	assert.Equal(t, "out-of-range", OutOfRange.String())
	assert.Equal(t, "type-mismatch", TypeMismatch.String())
	assert.Equal(t, "unknown", ErrorKind(0).String())
}
