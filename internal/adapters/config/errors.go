package config

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a configuration value was rejected.
type ErrorKind int

const (
	MissingField ErrorKind = iota + 1
	OutOfRange
	TypeMismatch
)

var (
	ErrMissingField = errors.New("missing field")
	ErrOutOfRange   = errors.New("value out of range")
	ErrTypeMismatch = errors.New("type mismatch")
)

func (k ErrorKind) String() string {
	switch k {
	case MissingField:
		return "missing-field"
	case OutOfRange:
		return "out-of-range"
	case TypeMismatch:
		return "type-mismatch"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case MissingField:
		return ErrMissingField
	case OutOfRange:
		return ErrOutOfRange
	case TypeMismatch:
		return ErrTypeMismatch
	default:
		return nil
	}
}

// ConfigError describes one rejected option. errors.Is matches it against
// ErrMissingField, ErrOutOfRange or ErrTypeMismatch according to Kind.
type ConfigError struct {
	Kind  ErrorKind
	Field string
	// Value is the offending raw value. It is left empty for secrets.
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config %s: %s", e.Field, e.Kind)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got %q)", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Errors flattens err, which may be a single *ConfigError or an errors.Join
// of several, into its ConfigError parts.
func Errors(err error) []*ConfigError {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*ConfigError
		for _, e := range joined.Unwrap() {
			out = append(out, Errors(e)...)
		}
		return out
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return []*ConfigError{ce}
	}
	return nil
}

func newError(kind ErrorKind, field, value string, err error) *ConfigError {
	return &ConfigError{Kind: kind, Field: field, Value: value, Err: err}
}
