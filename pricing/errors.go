package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a parameter-level validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedInstrument marks a valid request that the chosen engine does not serve.
	ErrUnsupportedInstrument = errors.New("unsupported instrument")
)

// Error is the typed failure returned by every pricing operation.
//
// Kind is one of ErrInvalidInput or ErrUnsupportedInstrument, so callers can
// branch with errors.Is(err, pricing.ErrInvalidInput).
type Error struct {
	Kind error
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// InvalidInput builds an *Error of kind ErrInvalidInput.
func InvalidInput(op, format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Unsupported builds an *Error of kind ErrUnsupportedInstrument.
func Unsupported(op, format string, args ...any) error {
	return &Error{Kind: ErrUnsupportedInstrument, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// IsInvalidInput reports whether err is (or wraps) an invalid-input failure.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnsupported reports whether err is (or wraps) an unsupported-instrument failure.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedInstrument)
}
