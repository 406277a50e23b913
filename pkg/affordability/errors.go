package affordability

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidParameter is the single failure kind of the calculator. Every
// validation failure wraps it, so callers can test with errors.Is.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParameterError describes which input was rejected and why.
type ParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s=%s %s", ErrInvalidParameter, e.Name,
		strconv.FormatFloat(e.Value, 'g', -1, 64), e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidParameter.
func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

func invalid(name string, value float64, reason string) error {
	return &ParameterError{Name: name, Value: value, Reason: reason}
}
