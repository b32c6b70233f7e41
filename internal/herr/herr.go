// Package herr defines the typed errors shared by the loaders, extractors
// and the public hydrograph package. Each type matches its sentinel with
// errors.Is, so callers can branch on the category and still read the
// details with errors.As.
package herr

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedModel = errors.New("unsupported model")
	ErrUnknownField     = errors.New("unknown field")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrShapeMismatch    = errors.New("shape mismatch")
	ErrMalformedSource  = errors.New("malformed source")
	ErrIndexOutOfBounds = errors.New("index out of bounds")
)

// UnsupportedModelError names a model identifier with no registered family.
type UnsupportedModelError struct {
	Model string
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("model type %q is not supported", e.Model)
}

func (e *UnsupportedModelError) Is(target error) bool { return target == ErrUnsupportedModel }

// UnknownFieldError names an input label the model's field table lacks.
type UnknownFieldError struct {
	Model string
	Label string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: unknown field %q", e.Model, e.Label)
}

func (e *UnknownFieldError) Is(target error) bool { return target == ErrUnknownField }

// InvalidParameterError reports a missing or non-numeric parameter value.
type InvalidParameterError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("parameter %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("parameter %s=%q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool { return target == ErrInvalidParameter }

// ShapeMismatchError reports declared dimensions that disagree with the
// data found in the source.
type ShapeMismatchError struct {
	Source   string
	Declared string
	Expected int
	Actual   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: declared %s gives %d values, source has %d", e.Source, e.Declared, e.Expected, e.Actual)
}

func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// MalformedSourceError reports a text source that breaks the expected
// grammar. Line is 1-based; zero when no line applies.
type MalformedSourceError struct {
	Source string
	Line   int
	Reason string
}

func (e *MalformedSourceError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

func (e *MalformedSourceError) Is(target error) bool { return target == ErrMalformedSource }

// IndexOutOfBoundsError reports a locator outside [Min, Max].
type IndexOutOfBoundsError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("%s %d is outside the valid range %d..%d", e.Field, e.Value, e.Min, e.Max)
}

func (e *IndexOutOfBoundsError) Is(target error) bool { return target == ErrIndexOutOfBounds }
