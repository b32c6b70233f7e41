package hydrograph

import (
	"errors"

	"github.com/zarladar/interactive-hydrograph/internal/herr"
)

// Error types. Each matches its sentinel below with errors.Is.
type (
	UnsupportedModelError = herr.UnsupportedModelError
	UnknownFieldError     = herr.UnknownFieldError
	InvalidParameterError = herr.InvalidParameterError
	ShapeMismatchError    = herr.ShapeMismatchError
	MalformedSourceError  = herr.MalformedSourceError
	IndexOutOfBoundsError = herr.IndexOutOfBoundsError
)

var (
	ErrUnsupportedModel = herr.ErrUnsupportedModel
	ErrUnknownField     = herr.ErrUnknownField
	ErrInvalidParameter = herr.ErrInvalidParameter
	ErrShapeMismatch    = herr.ErrShapeMismatch
	ErrMalformedSource  = herr.ErrMalformedSource
	ErrIndexOutOfBounds = herr.ErrIndexOutOfBounds

	// ErrArrayModelMismatch is returned by Extract when the array was
	// loaded by a different model family.
	ErrArrayModelMismatch = errors.New("array does not belong to model")
)
