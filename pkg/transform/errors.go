package transform

import "errors"

var (
	// ErrUnknownTransformer is returned when no transformer is registered under a name.
	ErrUnknownTransformer = errors.New("unknown transformer")

	// ErrUnsupportedValue is returned when a transformer cannot convert the given value.
	ErrUnsupportedValue = errors.New("value not supported by transformer")
)
