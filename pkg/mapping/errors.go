package mapping

import "errors"

var (
	ErrUnsupportedType     = errors.New("mapping is only supported for scalar types and dates unless a transform is declared")
	ErrMultiFieldName      = errors.New("multi field requires a unique index name")
	ErrDuplicateMultiField = errors.New("duplicate index name in the same multi field")
	ErrNoClient            = errors.New("no client given for mapping operations")
	ErrNotBuilt            = errors.New("backend mapping has not been built yet")
)
