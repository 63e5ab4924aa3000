package schema

import "errors"

var (
	ErrInvalidEntity   = errors.New("invalid entity")
	ErrInvalidField    = errors.New("invalid entity field")
	ErrDuplicateEntity = errors.New("duplicate entity")
	ErrDuplicateField  = errors.New("duplicate entity field")
)
