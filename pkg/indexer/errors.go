package indexer

import "errors"

var (
	// ErrUnknownEntity is returned for an entity that is not declared indexable.
	ErrUnknownEntity = errors.New("entity is not indexable")

	// ErrInvalidSchema is returned when the informer is given an unusable entity schema.
	ErrInvalidSchema = errors.New("invalid indexing schema")

	// ErrQueueClosed is returned by queue operations after Close.
	ErrQueueClosed = errors.New("indexing queue closed")

	// ErrInvalidEvent is returned when a queued payload cannot be decoded.
	ErrInvalidEvent = errors.New("invalid indexing event")

	// ErrNilDependency is returned when a constructor is given a nil collaborator.
	ErrNilDependency = errors.New("nil dependency")
)
