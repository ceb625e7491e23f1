package store

import "errors"

// Sentinel kinds for store errors. Callers branch with errors.Is.
var (
	// ErrValidation marks a missing or malformed required field. The
	// operation is aborted before any write.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateKey marks a unique-constraint violation (metric key,
	// team name).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound marks a lookup whose target row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrReference marks a write whose foreign-key target is missing,
	// e.g. logging an event against a deleted metric.
	ErrReference = errors.New("referenced record missing")
)
