package git

import "errors"

var (
	// ErrNotFound is returned when an object or reference does not exist.
	ErrNotFound = errors.New("not found")
	// ErrWrongKind is returned when an object exists but has an unexpected type.
	ErrWrongKind = errors.New("wrong object kind")
	// ErrInvalidRepository is returned when a path is not an openable repository.
	ErrInvalidRepository = errors.New("invalid repository")
)
