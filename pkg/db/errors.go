package db

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("db: not found")

	// ErrWriteConflict is returned when a committed write raced with another
	// writer on the same shift. Callers may retry the whole transaction.
	ErrWriteConflict = errors.New("db: write conflict")

	// ErrDuplicate is returned when an insert violates a uniqueness constraint
	ErrDuplicate = errors.New("db: duplicate record")
)
