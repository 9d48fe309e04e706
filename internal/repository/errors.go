package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an insert collides with an existing
	// record on a unique constraint.
	ErrDuplicate = errors.New("record already exists")
)
