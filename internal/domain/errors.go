package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when a record does not exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when a project name is already taken
	ErrDuplicateName = errors.New("project name already exists")

	// ErrConflict signals that the store rejected a unit of work because a
	// concurrent one touched the same records (serialization failure, lock timeout)
	ErrConflict = errors.New("concurrent modification conflict")

	// ErrInvalidInput wraps entity validation failures
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCounterpart is returned when an entity is matched against its own kind
	ErrInvalidCounterpart = errors.New("invalid counterpart kind")
)
