package eir

import "errors"

var (
	// ErrNotFound is returned when a filesystem entry does not exist
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied is returned when a filesystem entry cannot be inspected
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoGenerator is returned when no content strategy matches a resource
	ErrNoGenerator = errors.New("no generator")
)
