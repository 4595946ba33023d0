package http

import "errors"

var (
	// ErrUnauthorized is returned when the admin token is missing or wrong.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStoreUnavailable wraps failures of the cache's backing store.
	ErrStoreUnavailable = errors.New("cache store unavailable")
)
