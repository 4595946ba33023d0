package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for configuration validation.
var (
	ErrAddressRequired = errors.New("address is required")
	ErrInvalidAddress  = errors.New("address must be host:port")
	ErrConfigRequired  = errors.New("config is required")
)

// Errors for requests and responses.
var (
	ErrEmptyPath         = errors.New("path is required")
	ErrEmptyResponse     = errors.New("server closed the connection without a response")
	ErrMalformedResponse = errors.New("malformed response")
)
