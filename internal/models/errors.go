package models

import "errors"

// Validation errors: surfaced verbatim so the requester can correct input.
var (
	ErrEmptyField       = errors.New("username and password are required")
	ErrEmptyTitle       = errors.New("title is required")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
)

// Authentication errors.
var (
	ErrDuplicateUsername  = errors.New("username is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Internal distinction behind ErrInvalidCredentials; never shown to users.
	ErrUnknownUser = errors.New("user not found")
	ErrBadPassword = errors.New("password mismatch")
)

// Authorization errors.
var (
	ErrNotAuthenticated = errors.New("authentication required")
	ErrNotOwner         = errors.New("post belongs to another user")
)

var ErrNotFound = errors.New("not found")
