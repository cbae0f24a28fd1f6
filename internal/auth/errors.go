package auth

import "errors"

// Expected, user-facing outcomes. Anything else wraps ErrStorage and is
// surfaced to the caller as an opaque failure.
var (
	ErrValidation    = errors.New("auth: invalid username or password format")
	ErrUsernameTaken = errors.New("auth: username already taken")
	ErrUnauthorized  = errors.New("auth: invalid username or password")
	ErrStorage       = errors.New("auth: storage failure")
)
