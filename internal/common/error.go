// Package common defines sentinel errors shared by the server and the CLI
// client. Callers should use errors.Is to match these values; services wrap
// them with a human readable detail ("%w: title is required").
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("invalid credentials")

	// Input errors.
	ErrValidation = errors.New("validation error")
	ErrInvalidID  = errors.New("invalid id")

	// Session errors. The HTTP layer answers all of them with the same 401.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidSession   = errors.New("invalid session")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
)
