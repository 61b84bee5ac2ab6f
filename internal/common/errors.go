// Package common defines shared constants and sentinel errors used across
// client and server layers of Postboard. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrValidation         = errors.New("validation failed")
	ErrMissingCredentials = errors.New("missing credentials")

	// Auth errors. ErrMissingToken and ErrUserNotFound stay distinct from
	// ErrInvalidToken so the HTTP layer can report the 401 cause precisely.
	ErrMissingToken = errors.New("authentication token required")
	ErrInvalidToken = errors.New("invalid token")
	ErrUserNotFound = errors.New("user not found")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Uniqueness violations, mapped from the database constraint that fired.
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already taken")
)
