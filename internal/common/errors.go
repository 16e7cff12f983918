// Package common defines shared constants and sentinel errors used across
// the learnhub identity core. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal           = errors.New("internal error")
	ErrorValidation         = errors.New("validation failed")
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// ErrTransient reports a store call that did not finish in time.
	ErrTransient = errors.New("temporarily unavailable")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrConfiguration marks settings the process cannot start with.
	ErrConfiguration = errors.New("invalid configuration")
)

// GenericErrorMessage is what callers show for failures that must not be
// echoed verbatim.
const GenericErrorMessage = "Something went wrong"
