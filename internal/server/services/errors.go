package services

import (
	"github.com/dmitrijs2005/learnhub/internal/common"
	"github.com/dmitrijs2005/learnhub/internal/server/validation"
)

// serviceError is a caller-facing error with a fixed message that still
// matches its common sentinel via errors.Is.
type serviceError struct {
	msg  string
	kind error
}

func (e *serviceError) Error() string { return e.msg }

func (e *serviceError) Unwrap() error { return e.kind }

var (
	ErrUserNotFound    error = &serviceError{"User with given id not found", common.ErrorNotFound}
	ErrRoleNotFound    error = &serviceError{"Role with given id not found", common.ErrorNotFound}
	ErrInvalidLogin    error = &serviceError{"Invalid username or password", common.ErrorInvalidCredentials}
	ErrInvalidPassword error = &serviceError{"Invalid password", common.ErrorInvalidCredentials}
)

// errTaken is reported when the store rejects a duplicate username or email.
var errTaken error = &validation.Error{FieldError: validation.FieldError{
	Field:   "Username",
	Message: "username or email already taken",
}}
