// Package validation holds the request rule sets. Each rule set is a pure
// function that evaluates every rule and returns the failures in rule order.
// Callers surface only the first failure (see Errors.Err); the rest are kept
// for logging and tests.
package validation

import (
	"github.com/dmitrijs2005/learnhub/internal/common"
)

// FieldError is a single violated rule.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// Errors is the ordered list of failures produced by a rule set.
type Errors []FieldError

// Valid reports whether no rule failed.
func (es Errors) Valid() bool { return len(es) == 0 }

// First returns the first failure, if any.
func (es Errors) First() (FieldError, bool) {
	if len(es) == 0 {
		return FieldError{}, false
	}
	return es[0], true
}

// Err returns nil for a valid request, otherwise an *Error carrying only the
// first failure.
func (es Errors) Err() error {
	first, ok := es.First()
	if !ok {
		return nil
	}
	return &Error{FieldError: first}
}

// Error is returned to callers when a request fails validation.
// It matches common.ErrorValidation with errors.Is.
type Error struct {
	FieldError
}

func (e *Error) Error() string { return e.FieldError.String() }

func (e *Error) Unwrap() error { return common.ErrorValidation }
