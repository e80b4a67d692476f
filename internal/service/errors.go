package service

import (
	"errors"
	"sort"

	"github.com/jellydator/validation"
)

var (
	ErrUnauthorized       error = errors.New("unauthorized")
	ErrUserExists         error = errors.New("user already exists")
	ErrInvalidCredentials error = errors.New("invalid credentials")
	ErrTodoNotFound       error = errors.New("todo not found")
	ErrResetLinkExpired   error = errors.New("invalid or expired reset link")
)

// ValidationError carries a message meant for the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// newValidationError turns the result of a Validate call into a single
// ValidationError, picking the first failing field in alphabetical order.
func newValidationError(err error) error {
	var errs validation.Errors
	if errors.As(err, &errs) {
		fields := make([]string, 0, len(errs))
		for field := range errs {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			if errs[field] != nil {
				return &ValidationError{Field: field, Message: errs[field].Error()}
			}
		}
	}
	return &ValidationError{Message: err.Error()}
}
