package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a state conflict, e.g. a contended entry number.
var ErrConflict = errors.New("resource conflict")

// ErrPeriodLocked indicates a posting targeted a locked accounting period.
var ErrPeriodLocked = errors.New("accounting period is locked")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-mappable code alongside a message and the wrapped
// cause. Handlers switch on Code; callers match the cause with errors.Is.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	if err == nil {
		err = ErrInternal
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates a 404 AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewValidationFailedError creates a 400 AppError wrapping ErrValidation.
func NewValidationFailedError(message string, err error) *AppError {
	if err == nil {
		err = ErrValidation
	}
	return &AppError{Code: 400, Message: message, Err: fmt.Errorf("%w: %w", ErrValidation, err)}
}

// NewConflictError creates a 409 AppError wrapping ErrConflict.
func NewConflictError(message string) *AppError {
	return &AppError{Code: 409, Message: message, Err: ErrConflict}
}
