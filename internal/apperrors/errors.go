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

// ErrOverpayment indicates that a payment would take an obligation's paid amount above its total.
var ErrOverpayment = errors.New("payment exceeds outstanding amount")

// ErrConflict indicates a lock or version clash between concurrent writers.
// Callers may retry the operation.
var ErrConflict = errors.New("concurrent modification conflict")

// ErrForbidden indicates the caller may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is returned when an unexpected infrastructure failure occurs.
var ErrInternal = errors.New("internal error")

// AppError wraps an underlying error with an HTTP-ish status code and a message
// suitable for logs. It unwraps to the underlying error so errors.Is keeps working.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Kind returns a short, stable name for the error category, used in API responses.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrOverpayment):
		return "overpayment"
	case errors.Is(err, ErrConflict):
		return "concurrency_conflict"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	default:
		return "internal_error"
	}
}
