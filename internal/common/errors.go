package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrDecode marks an input unit whose raw content could not be parsed.
	ErrDecode = errors.New("decode failed")
	// ErrTypeCoercion marks a required field that is missing or not coercible.
	ErrTypeCoercion = errors.New("type coercion failed")
	// ErrPersistence marks a gateway failure for a single record.
	ErrPersistence = errors.New("persistence failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// DecodeError wraps err so that errors.Is(err, ErrDecode) holds.
func DecodeError(source string, err error) error {
	return NewAppError("DECODE_ERROR", source, fmt.Errorf("%w: %w", ErrDecode, err))
}

// PersistenceError wraps a gateway failure for one record.
func PersistenceError(table string, err error) error {
	return NewAppError("PERSISTENCE_ERROR", table, fmt.Errorf("%w: %w", ErrPersistence, err))
}
