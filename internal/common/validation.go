package common

import (
	"fmt"
)

// CoercionError reports a required field that is missing or cannot be
// coerced to its destination type.
type CoercionError struct {
	Table   string
	Field   string
	Value   any
	Message string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s.%s with value '%v': %s", e.Table, e.Field, e.Value, e.Message)
}

func (e *CoercionError) Unwrap() error {
	return ErrTypeCoercion
}

// Required builds the error for a missing required field.
func Required(table, field string) *CoercionError {
	return &CoercionError{Table: table, Field: field, Message: "is required"}
}

// NotCoercible builds the error for a required field holding an unusable value.
func NotCoercible(table, field string, value any, want string) *CoercionError {
	return &CoercionError{
		Table:   table,
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be coercible to %s", want),
	}
}
