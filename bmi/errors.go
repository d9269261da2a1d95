package bmi

import "errors"

// InvalidInputMessage is shown to the user whenever inputs are rejected
const InvalidInputMessage = "Please enter valid height and weight values."

// ErrInvalidInput matches every *ValidationError via errors.Is
var ErrInvalidInput = errors.New("invalid input")

// ValidationError reports a missing, non-numeric, zero or negative required field.
// Field names the first offending input; the message is the same for all of them.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return InvalidInputMessage
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field string) error {
	return &ValidationError{Field: field}
}
