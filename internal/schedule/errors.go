package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches any NotFoundError.
	ErrNotFound = errors.New("schedule not found")

	// ErrUnsupportedField matches any UnsupportedFieldError.
	ErrUnsupportedField = errors.New("field not supported on todo items")

	// ErrDetailRequired is the cause when a detailed draft lacks time or content.
	ErrDetailRequired = errors.New("required for detailed schedules")
)

// ValidationError represents invalid input with the field it concerns.
type ValidationError struct {
	Field string // Field name, e.g. "time" or "content"
	Err   error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an operation on an unknown id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("schedule with id %q not found", e.ID)
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UnsupportedFieldError reports a time or content change requested on a todo.
type UnsupportedFieldError struct {
	ID    string
	Field string
}

func (e *UnsupportedFieldError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("cannot set %s on a todo item", e.Field)
	}
	return fmt.Sprintf("cannot set %s on a todo item (%s)", e.Field, e.ID)
}

// Is makes errors.Is(err, ErrUnsupportedField) true.
func (e *UnsupportedFieldError) Is(target error) bool {
	return target == ErrUnsupportedField
}

// Warning reports a requested change that was skipped without failing the call.
type Warning struct {
	Err error
}

// String returns the warning message.
func (w Warning) String() string {
	if w.Err == nil {
		return ""
	}
	return w.Err.Error()
}

// Unwrap returns the underlying condition.
func (w Warning) Unwrap() error {
	return w.Err
}
