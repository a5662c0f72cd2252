package capability

import (
	"errors"
	"fmt"
)

// ErrUnknownField indicates a field name that is not a catalogue column.
var ErrUnknownField = errors.New("unknown field")

// FieldError reports a field name that could not be parsed.
type FieldError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("capability: %v %q", e.Err, e.Name)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}
