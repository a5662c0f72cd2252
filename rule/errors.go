package rule

import (
	"errors"
	"fmt"
)

// Common rule errors
var (
	// ErrEmptyPattern indicates a pattern with no characters
	ErrEmptyPattern = errors.New("empty pattern")

	// ErrRoundTrip indicates a pattern whose decomposition does not
	// reconstruct the pattern text
	ErrRoundTrip = errors.New("pattern does not survive decomposition")
)

// DecodeError reports a pattern that could not be decomposed into a rule.
// It is fatal to the whole catalogue build.
type DecodeError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("unable to parse pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error
func (e *DecodeError) Unwrap() error {
	return e.Err
}
