package engine

import "errors"

// Common engine errors
var (
	// ErrNoDefault indicates a missing default record
	ErrNoDefault = errors.New("engine: default capabilities required")

	// ErrNilRule indicates a nil entry in the rule slice
	ErrNilRule = errors.New("engine: nil rule")
)

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "engine: invalid config: " + e.Field + ": " + e.Message
}
