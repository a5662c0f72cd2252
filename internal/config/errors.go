package config

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDataFile is returned when no catalogue file is configured.
	ErrNoDataFile = errors.New("config: data_file is empty")

	// ErrUnknownKey is returned when the TOML file holds a key Config does
	// not define.
	ErrUnknownKey = errors.New("config: unknown key")

	// ErrParsingEnv is returned when environment variables cannot be parsed
	// into the configuration.
	ErrParsingEnv = errors.New("config: failed to parse environment variables")
)

// ValueError reports an out-of-range configuration value.
type ValueError struct {
	Key     string
	Value   string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("config: invalid %s %q: %s", e.Key, e.Value, e.Message)
}
