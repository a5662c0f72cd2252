package engine

import "github.com/coregx/browscap/prefilter"

// Config controls engine behavior.
//
// Example:
//
//	config := engine.DefaultConfig()
//	config.TrackFilters = true // Count how often each filter prunes
//	e, err := engine.New(rules, interner, defaults, config)
type Config struct {
	// EnableFilters enables the exclusion filter layer.
	// When false, every query scans all rules in order. Results are identical
	// either way; only speed differs.
	// Default: true
	EnableFilters bool

	// Prefixes are the texts of the "must start with" filters.
	// Default: prefilter.CommonPrefixes()
	Prefixes []string

	// Substrings are the texts of the "must contain" filters.
	// A '?' inside a text matches any single byte of the query.
	// Default: prefilter.CommonSubstrings()
	Substrings []string

	// TrackFilters enables per-filter effectiveness counters, reported by
	// Engine.FilterStats. Costs one atomic add per fired filter per query.
	// Default: false
	TrackFilters bool
}

// maxFilters bounds the filter count: every filter is evaluated on every
// query, so thousands of them cost more than they prune.
const maxFilters = 1024

// DefaultConfig returns the configuration used for browscap catalogues.
func DefaultConfig() Config {
	return Config{
		EnableFilters: true,
		Prefixes:      prefilter.CommonPrefixes(),
		Substrings:    prefilter.CommonSubstrings(),
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - Prefixes, Substrings: no empty text
//   - len(Prefixes) + len(Substrings): at most 1024
func (c Config) Validate() error {
	if !c.EnableFilters {
		return nil
	}
	for _, p := range c.Prefixes {
		if p == "" {
			return &ConfigError{
				Field:   "Prefixes",
				Message: "must not contain empty text",
			}
		}
	}
	for _, s := range c.Substrings {
		if s == "" {
			return &ConfigError{
				Field:   "Substrings",
				Message: "must not contain empty text",
			}
		}
	}
	if len(c.Prefixes)+len(c.Substrings) > maxFilters {
		return &ConfigError{
			Field:   "Substrings",
			Message: "at most 1024 filters in total",
		}
	}
	return nil
}
