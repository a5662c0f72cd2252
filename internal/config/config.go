// Package config loads the browscap command configuration.
//
// Values are layered: built-in defaults, then an optional TOML file, then
// environment variables (after loading .env files). Later layers override
// earlier ones key by key.
//
// Example file:
//
//	data_file  = "/var/lib/browscap/browscap.zip"
//	fields     = ["is_mobile_device", "is_crawler"]
//	cache_size = 100000
//	watch      = true
//
//	[log]
//	level = "debug"
//	file  = "/var/log/browscap.log"
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/coregx/browscap"
	"github.com/coregx/browscap/capability"
	"github.com/coregx/browscap/engine"
	"github.com/coregx/browscap/service"
)

// Config is the complete command configuration.
type Config struct {
	// DataFile is the catalogue, a .zip archive or a CSV file.
	DataFile string `toml:"data_file" env:"BROWSCAP_DATA_FILE"`

	// Fields are kept besides the six default fields.
	Fields []string `toml:"fields" env:"BROWSCAP_FIELDS" envSeparator:","`

	// LiteMode restricts the catalogue to its lite rules.
	LiteMode bool `toml:"lite_mode" env:"BROWSCAP_LITE_MODE"`

	// Filters enables the exclusion filter layer.
	Filters bool `toml:"filters" env:"BROWSCAP_FILTERS"`

	// CacheSize bounds the lookup cache; 0 disables it.
	CacheSize int `toml:"cache_size" env:"BROWSCAP_CACHE_SIZE"`

	// Watch reloads the catalogue when the data file changes.
	Watch bool `toml:"watch" env:"BROWSCAP_WATCH"`

	// Debounce is the quiet period before a watched change is reloaded.
	Debounce time.Duration `toml:"debounce" env:"BROWSCAP_DEBOUNCE"`

	Log Log `toml:"log" envPrefix:"BROWSCAP_LOG_"`
}

// Log configures logging.
type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" env:"LEVEL"`

	// Format is text or json.
	Format string `toml:"format" env:"FORMAT"`

	// File receives the logs instead of stderr when set. It is rotated once
	// it reaches MaxSize megabytes.
	File       string `toml:"file" env:"FILE"`
	MaxSize    int    `toml:"max_size" env:"MAX_SIZE"`
	MaxAge     int    `toml:"max_age" env:"MAX_AGE"`
	MaxBackups int    `toml:"max_backups" env:"MAX_BACKUPS"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataFile:  "browscap.zip",
		Filters:   true,
		CacheSize: 10000,
		Debounce:  250 * time.Millisecond,
		Log: Log{
			Level:      "info",
			Format:     "text",
			MaxSize:    10,
			MaxAge:     7,
			MaxBackups: 1,
		},
	}
}

// Load builds the configuration from the defaults, the TOML file at path
// (skipped when path is empty) and the environment.
//
// envFiles are loaded into the environment first; without any, a .env file
// in the working directory is loaded if present. Variables already set in
// the environment win over .env values.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, fmt.Errorf("%w in %s: %s", ErrUnknownKey, path, strings.Join(keys, ", "))
		}
	}

	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	} else {
		// The default .env file is optional.
		_ = godotenv.Load()
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingEnv, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every value.
func (c Config) Validate() error {
	if c.DataFile == "" {
		return ErrNoDataFile
	}
	if _, err := c.ParsedFields(); err != nil {
		return fmt.Errorf("config: fields: %w", err)
	}
	if c.CacheSize < 0 {
		return &ValueError{Key: "cache_size", Value: fmt.Sprint(c.CacheSize), Message: "must not be negative"}
	}
	if c.Debounce < 0 {
		return &ValueError{Key: "debounce", Value: c.Debounce.String(), Message: "must not be negative"}
	}
	if _, err := c.Log.ParsedLevel(); err != nil {
		return &ValueError{Key: "log.level", Value: c.Log.Level, Message: "must be debug, info, warn or error"}
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return &ValueError{Key: "log.format", Value: c.Log.Format, Message: "must be text or json"}
	}
	return nil
}

// ParsedFields returns Fields as capability fields.
func (c Config) ParsedFields() ([]capability.Field, error) {
	return capability.ParseFields(c.Fields)
}

// ParsedLevel returns Level as a slog level.
func (l Log) ParsedLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(l.Level))
	return level, err
}

// Options returns the catalogue build options.
func (c Config) Options(logger *slog.Logger) (browscap.Options, error) {
	fields, err := c.ParsedFields()
	if err != nil {
		return browscap.Options{}, fmt.Errorf("config: fields: %w", err)
	}
	eng := engine.DefaultConfig()
	eng.EnableFilters = c.Filters
	return browscap.Options{
		Fields:   fields,
		LiteOnly: c.LiteMode,
		Engine:   &eng,
		Logger:   logger,
	}, nil
}

// Service returns the service configuration.
func (c Config) Service(logger *slog.Logger) (service.Config, error) {
	opts, err := c.Options(logger)
	if err != nil {
		return service.Config{}, err
	}
	return service.Config{
		Path:      c.DataFile,
		Options:   opts,
		CacheSize: c.CacheSize,
		Debounce:  c.Debounce,
		Logger:    logger,
	}, nil
}
