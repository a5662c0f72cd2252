package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/browscap/capability"
	"github.com/coregx/browscap/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "browscap.zip", cfg.DataFile)
	assert.True(t, cfg.Filters)
	assert.Equal(t, 10000, cfg.CacheSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "browscap.toml", `
data_file  = "/data/browscap.csv"
fields     = ["is_crawler", "Browser_Bits"]
lite_mode  = true
filters    = false
cache_size = 42
watch      = true
debounce   = "2s"

[log]
level  = "debug"
format = "json"
file   = "/var/log/browscap.log"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/browscap.csv", cfg.DataFile)
	assert.Equal(t, []string{"is_crawler", "Browser_Bits"}, cfg.Fields)
	assert.True(t, cfg.LiteMode)
	assert.False(t, cfg.Filters)
	assert.Equal(t, 42, cfg.CacheSize)
	assert.True(t, cfg.Watch)
	assert.Equal(t, 2*time.Second, cfg.Debounce)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/var/log/browscap.log", cfg.Log.File)
	assert.Equal(t, 10, cfg.Log.MaxSize, "untouched keys keep their default")

	fields, err := cfg.ParsedFields()
	require.NoError(t, err)
	assert.Equal(t, []capability.Field{capability.IsCrawler, capability.BrowserBits}, fields)
}

func TestLoadFileErrors(t *testing.T) {
	t.Run("unknown key", func(t *testing.T) {
		path := writeFile(t, "browscap.toml", "data_file = \"x.zip\"\ncache = 1\n")
		_, err := config.Load(path)
		require.ErrorIs(t, err, config.ErrUnknownKey)
		assert.Contains(t, err.Error(), "cache")
	})

	t.Run("syntax", func(t *testing.T) {
		path := writeFile(t, "browscap.toml", "data_file = \n")
		_, err := config.Load(path)
		assert.Error(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "browscap.toml", "cache_size = 42\n[log]\nlevel = \"warn\"\n")

	t.Setenv("BROWSCAP_CACHE_SIZE", "7")
	t.Setenv("BROWSCAP_FIELDS", "is_crawler,is_mobile_device")
	t.Setenv("BROWSCAP_LOG_LEVEL", "error")
	t.Setenv("BROWSCAP_WATCH", "true")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.CacheSize)
	assert.Equal(t, []string{"is_crawler", "is_mobile_device"}, cfg.Fields)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.True(t, cfg.Watch)

	level, err := cfg.Log.ParsedLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, level)
}

func TestLoadEnvFile(t *testing.T) {
	require.NoError(t, os.Unsetenv("BROWSCAP_DATA_FILE"))
	t.Cleanup(func() { _ = os.Unsetenv("BROWSCAP_DATA_FILE") })

	envFile := writeFile(t, ".env", "BROWSCAP_DATA_FILE=/srv/browscap.zip\n")

	cfg, err := config.Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "/srv/browscap.zip", cfg.DataFile)

	_, err = config.Load("", filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadEnvErrors(t *testing.T) {
	t.Setenv("BROWSCAP_CACHE_SIZE", "lots")

	_, err := config.Load("")
	assert.ErrorIs(t, err, config.ErrParsingEnv)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*config.Config)
		want   error
		key    string
	}{
		{"no data file", func(c *config.Config) { c.DataFile = "" }, config.ErrNoDataFile, ""},
		{"unknown field", func(c *config.Config) { c.Fields = []string{"colour"} }, capability.ErrUnknownField, ""},
		{"negative cache", func(c *config.Config) { c.CacheSize = -1 }, nil, "cache_size"},
		{"negative debounce", func(c *config.Config) { c.Debounce = -time.Second }, nil, "debounce"},
		{"bad level", func(c *config.Config) { c.Log.Level = "loud" }, nil, "log.level"},
		{"bad format", func(c *config.Config) { c.Log.Format = "xml" }, nil, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			var valueErr *config.ValueError
			require.ErrorAs(t, err, &valueErr)
			assert.Equal(t, tt.key, valueErr.Key)
		})
	}
}

func TestService(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.DataFile = "/data/browscap.csv"
	cfg.Fields = []string{"is_crawler"}
	cfg.LiteMode = true
	cfg.Filters = false
	cfg.CacheSize = 3
	cfg.Debounce = time.Second

	logger := slog.Default()
	sc, err := cfg.Service(logger)
	require.NoError(t, err)

	assert.Equal(t, "/data/browscap.csv", sc.Path)
	assert.Equal(t, 3, sc.CacheSize)
	assert.Equal(t, time.Second, sc.Debounce)
	assert.Same(t, logger, sc.Logger)
	assert.Equal(t, []capability.Field{capability.IsCrawler}, sc.Options.Fields)
	assert.True(t, sc.Options.LiteOnly)
	require.NotNil(t, sc.Options.Engine)
	assert.False(t, sc.Options.Engine.EnableFilters)
	require.NoError(t, sc.Validate())

	cfg.Fields = []string{"colour"}
	_, err = cfg.Service(logger)
	assert.ErrorIs(t, err, capability.ErrUnknownField)
}
