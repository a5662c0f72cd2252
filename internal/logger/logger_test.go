package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/browscap/internal/logger"
)

func TestNewText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithAttr(slog.String("app", "browscap")))

	log.Debug("hidden")
	log.Info("catalogue loaded", slog.Int("rules", 7))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=\"catalogue loaded\"")
	assert.Contains(t, out, "rules=7")
	assert.Contains(t, out, "app=browscap")
}

func TestNewJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithFormat(logger.FormatJSON),
		logger.WithLevel(slog.LevelDebug),
	)
	log.Debug("catalogue read", slog.Int("records", 3))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "catalogue read", record["msg"])
	assert.InDelta(t, 3, record["records"], 0)
}

func TestOptionsIgnoreInvalid(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithOutput(nil),
		logger.WithFormat("xml"),
	)
	log.Info("kept")
	assert.Contains(t, buf.String(), "msg=kept")
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := logger.ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, logger.FormatJSON, f)

	f, err = logger.ParseFormat("text")
	require.NoError(t, err)
	assert.Equal(t, logger.FormatText, f)

	_, err = logger.ParseFormat("xml")
	assert.Error(t, err)
}

func TestFileWriter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "browscap.log")
	w, err := logger.FileWriter(path, 1, 1, 1)
	require.NoError(t, err)

	log := logger.New(logger.WithOutput(w))
	log.Info("catalogue reloaded")
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "catalogue reloaded")
}

func TestFileWriterErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := logger.FileWriter(dir, 1, 1, 1)
	assert.Error(t, err)

	_, err = logger.FileWriter(filepath.Join(dir, "missing", "browscap.log"), 1, 1, 1)
	assert.Error(t, err)
}
