package loader_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/browscap/capability"
	"github.com/coregx/browscap/internal/catalogtest"
	"github.com/coregx/browscap/loader"
)

func readAll(t *testing.T, path string) []loader.Record {
	t.Helper()
	f, err := loader.Open(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	records, err := loader.NewReader(f, capability.DefaultFields(), false).ReadAll()
	require.NoError(t, err)
	return records
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("zip archive", func(t *testing.T) {
		t.Parallel()
		records := readAll(t, catalogtest.WriteZip(t, catalogtest.Sample()...))
		assert.Len(t, records, len(catalogtest.Sample()))
	})

	t.Run("upper case extension", func(t *testing.T) {
		t.Parallel()
		src := catalogtest.WriteZip(t, catalogtest.Sample()...)
		dst := filepath.Join(t.TempDir(), "BROWSCAP.ZIP")
		data, err := os.ReadFile(src)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(dst, data, 0o600))

		records := readAll(t, dst)
		assert.Len(t, records, len(catalogtest.Sample()))
	})

	t.Run("plain csv", func(t *testing.T) {
		t.Parallel()
		records := readAll(t, catalogtest.WriteCSV(t, catalogtest.Sample()...))
		assert.Len(t, records, len(catalogtest.Sample()))
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := loader.Open(filepath.Join(t.TempDir(), "missing.csv"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("not a zip", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.zip")
		require.NoError(t, os.WriteFile(path, []byte("not an archive"), 0o600))
		_, err := loader.Open(path)
		assert.Error(t, err)
	})
}

func TestOpenArchiveEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []string
	}{
		{name: "no entries"},
		{name: "directories only", entries: []string{"data/", "data/nested/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "empty.zip")
			f, err := os.Create(path)
			require.NoError(t, err)
			zw := zip.NewWriter(f)
			for _, name := range tt.entries {
				_, err := zw.Create(name)
				require.NoError(t, err)
			}
			require.NoError(t, zw.Close())
			require.NoError(t, f.Close())

			_, err = loader.OpenArchive(path)
			assert.ErrorIs(t, err, loader.ErrEmptyArchive)
		})
	}
}

func TestOpenArchiveSkipsDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("data/")
	require.NoError(t, err)
	w, err := zw.Create("data/browscap.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte(catalogtest.CSV(catalogtest.Sample()...)))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	records := readAll(t, path)
	assert.Len(t, records, len(catalogtest.Sample()))
}
