package loader_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/browscap/capability"
	"github.com/coregx/browscap/internal/catalogtest"
	"github.com/coregx/browscap/loader"
)

func readSample(t *testing.T, fields []capability.Field, liteOnly bool) (*loader.Reader, []loader.Record) {
	t.Helper()
	r := loader.NewReader(strings.NewReader(catalogtest.CSV(catalogtest.Sample()...)), fields, liteOnly)
	records, err := r.ReadAll()
	require.NoError(t, err)
	return r, records
}

func TestReader(t *testing.T) {
	t.Parallel()

	fields := []capability.Field{capability.Browser, capability.IsCrawler}

	t.Run("reads every rule row", func(t *testing.T) {
		t.Parallel()
		r, records := readSample(t, fields, false)

		require.Len(t, records, len(catalogtest.Sample()))
		assert.Equal(t, 3, r.Skipped(), "two version lines and the header row")
		assert.Equal(t, 3+len(records), r.Line())
		assert.Equal(t, 4, records[0].Line)
	})

	t.Run("normalizes patterns", func(t *testing.T) {
		t.Parallel()
		_, records := readSample(t, fields, false)

		assert.Equal(t,
			"mozilla/5.0 (*windows nt 10.0*win64? x64*) applewebkit* (khtml, like gecko)*chrome/120.*safari/*",
			records[0].Pattern)
		assert.Equal(t, "curl/*", records[5].Pattern)
		assert.Equal(t, "*", records[6].Pattern)
	})

	t.Run("extracts requested fields only", func(t *testing.T) {
		t.Parallel()
		_, records := readSample(t, fields, false)

		assert.Equal(t, map[capability.Field]string{
			capability.Browser:   "Chrome",
			capability.IsCrawler: "false",
		}, records[0].Fields)
		assert.Equal(t, map[capability.Field]string{
			capability.Browser:   "Googlebot",
			capability.IsCrawler: "true",
		}, records[4].Fields)
	})

	t.Run("trims and fills empty values", func(t *testing.T) {
		t.Parallel()
		_, records := readSample(t, fields, false)

		curl := records[5].Fields
		assert.Equal(t, "curl", curl[capability.Browser])
		assert.Equal(t, capability.UnknownValue, curl[capability.IsCrawler])
	})

	t.Run("shares equal values", func(t *testing.T) {
		t.Parallel()
		_, records := readSample(t, fields, false)

		a := records[0].Fields[capability.Browser]
		b := records[3].Fields[capability.Browser]
		require.Equal(t, "Chrome", a)
		require.Equal(t, a, b)
		assert.Same(t, unsafe.StringData(a), unsafe.StringData(b))
	})

	t.Run("lite only", func(t *testing.T) {
		t.Parallel()
		r, records := readSample(t, fields, true)

		assert.Contains(t, r.Fields(), capability.IsLiteMode)
		require.Len(t, records, 3)
		for _, rec := range records {
			assert.Equal(t, "true", rec.Fields[capability.IsLiteMode])
		}
		assert.Equal(t, "*", records[2].Pattern)
		assert.Equal(t, 3+4, r.Skipped())
	})

	t.Run("does not alias caller fields", func(t *testing.T) {
		t.Parallel()
		own := []capability.Field{capability.Browser}
		r := loader.NewReader(strings.NewReader(""), own, true)
		assert.Equal(t, []capability.Field{capability.Browser}, own)
		assert.Equal(t, []capability.Field{capability.Browser, capability.IsLiteMode}, r.Fields())
	})
}

func TestReaderShortRows(t *testing.T) {
	t.Parallel()

	last := capability.Field(capability.NumFields - 1)
	short := "\"Mozilla/5.0*\"" + strings.Repeat(",x", 47) + "\n"
	tooShort := "\"Opera*\"" + strings.Repeat(",x", 46) + "\n"

	r := loader.NewReader(strings.NewReader(tooShort+short), []capability.Field{capability.Browser, last}, false)
	records, err := r.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "mozilla/5.0*", records[0].Pattern)
	assert.Equal(t, 2, records[0].Line)
	assert.Equal(t, "x", records[0].Fields[capability.Browser])
	assert.Equal(t, capability.UnknownValue, records[0].Fields[last])
	assert.Equal(t, 1, r.Skipped())
}

func TestReaderEmpty(t *testing.T) {
	t.Parallel()

	r := loader.NewReader(strings.NewReader(""), capability.DefaultFields(), false)
	_, err := r.Read()
	assert.ErrorIs(t, err, io.EOF)

	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReaderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := loader.NewReader(iotest.ErrReader(boom), capability.DefaultFields(), false)

	_, err := r.Read()
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "record 1")

	r = loader.NewReader(iotest.ErrReader(boom), capability.DefaultFields(), false)
	records, err := r.ReadAll()
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, records)
}
