// Package loader reads browscap CSV catalogues into normalized records.
//
// A catalogue row holds the pattern in column 0 followed by one column per
// capability.Field. Rows with 47 columns or fewer are version and comment
// lines and are skipped, as is the column header row. Values are trimmed, an
// empty value becomes capability.UnknownValue, and equal values share one
// string so that a catalogue of hundreds of thousands of rows keeps only a
// few thousand distinct value strings alive.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/coregx/browscap/capability"
	"github.com/coregx/browscap/rule"
)

// minColumns is the smallest column count of a rule row.
const minColumns = 48

// headerPattern is column 0 of the column header row. The row describes the
// columns and is not turned into a rule.
const headerPattern = "propertyname"

// Record is one catalogue rule: a normalized pattern and the values of the
// requested fields.
type Record struct {
	// Pattern is lowercased with every run of '*' collapsed.
	Pattern string

	// Fields maps each requested field to its trimmed value.
	Fields map[capability.Field]string

	// Line is the 1-based CSV record number the rule was read from.
	Line int
}

// Reader reads catalogue records from a CSV stream.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	csv      *csv.Reader
	fields   []capability.Field
	liteOnly bool

	values  map[string]string
	line    int
	skipped int
}

// NewReader creates a reader extracting fields from r.
//
// With liteOnly set, only rows whose is_lite_mode column is "true" are
// returned; is_lite_mode is then always extracted, see Fields.
func NewReader(r io.Reader, fields []capability.Field, liteOnly bool) *Reader {
	fields = slices.Clone(fields)
	if liteOnly && !slices.Contains(fields, capability.IsLiteMode) {
		fields = append(fields, capability.IsLiteMode)
	}

	c := csv.NewReader(r)
	c.FieldsPerRecord = -1
	c.LazyQuotes = true
	c.ReuseRecord = true

	return &Reader{
		csv:      c,
		fields:   fields,
		liteOnly: liteOnly,
		values:   make(map[string]string),
	}
}

// Fields returns the fields the reader extracts.
func (r *Reader) Fields() []capability.Field {
	return slices.Clone(r.fields)
}

// Read returns the next rule record, or io.EOF after the last one.
func (r *Reader) Read() (Record, error) {
	for {
		row, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		r.line++
		if err != nil {
			return Record{}, fmt.Errorf("loader: record %d: %w", r.line, err)
		}

		if len(row) < minColumns {
			r.skipped++
			continue
		}
		pattern := strings.Clone(rule.Normalize(row[0]))
		if pattern == headerPattern {
			r.skipped++
			continue
		}

		values := make(map[capability.Field]string, len(r.fields))
		for _, f := range r.fields {
			values[f] = r.value(row, f.Column())
		}
		if r.liteOnly && values[capability.IsLiteMode] != "true" {
			r.skipped++
			continue
		}

		return Record{Pattern: pattern, Fields: values, Line: r.line}, nil
	}
}

// ReadAll reads every remaining record.
func (r *Reader) ReadAll() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// value returns the trimmed, shared value of column col.
func (r *Reader) value(row []string, col int) string {
	if col >= len(row) {
		return capability.UnknownValue
	}
	v := strings.TrimSpace(row[col])
	if v == "" {
		return capability.UnknownValue
	}
	if shared, ok := r.values[v]; ok {
		return shared
	}
	// Detach from the row so the row's memory is not retained.
	v = strings.Clone(v)
	r.values[v] = v
	return v
}

// Line returns the number of CSV records consumed so far.
func (r *Reader) Line() int {
	return r.line
}

// Skipped returns the number of rows that were not rules or were filtered out.
func (r *Reader) Skipped() int {
	return r.skipped
}
