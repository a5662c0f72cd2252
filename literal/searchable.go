package literal

import (
	"strings"

	"github.com/coregx/browscap/simd"
)

// empty is returned for literals without occurrences so callers always get a
// non-nil slice.
var empty = []int{}

// maxGeneration bounds the generation counter so that it still fits the
// boolean cache encoding (generation << 1 | value) in a uint32.
const maxGeneration = 1<<31 - 1

// Searchable is a cached view over one case-normalized query string.
//
// Every probe is memoized by literal index rather than by text: the filter
// layer and all candidate rules sharing a fragment reuse a single scan.
// A Searchable belongs to exactly one lookup at a time. It can be recycled
// with Reset, which invalidates all caches in O(1) by bumping a generation
// counter instead of clearing them.
type Searchable struct {
	chars []byte

	// gen identifies the current query; cache entries from older
	// generations are treated as absent.
	gen uint32

	occurrences []occurrence
	starts      boolCache
	ends        boolCache

	// positions is the arena the occurrence slices are carved from.
	positions []int
}

// occurrence is one cached Occurrences result.
type occurrence struct {
	gen uint32
	pos []int
}

func newSearchable(size int, value string) *Searchable {
	s := &Searchable{
		occurrences: make([]occurrence, size),
		starts:      newBoolCache(size),
		ends:        newBoolCache(size),
	}
	s.Reset(value)
	return s
}

// Reset rebinds the searchable to value and drops every cached answer.
// value must already be case-normalized.
func (s *Searchable) Reset(value string) {
	s.chars = append(s.chars[:0], value...)
	s.nextGeneration()
}

// ResetLower rebinds the searchable to the lowercase form of value.
//
// ASCII input, which nearly every user agent is, is lowercased in place
// without allocating.
func (s *Searchable) ResetLower(value string) {
	s.chars = append(s.chars[:0], value...)
	if simd.IsASCII(s.chars) {
		simd.LowerASCII(s.chars)
	} else {
		s.chars = append(s.chars[:0], strings.ToLower(value)...)
	}
	s.nextGeneration()
}

func (s *Searchable) nextGeneration() {
	s.positions = s.positions[:0]
	if s.gen == maxGeneration {
		clear(s.occurrences)
		s.starts.clear()
		s.ends.clear()
		s.gen = 0
	}
	s.gen++
}

// Len returns the length of the query in bytes.
func (s *Searchable) Len() int {
	return len(s.chars)
}

// String returns the query text.
func (s *Searchable) String() string {
	return string(s.chars)
}

// StartsWith reports whether the query starts with lit.
func (s *Searchable) StartsWith(lit *Literal) bool {
	if v, ok := s.starts.get(lit.Index(), s.gen); ok {
		return v
	}
	result := lit.Matches(s.chars, 0)
	s.starts.set(lit.Index(), s.gen, result)
	return result
}

// EndsWith reports whether the query ends with lit.
// The answer is false when lit is longer than the query.
func (s *Searchable) EndsWith(lit *Literal) bool {
	if v, ok := s.ends.get(lit.Index(), s.gen); ok {
		return v
	}
	result := lit.Matches(s.chars, len(s.chars)-lit.Len())
	s.ends.set(lit.Index(), s.gen, result)
	return result
}

// Occurrences returns every offset at which lit matches the query, in
// ascending order and without duplicates.
//
// The result is computed on the first call for a literal and cached; later
// calls in the same generation return the identical slice. The slice is
// empty, never nil, when lit does not occur. Callers must not modify it.
//
// Example:
//
//	s := domain.NewSearchable("abababc")
//	s.Occurrences(ab) // [0 2 4]
//	s.Occurrences(ab) // same slice, served from the cache
func (s *Searchable) Occurrences(lit *Literal) []int {
	i := int(lit.Index())
	if i >= len(s.occurrences) {
		if pos := s.appendMatches(nil, lit); pos != nil {
			return pos
		}
		return empty
	}

	entry := &s.occurrences[i]
	if entry.gen == s.gen {
		return entry.pos
	}

	from := len(s.positions)
	s.positions = s.appendMatches(s.positions, lit)
	to := len(s.positions)

	pos := empty
	if to > from {
		// Cap the slice so an append by a caller can never reach the arena.
		pos = s.positions[from:to:to]
	}
	entry.gen = s.gen
	entry.pos = pos
	return pos
}

// appendMatches appends every match offset of lit to dst.
//
// Candidate offsets are located by the literal's first byte with Memchr and
// then verified with a full bounded compare. A leading '?' accepts any byte,
// so every offset is verified in that case.
func (s *Searchable) appendMatches(dst []int, lit *Literal) []int {
	last := len(s.chars) - lit.Len()
	if last < 0 {
		return dst
	}

	first := lit.FirstByte()
	if first == Wildcard {
		for i := 0; i <= last; i++ {
			if lit.Matches(s.chars, i) {
				dst = append(dst, i)
			}
		}
	} else {
		window := s.chars[:last+1]
		for i := 0; i <= last; i++ {
			j := simd.Memchr(window[i:], first)
			if j < 0 {
				break
			}
			i += j
			if lit.Matches(s.chars, i) {
				dst = append(dst, i)
			}
		}
	}
	return dst
}
