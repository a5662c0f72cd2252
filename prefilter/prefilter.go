// Package prefilter prunes the rule scan before the expensive wildcard match
// runs.
//
// A Filter pairs a cheap predicate on the query with a precomputed bitmask of
// the rules that structurally cannot match unless the predicate holds. When a
// query fails the predicate, every rule in the mask is excluded. Filters are
// sound but not complete: a rule they keep may still fail to match, but a rule
// they drop could never have matched.
//
// Two kinds of filters exist:
//   - Prefix: the query must start with the text; the mask holds every rule
//     whose own prefix literal starts with it
//   - Contains: the query must contain the text; the mask holds every rule
//     with a literal containing it verbatim
//
// Example usage:
//
//	set, err := prefilter.Build(rules, interner, prefilter.CommonPrefixes(), prefilter.CommonSubstrings())
//	...
//	query := domain.NewSearchable("mozilla/5.0 (windows nt 10.0)")
//	includes := set.Includes(query, nil)
//	for i, ok := includes.NextSet(0); ok; i, ok = includes.NextSet(i + 1) {
//	    // rules[i] may match
//	}
package prefilter

import (
	"errors"

	"github.com/bits-and-blooms/bitset"

	"github.com/coregx/browscap/literal"
)

// ErrEmptyFilter indicates a filter with no text, which would match every query.
var ErrEmptyFilter = errors.New("prefilter: empty filter text")

// Kind is the query predicate a filter applies.
type Kind uint8

const (
	// Prefix filters require the query to start with the filter text.
	Prefix Kind = iota

	// Contains filters require the query to contain the filter text.
	Contains
)

// String returns a readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Prefix:
		return "prefix"
	case Contains:
		return "contains"
	default:
		return "unknown"
	}
}

// commonPrefixes are prefixes most catalogue user agents start with.
var commonPrefixes = []string{"mozilla/5.0", "mozilla/4"}

// commonSubstrings are fragments frequent in catalogue patterns. A '?' is the
// single byte wildcard, as in patterns.
var commonSubstrings = []string{
	"-", "0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	"profile", "player", "compatible", "android", "google", "tab", "transformer", "lenovo", "micro",
	"edge", "safari", "opera", "chrome", "firefox", "msie", "chromium",
	"cpu os ", "cpu iphone os ", "windows nt ", "mac os x ", "linux", "bsd", "windows phone",
	"iphone", "pad", "blackberry", "nokia", "alcatel", "ucbrowser", "mobile", "ie", "mercury",
	"samsung", "browser", "wow64", "silk", "lunascape", "crios", "epiphany", "konqueror",
	"version", "rv:", "build", "bot", "like gecko", "applewebkit", "trident", "mozilla",
	"windows nt 4", "windows nt 5.0", "windows nt 5.1", "windows nt 5.2", "windows nt 6.0",
	"windows nt 6.1", "windows nt 6.2", "windows nt 6.3", "windows nt 10.0",
	"android?4.0", "android?4.1", "android?4.2", "android?4.3", "android?4.4", "android?2.3",
	"android?5",
}

// CommonPrefixes returns the default prefix filter texts.
func CommonPrefixes() []string {
	return append([]string(nil), commonPrefixes...)
}

// CommonSubstrings returns the default contains filter texts.
func CommonSubstrings() []string {
	return append([]string(nil), commonSubstrings...)
}

// Filter is one precomputed exclusion filter.
// A Filter is immutable after Build and safe for concurrent use.
type Filter struct {
	kind Kind
	lit  *literal.Literal
	mask *bitset.BitSet
}

// Kind returns the predicate kind of the filter.
func (f *Filter) Kind() Kind { return f.kind }

// Literal returns the filter text as a literal of the rule domain.
func (f *Filter) Literal() *literal.Literal { return f.lit }

// Weight returns the number of rules the filter can exclude.
func (f *Filter) Weight() int { return int(f.mask.Count()) }

// Covers reports whether the filter can exclude rule i.
func (f *Filter) Covers(i int) bool { return f.mask.Test(uint(i)) }

// Predicate reports whether the query passes the filter.
func (f *Filter) Predicate(q *literal.Searchable) bool {
	if f.kind == Prefix {
		return q.StartsWith(f.lit)
	}
	return len(q.Occurrences(f.lit)) > 0
}

// ApplyExcludes ORs the filter mask into excludes when the query fails the
// predicate, and reports whether it did.
func (f *Filter) ApplyExcludes(q *literal.Searchable, excludes *bitset.BitSet) bool {
	if f.mask.None() || f.Predicate(q) {
		return false
	}
	excludes.InPlaceUnion(f.mask)
	return true
}

// String returns e.g. `contains "safari"`.
func (f *Filter) String() string {
	return f.kind.String() + " \"" + f.lit.String() + "\""
}
