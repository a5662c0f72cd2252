// Package literal provides the interned pattern fragments and the per-query
// searchable strings the wildcard rule matcher is built on.
//
// A pattern such as "mozilla/5.0 (*windows nt ?.?*" is split on '*' into
// fixed fragments. Each distinct fragment becomes one Literal minted by a
// Domain, which assigns it a small integer index. A Searchable wraps one
// lowercased user agent and memoizes, per literal index, where and whether
// each literal occurs, so that fragments shared by thousands of rules are
// located in the query only once.
//
// Key concepts:
//   - A Domain is the build-scoped authority that mints literals
//   - A Literal is an immutable fragment; '?' inside it matches any byte
//   - An Interner maps fragment text to its unique Literal during a build
//   - A Searchable is the cached view over one query string
//
// Matching works on bytes. '?' stands for exactly one byte, so it matches a
// whole character only in ASCII text: "caf?" does not match "café", whose
// last character takes two bytes in UTF-8.
package literal

import "strings"

// Wildcard is the single-byte wildcard inside a literal.
const Wildcard = '?'

// Literal is an immutable pattern fragment identified by a domain-unique index.
//
// Literals minted by different domains must never be mixed: the index is only
// meaningful to Searchables created by the same Domain.
type Literal struct {
	text  string
	index uint32
}

// Len returns the length of the literal in bytes.
func (l *Literal) Len() int {
	return len(l.text)
}

// Index returns the domain-unique index of the literal.
func (l *Literal) Index() uint32 {
	return l.index
}

// FirstByte returns the first byte of the literal for quick rejection.
// Literals are never empty.
func (l *Literal) FirstByte() byte {
	return l.text[0]
}

// String returns the fragment text.
func (l *Literal) String() string {
	return l.text
}

// Matches reports whether the literal occurs in haystack starting exactly at from.
//
// The result is false when from is negative or the literal would run past the
// end of haystack. A '?' in the literal matches any byte.
//
// Example:
//
//	lit := domain.NewLiteral("d?f")
//	lit.Matches([]byte("abcdef"), 3) // true
//	lit.Matches([]byte("abcdef"), 5) // false: out of bounds
func (l *Literal) Matches(haystack []byte, from int) bool {
	n := len(l.text)
	if from < 0 || from+n > len(haystack) {
		return false
	}

	window := haystack[from : from+n]
	for i := 0; i < n; i++ {
		c := l.text[i]
		if c != window[i] && c != Wildcard {
			return false
		}
	}
	return true
}

// Contains reports whether the literal text contains sub verbatim.
// A '?' in the literal is compared as a plain byte here.
func (l *Literal) Contains(sub string) bool {
	switch {
	case len(sub) == 1:
		return strings.IndexByte(l.text, sub[0]) >= 0
	case len(sub) > len(l.text):
		return false
	}
	return strings.Contains(l.text, sub)
}
