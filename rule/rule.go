// Package rule decomposes browscap wildcard patterns into literals and
// matches them against searchable query strings.
//
// A pattern is split on '*' into an optional prefix, an optional postfix and
// the fixed middle fragments between them:
//
//	"mozilla/5.0 (*windows nt*) gecko*firefox/?.0"
//	prefix  "mozilla/5.0 ("
//	middles "windows nt", ") gecko"
//	postfix "firefox/?.0"
//
// Matching anchors the prefix and postfix, then locates each middle greedily
// from left to right at its earliest occurrence after the previous one. The
// scan never backtracks: "aa*aa" does not match "aaa" because the prefix
// consumes two bytes and leaves only one for the postfix.
package rule

import (
	"strings"

	"github.com/coregx/browscap/capability"
	"github.com/coregx/browscap/literal"
)

// Rule is one decomposed catalogue pattern and its attribute record.
// A Rule is immutable after construction.
type Rule struct {
	prefix  *literal.Literal
	postfix *literal.Literal

	// middles are the fragments between wildcards, in pattern order.
	// They are only meaningful when wildcard is set.
	middles []*literal.Literal

	// wildcard is false for a pattern without any '*'. It is true with
	// empty middles for a pattern with exactly one '*'.
	wildcard bool

	size int
	caps *capability.Capabilities
}

// Matches reports whether the rule matches the query.
//
// The bounds start and end are the first and last query offsets left for the
// wildcard body once the prefix and postfix have been anchored; both are
// inclusive.
func (r *Rule) Matches(s *literal.Searchable) bool {
	start := 0
	if r.prefix != nil {
		if !s.StartsWith(r.prefix) {
			return false
		}
		start = r.prefix.Len()
	}

	end := s.Len() - 1
	if r.postfix != nil {
		if !s.EndsWith(r.postfix) {
			return false
		}
		end -= r.postfix.Len()
	}

	if !r.wildcard {
		return start == end+1
	}
	if len(r.middles) == 0 {
		return start <= end+1
	}

	from := start
	for _, lit := range r.middles {
		at := firstAtOrAfter(s.Occurrences(lit), from)
		if at < 0 {
			return false
		}
		from = at + lit.Len()
		if from > end+1 {
			return false
		}
	}
	return true
}

// firstAtOrAfter returns the first position >= from in the ascending slice
// positions, or -1.
func firstAtOrAfter(positions []int, from int) int {
	for _, p := range positions {
		if p >= from {
			return p
		}
	}
	return -1
}

// Requires reports whether any literal of the rule contains sub verbatim.
// A rule that requires sub cannot match a query lacking it.
func (r *Rule) Requires(sub string) bool {
	if r.prefix != nil && r.prefix.Contains(sub) {
		return true
	}
	if r.postfix != nil && r.postfix.Contains(sub) {
		return true
	}
	for _, lit := range r.middles {
		if lit.Contains(sub) {
			return true
		}
	}
	return false
}

// Pattern reconstructs the normalized pattern text from the decomposition.
func (r *Rule) Pattern() string {
	var b strings.Builder
	b.Grow(r.size)
	if r.prefix != nil {
		b.WriteString(r.prefix.String())
	}
	if r.wildcard {
		b.WriteByte('*')
		for _, lit := range r.middles {
			b.WriteString(lit.String())
			b.WriteByte('*')
		}
	}
	if r.postfix != nil {
		b.WriteString(r.postfix.String())
	}
	return b.String()
}

// Prefix returns the anchored leading literal, or nil.
func (r *Rule) Prefix() *literal.Literal { return r.prefix }

// Postfix returns the anchored trailing literal, or nil.
func (r *Rule) Postfix() *literal.Literal { return r.postfix }

// Middles returns the fragments between wildcards.
// The slice is shared and must not be modified.
func (r *Rule) Middles() []*literal.Literal { return r.middles }

// HasWildcard reports whether the pattern contains at least one '*'.
func (r *Rule) HasWildcard() bool { return r.wildcard }

// Literals calls fn for the prefix, every middle and the postfix, in pattern
// order.
func (r *Rule) Literals(fn func(*literal.Literal)) {
	if r.prefix != nil {
		fn(r.prefix)
	}
	for _, lit := range r.middles {
		fn(lit)
	}
	if r.postfix != nil {
		fn(r.postfix)
	}
}

// Len returns the length of the normalized pattern in bytes.
func (r *Rule) Len() int { return r.size }

// Capabilities returns the attribute record of the rule.
func (r *Rule) Capabilities() *capability.Capabilities { return r.caps }

// String returns the pattern and its record, for diagnostics.
func (r *Rule) String() string {
	if r.caps == nil {
		return r.Pattern()
	}
	return r.Pattern() + " : " + r.caps.String()
}
