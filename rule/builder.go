package rule

import (
	"strings"

	"github.com/coregx/browscap/capability"
	"github.com/coregx/browscap/literal"
)

const wildcard = "*"

// Builder decomposes normalized patterns into rules during one catalogue
// build. Fragments are interned, so every distinct fragment maps to exactly
// one literal shared by all rules containing it.
//
// A Builder is build-scoped and not safe for concurrent use.
type Builder struct {
	interner *literal.Interner
	table    *capability.Table
}

// NewBuilder creates a builder interning fragments with interner.
// The catch-all pattern "*" is given table's default record.
func NewBuilder(interner *literal.Interner, table *capability.Table) *Builder {
	return &Builder{interner: interner, table: table}
}

// Build decomposes pattern into a rule carrying caps.
//
// pattern must already be normalized (see Normalize). The reconstructed
// pattern of the result is checked against pattern; any difference is
// reported as a *DecodeError wrapping ErrRoundTrip.
//
// Example:
//
//	r, err := b.Build("mozilla/5.0*firefox*", caps)
//	r.Prefix()  // "mozilla/5.0"
//	r.Middles() // ["firefox"]
//	r.Postfix() // nil
func (b *Builder) Build(pattern string, caps *capability.Capabilities) (*Rule, error) {
	r, err := b.decompose(pattern, caps)
	if err != nil {
		return nil, &DecodeError{Pattern: pattern, Err: err}
	}
	if r.Pattern() != pattern {
		return nil, &DecodeError{Pattern: pattern, Err: ErrRoundTrip}
	}
	return r, nil
}

func (b *Builder) decompose(pattern string, caps *capability.Capabilities) (*Rule, error) {
	parts := Split(pattern)
	if len(parts) == 0 {
		return nil, ErrEmptyPattern
	}

	first := parts[0]
	if len(parts) == 1 {
		if first == wildcard {
			return b.catchAll(), nil
		}
		return &Rule{
			prefix: b.interner.Intern(first),
			size:   len(pattern),
			caps:   caps,
		}, nil
	}

	r := &Rule{wildcard: true, size: len(pattern), caps: caps}

	body := parts
	if first != wildcard {
		r.prefix = b.interner.Intern(first)
		body = body[1:]
	}
	if last := parts[len(parts)-1]; last != wildcard {
		r.postfix = b.interner.Intern(last)
		body = body[:len(body)-1]
	}

	for _, part := range body {
		if part != wildcard {
			r.middles = append(r.middles, b.interner.Intern(part))
		}
	}
	return r, nil
}

// catchAll returns the rule for the pattern "*", which matches every query
// and reports the default record.
func (b *Builder) catchAll() *Rule {
	var caps *capability.Capabilities
	if b.table != nil {
		caps = b.table.Default()
	}
	return &Rule{wildcard: true, size: 1, caps: caps}
}

// Split breaks pattern into its fixed fragments and "*" markers, in order.
//
// Example:
//
//	Split("*abc*def") // ["*", "abc", "*", "def"]
func Split(pattern string) []string {
	var parts []string
	for len(pattern) > 0 {
		i := strings.IndexByte(pattern, '*')
		switch {
		case i < 0:
			parts = append(parts, pattern)
			pattern = ""
		case i == 0:
			parts = append(parts, wildcard)
			pattern = pattern[1:]
		default:
			parts = append(parts, pattern[:i], wildcard)
			pattern = pattern[i+1:]
		}
	}
	return parts
}

// Normalize lowercases pattern and collapses every run of '*' into one.
func Normalize(pattern string) string {
	lower := strings.ToLower(pattern)
	if !strings.Contains(lower, "**") {
		return lower
	}

	var b strings.Builder
	b.Grow(len(lower))
	prev := byte(0)
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c == '*' && prev == '*' {
			continue
		}
		b.WriteByte(c)
		prev = c
	}
	return b.String()
}
