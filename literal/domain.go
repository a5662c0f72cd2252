package literal

import (
	"sync/atomic"
)

// Domain mints literals with strictly increasing indices starting at 0 and
// sizes the caches of the searchable strings created from it.
//
// Minting is meant to happen during a single-goroutine build. Once the build
// is done the domain is only read, so it may be shared by any number of
// concurrent lookups.
type Domain struct {
	count atomic.Uint32
}

// NewDomain creates an empty literal domain.
func NewDomain() *Domain {
	return &Domain{}
}

// NewLiteral mints a new literal for text.
//
// Every call returns a literal with a fresh index, even for text already seen;
// use an Interner to get one literal per distinct fragment.
// Panics if text is empty.
func (d *Domain) NewLiteral(text string) *Literal {
	if text == "" {
		panic("literal: empty literal")
	}
	index := d.count.Add(1) - 1
	return &Literal{text: text, index: index}
}

// Len returns the number of literals minted so far.
func (d *Domain) Len() int {
	return int(d.count.Load())
}

// NewSearchable creates a searchable view over value.
//
// value must already be case-normalized by the caller. The caches are sized
// from the current number of literals plus one; literals minted later are
// still answered correctly but bypass the cache.
func (d *Domain) NewSearchable(value string) *Searchable {
	return newSearchable(d.Len()+1, value)
}

// Interner maps fragment text to its unique Literal within one domain.
//
// An Interner is build-scoped state: it is created for one build, threaded
// through the rule builder and the filter construction, and dropped once the
// engine exists.
type Interner struct {
	domain *Domain
	byText map[string]*Literal
}

// NewInterner creates an interner minting into domain.
func NewInterner(domain *Domain) *Interner {
	return &Interner{
		domain: domain,
		byText: make(map[string]*Literal),
	}
}

// Intern returns the literal for text, minting it on first use.
func (in *Interner) Intern(text string) *Literal {
	if lit, ok := in.byText[text]; ok {
		return lit
	}
	lit := in.domain.NewLiteral(text)
	in.byText[text] = lit
	return lit
}

// Domain returns the domain literals are minted into.
func (in *Interner) Domain() *Domain {
	return in.domain
}
