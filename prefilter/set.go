package prefilter

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/coregx/ahocorasick"
	iradix "github.com/hashicorp/go-immutable-radix"

	"github.com/coregx/browscap/internal/conv"
	"github.com/coregx/browscap/internal/sparse"
	"github.com/coregx/browscap/literal"
)

// Rule is the view of a catalogue rule that filter construction needs.
type Rule interface {
	// Prefix returns the anchored leading literal, or nil.
	Prefix() *literal.Literal

	// Requires reports whether a literal of the rule contains sub verbatim.
	Requires(sub string) bool

	// Literals calls fn for every literal of the rule.
	Literals(fn func(*literal.Literal))
}

// Set is the ordered collection of filters built over one sorted rule slice.
// A Set is immutable and safe for concurrent use.
type Set struct {
	filters []*Filter
	size    uint
}

// Build creates the filters for rules.
//
// Filter texts are interned with interner, so their literals share the query
// caches with identical rule fragments. Rule i of the slice is bit i of every
// mask; the slice must not be reordered afterwards.
//
// Contains masks are computed against a single Aho-Corasick automaton over
// all contains texts: a literal that holds none of them is skipped without
// testing every filter. Prefix masks are read from a radix tree of the rule
// prefixes.
func Build[R Rule](rules []R, interner *literal.Interner, prefixes, substrings []string) (*Set, error) {
	size := conv.IntToUint(len(rules))
	s := &Set{size: size}

	prefixIndex := indexPrefixes(rules)
	for _, text := range prefixes {
		if text == "" {
			return nil, fmt.Errorf("%w: prefix filter %d", ErrEmptyFilter, len(s.filters))
		}
		f := &Filter{kind: Prefix, lit: interner.Intern(text), mask: bitset.New(size)}
		prefixIndex.Root().WalkPrefix([]byte(text), func(_ []byte, v interface{}) bool {
			for _, i := range v.([]uint) {
				f.mask.Set(i)
			}
			return false
		})
		s.filters = append(s.filters, f)
	}

	contains := make([]*Filter, 0, len(substrings))
	for _, text := range substrings {
		if text == "" {
			return nil, fmt.Errorf("%w: contains filter %d", ErrEmptyFilter, len(contains))
		}
		contains = append(contains, &Filter{kind: Contains, lit: interner.Intern(text), mask: bitset.New(size)})
	}
	if len(contains) > 0 {
		screen := newScreen(substrings, interner.Domain().Len())
		for i, r := range rules {
			if !screen.candidate(r) {
				continue
			}
			for _, f := range contains {
				if r.Requires(f.lit.String()) {
					f.mask.Set(uint(i))
				}
			}
		}
	}
	s.filters = append(s.filters, contains...)
	return s, nil
}

// indexPrefixes maps every rule prefix text to the indices of the rules
// starting with it.
func indexPrefixes[R Rule](rules []R) *iradix.Tree {
	txn := iradix.New().Txn()
	for i, r := range rules {
		p := r.Prefix()
		if p == nil {
			continue
		}
		key := []byte(p.String())
		var indices []uint
		if v, ok := txn.Get(key); ok {
			indices = v.([]uint)
		}
		txn.Insert(key, append(indices, uint(i)))
	}
	return txn.Commit()
}

// screen answers whether a rule holds any contains text at all.
type screen struct {
	auto *ahocorasick.Automaton

	// checked holds the literal indices already run through the automaton,
	// hits those among them holding a contains text.
	checked *sparse.Set
	hits    *sparse.Set
}

func newScreen(texts []string, literals int) *screen {
	builder := ahocorasick.NewBuilder()
	for _, t := range texts {
		builder.AddPattern([]byte(t))
	}
	auto, err := builder.Build()
	if err != nil {
		// Without an automaton every rule is a candidate; masks stay exact.
		auto = nil
	}
	n := conv.IntToUint32(literals)
	return &screen{auto: auto, checked: sparse.New(n), hits: sparse.New(n)}
}

func (sc *screen) candidate(r Rule) bool {
	if sc.auto == nil {
		return true
	}
	hit := false
	r.Literals(func(lit *literal.Literal) {
		if hit {
			return
		}
		i := lit.Index()
		if sc.checked.Contains(i) {
			hit = sc.hits.Contains(i)
			return
		}
		hit = sc.auto.IsMatch([]byte(lit.String()))
		sc.checked.Insert(i)
		if hit {
			sc.hits.Insert(i)
		}
	})
	return hit
}

// Len returns the number of filters.
func (s *Set) Len() int { return len(s.filters) }

// Size returns the number of rules the masks cover.
func (s *Set) Size() int { return int(s.size) }

// Filters returns the filters, prefix filters first.
// The slice is shared and must not be modified.
func (s *Set) Filters() []*Filter { return s.filters }

// Excludes ORs into excludes the mask of every filter the query fails and
// returns how many filters fired. excludes must have room for Size bits.
func (s *Set) Excludes(q *literal.Searchable, excludes *bitset.BitSet) int {
	fired := 0
	for _, f := range s.filters {
		if f.ApplyExcludes(q, excludes) {
			fired++
		}
	}
	return fired
}

// Includes returns the rules that survive every filter for the query.
//
// dst is reused when it is non-nil; its previous contents are discarded.
func (s *Set) Includes(q *literal.Searchable, dst *bitset.BitSet) *bitset.BitSet {
	if dst == nil {
		dst = bitset.New(s.size)
	} else {
		dst.ClearAll()
	}
	s.Excludes(q, dst)
	if s.size > 0 {
		dst.FlipRange(0, s.size)
	}
	return dst
}
