// Package engine implements the rule engine that classifies user agents.
//
// The engine holds the catalogue rules sorted by specificity and the
// exclusion filters built over that order. A lookup lowercases the user agent,
// binds it to a pooled searchable string, computes the set of rules the
// filters cannot exclude and returns the first of them, in sorted order, that
// matches. When none matches the default record is returned.
//
// Specificity order is pattern length descending, then pattern text
// ascending. Longer patterns are treated as more specific, so the first match
// in this order approximates "most specific wins" deterministically.
//
// A built Engine is immutable and safe for unlimited concurrent lookups.
package engine

import (
	"cmp"
	"slices"
	"sync/atomic"

	"github.com/bits-and-blooms/bitset"

	"github.com/coregx/browscap/capability"
	"github.com/coregx/browscap/literal"
	"github.com/coregx/browscap/prefilter"
	"github.com/coregx/browscap/rule"
)

// Engine classifies user agents against a sorted rule catalogue.
type Engine struct {
	rules    []*rule.Rule
	filters  *prefilter.Set
	tracker  *prefilter.Tracker
	defaults *capability.Capabilities
	domain   *literal.Domain
	pool     *searchStatePool

	lookups    atomic.Uint64
	matched    atomic.Uint64
	candidates atomic.Uint64
	checked    atomic.Uint64
}

// New builds an engine over rules.
//
// The rules are copied and sorted; the caller's slice is left untouched.
// interner must be the one the rules were built with: filter texts are
// interned into the same domain so that query caches are shared between
// filters and rules. interner is not retained.
//
// Example:
//
//	e, err := engine.New(rules, interner, table.Default(), engine.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	caps := e.Parse("Mozilla/5.0 (Windows NT 10.0; Win64; x64) ...")
func New(rules []*rule.Rule, interner *literal.Interner, defaults *capability.Capabilities, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if defaults == nil {
		return nil, ErrNoDefault
	}
	if slices.Contains(rules, nil) {
		return nil, ErrNilRule
	}

	e := &Engine{
		rules:    Sort(rules),
		defaults: defaults,
		domain:   interner.Domain(),
	}

	if config.EnableFilters {
		set, err := prefilter.Build(e.rules, interner, config.Prefixes, config.Substrings)
		if err != nil {
			return nil, err
		}
		e.filters = set
		if config.TrackFilters {
			e.tracker = prefilter.NewTracker(set)
		}
	}

	// Created last: query caches are sized from the literal count, which
	// must include the filter texts interned above.
	e.pool = newSearchStatePool(e.domain, uint(len(e.rules)))
	return e, nil
}

// Sort returns a copy of rules in specificity order: pattern length
// descending, then pattern text ascending. Rules with equal patterns keep
// their relative order.
//
// Example:
//
//	Sort(rules for "b", "aa", "a", "bb") // aa, bb, a, b
func Sort(rules []*rule.Rule) []*rule.Rule {
	type keyed struct {
		rule    *rule.Rule
		pattern string
	}
	keys := make([]keyed, len(rules))
	for i, r := range rules {
		keys[i] = keyed{rule: r, pattern: r.Pattern()}
	}
	slices.SortStableFunc(keys, func(a, b keyed) int {
		if c := cmp.Compare(b.rule.Len(), a.rule.Len()); c != 0 {
			return c
		}
		return cmp.Compare(a.pattern, b.pattern)
	})

	out := make([]*rule.Rule, len(keys))
	for i, k := range keys {
		out[i] = k.rule
	}
	return out
}

// Parse returns the record of the most specific rule matching ua, or the
// default record when ua is empty or nothing matches. Parse never fails.
func (e *Engine) Parse(ua string) *capability.Capabilities {
	if r := e.Match(ua); r != nil {
		return r.Capabilities()
	}
	return e.defaults
}

// Match returns the most specific rule matching ua, or nil.
func (e *Engine) Match(ua string) *rule.Rule {
	r, _ := e.match(ua)
	return r
}

// Trace describes how one lookup was resolved.
type Trace struct {
	// Query is the lowercased user agent.
	Query string

	// Candidates is the number of rules that survived the filters.
	Candidates int

	// Checked is the number of rules whose match predicate ran.
	Checked int

	// Rule is the matching rule, or nil.
	Rule *rule.Rule

	// Capabilities is the record Parse returns for the same user agent.
	Capabilities *capability.Capabilities
}

// Explain resolves ua like Match and reports how much work it took.
func (e *Engine) Explain(ua string) Trace {
	r, tr := e.match(ua)
	tr.Rule = r
	tr.Capabilities = e.defaults
	if r != nil {
		tr.Capabilities = r.Capabilities()
	}
	return tr
}

func (e *Engine) match(ua string) (*rule.Rule, Trace) {
	e.lookups.Add(1)
	if ua == "" {
		return nil, Trace{}
	}

	state := e.pool.get()
	defer e.pool.put(state)

	q := state.query
	q.ResetLower(ua)
	tr := Trace{Query: q.String()}

	var found *rule.Rule
	if e.filters == nil {
		tr.Candidates = len(e.rules)
		for _, r := range e.rules {
			tr.Checked++
			if r.Matches(q) {
				found = r
				break
			}
		}
	} else {
		includes := e.includes(q, state.includes)
		tr.Candidates = int(includes.Count())
		for i, ok := includes.NextSet(0); ok; i, ok = includes.NextSet(i + 1) {
			tr.Checked++
			if r := e.rules[i]; r.Matches(q) {
				found = r
				break
			}
		}
	}

	e.candidates.Add(uint64(tr.Candidates))
	e.checked.Add(uint64(tr.Checked))
	if found != nil {
		e.matched.Add(1)
	}
	return found, tr
}

func (e *Engine) includes(q *literal.Searchable, dst *bitset.BitSet) *bitset.BitSet {
	if e.tracker != nil {
		return e.tracker.Includes(q, dst)
	}
	return e.filters.Includes(q, dst)
}

// IncludeSet returns the indices, into Rules, of the rules the filters keep
// for ua. With filters disabled every rule is kept.
func (e *Engine) IncludeSet(ua string) *bitset.BitSet {
	size := uint(len(e.rules))
	if e.filters == nil {
		all := bitset.New(size)
		if size > 0 {
			all.FlipRange(0, size)
		}
		return all
	}
	q := e.domain.NewSearchable("")
	q.ResetLower(ua)
	return e.filters.Includes(q, nil)
}

// Rules returns the rules in specificity order.
// The slice is shared and must not be modified.
func (e *Engine) Rules() []*rule.Rule {
	return e.rules
}

// Len returns the number of rules.
func (e *Engine) Len() int {
	return len(e.rules)
}

// Default returns the record returned when no rule matches.
func (e *Engine) Default() *capability.Capabilities {
	return e.defaults
}

// Filters returns the filter set, or nil when filters are disabled.
func (e *Engine) Filters() *prefilter.Set {
	return e.filters
}

// FilterStats returns per-filter effectiveness counters, or nil unless
// Config.TrackFilters is set.
func (e *Engine) FilterStats() []prefilter.FilterStats {
	if e.tracker == nil {
		return nil
	}
	return e.tracker.Stats()
}
