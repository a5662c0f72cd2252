package engine

// Stats is a snapshot of an engine's size and lookup counters.
type Stats struct {
	// Rules is the number of catalogue rules.
	Rules int

	// Literals is the number of distinct literals, filter texts included.
	Literals int

	// Filters is the number of exclusion filters; 0 when disabled.
	Filters int

	// Lookups counts Parse, Match and Explain calls, empty input included.
	Lookups uint64

	// Matched counts lookups that found a rule.
	Matched uint64

	// Candidates sums the rules that survived the filters, over all lookups.
	Candidates uint64

	// Checked sums the rules whose match predicate ran, over all lookups.
	Checked uint64
}

// PruneRatio returns the average fraction of rules left unscanned per lookup,
// or 0 before any lookup.
func (s Stats) PruneRatio() float64 {
	if s.Lookups == 0 || s.Rules == 0 {
		return 0
	}
	scanned := float64(s.Candidates) / float64(s.Lookups)
	return 1 - scanned/float64(s.Rules)
}

// Stats returns a snapshot of the engine counters.
// Counters are read independently and may be mutually inconsistent while
// lookups run concurrently.
func (e *Engine) Stats() Stats {
	st := Stats{
		Rules:      len(e.rules),
		Literals:   e.domain.Len(),
		Lookups:    e.lookups.Load(),
		Matched:    e.matched.Load(),
		Candidates: e.candidates.Load(),
		Checked:    e.checked.Load(),
	}
	if e.filters != nil {
		st.Filters = e.filters.Len()
	}
	return st
}
