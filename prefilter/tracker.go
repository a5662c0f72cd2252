package prefilter

import (
	"sync/atomic"

	"github.com/bits-and-blooms/bitset"

	"github.com/coregx/browscap/literal"
)

// Tracker wraps a Set with effectiveness tracking.
//
// The tracker counts, per filter, how many queries it was evaluated for and
// how many of them it fired on (excluded its mask). A filter that almost
// never fires only costs time on the query path; the counts make such filters
// visible so a catalogue specific filter list can be tuned.
//
// All counters are atomic, so one Tracker is shared by every concurrent
// lookup of an engine.
//
// Example usage:
//
//	tracker := prefilter.NewTracker(set)
//	includes := tracker.Includes(query, buf)
//	...
//	for _, st := range tracker.Stats() {
//	    fmt.Printf("%s fired %d/%d\n", st.Filter, st.Fired, st.Evaluated)
//	}
type Tracker struct {
	set *Set

	evaluated atomic.Uint64
	fired     []atomic.Uint64
}

// FilterStats is a snapshot of one filter's counters.
type FilterStats struct {
	Filter    *Filter
	Weight    int
	Evaluated uint64
	Fired     uint64
}

// Efficiency returns the fraction of evaluations the filter fired on.
func (st FilterStats) Efficiency() float64 {
	if st.Evaluated == 0 {
		return 0
	}
	return float64(st.Fired) / float64(st.Evaluated)
}

// NewTracker creates a tracker for set.
//
// Returns nil if set is nil.
func NewTracker(set *Set) *Tracker {
	if set == nil {
		return nil
	}
	return &Tracker{
		set:   set,
		fired: make([]atomic.Uint64, set.Len()),
	}
}

// Includes behaves like Set.Includes and records which filters fired.
func (t *Tracker) Includes(q *literal.Searchable, dst *bitset.BitSet) *bitset.BitSet {
	size := t.set.size
	if dst == nil {
		dst = bitset.New(size)
	} else {
		dst.ClearAll()
	}

	t.evaluated.Add(1)
	for i, f := range t.set.filters {
		if f.ApplyExcludes(q, dst) {
			t.fired[i].Add(1)
		}
	}
	if size > 0 {
		dst.FlipRange(0, size)
	}
	return dst
}

// Evaluated returns the number of queries the tracker has seen.
func (t *Tracker) Evaluated() uint64 {
	return t.evaluated.Load()
}

// Stats returns a snapshot of every filter's counters, in filter order.
func (t *Tracker) Stats() []FilterStats {
	evaluated := t.evaluated.Load()
	out := make([]FilterStats, len(t.set.filters))
	for i, f := range t.set.filters {
		out[i] = FilterStats{
			Filter:    f,
			Weight:    f.Weight(),
			Evaluated: evaluated,
			Fired:     t.fired[i].Load(),
		}
	}
	return out
}
