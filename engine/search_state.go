package engine

import (
	"sync"

	"github.com/bits-and-blooms/bitset"

	"github.com/coregx/browscap/literal"
)

// searchState holds per-lookup mutable state for concurrent lookups.
//
// Usage pattern:
//
//	state := e.pool.get()
//	defer e.pool.put(state)
//	state.query.ResetLower(ua)
//
// Each goroutine must use its own searchState instance.
type searchState struct {
	// query is the cached view over the current user agent. Its caches are
	// sized for every literal of the engine, filter texts included.
	query *literal.Searchable

	// includes is the reusable include set of the filter layer.
	includes *bitset.BitSet
}

// searchStatePool manages searchState instances for reuse across lookups.
type searchStatePool struct {
	pool sync.Pool

	domain *literal.Domain
	rules  uint
}

func newSearchStatePool(domain *literal.Domain, rules uint) *searchStatePool {
	p := &searchStatePool{domain: domain, rules: rules}
	p.pool = sync.Pool{
		New: func() any {
			return &searchState{
				query:    p.domain.NewSearchable(""),
				includes: bitset.New(p.rules),
			}
		},
	}
	return p
}

// get retrieves a searchState from the pool, creating one if necessary.
func (p *searchStatePool) get() *searchState {
	return p.pool.Get().(*searchState)
}

// put returns a searchState to the pool for reuse.
// Caches are invalidated by the next Reset, not here.
func (p *searchStatePool) put(state *searchState) {
	if state == nil {
		return
	}
	p.pool.Put(state)
}
