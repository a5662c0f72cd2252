// Package sparse provides a set of small dense integer ids, such as literal
// indices, with O(1) insert and membership and no per-id initialization.
package sparse

// Set holds ids below a fixed capacity. It keeps a dense list of members in
// insertion order and a sparse array mapping each id to its dense position;
// a sparse slot is trusted only when the dense entry it points at agrees.
type Set struct {
	sparse []uint32
	dense  []uint32
}

// New creates a set for ids in [0, capacity).
func New(capacity uint32) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds id and reports whether it was absent.
// Ids at or beyond the capacity are ignored and reported as not added.
func (s *Set) Insert(id uint32) bool {
	if int64(id) >= int64(len(s.sparse)) || s.Contains(id) {
		return false
	}
	//nolint:gosec // G115: len(dense) < len(sparse), which holds ids as uint32
	s.sparse[id] = uint32(len(s.dense))
	s.dense = append(s.dense, id)
	return true
}

// Contains reports whether id is in the set.
func (s *Set) Contains(id uint32) bool {
	if int64(id) >= int64(len(s.sparse)) {
		return false
	}
	i := s.sparse[id]
	return int(i) < len(s.dense) && s.dense[i] == id
}
