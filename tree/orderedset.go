package tree

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// OrderedSet is the insertion-ordered, deduplicated membership structure
// the configuration, exit set and entry set all need: built incrementally
// (insertion order matters while building them) but emitted sorted by
// document order. Backed by go-ordered-map so Add/Has/Remove stay O(1)
// instead of the linear scans a plain slice would need.
type OrderedSet struct {
	m *orderedmap.OrderedMap[ID, struct{}]
}

// NewOrderedSet returns an empty OrderedSet.
func NewOrderedSet() *OrderedSet {
	return &OrderedSet{m: orderedmap.New[ID, struct{}]()}
}

// Add inserts id if not already present; a no-op on repeat adds so entry/exit
// set construction can call it unconditionally.
func (s *OrderedSet) Add(id ID) {
	if _, present := s.m.Get(id); !present {
		s.m.Set(id, struct{}{})
	}
}

// Remove deletes id if present.
func (s *OrderedSet) Remove(id ID) {
	s.m.Delete(id)
}

// Has reports membership.
func (s *OrderedSet) Has(id ID) bool {
	_, ok := s.m.Get(id)
	return ok
}

// Len reports the number of members.
func (s *OrderedSet) Len() int {
	return s.m.Len()
}

// Slice returns members in insertion order.
func (s *OrderedSet) Slice() []ID {
	out := make([]ID, 0, s.m.Len())
	for p := s.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// SortedByDocOrder returns members sorted ascending by document-order index,
// the universal deterministic tiebreaker for transition conflicts.
func (s *OrderedSet) SortedByDocOrder(t *Tree) []ID {
	out := s.Slice()
	sort.Slice(out, func(i, j int) bool {
		return t.Node(out[i]).DocOrder < t.Node(out[j]).DocOrder
	})
	return out
}

// SortedByDocOrderDesc is SortedByDocOrder in descending order, used for
// exit order (deeper/later states first).
func (s *OrderedSet) SortedByDocOrderDesc(t *Tree) []ID {
	out := s.Slice()
	sort.Slice(out, func(i, j int) bool {
		return t.Node(out[i]).DocOrder > t.Node(out[j]).DocOrder
	})
	return out
}

// Clone returns an independent copy preserving insertion order.
func (s *OrderedSet) Clone() *OrderedSet {
	c := NewOrderedSet()
	for p := s.m.Oldest(); p != nil; p = p.Next() {
		c.Add(p.Key)
	}
	return c
}
