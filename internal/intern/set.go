package intern

import (
	"github.com/emirpasic/gods/sets/treeset"
)

// HandleComparator orders Handles for gods containers.
func HandleComparator(a, b interface{}) int {
	return a.(Handle).Compare(b.(Handle))
}

// Set is an ordered set of handles, iterated in identifier order.
// It is not safe for concurrent use.
type Set struct {
	tree *treeset.Set
}

// NewSet creates a set holding hs.
func NewSet(hs ...Handle) *Set {
	s := &Set{tree: treeset.NewWith(HandleComparator)}
	s.Add(hs...)
	return s
}

func (s *Set) Add(hs ...Handle) {
	for _, h := range hs {
		s.tree.Add(h)
	}
}

func (s *Set) Remove(hs ...Handle) {
	for _, h := range hs {
		s.tree.Remove(h)
	}
}

func (s *Set) Contains(h Handle) bool {
	return s.tree.Contains(h)
}

func (s *Set) Len() int {
	return s.tree.Size()
}

// Handles returns the members in order.
func (s *Set) Handles() []Handle {
	vals := s.tree.Values()
	out := make([]Handle, len(vals))
	for i, v := range vals {
		out[i] = v.(Handle)
	}
	return out
}

// Each calls fn for each member in order until fn returns false.
func (s *Set) Each(fn func(Handle) bool) {
	it := s.tree.Iterator()
	for it.Next() {
		if !fn(it.Value().(Handle)) {
			return
		}
	}
}
