package intern_test

import (
	"testing"

	"github.com/plc-visualizer/strintern/internal/intern"
	"github.com/plc-visualizer/strintern/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSetOrderedByID(t *testing.T) {
	r, _ := testutil.NewRegistry()
	names := []string{"delta", "alpha", "charlie", "bravo", "alpha"}

	s := intern.NewSet()
	for _, n := range names {
		s.Add(r.Make(n))
	}
	assert.Equal(t, 4, s.Len())
	assert.True(t, s.Contains(r.Make("charlie")))
	assert.False(t, s.Contains(r.Make("echo")))

	hs := s.Handles()
	for i := 1; i < len(hs); i++ {
		assert.True(t, hs[i-1].Less(hs[i]))
	}

	s.Remove(r.Make("alpha"))
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.Contains(r.Make("alpha")))
}

func TestSetEachStops(t *testing.T) {
	r, _ := testutil.NewRegistry()
	s := intern.NewSet(r.Make("a"), r.Make("b"), r.Make("c"))

	var seen []intern.Handle
	s.Each(func(h intern.Handle) bool {
		seen = append(seen, h)
		return len(seen) < 2
	})
	assert.Len(t, seen, 2)
	assert.Equal(t, s.Handles()[:2], seen)
}

func TestHandleComparator(t *testing.T) {
	r, _ := testutil.NewRegistry()
	a, b := r.Make("a"), r.Make("b")

	assert.Equal(t, a.Compare(b), intern.HandleComparator(a, b))
	assert.Equal(t, 0, intern.HandleComparator(a, r.Make("a")))
}
