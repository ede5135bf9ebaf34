package intern_test

import (
	"sync"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/plc-visualizer/strintern/internal/intern"
	"github.com/plc-visualizer/strintern/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedDeliversInserts(t *testing.T) {
	defer leaktest.Check(t)()
	r, _ := testutil.NewRegistry()

	ch, cancel := r.Subscribe(8)
	defer cancel()

	id := r.Intern("PlayerMove")
	r.Intern("PlayerMove") // hit, no event

	select {
	case e := <-ch:
		assert.Equal(t, intern.Entry{ID: id, Text: "PlayerMove"}, e)
	case <-time.After(time.Second):
		t.Fatal("no feed entry for insert")
	}

	select {
	case e := <-ch:
		t.Fatalf("unexpected entry for a hit: %+v", e)
	default:
	}
}

func TestFeedDropsWhenFull(t *testing.T) {
	r, _ := testutil.NewRegistry()

	ch, cancel := r.Subscribe(1)
	defer cancel()

	r.Intern("one")
	r.Intern("two")
	r.Intern("three")

	assert.Len(t, ch, 1)
	assert.Equal(t, uint64(2), r.Stats().FeedDropped)
}

func TestFeedCancel(t *testing.T) {
	r, _ := testutil.NewRegistry()

	ch, cancel := r.Subscribe(1)
	assert.Equal(t, 1, r.Stats().Subscribers)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, r.Stats().Subscribers)

	// Interning after cancel must not panic on a closed channel
	r.Intern("after")
}

func TestFeedAfterClose(t *testing.T) {
	r, _ := testutil.NewRegistry()
	r.Close()

	ch, cancel := r.Subscribe(1)
	defer cancel()
	_, open := <-ch
	assert.False(t, open)

	// The table keeps working
	assert.Equal(t, r.Hash("x"), r.Intern("x"))
}

func TestFeedConcurrentConsumers(t *testing.T) {
	defer leaktest.Check(t)()
	r, _ := testutil.NewRegistry()

	const consumers = 4
	const symbols = 100

	var wg sync.WaitGroup
	counts := make([]int, consumers)
	cancels := make([]func(), consumers)
	for i := 0; i < consumers; i++ {
		ch, cancel := r.Subscribe(symbols)
		cancels[i] = cancel
		wg.Add(1)
		go func(i int, ch <-chan intern.Entry) {
			defer wg.Done()
			for range ch {
				counts[i]++
			}
		}(i, ch)
	}

	for i := 0; i < symbols; i++ {
		r.Intern(string(rune('A'+i%26)) + string(rune('0'+i/26)))
	}
	for _, cancel := range cancels {
		cancel()
	}
	wg.Wait()

	for i := 0; i < consumers; i++ {
		require.Equal(t, symbols, counts[i])
	}
}
