package intern

import (
	"sync"
	"sync/atomic"
)

// feed fans newly inserted entries out to subscribers. Sends never block the
// intern path; a subscriber whose buffer is full misses the entry.
type feed struct {
	mu      sync.Mutex
	subs    map[uint64]chan Entry
	next    uint64
	closed  bool
	dropped atomic.Uint64
}

func (f *feed) init() {
	f.subs = make(map[uint64]chan Entry)
}

// Subscribe returns a channel receiving every entry inserted from now on and
// a cancel func that closes it. Entries that arrive while the buffer is full
// are dropped and counted in Stats.FeedDropped.
func (r *Registry) Subscribe(buffer int) (<-chan Entry, func()) {
	return r.feed.subscribe(buffer)
}

func (f *feed) subscribe(buffer int) (<-chan Entry, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Entry, buffer)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		close(ch)
		return ch, func() {}
	}
	id := f.next
	f.next++
	f.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() { f.cancel(id) })
	}
}

func (f *feed) cancel(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.subs[id]; ok {
		delete(f.subs, id)
		close(ch)
	}
}

func (f *feed) publish(e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- e:
		default:
			f.dropped.Add(1)
		}
	}
}

func (f *feed) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *feed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
}
