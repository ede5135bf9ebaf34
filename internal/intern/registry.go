// Package intern maps strings to small comparable identifiers and back.
//
// A Registry keeps one canonical copy of every distinct string it has seen,
// keyed by an ID derived from the string's content. Handles pair an ID with
// direct access to that canonical copy so they can be compared in O(1) and
// read without touching the registry's lock.
//
// IDs are hashes, not sequence numbers. When two distinct strings hash to the
// same ID the first one inserted stays canonical and the second silently
// receives the same ID. Collisions are counted and logged but never change
// what a caller gets back.
package intern

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Registry is a growth-only table from ID to canonical text.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	index map[ID]uint32
	arena *arena

	hasher     Hasher
	hasherName string
	instance   uuid.UUID
	log        *logrus.Entry

	interns       atomic.Uint64
	inserts       atomic.Uint64
	collisions    atomic.Uint64
	resolveMisses atomic.Uint64

	feed feed
}

// Entry is one row of the table.
type Entry struct {
	ID   ID     `json:"id" msgpack:"id"`
	Text string `json:"text" msgpack:"text"`
}

// Stats is a point-in-time view of registry counters.
type Stats struct {
	Entries       int
	Interns       uint64
	Inserts       uint64
	Collisions    uint64
	ResolveMisses uint64
	FeedDropped   uint64
	Subscribers   int
}

type options struct {
	hasher     Hasher
	hasherName string
	capacity   int
	logger     *logrus.Logger
}

// Option configures a Registry.
type Option func(*options)

// WithHasher sets the hash function and the name reported for it.
func WithHasher(name string, h Hasher) Option {
	return func(o *options) {
		o.hasher = h
		o.hasherName = name
	}
}

// WithCapacity pre-sizes the table.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithLogger sets the logger for collision and lifecycle messages.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// NewRegistry creates a registry with the empty string already interned.
func NewRegistry(opts ...Option) *Registry {
	o := options{capacity: 1024}
	for _, opt := range opts {
		opt(&o)
	}
	if o.hasher == nil {
		o.hasher, _ = HasherByName(DefaultHasher)
		o.hasherName = DefaultHasher
	}
	if o.logger == nil {
		o.logger = logrus.StandardLogger()
	}

	r := &Registry{
		index:      make(map[ID]uint32, o.capacity),
		arena:      newArena(o.capacity),
		hasher:     o.hasher,
		hasherName: o.hasherName,
		instance:   uuid.New(),
	}
	r.log = o.logger.WithFields(logrus.Fields{
		"component": "intern",
		"registry":  r.instance.String()[:8],
	})
	r.feed.init()

	slot, _ := r.arena.add(EmptyID, "")
	r.index[EmptyID] = slot
	return r
}

// Hash returns the ID text would be interned under, without interning it.
func (r *Registry) Hash(text string) ID {
	return sum(r.hasher, text)
}

// HasherName reports the configured hash function.
func (r *Registry) HasherName() string {
	return r.hasherName
}

// InstanceID distinguishes this registry from any other created in the process.
func (r *Registry) InstanceID() uuid.UUID {
	return r.instance
}

// IsInterned reports whether text's ID is present.
func (r *Registry) IsInterned(text string) bool {
	return r.IsInternedID(r.Hash(text))
}

// IsInternedID reports whether id is present.
func (r *Registry) IsInternedID(id ID) bool {
	r.mu.RLock()
	_, ok := r.index[id]
	r.mu.RUnlock()
	return ok
}

// Intern stores a copy of text if its ID is absent and returns the ID.
func (r *Registry) Intern(text string) ID {
	e, _ := r.intern(text)
	return e.id
}

// intern returns the canonical entry for text and whether this call inserted it.
func (r *Registry) intern(text string) (*entry, bool) {
	id := r.Hash(text)
	r.interns.Add(1)

	// Fast path: read lock
	r.mu.RLock()
	e := r.lookupLocked(id)
	r.mu.RUnlock()
	if e != nil {
		r.checkCollision(e, text)
		return e, false
	}

	r.mu.Lock()
	// Double-check after acquiring write lock
	if e := r.lookupLocked(id); e != nil {
		r.mu.Unlock()
		r.checkCollision(e, text)
		return e, false
	}
	slot, e := r.arena.add(id, strings.Clone(text))
	r.index[id] = slot
	r.mu.Unlock()

	r.inserts.Add(1)
	r.feed.publish(Entry{ID: e.id, Text: e.text})
	return e, true
}

func (r *Registry) lookupLocked(id ID) *entry {
	slot, ok := r.index[id]
	if !ok {
		return nil
	}
	return r.arena.at(slot)
}

func (r *Registry) lookup(id ID) *entry {
	r.mu.RLock()
	e := r.lookupLocked(id)
	r.mu.RUnlock()
	return e
}

func (r *Registry) checkCollision(e *entry, text string) {
	if e.text == text {
		return
	}
	r.collisions.Add(1)
	r.log.WithFields(logrus.Fields{
		"id":        e.id.String(),
		"canonical": e.text,
		"text":      text,
	}).Warn("hash collision, keeping canonical text")
}

// Resolve returns the canonical text for id. ok is false if id was never interned.
func (r *Registry) Resolve(id ID) (text string, ok bool) {
	e := r.lookup(id)
	if e == nil {
		r.resolveMisses.Add(1)
		return "", false
	}
	return e.text, true
}

// Len returns the number of entries, including the empty string.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.arena.len()
}

// Snapshot copies the full table.
func (r *Registry) Snapshot() map[ID]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[ID]string, len(r.index))
	for id, slot := range r.index {
		out[id] = r.arena.at(slot).text
	}
	return out
}

// Entries copies the full table ordered by ID.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, r.arena.len())
	for slot := uint32(0); int(slot) < r.arena.len(); slot++ {
		e := r.arena.at(slot)
		out = append(out, Entry{ID: e.id, Text: e.text})
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Entry) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// Stats returns the current counters.
func (r *Registry) Stats() Stats {
	return Stats{
		Entries:       r.Len(),
		Interns:       r.interns.Load(),
		Inserts:       r.inserts.Load(),
		Collisions:    r.collisions.Load(),
		ResolveMisses: r.resolveMisses.Load(),
		FeedDropped:   r.feed.dropped.Load(),
		Subscribers:   r.feed.count(),
	}
}

// Close ends every feed subscription. The table itself stays usable.
func (r *Registry) Close() {
	r.feed.close()
}
