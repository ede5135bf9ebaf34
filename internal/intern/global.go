package intern

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Process-wide default registry. Reads go through an atomic pointer; creation
// and teardown are serialized by mu.
var global struct {
	mu   sync.Mutex
	reg  atomic.Pointer[Registry]
	opts []Option
	refs int
	gen  uint64
}

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	if r := global.reg.Load(); r != nil {
		return r
	}
	global.mu.Lock()
	defer global.mu.Unlock()
	return defaultLocked()
}

func defaultLocked() *Registry {
	if r := global.reg.Load(); r != nil {
		return r
	}
	r := NewRegistry(global.opts...)
	global.reg.Store(r)
	return r
}

// Configure sets the options used to build the default registry. It must be
// called before the first use of Default.
func Configure(opts ...Option) error {
	global.mu.Lock()
	defer global.mu.Unlock()
	if global.reg.Load() != nil {
		return ErrAlreadyInitialized
	}
	global.opts = opts
	return nil
}

// Guard keeps the default registry alive until released.
type Guard struct {
	gen  uint64
	once sync.Once
}

// Retain registers a dependent of the default registry, creating the registry
// if needed. When the last guard is released the registry is torn down.
func Retain() *Guard {
	global.mu.Lock()
	defer global.mu.Unlock()
	defaultLocked()
	global.refs++
	return &Guard{gen: global.gen}
}

// Release drops the guard's reference. Calling it more than once is a no-op,
// as is releasing a guard that outlived an explicit Shutdown.
func (g *Guard) Release() {
	g.once.Do(func() {
		global.mu.Lock()
		defer global.mu.Unlock()
		if g.gen != global.gen {
			return
		}
		global.refs--
		if global.refs <= 0 {
			teardownLocked()
		}
	})
}

// Shutdown tears down the default registry regardless of outstanding guards.
// Handles already issued keep working; the next Default call builds a fresh
// registry with a new instance ID.
func Shutdown() {
	global.mu.Lock()
	defer global.mu.Unlock()
	teardownLocked()
}

func teardownLocked() {
	global.refs = 0
	global.gen++
	r := global.reg.Swap(nil)
	if r == nil {
		return
	}
	r.Close()
	st := r.Stats()
	r.log.WithFields(logrus.Fields{
		"entries":    st.Entries,
		"interns":    st.Interns,
		"collisions": st.Collisions,
	}).Info("registry torn down")
}

// Intern interns text in the default registry.
func Intern(text string) ID {
	return Default().Intern(text)
}

// IsInterned reports whether text is present in the default registry.
func IsInterned(text string) bool {
	return Default().IsInterned(text)
}

// IsInternedID reports whether id is present in the default registry.
func IsInternedID(id ID) bool {
	return Default().IsInternedID(id)
}

// Resolve looks id up in the default registry.
func Resolve(id ID) (string, bool) {
	return Default().Resolve(id)
}

// Snapshot copies the default registry's table.
func Snapshot() map[ID]string {
	return Default().Snapshot()
}

// Make returns a handle from the default registry.
func Make(text string) Handle {
	return Default().Make(text)
}

// MustFromID returns the handle for id from the default registry and panics
// with *UnresolvedIDError if id is unknown.
func MustFromID(id ID) Handle {
	return Default().MustHandle(id)
}
