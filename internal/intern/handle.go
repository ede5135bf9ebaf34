package intern

import (
	"cmp"
)

// Handle refers to one interned string. Handles compare by ID, so equality is
// O(1) whatever the length of the text. A Handle is a small value: copy it
// freely and use it as a map key.
//
// The zero Handle is the empty string.
type Handle struct {
	id ID
	e  *entry
}

// Empty is the handle of the empty string. It equals the zero Handle.
var Empty = Handle{}

func handleOf(e *entry) Handle {
	if e.id == EmptyID {
		return Handle{}
	}
	return Handle{id: e.id, e: e}
}

// Make interns text and returns its handle.
func (r *Registry) Make(text string) Handle {
	e, _ := r.intern(text)
	return handleOf(e)
}

// Insert is Make that also reports whether this call added the entry.
func (r *Registry) Insert(text string) (Handle, bool) {
	e, inserted := r.intern(text)
	return handleOf(e), inserted
}

// Lookup returns the handle for an already interned id.
func (r *Registry) Lookup(id ID) (Handle, bool) {
	if id == EmptyID {
		return Handle{}, true
	}
	e := r.lookup(id)
	if e == nil {
		return Handle{}, false
	}
	return handleOf(e), true
}

// MustHandle returns the handle for id and panics with *UnresolvedIDError if
// id was never interned. An unknown id means the caller built it by some
// other means than this registry, which is a programming error.
func (r *Registry) MustHandle(id ID) Handle {
	h, ok := r.Lookup(id)
	if !ok {
		err := &UnresolvedIDError{ID: id, Registry: r.instance}
		r.log.WithField("id", id.String()).Error("uninterned id referenced")
		panic(err)
	}
	return h
}

// Text returns the canonical text.
func (h Handle) Text() string {
	if h.e == nil {
		return ""
	}
	return h.e.text
}

// String implements fmt.Stringer.
func (h Handle) String() string {
	return h.Text()
}

// ID returns the raw identifier.
func (h Handle) ID() ID {
	return h.id
}

// IsEmpty reports whether h is the empty string.
func (h Handle) IsEmpty() bool {
	return h.id == EmptyID
}

// Equal compares identifiers.
func (h Handle) Equal(o Handle) bool {
	return h.id == o.id
}

// EqualID compares h's identifier with id.
func (h Handle) EqualID(id ID) bool {
	return h.id == id
}

// EqualString compares the canonical text with s.
func (h Handle) EqualString(s string) bool {
	return h.Text() == s
}

// Less orders handles by identifier. The order is total and stable for the
// life of the process but says nothing about lexical order.
func (h Handle) Less(o Handle) bool {
	return h.id < o.id
}

// LessID orders h against a raw identifier.
func (h Handle) LessID(id ID) bool {
	return h.id < id
}

// Compare returns -1, 0 or +1 following Less.
func (h Handle) Compare(o Handle) int {
	return cmp.Compare(h.id, o.id)
}
