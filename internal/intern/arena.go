package intern

// chunkSize is the number of entries per arena chunk.
const chunkSize = 1024

// entry is the canonical storage for one interned string. Entries live in
// fixed-size chunks that are never reallocated, so a *entry stays valid for
// the life of the arena.
type entry struct {
	id   ID
	text string
}

// arena is an append-only store of entries addressed by slot number.
// It is not synchronized; the Registry guards it.
type arena struct {
	chunks []*[chunkSize]entry
	n      uint32
}

func newArena(capacity int) *arena {
	a := &arena{}
	if capacity > 0 {
		a.chunks = make([]*[chunkSize]entry, 0, (capacity+chunkSize-1)/chunkSize)
	}
	return a
}

// add stores a new entry and returns its slot and stable address.
func (a *arena) add(id ID, text string) (uint32, *entry) {
	slot := a.n
	c := int(slot / chunkSize)
	if c == len(a.chunks) {
		a.chunks = append(a.chunks, new([chunkSize]entry))
	}
	e := &a.chunks[c][slot%chunkSize]
	e.id = id
	e.text = text
	a.n++
	return slot, e
}

func (a *arena) at(slot uint32) *entry {
	return &a.chunks[slot/chunkSize][slot%chunkSize]
}

func (a *arena) len() int {
	return int(a.n)
}
