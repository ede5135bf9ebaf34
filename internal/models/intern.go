package models

import (
	"strconv"
	"time"

	"github.com/plc-visualizer/strintern/internal/intern"
)

// EntryView is one interned string as exposed over the API. IDs are strings
// because JSON numbers cannot carry 64 bits exactly.
type EntryView struct {
	ID   string `json:"id" msgpack:"id"`
	Hex  string `json:"hex" msgpack:"hex"`
	Text string `json:"text" msgpack:"text"`
}

// NewEntryView converts a registry entry.
func NewEntryView(e intern.Entry) EntryView {
	return EntryView{
		ID:   strconv.FormatUint(uint64(e.ID), 10),
		Hex:  "0x" + e.ID.String(),
		Text: e.Text,
	}
}

// Stats mirrors intern.Stats with registry identity attached.
type Stats struct {
	Instance      string `json:"instance" msgpack:"instance"`
	Hasher        string `json:"hasher" msgpack:"hasher"`
	Entries       int    `json:"entries" msgpack:"entries"`
	Interns       uint64 `json:"interns" msgpack:"interns"`
	Inserts       uint64 `json:"inserts" msgpack:"inserts"`
	Collisions    uint64 `json:"collisions" msgpack:"collisions"`
	ResolveMisses uint64 `json:"resolveMisses" msgpack:"resolveMisses"`
	FeedDropped   uint64 `json:"feedDropped" msgpack:"feedDropped"`
	Subscribers   int    `json:"subscribers" msgpack:"subscribers"`
}

// NewStats reads r's counters.
func NewStats(r *intern.Registry) Stats {
	st := r.Stats()
	return Stats{
		Instance:      r.InstanceID().String(),
		Hasher:        r.HasherName(),
		Entries:       st.Entries,
		Interns:       st.Interns,
		Inserts:       st.Inserts,
		Collisions:    st.Collisions,
		ResolveMisses: st.ResolveMisses,
		FeedDropped:   st.FeedDropped,
		Subscribers:   st.Subscribers,
	}
}

// Snapshot is the full table at a point in time, ordered by ID.
type Snapshot struct {
	Instance string      `json:"instance" msgpack:"instance"`
	Hasher   string      `json:"hasher" msgpack:"hasher"`
	TakenAt  time.Time   `json:"takenAt" msgpack:"takenAt"`
	Count    int         `json:"count" msgpack:"count"`
	Entries  []EntryView `json:"entries" msgpack:"entries"`
}

// NewSnapshot copies r's table.
func NewSnapshot(r *intern.Registry) Snapshot {
	entries := r.Entries()
	views := make([]EntryView, len(entries))
	for i, e := range entries {
		views[i] = NewEntryView(e)
	}
	return Snapshot{
		Instance: r.InstanceID().String(),
		Hasher:   r.HasherName(),
		TakenAt:  time.Now().UTC(),
		Count:    len(views),
		Entries:  views,
	}
}

// InternRequest is the body of POST /api/intern. Text is a pointer so an
// explicit empty string can be told apart from a missing field.
type InternRequest struct {
	Text *string `json:"text"`
}

// PresenceResponse answers GET /api/interned.
type PresenceResponse struct {
	Interned bool   `json:"interned"`
	ID       string `json:"id"`
	Hex      string `json:"hex"`
}

// InternResponse answers POST /api/intern. Created is false when the text,
// or a colliding text, was already present.
type InternResponse struct {
	EntryView
	Created bool `json:"created"`
}
