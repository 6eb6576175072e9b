// Package audit turns saves and approval actions into durable, replayable
// history: field diffs for save transactions and the merged timeline served
// to clients.
package audit

import (
	"encoding/json"

	"github.com/avjabalpur/cian-erp-sub001/internal/approval/catalog"
)

// DiffEntry is the before/after pair for one changed field.
type DiffEntry struct {
	Previous string `json:"previous"`
	New      string `json:"new"`
}

// DiffMap holds exactly the fields touched in one save. Unchanged fields are
// absent, never present with equal values.
type DiffMap map[catalog.FieldID]DiffEntry

// MalformedDiffKey is the synthetic key of the single entry a corrupt stored
// diff degrades to. It never collides with a catalog field.
const MalformedDiffKey catalog.FieldID = "_malformed"

// ComputeDiff emits one entry per overlay key whose value differs from the
// persisted record. Missing values normalise to the empty string so the
// audit log never records null/undefined noise.
func ComputeDiff(persisted, overlay map[catalog.FieldID]string) DiffMap {
	diff := make(DiffMap)
	for field, next := range overlay {
		prev := persisted[field]
		if prev == next {
			continue
		}
		diff[field] = DiffEntry{Previous: prev, New: next}
	}
	return diff
}

// Empty reports whether the diff carries no changes. An empty diff makes a
// save a no-op, reported rather than persisted.
func (d DiffMap) Empty() bool {
	return len(d) == 0
}

// NewValues returns the overlay the diff was computed from.
func (d DiffMap) NewValues() map[catalog.FieldID]string {
	out := make(map[catalog.FieldID]string, len(d))
	for field, entry := range d {
		out[field] = entry.New
	}
	return out
}

// Encode serialises the diff for storage.
func (d DiffMap) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// DecodeDiff parses a stored diff. A malformed payload degrades to a single
// synthetic entry reporting the parse failure so one corrupt row can never
// abort a timeline render.
func DecodeDiff(raw []byte) DiffMap {
	var diff DiffMap
	if err := json.Unmarshal(raw, &diff); err != nil {
		return DiffMap{MalformedDiffKey: {New: "unreadable change record: " + err.Error()}}
	}
	if diff == nil {
		diff = DiffMap{}
	}
	return diff
}

// Malformed reports whether the diff is the degraded form of a corrupt row.
func (d DiffMap) Malformed() bool {
	_, ok := d[MalformedDiffKey]
	return ok
}
