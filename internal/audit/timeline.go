package audit

import (
	"fmt"
	"sort"
	"time"

	"github.com/avjabalpur/cian-erp-sub001/internal/approval/catalog"
)

// EventKind classifies one timeline entry.
type EventKind string

const (
	EventKindSave         EventKind = "save"
	EventKindStatusChange EventKind = "status-change"
	EventKindApproval     EventKind = "approval"
	EventKindChat         EventKind = "chat"
	EventKindDocument     EventKind = "document"
)

// Event is one row of the merged audit timeline.
type Event struct {
	At       time.Time `json:"at"`
	Kind     EventKind `json:"kind"`
	ActorID  int64     `json:"actor_id"`
	Stage    string    `json:"stage,omitempty"`
	Decision string    `json:"decision,omitempty"`
	Body     string    `json:"body,omitempty"`
	Diff     DiffMap   `json:"diff,omitempty"`
	Unread   bool      `json:"unread,omitempty"`
}

// DeriveStatusChanges emits a discrete status-change marker for every save
// event whose diff touched the record status, so the timeline renders status
// moves apart from generic field edits.
func DeriveStatusChanges(saves []Event) []Event {
	var markers []Event
	for _, save := range saves {
		entry, ok := save.Diff[catalog.FieldCurrentStatus]
		if !ok {
			continue
		}
		markers = append(markers, Event{
			At:      save.At,
			Kind:    EventKindStatusChange,
			ActorID: save.ActorID,
			Body:    fmt.Sprintf("%s → %s", entry.Previous, entry.New),
		})
	}
	return markers
}

// MergeTimeline merges event groups chronologically. Entries after lastRead
// are marked unread; a zero lastRead marks nothing. The merge happens at
// presentation time only, nothing here is stored.
func MergeTimeline(lastRead time.Time, groups ...[]Event) []Event {
	var merged []Event
	for _, group := range groups {
		merged = append(merged, group...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].At.Before(merged[j].At)
	})
	if !lastRead.IsZero() {
		for i := range merged {
			merged[i].Unread = merged[i].At.After(lastRead)
		}
	}
	return merged
}
