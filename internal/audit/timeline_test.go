package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avjabalpur/cian-erp-sub001/internal/approval/catalog"
)

func TestDeriveStatusChanges(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	saves := []Event{
		{At: at, Kind: EventKindSave, ActorID: 7, Diff: DiffMap{
			catalog.FieldQuantity: {Previous: "1", New: "2"},
		}},
		{At: at.Add(time.Hour), Kind: EventKindSave, ActorID: 8, Diff: DiffMap{
			catalog.FieldCurrentStatus: {Previous: "IN-PROGRESS", New: "SO-CONFIRMED"},
			catalog.FieldQuantity:      {Previous: "2", New: "3"},
		}},
	}

	markers := DeriveStatusChanges(saves)
	require.Len(t, markers, 1)
	require.Equal(t, EventKindStatusChange, markers[0].Kind)
	require.Equal(t, int64(8), markers[0].ActorID)
	require.Equal(t, "IN-PROGRESS → SO-CONFIRMED", markers[0].Body)
	require.Equal(t, at.Add(time.Hour), markers[0].At)
}

func TestMergeTimelineOrdersChronologically(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	a := []Event{
		{At: base.Add(3 * time.Hour), Kind: EventKindApproval},
		{At: base, Kind: EventKindSave},
	}
	b := []Event{
		{At: base.Add(time.Hour), Kind: EventKindChat},
		{At: base.Add(2 * time.Hour), Kind: EventKindDocument},
	}

	merged := MergeTimeline(time.Time{}, a, b)
	require.Len(t, merged, 4)
	require.Equal(t, EventKindSave, merged[0].Kind)
	require.Equal(t, EventKindChat, merged[1].Kind)
	require.Equal(t, EventKindDocument, merged[2].Kind)
	require.Equal(t, EventKindApproval, merged[3].Kind)

	// Nothing is flagged unread without a read marker.
	for _, ev := range merged {
		require.False(t, ev.Unread)
	}
}

func TestMergeTimelineMarksUnreadAfterLastRead(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{At: base, Kind: EventKindSave},
		{At: base.Add(time.Hour), Kind: EventKindChat},
		{At: base.Add(2 * time.Hour), Kind: EventKindApproval},
	}

	merged := MergeTimeline(base.Add(time.Hour), events)
	require.False(t, merged[0].Unread)
	require.False(t, merged[1].Unread, "an event at exactly lastRead is read")
	require.True(t, merged[2].Unread)
}
