package entities

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinutesDocument_JSONFieldNames(t *testing.T) {
	doc := MinutesDocument{
		ActionItems:  []ActionItem{{ID: "1", Task: "t", Owner: "o", Deadline: "2024-01-02"}},
		MeetingTitle: "Sync",
		MeetingDate:  "2024-01-01",
	}.Clone()

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"attendees", "agenda", "summary", "decisions", "actionItems", "meetingTitle", "meetingDate"} {
		assert.Contains(t, fields, key)
	}
	assert.JSONEq(t, `[]`, string(fields["attendees"]))
}

func TestMinutesDocument_Clone(t *testing.T) {
	orig := MinutesDocument{
		Attendees:   []string{"Alice"},
		ActionItems: []ActionItem{{ID: "1"}},
	}
	c := orig.Clone()
	c.Attendees[0] = "Bob"
	c.ActionItems[0].Task = "changed"

	assert.Equal(t, "Alice", orig.Attendees[0])
	assert.Empty(t, orig.ActionItems[0].Task)
	assert.NotNil(t, MinutesDocument{}.Clone().Decisions)
}

func TestMinutesDocument_ApplyMetadata(t *testing.T) {
	now := time.Date(2024, 3, 6, 23, 59, 0, 0, time.UTC)

	var doc MinutesDocument
	doc.ApplyMetadata("", "", now)
	assert.Equal(t, DefaultMeetingTitle, doc.MeetingTitle)
	assert.Equal(t, "2024-03-06", doc.MeetingDate)

	doc.ApplyMetadata("Retro", "2024-01-31", now)
	assert.Equal(t, "Retro", doc.MeetingTitle)
	assert.Equal(t, "2024-01-31", doc.MeetingDate)
}

func TestMinutesDocument_EnsureActionItemIDs(t *testing.T) {
	doc := MinutesDocument{ActionItems: []ActionItem{{ID: "a"}, {ID: ""}, {ID: "a"}, {ID: "b"}}}
	doc.EnsureActionItemIDs()

	assert.Equal(t, "a", doc.ActionItems[0].ID)
	assert.Equal(t, "b", doc.ActionItems[3].ID)
	assert.Len(t, doc.ActionItemIDs(), 4)
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2024-02-29"))
	assert.False(t, ValidDate("2023-02-29"))
	assert.False(t, ValidDate("2024-3-6"))
	assert.False(t, ValidDate(""))
}

func TestActionItem_With(t *testing.T) {
	item := ActionItem{ID: "1", Task: "old"}

	updated, err := item.With(ActionItemFieldTask, "new")
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Task)
	assert.Equal(t, "old", item.Task)

	_, err = item.With(ActionItemField("id"), "2")
	assert.ErrorIs(t, err, ErrUnknownField)

	f, err := ParseActionItemField("deadline")
	require.NoError(t, err)
	assert.Equal(t, ActionItemFieldDeadline, f)
}

func TestNewActionItemID_AvoidsTaken(t *testing.T) {
	taken := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		id := NewActionItemID(taken)
		_, dup := taken[id]
		require.False(t, dup)
		taken[id] = struct{}{}
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "API error: 401 Unauthorized", (&TransportError{StatusCode: 401, Message: "Unauthorized"}).Error())
	assert.Equal(t, "API request failed: dial tcp: refused", (&TransportError{Message: "dial tcp: refused"}).Error())

	inner := errors.New("unexpected end of JSON input")
	malformed := &MalformedResponseError{Reason: "invalid JSON", Err: inner}
	assert.ErrorIs(t, malformed, inner)
	assert.Contains(t, malformed.Error(), "invalid JSON")

	assert.Equal(t, "agenda index 3 out of range [0,2)", (&IndexOutOfRangeError{Collection: "agenda", Index: 3, Length: 2}).Error())
}
