package minutes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
)

func newTestEditor() *Editor {
	return NewEditor(aliceBobDocument("Weekly sync", "2024-03-06"))
}

func TestEditor_StartsClean(t *testing.T) {
	e := newTestEditor()
	assert.False(t, e.Dirty())
	assert.Equal(t, e.Committed(), e.Working())
}

func TestEditor_AppendDefaults(t *testing.T) {
	e := newTestEditor()

	idx, err := e.Append(CollectionAgenda)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, []string{"Ship date", ""}, e.Working().Agenda)

	idx, err = e.Append(CollectionActionItems)
	require.NoError(t, err)
	item := e.Working().ActionItems[idx]
	assert.NotEmpty(t, item.ID)
	assert.NotEqual(t, "1", item.ID)
	assert.Empty(t, item.Task)
	assert.Empty(t, item.Owner)
	assert.Empty(t, item.Deadline)

	assert.True(t, e.Dirty())
	assert.Len(t, e.Committed().Agenda, 1, "committed snapshot is untouched")
}

func TestEditor_ActionItemIDsStayUnique(t *testing.T) {
	e := newTestEditor()
	for i := 0; i < 50; i++ {
		_, err := e.Append(CollectionActionItems)
		require.NoError(t, err)
	}
	assert.Len(t, e.Working().ActionItemIDs(), 51)
}

func TestEditor_UpdateAt(t *testing.T) {
	e := newTestEditor()

	require.NoError(t, e.UpdateAt(CollectionAttendees, 1, "Bob (QA)"))
	assert.Equal(t, []string{"Alice", "Bob (QA)"}, e.Working().Attendees)

	require.NoError(t, e.UpdateActionItem(0, entities.ActionItemFieldOwner, "Alice"))
	require.NoError(t, e.UpdateActionItem(0, entities.ActionItemFieldDeadline, "2024-03-15"))
	item := e.Working().ActionItems[0]
	assert.Equal(t, "1", item.ID)
	assert.Equal(t, "Alice", item.Owner)
	assert.Equal(t, "2024-03-15", item.Deadline)
}

func TestEditor_UpdateRejections(t *testing.T) {
	e := newTestEditor()

	assert.ErrorIs(t, e.UpdateActionItem(0, entities.ActionItemFieldDeadline, "next week"), entities.ErrInvalidDeadline)
	assert.ErrorIs(t, e.UpdateActionItem(0, entities.ActionItemField("id"), "x"), entities.ErrUnknownField)
	assert.ErrorIs(t, e.UpdateAt(CollectionActionItems, 0, "x"), entities.ErrUnknownCollection)
	assert.ErrorIs(t, e.UpdateAt(Collection("notes"), 0, "x"), entities.ErrUnknownCollection)
	assert.ErrorIs(t, e.SetDate("tomorrow"), entities.ErrInvalidMeetingDate)
	assert.False(t, e.Dirty())
}

func TestEditor_IndexOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		op   func(e *Editor) error
	}{
		{"update negative", func(e *Editor) error { return e.UpdateAt(CollectionAgenda, -1, "x") }},
		{"update past end", func(e *Editor) error { return e.UpdateAt(CollectionDecisions, 1, "x") }},
		{"update action item", func(e *Editor) error {
			return e.UpdateActionItem(3, entities.ActionItemFieldTask, "x")
		}},
		{"remove past end", func(e *Editor) error { return e.RemoveAt(CollectionAttendees, 2) }},
		{"remove action item", func(e *Editor) error { return e.RemoveAt(CollectionActionItems, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEditor()
			before := e.Working()

			err := tt.op(e)

			var rangeErr *entities.IndexOutOfRangeError
			require.True(t, errors.As(err, &rangeErr), "got %v", err)
			assert.Equal(t, before, e.Working())
			assert.False(t, e.Dirty())
		})
	}
}

func TestEditor_RemoveAt(t *testing.T) {
	e := newTestEditor()

	require.NoError(t, e.RemoveAt(CollectionAttendees, 0))
	assert.Equal(t, []string{"Bob"}, e.Working().Attendees)

	require.NoError(t, e.RemoveAt(CollectionActionItems, 0))
	assert.Empty(t, e.Working().ActionItems)
	assert.Len(t, e.Committed().ActionItems, 1)
}

func TestEditor_CommitAndDiscard(t *testing.T) {
	e := newTestEditor()

	e.SetTitle("Release sync")
	e.SetSummary("Updated")
	committed := e.Commit()
	assert.Equal(t, "Release sync", committed.MeetingTitle)
	assert.False(t, e.Dirty())

	e.SetTitle("Scratch")
	require.NoError(t, e.UpdateAt(CollectionAgenda, 0, "Changed"))
	assert.True(t, e.Dirty())

	restored := e.DiscardEdits()
	assert.Equal(t, committed, restored)
	assert.Equal(t, committed, e.Working())
	assert.False(t, e.Dirty())
}

func TestEditor_SnapshotsDoNotAlias(t *testing.T) {
	e := newTestEditor()
	e.Commit()

	require.NoError(t, e.UpdateAt(CollectionAgenda, 0, "Changed"))
	assert.Equal(t, "Ship date", e.Committed().Agenda[0])

	w := e.Working()
	w.Agenda[0] = "Outside"
	assert.Equal(t, "Changed", e.Working().Agenda[0])
}

func TestParseCollection(t *testing.T) {
	c, err := ParseCollection("actionItems")
	require.NoError(t, err)
	assert.Equal(t, CollectionActionItems, c)

	_, err = ParseCollection("summary")
	assert.ErrorIs(t, err, entities.ErrUnknownCollection)
}
