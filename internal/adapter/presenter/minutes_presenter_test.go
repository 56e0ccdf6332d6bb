package presenter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	minutesUsecase "github.com/johnquangdev/meeting-minutes/internal/usecase/minutes"
)

func TestToSessionResponse(t *testing.T) {
	doc := entities.MinutesDocument{MeetingTitle: "Weekly Sync", Attendees: []string{"Alice"}}
	created := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	resp := ToSessionResponse(minutesUsecase.SessionView{
		ID: "s-1",
		Status: entities.ProcessingStatus{
			Stage:    entities.StageEditing,
			Progress: 100,
		},
		Working:   &doc,
		Committed: &doc,
		CreatedAt: created,
	})

	require.NotNil(t, resp)
	assert.Equal(t, "s-1", resp.ID)
	assert.Equal(t, "editing", resp.Status.Stage)
	assert.Equal(t, 100, resp.Status.Progress)
	assert.Equal(t, "Weekly Sync", resp.Working.MeetingTitle)
	assert.NotNil(t, resp.Recipients)
	assert.Empty(t, resp.Recipients)
	assert.Equal(t, created, resp.CreatedAt)
}

func TestToMinutesRecordResponse(t *testing.T) {
	assert.Nil(t, ToMinutesRecordResponse(nil))

	record := entities.NewMinutesRecord("s-1", entities.MinutesDocument{
		MeetingTitle: "Weekly Sync",
		MeetingDate:  "2024-03-15",
		Decisions:    []string{"Ship Friday"},
	})
	resp := ToMinutesRecordResponse(record)

	require.NotNil(t, resp)
	assert.Equal(t, "s-1", resp.SessionID)
	assert.Equal(t, 1, resp.Revision)
	assert.Equal(t, []string{"Ship Friday"}, resp.Document.Decisions)
	assert.NotNil(t, resp.Document.ActionItems)
}

func TestToRecipientsResponse(t *testing.T) {
	resp := ToRecipientsResponse(nil)
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Recipients)

	resp = ToRecipientsResponse([]string{"a@example.com", "b@example.com"})
	assert.Equal(t, 2, resp.Total)
}
