package entities

import (
	"time"
)

const (
	// DefaultMeetingTitle is used when the caller supplies no title
	DefaultMeetingTitle = "Meeting Minutes"
	// DateLayout is the ISO-8601 calendar date format used by every date field
	DateLayout = "2006-01-02"
)

// MinutesDocument is the structured meeting minutes artifact.
// JSON field names are shared by the language model schema and the API.
type MinutesDocument struct {
	Attendees    []string     `json:"attendees" yaml:"attendees"`
	Agenda       []string     `json:"agenda" yaml:"agenda"`
	Summary      string       `json:"summary" yaml:"summary"`
	Decisions    []string     `json:"decisions" yaml:"decisions"`
	ActionItems  []ActionItem `json:"actionItems" yaml:"actionItems"`
	MeetingTitle string       `json:"meetingTitle" yaml:"meetingTitle"`
	MeetingDate  string       `json:"meetingDate" yaml:"meetingDate"`
}

// GenerationRequest is the input of a single generation call
type GenerationRequest struct {
	TranscriptText string
	MeetingTitle   string
	MeetingDate    string
	// Credential takes precedence over the stored credential when set
	Credential string
}

// Clone returns a deep copy. Nil collections become empty ones.
func (d MinutesDocument) Clone() MinutesDocument {
	return MinutesDocument{
		Attendees:    cloneStrings(d.Attendees),
		Agenda:       cloneStrings(d.Agenda),
		Summary:      d.Summary,
		Decisions:    cloneStrings(d.Decisions),
		ActionItems:  cloneActionItems(d.ActionItems),
		MeetingTitle: d.MeetingTitle,
		MeetingDate:  d.MeetingDate,
	}
}

// ApplyMetadata overwrites title and date with the caller values or their defaults
func (d *MinutesDocument) ApplyMetadata(title, date string, now time.Time) {
	if title == "" {
		title = DefaultMeetingTitle
	}
	if date == "" {
		date = now.Format(DateLayout)
	}
	d.MeetingTitle = title
	d.MeetingDate = date
}

// EnsureActionItemIDs replaces missing or repeated ids with fresh ones
func (d *MinutesDocument) EnsureActionItemIDs() {
	seen := make(map[string]struct{}, len(d.ActionItems))
	for i := range d.ActionItems {
		id := d.ActionItems[i].ID
		if _, dup := seen[id]; id == "" || dup {
			id = NewActionItemID(seen)
			d.ActionItems[i].ID = id
		}
		seen[id] = struct{}{}
	}
}

// ActionItemIDs returns the set of ids currently in use
func (d MinutesDocument) ActionItemIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(d.ActionItems))
	for _, item := range d.ActionItems {
		ids[item.ID] = struct{}{}
	}
	return ids
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneActionItems(in []ActionItem) []ActionItem {
	out := make([]ActionItem, len(in))
	copy(out, in)
	return out
}
