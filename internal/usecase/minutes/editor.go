package minutes

import (
	"fmt"
	"slices"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
)

// Collection names an editable list of the document
type Collection string

const (
	CollectionAttendees   Collection = "attendees"
	CollectionAgenda      Collection = "agenda"
	CollectionDecisions   Collection = "decisions"
	CollectionActionItems Collection = "actionItems"
)

// ParseCollection validates a collection name coming from a client
func ParseCollection(s string) (Collection, error) {
	switch c := Collection(s); c {
	case CollectionAttendees, CollectionAgenda, CollectionDecisions, CollectionActionItems:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", entities.ErrUnknownCollection, s)
}

// Editor holds the working and committed snapshots of one document.
// All mutations apply to the working snapshot. Not safe for concurrent use.
type Editor struct {
	working   entities.MinutesDocument
	committed entities.MinutesDocument
	dirty     bool
}

// NewEditor starts editing doc with both snapshots equal
func NewEditor(doc entities.MinutesDocument) *Editor {
	return &Editor{
		working:   doc.Clone(),
		committed: doc.Clone(),
	}
}

// Working returns a copy of the live snapshot
func (e *Editor) Working() entities.MinutesDocument {
	return e.working.Clone()
}

// Committed returns a copy of the last saved snapshot
func (e *Editor) Committed() entities.MinutesDocument {
	return e.committed.Clone()
}

// Dirty reports whether the working snapshot has uncommitted edits
func (e *Editor) Dirty() bool {
	return e.dirty
}

func (e *Editor) SetTitle(title string) {
	e.working.MeetingTitle = title
	e.dirty = true
}

// SetDate accepts an empty value or a YYYY-MM-DD date
func (e *Editor) SetDate(date string) error {
	if date != "" && !entities.ValidDate(date) {
		return entities.ErrInvalidMeetingDate
	}
	e.working.MeetingDate = date
	e.dirty = true
	return nil
}

func (e *Editor) SetSummary(summary string) {
	e.working.Summary = summary
	e.dirty = true
}

// Append adds an empty element and returns its index.
// New action items get a fresh id and empty fields.
func (e *Editor) Append(c Collection) (int, error) {
	switch c {
	case CollectionActionItems:
		item := entities.ActionItem{ID: entities.NewActionItemID(e.allActionItemIDs())}
		e.working.ActionItems = append(e.working.ActionItems, item)
		e.dirty = true
		return len(e.working.ActionItems) - 1, nil
	default:
		list, err := e.stringList(c)
		if err != nil {
			return 0, err
		}
		*list = append(*list, "")
		e.dirty = true
		return len(*list) - 1, nil
	}
}

// UpdateAt replaces a string element
func (e *Editor) UpdateAt(c Collection, index int, value string) error {
	list, err := e.stringList(c)
	if err != nil {
		return err
	}
	if err := checkIndex(c, index, len(*list)); err != nil {
		return err
	}
	(*list)[index] = value
	e.dirty = true
	return nil
}

// UpdateActionItem replaces one field of an action item
func (e *Editor) UpdateActionItem(index int, field entities.ActionItemField, value string) error {
	if err := checkIndex(CollectionActionItems, index, len(e.working.ActionItems)); err != nil {
		return err
	}
	if field == entities.ActionItemFieldDeadline && value != "" && !entities.ValidDate(value) {
		return entities.ErrInvalidDeadline
	}
	updated, err := e.working.ActionItems[index].With(field, value)
	if err != nil {
		return err
	}
	e.working.ActionItems[index] = updated
	e.dirty = true
	return nil
}

// RemoveAt deletes the element at index, shifting later elements down
func (e *Editor) RemoveAt(c Collection, index int) error {
	if c == CollectionActionItems {
		if err := checkIndex(c, index, len(e.working.ActionItems)); err != nil {
			return err
		}
		e.working.ActionItems = slices.Delete(e.working.ActionItems, index, index+1)
		e.dirty = true
		return nil
	}

	list, err := e.stringList(c)
	if err != nil {
		return err
	}
	if err := checkIndex(c, index, len(*list)); err != nil {
		return err
	}
	*list = slices.Delete(*list, index, index+1)
	e.dirty = true
	return nil
}

// Commit saves the working snapshot and returns the new committed snapshot
func (e *Editor) Commit() entities.MinutesDocument {
	e.committed = e.working.Clone()
	e.dirty = false
	return e.committed.Clone()
}

// DiscardEdits restores the working snapshot from the committed one
func (e *Editor) DiscardEdits() entities.MinutesDocument {
	e.working = e.committed.Clone()
	e.dirty = false
	return e.working.Clone()
}

func (e *Editor) stringList(c Collection) (*[]string, error) {
	switch c {
	case CollectionAttendees:
		return &e.working.Attendees, nil
	case CollectionAgenda:
		return &e.working.Agenda, nil
	case CollectionDecisions:
		return &e.working.Decisions, nil
	case CollectionActionItems:
		return nil, fmt.Errorf("%w: %s holds action items, not strings", entities.ErrUnknownCollection, c)
	}
	return nil, fmt.Errorf("%w: %q", entities.ErrUnknownCollection, c)
}

// allActionItemIDs covers both snapshots so a discarded id is never reused
func (e *Editor) allActionItemIDs() map[string]struct{} {
	ids := e.working.ActionItemIDs()
	for id := range e.committed.ActionItemIDs() {
		ids[id] = struct{}{}
	}
	return ids
}

func checkIndex(c Collection, index, length int) error {
	if index < 0 || index >= length {
		return &entities.IndexOutOfRangeError{Collection: string(c), Index: index, Length: length}
	}
	return nil
}
