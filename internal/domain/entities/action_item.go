package entities

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// ActionItem is a task assigned during the meeting
type ActionItem struct {
	ID       string `json:"id" yaml:"id"`
	Task     string `json:"task" yaml:"task"`
	Owner    string `json:"owner" yaml:"owner"`
	Deadline string `json:"deadline" yaml:"deadline"` // YYYY-MM-DD
}

// ActionItemField names an editable action item field
type ActionItemField string

const (
	ActionItemFieldTask     ActionItemField = "task"
	ActionItemFieldOwner    ActionItemField = "owner"
	ActionItemFieldDeadline ActionItemField = "deadline"
)

// ParseActionItemField validates a field name coming from a client
func ParseActionItemField(s string) (ActionItemField, error) {
	switch f := ActionItemField(s); f {
	case ActionItemFieldTask, ActionItemFieldOwner, ActionItemFieldDeadline:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// With returns a copy of the item with one field replaced. The id is never editable.
func (a ActionItem) With(field ActionItemField, value string) (ActionItem, error) {
	switch field {
	case ActionItemFieldTask:
		a.Task = value
	case ActionItemFieldOwner:
		a.Owner = value
	case ActionItemFieldDeadline:
		a.Deadline = value
	default:
		return a, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return a, nil
}

// NewActionItemID returns a time-ordered id absent from taken.
// ulid.Make is monotonic within the same millisecond.
func NewActionItemID(taken map[string]struct{}) string {
	for {
		id := ulid.Make().String()
		if _, exists := taken[id]; !exists {
			return id
		}
	}
}
