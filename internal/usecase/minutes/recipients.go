package minutes

import (
	"slices"
	"strings"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
)

// RecipientList is an ordered set of recipient addresses.
// Addresses are compared case-insensitively after trimming.
type RecipientList struct {
	items []string
}

// Add inserts the address unless an equal one exists. It reports whether it was added.
func (r *RecipientList) Add(raw string) (bool, error) {
	addr := strings.TrimSpace(raw)
	if addr == "" {
		return false, entities.ErrInvalidRecipient
	}
	if r.indexOf(addr) >= 0 {
		return false, nil
	}
	r.items = append(r.items, addr)
	return true, nil
}

// Remove deletes the address and reports whether it was present
func (r *RecipientList) Remove(raw string) bool {
	i := r.indexOf(strings.TrimSpace(raw))
	if i < 0 {
		return false
	}
	r.items = slices.Delete(r.items, i, i+1)
	return true
}

// Items returns a copy of the addresses in insertion order
func (r *RecipientList) Items() []string {
	out := make([]string, len(r.items))
	copy(out, r.items)
	return out
}

func (r *RecipientList) Len() int {
	return len(r.items)
}

func (r *RecipientList) indexOf(addr string) int {
	return slices.IndexFunc(r.items, func(existing string) bool {
		return strings.EqualFold(existing, addr)
	})
}
