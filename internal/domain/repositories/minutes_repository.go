package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
)

// MinutesRepository persists committed minutes, one record per session
type MinutesRepository interface {
	// Save inserts the record or replaces the one stored for the same session
	Save(ctx context.Context, record *entities.MinutesRecord) error

	// FindBySessionID returns entities.ErrMinutesNotFound when nothing is stored
	FindBySessionID(ctx context.Context, sessionID string) (*entities.MinutesRecord, error)

	// DeleteBySessionID removes the stored record, if any
	DeleteBySessionID(ctx context.Context, sessionID string) error

	// List returns the most recently updated records first
	List(ctx context.Context, limit, offset int) ([]*entities.MinutesRecord, error)

	Count(ctx context.Context) (int64, error)
}
