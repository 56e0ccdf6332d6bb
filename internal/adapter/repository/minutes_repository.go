package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/internal/domain/repositories"
)

type minutesRepository struct {
	db *gorm.DB
}

// NewMinutesRepository creates a gorm-backed minutes repository
func NewMinutesRepository(db *gorm.DB) repositories.MinutesRepository {
	return &minutesRepository{db: db}
}

// Save upserts on session_id and bumps the revision on every replace
func (r *minutesRepository) Save(ctx context.Context, record *entities.MinutesRecord) error {
	if record == nil {
		return errors.New("minutes record cannot be nil")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"meeting_title": record.MeetingTitle,
				"meeting_date":  record.MeetingDate,
				"document":      record.Document,
				"revision":      gorm.Expr("minutes.revision + 1"),
				"updated_at":    gorm.Expr("NOW()"),
			}),
		}).
		Create(record).Error
}

func (r *minutesRepository) FindBySessionID(ctx context.Context, sessionID string) (*entities.MinutesRecord, error) {
	var record entities.MinutesRecord
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMinutesNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *minutesRepository) DeleteBySessionID(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&entities.MinutesRecord{}).Error
}

func (r *minutesRepository) List(ctx context.Context, limit, offset int) ([]*entities.MinutesRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []*entities.MinutesRecord
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, err
}

func (r *minutesRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.MinutesRecord{}).Count(&n).Error
	return n, err
}
