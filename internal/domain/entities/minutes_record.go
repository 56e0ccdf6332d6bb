package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MinutesRecord is the stored committed snapshot of a session
type MinutesRecord struct {
	ID           uuid.UUID                           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SessionID    string                              `json:"session_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	MeetingTitle string                              `json:"meeting_title" gorm:"type:varchar(255)"`
	MeetingDate  string                              `json:"meeting_date" gorm:"type:varchar(10);index"`
	Document     datatypes.JSONType[MinutesDocument] `json:"document" gorm:"type:jsonb"`
	Revision     int                                 `json:"revision" gorm:"not null;default:1"`
	CreatedAt    time.Time                           `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time                           `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (MinutesRecord) TableName() string {
	return "minutes"
}

// NewMinutesRecord wraps a committed document for storage
func NewMinutesRecord(sessionID string, doc MinutesDocument) *MinutesRecord {
	return &MinutesRecord{
		ID:           uuid.New(),
		SessionID:    sessionID,
		MeetingTitle: doc.MeetingTitle,
		MeetingDate:  doc.MeetingDate,
		Document:     datatypes.NewJSONType(doc.Clone()),
		Revision:     1,
	}
}

// MinutesDocument returns a copy of the stored document
func (r *MinutesRecord) MinutesDocument() MinutesDocument {
	return r.Document.Data().Clone()
}
