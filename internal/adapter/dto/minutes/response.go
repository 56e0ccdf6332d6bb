package minutes

import (
	"time"

	"github.com/johnquangdev/meeting-minutes/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
)

// StatusResponse is the processing status of a session
type StatusResponse struct {
	Stage    string `json:"stage"`
	Progress int    `json:"progress"`
	Label    string `json:"label,omitempty"`
	Failure  string `json:"failure,omitempty"`
}

// SessionResponse represents a session with its snapshots
type SessionResponse struct {
	ID         string                    `json:"id"`
	Status     StatusResponse            `json:"status"`
	Working    *entities.MinutesDocument `json:"working,omitempty"`
	Committed  *entities.MinutesDocument `json:"committed,omitempty"`
	Dirty      bool                      `json:"dirty"`
	Recipients []string                  `json:"recipients"`
	CreatedAt  time.Time                 `json:"created_at"`
}

// AppendItemResponse reports where the new element landed
type AppendItemResponse struct {
	Index   int              `json:"index"`
	Session *SessionResponse `json:"session"`
}

// RecipientsResponse lists the session recipients
type RecipientsResponse struct {
	Recipients []string `json:"recipients"`
	Total      int      `json:"total"`
}

// SendResponse reports how many recipients the delivery accepted
type SendResponse struct {
	Accepted int `json:"accepted"`
}

// MinutesRecordResponse represents a persisted committed document
type MinutesRecordResponse struct {
	ID        string                   `json:"id"`
	SessionID string                   `json:"session_id"`
	Revision  int                      `json:"revision"`
	Document  entities.MinutesDocument `json:"document"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// MinutesListResponse is a page of persisted minutes
type MinutesListResponse struct {
	Minutes    []*MinutesRecordResponse   `json:"minutes"`
	Pagination *common.PaginationResponse `json:"pagination"`
}
