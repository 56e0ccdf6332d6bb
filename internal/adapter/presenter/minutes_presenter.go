package presenter

import (
	"github.com/johnquangdev/meeting-minutes/internal/adapter/dto/credential"
	"github.com/johnquangdev/meeting-minutes/internal/adapter/dto/minutes"
	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	credentialUsecase "github.com/johnquangdev/meeting-minutes/internal/usecase/credential"
	minutesUsecase "github.com/johnquangdev/meeting-minutes/internal/usecase/minutes"
)

// ToStatusResponse converts a processing status to its DTO
func ToStatusResponse(s entities.ProcessingStatus) minutes.StatusResponse {
	return minutes.StatusResponse{
		Stage:    string(s.Stage),
		Progress: s.Progress,
		Label:    s.Label,
		Failure:  s.Failure,
	}
}

// ToSessionResponse converts a session view to SessionResponse DTO
func ToSessionResponse(v minutesUsecase.SessionView) *minutes.SessionResponse {
	recipients := v.Recipients
	if recipients == nil {
		recipients = []string{}
	}
	return &minutes.SessionResponse{
		ID:         v.ID,
		Status:     ToStatusResponse(v.Status),
		Working:    v.Working,
		Committed:  v.Committed,
		Dirty:      v.Dirty,
		Recipients: recipients,
		CreatedAt:  v.CreatedAt,
	}
}

// ToRecipientsResponse wraps a recipient list
func ToRecipientsResponse(items []string) *minutes.RecipientsResponse {
	if items == nil {
		items = []string{}
	}
	return &minutes.RecipientsResponse{Recipients: items, Total: len(items)}
}

// ToMinutesRecordResponse converts a persisted record to its DTO
func ToMinutesRecordResponse(r *entities.MinutesRecord) *minutes.MinutesRecordResponse {
	if r == nil {
		return nil
	}
	return &minutes.MinutesRecordResponse{
		ID:        r.ID.String(),
		SessionID: r.SessionID,
		Revision:  r.Revision,
		Document:  r.MinutesDocument(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ToMinutesRecordResponses converts a list of records
func ToMinutesRecordResponses(records []*entities.MinutesRecord) []*minutes.MinutesRecordResponse {
	out := make([]*minutes.MinutesRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ToMinutesRecordResponse(r))
	}
	return out
}

// ToCredentialStatusResponse converts the credential status
func ToCredentialStatusResponse(s credentialUsecase.Status) *credential.CredentialStatusResponse {
	return &credential.CredentialStatusResponse{
		Configured: s.Configured,
		Masked:     s.Masked,
	}
}
