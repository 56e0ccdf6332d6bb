package minutes

// GenerateRequest carries the transcript for a generation run.
// Multipart uploads send the transcript as the "file" part instead.
type GenerateRequest struct {
	Transcript   string `json:"transcript" form:"transcript"`
	MeetingTitle string `json:"meeting_title" form:"meeting_title" validate:"omitempty,max=255"`
	MeetingDate  string `json:"meeting_date" form:"meeting_date" validate:"omitempty,isodate"`
}

// UpdateMinutesRequest patches the scalar fields of the working snapshot
type UpdateMinutesRequest struct {
	MeetingTitle *string `json:"meeting_title,omitempty" validate:"omitempty,max=255"`
	MeetingDate  *string `json:"meeting_date,omitempty" validate:"omitempty,isodate"`
	Summary      *string `json:"summary,omitempty"`
}

// AppendItemRequest optionally fills the appended element.
// Value applies to string collections, Task/Owner/Deadline to action items.
type AppendItemRequest struct {
	Value    *string `json:"value,omitempty"`
	Task     *string `json:"task,omitempty"`
	Owner    *string `json:"owner,omitempty"`
	Deadline *string `json:"deadline,omitempty" validate:"omitempty,isodate"`
}

// UpdateItemRequest replaces an element. Field is required for action items.
type UpdateItemRequest struct {
	Field string `json:"field,omitempty" validate:"omitempty,oneof=task owner deadline"`
	Value string `json:"value"`
}

// RecipientRequest names one recipient address
type RecipientRequest struct {
	Email string `json:"email" query:"email" validate:"required,email"`
}

// ListMinutesRequest represents query parameters for listing persisted minutes
type ListMinutesRequest struct {
	Page     int `query:"page" validate:"min=1"`
	PageSize int `query:"page_size" validate:"min=1,max=100"`
}
