package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/errors"
	"github.com/johnquangdev/meeting-minutes/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-minutes/internal/adapter/dto/minutes"
	"github.com/johnquangdev/meeting-minutes/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/transcript"
	minutesUsecase "github.com/johnquangdev/meeting-minutes/internal/usecase/minutes"
)

// CredentialHeader carries an explicit API credential for one generation
const CredentialHeader = "X-Credential"

// Minutes handles session and minutes HTTP requests
type Minutes struct {
	sessions   *minutesUsecase.Manager
	loader     *transcript.Loader
	repository repositories.MinutesRepository
	logger     *zap.Logger
}

// NewMinutesHandler creates a new minutes handler. repository may be nil
// when persistence is disabled.
func NewMinutesHandler(
	sessions *minutesUsecase.Manager,
	loader *transcript.Loader,
	repository repositories.MinutesRepository,
	logger *zap.Logger,
) *Minutes {
	return &Minutes{
		sessions:   sessions,
		loader:     loader,
		repository: repository,
		logger:     logger,
	}
}

// CreateSession handles POST /sessions
// @Summary      Create an editing session
// @Tags         Sessions
// @Produce      json
// @Success      201  {object}  minutes.SessionResponse
// @Router       /sessions [post]
func (h *Minutes) CreateSession(c echo.Context) error {
	view := h.sessions.Create()
	return HandleSuccessWithStatus(h.logger, c, http.StatusCreated, presenter.ToSessionResponse(view))
}

// GetSession handles GET /sessions/:id
// @Summary      Get session status and snapshots
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  minutes.SessionResponse
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /sessions/{id} [get]
func (h *Minutes) GetSession(c echo.Context) error {
	view, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(view))
}

// DeleteSession handles DELETE /sessions/:id
// @Summary      Start over
// @Description  Destroys both snapshots and any persisted record
// @Tags         Sessions
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}  "Generation in progress"
// @Router       /sessions/{id} [delete]
func (h *Minutes) DeleteSession(c echo.Context) error {
	id := c.Param("id")
	if err := h.sessions.Delete(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"id": id})
}

// Generate handles POST /sessions/:id/generate
// @Summary      Generate minutes from a transcript
// @Description  Accepts a JSON body or a multipart upload with a .txt "file" part
// @Tags         Sessions
// @Accept       json,mpfd
// @Produce      json
// @Param        id            path      string                   true   "Session ID"
// @Param        X-Credential  header    string                   false  "Explicit API credential"
// @Param        request       body      minutes.GenerateRequest  false  "Transcript"
// @Success      200  {object}  minutes.SessionResponse
// @Failure      400  {object}  map[string]interface{}  "Invalid transcript or credential"
// @Failure      409  {object}  map[string]interface{}  "Generation in progress"
// @Failure      412  {object}  map[string]interface{}  "No credential configured"
// @Failure      502  {object}  map[string]interface{}  "Language model failure"
// @Router       /sessions/{id}/generate [post]
func (h *Minutes) Generate(c echo.Context) error {
	var req minutes.GenerateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	if isMultipart(c) {
		text, err := h.readUpload(c)
		if err != nil {
			return HandleError(h.logger, c, err)
		}
		req.Transcript = text
	} else if strings.TrimSpace(req.Transcript) != "" {
		// blank transcripts go on to the session so the failure is recorded there
		text, err := h.loader.Read(strings.NewReader(req.Transcript))
		if err != nil {
			return HandleError(h.logger, c, err)
		}
		req.Transcript = text
	}

	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	view, err := h.sessions.Generate(c.Request().Context(), c.Param("id"), entities.GenerationRequest{
		TranscriptText: req.Transcript,
		MeetingTitle:   req.MeetingTitle,
		MeetingDate:    req.MeetingDate,
		Credential:     c.Request().Header.Get(CredentialHeader),
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(view))
}

// UpdateMinutes handles PATCH /sessions/:id/minutes
// @Summary      Edit title, date or summary of the working snapshot
// @Tags         Minutes
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Session ID"
// @Param        request  body      minutes.UpdateMinutesRequest  true  "Fields to change"
// @Success      200  {object}  minutes.SessionResponse
// @Failure      409  {object}  map[string]interface{}  "No document to edit"
// @Router       /sessions/{id}/minutes [patch]
func (h *Minutes) UpdateMinutes(c echo.Context) error {
	var req minutes.UpdateMinutesRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	view, err := h.sessions.Edit(c.Param("id"), func(e *minutesUsecase.Editor) error {
		if req.MeetingDate != nil {
			if err := e.SetDate(*req.MeetingDate); err != nil {
				return err
			}
		}
		if req.MeetingTitle != nil {
			e.SetTitle(*req.MeetingTitle)
		}
		if req.Summary != nil {
			e.SetSummary(*req.Summary)
		}
		return nil
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(view))
}

// AppendItem handles POST /sessions/:id/minutes/:collection
// @Summary      Append an element to a collection
// @Tags         Minutes
// @Accept       json
// @Produce      json
// @Param        id          path      string                     true   "Session ID"
// @Param        collection  path      string                     true   "attendees, agenda, decisions or actionItems"
// @Param        request     body      minutes.AppendItemRequest  false  "Initial values"
// @Success      201  {object}  minutes.AppendItemResponse
// @Router       /sessions/{id}/minutes/{collection} [post]
func (h *Minutes) AppendItem(c echo.Context) error {
	collection, err := minutesUsecase.ParseCollection(c.Param("collection"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req minutes.AppendItemRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	var index int
	view, err := h.sessions.Edit(c.Param("id"), func(e *minutesUsecase.Editor) error {
		i, err := e.Append(collection)
		if err != nil {
			return err
		}
		index = i
		return fillAppended(e, collection, i, req)
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccessWithStatus(h.logger, c, http.StatusCreated, &minutes.AppendItemResponse{
		Index:   index,
		Session: presenter.ToSessionResponse(view),
	})
}

// UpdateItem handles PUT /sessions/:id/minutes/:collection/:index
// @Summary      Replace an element or an action item field
// @Tags         Minutes
// @Accept       json
// @Produce      json
// @Param        id          path      string                     true  "Session ID"
// @Param        collection  path      string                     true  "Collection"
// @Param        index       path      int                        true  "Element index"
// @Param        request     body      minutes.UpdateItemRequest  true  "New value"
// @Success      200  {object}  minutes.SessionResponse
// @Failure      422  {object}  map[string]interface{}  "Index out of range"
// @Router       /sessions/{id}/minutes/{collection}/{index} [put]
func (h *Minutes) UpdateItem(c echo.Context) error {
	collection, err := minutesUsecase.ParseCollection(c.Param("collection"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	index, err := pathIndex(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req minutes.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	view, err := h.sessions.Edit(c.Param("id"), func(e *minutesUsecase.Editor) error {
		if collection != minutesUsecase.CollectionActionItems {
			return e.UpdateAt(collection, index, req.Value)
		}
		field, err := entities.ParseActionItemField(req.Field)
		if err != nil {
			return err
		}
		return e.UpdateActionItem(index, field, req.Value)
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(view))
}

// RemoveItem handles DELETE /sessions/:id/minutes/:collection/:index
// @Summary      Remove an element
// @Tags         Minutes
// @Produce      json
// @Param        id          path      string  true  "Session ID"
// @Param        collection  path      string  true  "Collection"
// @Param        index       path      int     true  "Element index"
// @Success      200  {object}  minutes.SessionResponse
// @Failure      422  {object}  map[string]interface{}  "Index out of range"
// @Router       /sessions/{id}/minutes/{collection}/{index} [delete]
func (h *Minutes) RemoveItem(c echo.Context) error {
	collection, err := minutesUsecase.ParseCollection(c.Param("collection"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	index, err := pathIndex(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	view, err := h.sessions.Edit(c.Param("id"), func(e *minutesUsecase.Editor) error {
		return e.RemoveAt(collection, index)
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(view))
}

// Commit handles POST /sessions/:id/commit
// @Summary      Save the working snapshot
// @Tags         Minutes
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  minutes.SessionResponse
// @Router       /sessions/{id}/commit [post]
func (h *Minutes) Commit(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.sessions.Commit(c.Request().Context(), id); err != nil {
		if toAppError(err, id).Code == errors.ErrorCode_INTERNAL {
			err = errors.ErrDBQueryFailed("save minutes", err)
		}
		return HandleError(h.logger, c, err)
	}
	return h.respondSession(c, id)
}

// DiscardEdits handles POST /sessions/:id/discard-edits
// @Summary      Restore the working snapshot from the committed one
// @Tags         Minutes
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  minutes.SessionResponse
// @Router       /sessions/{id}/discard-edits [post]
func (h *Minutes) DiscardEdits(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.sessions.DiscardEdits(id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.respondSession(c, id)
}

// AddRecipient handles POST /sessions/:id/recipients
// @Summary      Add a recipient
// @Tags         Distribution
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Session ID"
// @Param        request  body      minutes.RecipientRequest  true  "Recipient"
// @Success      200  {object}  minutes.RecipientsResponse
// @Router       /sessions/{id}/recipients [post]
func (h *Minutes) AddRecipient(c echo.Context) error {
	var req minutes.RecipientRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	items, err := h.sessions.AddRecipient(c.Param("id"), req.Email)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToRecipientsResponse(items))
}

// RemoveRecipient handles DELETE /sessions/:id/recipients
// @Summary      Remove a recipient
// @Tags         Distribution
// @Produce      json
// @Param        id     path      string  true  "Session ID"
// @Param        email  query     string  true  "Recipient address"
// @Success      200  {object}  minutes.RecipientsResponse
// @Router       /sessions/{id}/recipients [delete]
func (h *Minutes) RemoveRecipient(c echo.Context) error {
	var req minutes.RecipientRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if strings.TrimSpace(req.Email) == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("email is required"))
	}

	items, err := h.sessions.RemoveRecipient(c.Param("id"), req.Email)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToRecipientsResponse(items))
}

// Send handles POST /sessions/:id/send
// @Summary      Send the committed minutes to the recipients
// @Tags         Distribution
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  minutes.SendResponse
// @Failure      400  {object}  map[string]interface{}  "No recipients"
// @Router       /sessions/{id}/send [post]
func (h *Minutes) Send(c echo.Context) error {
	accepted, err := h.sessions.Send(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, &minutes.SendResponse{Accepted: accepted})
}

// GetMinutes handles GET /minutes/:session_id
// @Summary      Get the persisted committed minutes of a session
// @Tags         Minutes
// @Produce      json
// @Param        session_id  path      string  true  "Session ID"
// @Success      200  {object}  minutes.MinutesRecordResponse
// @Failure      404  {object}  map[string]interface{}  "Minutes not found"
// @Router       /minutes/{session_id} [get]
func (h *Minutes) GetMinutes(c echo.Context) error {
	if h.repository == nil {
		return HandleError(h.logger, c, errors.ErrNotFound("minutes"))
	}

	record, err := h.repository.FindBySessionID(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMinutesRecordResponse(record))
}

// ListMinutes handles GET /minutes
// @Summary      List persisted minutes, most recently updated first
// @Tags         Minutes
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200  {object}  minutes.MinutesListResponse
// @Router       /minutes [get]
func (h *Minutes) ListMinutes(c echo.Context) error {
	req := minutes.ListMinutesRequest{Page: 1, PageSize: 20}
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	resp := &minutes.MinutesListResponse{
		Minutes:    []*minutes.MinutesRecordResponse{},
		Pagination: common.NewPagination(req.Page, req.PageSize, 0),
	}
	if h.repository == nil {
		return HandleSuccess(h.logger, c, resp)
	}

	ctx := c.Request().Context()
	total, err := h.repository.Count(ctx)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("count minutes", err))
	}
	records, err := h.repository.List(ctx, req.PageSize, (req.Page-1)*req.PageSize)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("list minutes", err))
	}
	resp.Minutes = presenter.ToMinutesRecordResponses(records)
	resp.Pagination = common.NewPagination(req.Page, req.PageSize, total)
	return HandleSuccess(h.logger, c, resp)
}

func (h *Minutes) respondSession(c echo.Context, id string) error {
	view, err := h.sessions.Get(id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(view))
}

// readUpload validates the "file" part of a multipart request
func (h *Minutes) readUpload(c echo.Context) (string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", errors.ErrInvalidArgument("file is required")
	}
	if !transcript.AcceptedFile(fh.Filename, fh.Header.Get(echo.HeaderContentType)) {
		return "", entities.ErrUnsupportedFileType
	}

	f, err := fh.Open()
	if err != nil {
		return "", errors.ErrInternal(err)
	}
	defer f.Close()

	return h.loader.Read(f)
}

// fillAppended applies optional initial values to a freshly appended element
func fillAppended(e *minutesUsecase.Editor, c minutesUsecase.Collection, index int, req minutes.AppendItemRequest) error {
	if c != minutesUsecase.CollectionActionItems {
		if req.Value == nil {
			return nil
		}
		return e.UpdateAt(c, index, *req.Value)
	}

	fields := []struct {
		field entities.ActionItemField
		value *string
	}{
		{entities.ActionItemFieldTask, req.Task},
		{entities.ActionItemFieldOwner, req.Owner},
		{entities.ActionItemFieldDeadline, req.Deadline},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := e.UpdateActionItem(index, f.field, *f.value); err != nil {
			return err
		}
	}
	return nil
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}
