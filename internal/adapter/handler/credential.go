package handler

import (
	stdErrors "errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/errors"
	"github.com/johnquangdev/meeting-minutes/internal/adapter/dto/credential"
	"github.com/johnquangdev/meeting-minutes/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	credentialUsecase "github.com/johnquangdev/meeting-minutes/internal/usecase/credential"
)

// Credential handles the stored API credential
type Credential struct {
	store  *credentialUsecase.Store
	logger *zap.Logger
}

// NewCredentialHandler creates a new credential handler
func NewCredentialHandler(store *credentialUsecase.Store, logger *zap.Logger) *Credential {
	return &Credential{store: store, logger: logger}
}

// GetStatus handles GET /credential
// @Summary      Credential status
// @Description  Reports whether a credential is configured, masked
// @Tags         Credential
// @Produce      json
// @Success      200  {object}  credential.CredentialStatusResponse
// @Router       /credential [get]
func (h *Credential) GetStatus(c echo.Context) error {
	status, err := h.store.Status(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrCredentialStore("read", err))
	}
	return HandleSuccess(h.logger, c, presenter.ToCredentialStatusResponse(status))
}

// Save handles PUT /credential
// @Summary      Save the API credential
// @Tags         Credential
// @Accept       json
// @Produce      json
// @Param        request  body      credential.SaveCredentialRequest  true  "Credential"
// @Success      200  {object}  credential.CredentialStatusResponse
// @Failure      400  {object}  map[string]interface{}  "Credential must start with sk-"
// @Router       /credential [put]
func (h *Credential) Save(c echo.Context) error {
	var req credential.SaveCredentialRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	ctx := c.Request().Context()
	if err := h.store.Set(ctx, req.APIKey); err != nil {
		if !stdErrors.Is(err, entities.ErrInvalidCredential) && !stdErrors.Is(err, entities.ErrMissingCredential) {
			err = errors.ErrCredentialStore("save", err)
		}
		return HandleError(h.logger, c, err)
	}

	status, err := h.store.Status(ctx)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrCredentialStore("read", err))
	}
	return HandleSuccess(h.logger, c, presenter.ToCredentialStatusResponse(status))
}

// Clear handles DELETE /credential
// @Summary      Clear the API credential
// @Tags         Credential
// @Produce      json
// @Success      200  {object}  credential.CredentialStatusResponse
// @Router       /credential [delete]
func (h *Credential) Clear(c echo.Context) error {
	if err := h.store.Clear(c.Request().Context()); err != nil {
		return HandleError(h.logger, c, errors.ErrCredentialStore("clear", err))
	}
	return HandleSuccess(h.logger, c, presenter.ToCredentialStatusResponse(credentialUsecase.Status{}))
}
