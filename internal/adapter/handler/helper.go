package handler

import (
	"context"
	stdErrors "errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/errors"
	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// pathIndex parses the :index path parameter
func pathIndex(c echo.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, errors.ErrInvalidArgument("index must be an integer")
	}
	return index, nil
}

// toAppError maps domain errors onto API errors. sessionID fills session details.
func toAppError(err error, sessionID string) errors.AppError {
	var (
		appErr       errors.AppError
		transportErr *entities.TransportError
		malformedErr *entities.MalformedResponseError
		rangeErr     *entities.IndexOutOfRangeError
	)

	switch {
	case stdErrors.As(err, &appErr):
		return appErr
	case stdErrors.Is(err, entities.ErrMissingCredential):
		return errors.ErrCredentialMissing()
	case stdErrors.Is(err, entities.ErrInvalidCredential):
		return errors.ErrCredentialInvalid(err)
	case stdErrors.As(err, &transportErr):
		return errors.ErrGenerationTransport(transportErr.StatusCode, err)
	case stdErrors.As(err, &malformedErr):
		return errors.ErrGenerationMalformed(err)
	case stdErrors.Is(err, entities.ErrGenerationInProgress):
		return errors.ErrGenerationInProgress(sessionID)
	case stdErrors.Is(err, entities.ErrSessionNotFound):
		return errors.ErrSessionNotFound(sessionID)
	case stdErrors.As(err, &rangeErr):
		return errors.ErrIndexOutOfRange(rangeErr.Collection, rangeErr.Index, rangeErr.Length)
	case stdErrors.Is(err, entities.ErrEmptyRecipientList):
		return errors.ErrRecipientsEmpty()
	case stdErrors.Is(err, entities.ErrEmptyTranscript),
		stdErrors.Is(err, entities.ErrUnsupportedFileType):
		return errors.ErrTranscriptInvalid(err.Error())
	case stdErrors.Is(err, entities.ErrFileTooLarge):
		appErr = errors.ErrTranscriptInvalid(err.Error())
		appErr.HTTPCode = http.StatusRequestEntityTooLarge
		return appErr
	case stdErrors.Is(err, entities.ErrInvalidMeetingDate),
		stdErrors.Is(err, entities.ErrInvalidDeadline),
		stdErrors.Is(err, entities.ErrUnknownCollection),
		stdErrors.Is(err, entities.ErrUnknownField),
		stdErrors.Is(err, entities.ErrInvalidRecipient):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, entities.ErrNoDocument):
		return errors.ErrSessionInvalidState(sessionID, "no_document", string(entities.StageEditing))
	case stdErrors.Is(err, entities.ErrMinutesNotFound):
		return errors.ErrNotFound("minutes")
	case stdErrors.Is(err, context.DeadlineExceeded):
		return errors.ErrGenerationTransport(http.StatusGatewayTimeout, err)
	default:
		return errors.ErrInternal(err)
	}
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return HandleSuccessWithStatus(logger, c, http.StatusOK, data)
}

// HandleSuccessWithStatus writes a success response with a custom HTTP status
func HandleSuccessWithStatus(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := toAppError(err, c.Param("id"))

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Stringer("app_code", appErr.Code),
			zap.Error(err),
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	}

	return c.JSON(appErr.HTTPCode, body)
}
