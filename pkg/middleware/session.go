package middleware

import (
	"github.com/labstack/echo/v4"

	apperrors "github.com/johnquangdev/meeting-minutes/errors"
	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	minutesUsecase "github.com/johnquangdev/meeting-minutes/internal/usecase/minutes"
)

// SessionContextKey holds the session snapshot taken before the handler ran
const SessionContextKey = "session"

// SessionLookup finds a session by id
type SessionLookup interface {
	Get(id string) (minutesUsecase.SessionView, error)
}

// RequireSession middleware: reject requests for unknown sessions
func RequireSession(sessions SessionLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Param("id")
			view, err := sessions.Get(id)
			if err != nil {
				return reject(c, apperrors.ErrSessionNotFound(id))
			}
			c.Set(SessionContextKey, view)
			return next(c)
		}
	}
}

// RequireStage middleware: only allow the request while the session is in one of stages.
// It must run after RequireSession.
func RequireStage(stages ...entities.Stage) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			view, ok := c.Get(SessionContextKey).(minutesUsecase.SessionView)
			if !ok {
				return reject(c, apperrors.ErrSessionNotFound(c.Param("id")))
			}
			for _, stage := range stages {
				if view.Status.Stage == stage {
					return next(c)
				}
			}
			expected := ""
			if len(stages) > 0 {
				expected = string(stages[0])
			}
			return reject(c, apperrors.ErrSessionInvalidState(view.ID, string(view.Status.Stage), expected))
		}
	}
}

func reject(c echo.Context, appErr apperrors.AppError) error {
	return c.JSON(appErr.HTTPCode, map[string]interface{}{
		"code":    appErr.Code,
		"message": appErr.Message,
		"details": appErr.Details,
	})
}
