package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	minutesUsecase "github.com/johnquangdev/meeting-minutes/internal/usecase/minutes"
)

type fakeSessions map[string]entities.Stage

func (f fakeSessions) Get(id string) (minutesUsecase.SessionView, error) {
	stage, ok := f[id]
	if !ok {
		return minutesUsecase.SessionView{}, entities.ErrSessionNotFound
	}
	return minutesUsecase.SessionView{ID: id, Status: entities.ProcessingStatus{Stage: stage}}, nil
}

func newEcho(sessions SessionLookup) *echo.Echo {
	e := echo.New()
	g := e.Group("/sessions/:id", RequireSession(sessions))
	g.GET("", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	g.POST("/commit", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireStage(entities.StageEditing))
	return e
}

func serve(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRequireSession(t *testing.T) {
	e := newEcho(fakeSessions{"s1": entities.StageIdle})

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/sessions/s1").Code)

	rec := serve(e, http.MethodGet, "/sessions/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"session_id":"missing"`)
}

func TestRequireStage(t *testing.T) {
	e := newEcho(fakeSessions{"idle": entities.StageIdle, "editing": entities.StageEditing})

	assert.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/sessions/editing/commit").Code)

	rec := serve(e, http.MethodPost, "/sessions/idle/commit")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"current_state":"idle"`)
}
