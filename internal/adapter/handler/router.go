package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/pkg/config"
	"github.com/johnquangdev/meeting-minutes/pkg/metrics"
	"github.com/johnquangdev/meeting-minutes/pkg/middleware"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	minutesHandler    *Minutes
	credentialHandler *Credential
	metrics           *metrics.Metrics
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, minutesHandler *Minutes, credentialHandler *Credential, m *metrics.Metrics) *Router {
	return &Router{
		cfg:               cfg,
		minutesHandler:    minutesHandler,
		credentialHandler: credentialHandler,
		metrics:           m,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	if rt.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(rt.metrics.Handler()))
	}

	v1 := e.Group("/v1")

	rt.setupCredentialRoutes(v1)
	rt.setupSessionRoutes(v1)
	rt.setupMinutesRoutes(v1)
}

// setupCredentialRoutes configures the API credential routes
func (rt *Router) setupCredentialRoutes(g *echo.Group) {
	credentialGroup := g.Group("/credential")

	if rt.credentialHandler == nil {
		credentialGroup.Any("", rt.notImplemented)
		return
	}
	credentialGroup.GET("", rt.credentialHandler.GetStatus)
	credentialGroup.PUT("", rt.credentialHandler.Save)
	credentialGroup.DELETE("", rt.credentialHandler.Clear)
}

// setupSessionRoutes configures generation, editing and distribution routes
func (rt *Router) setupSessionRoutes(g *echo.Group) {
	sessionGroup := g.Group("/sessions")

	if rt.minutesHandler == nil {
		sessionGroup.Any("*", rt.notImplemented)
		return
	}
	h := rt.minutesHandler

	sessionGroup.POST("", h.CreateSession)

	session := sessionGroup.Group("/:id", middleware.RequireSession(h.sessions))
	session.GET("", h.GetSession)
	session.DELETE("", h.DeleteSession)
	session.POST("/generate", h.Generate)
	session.POST("/recipients", h.AddRecipient)
	session.DELETE("/recipients", h.RemoveRecipient)

	editing := session.Group("", middleware.RequireStage(entities.StageEditing))
	editing.PATCH("/minutes", h.UpdateMinutes)
	editing.POST("/minutes/:collection", h.AppendItem)
	editing.PUT("/minutes/:collection/:index", h.UpdateItem)
	editing.DELETE("/minutes/:collection/:index", h.RemoveItem)
	editing.POST("/commit", h.Commit)
	editing.POST("/discard-edits", h.DiscardEdits)
	editing.POST("/send", h.Send)
}

// setupMinutesRoutes configures read access to persisted minutes
func (rt *Router) setupMinutesRoutes(g *echo.Group) {
	minutesGroup := g.Group("/minutes")

	if rt.minutesHandler == nil {
		minutesGroup.Any("*", rt.notImplemented)
		return
	}
	minutesGroup.GET("", rt.minutesHandler.ListMinutes)
	minutesGroup.GET("/:session_id", rt.minutesHandler.GetMinutes)
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":  "This endpoint is not yet implemented",
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	environment := "development"
	if rt.cfg != nil {
		environment = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"time":        time.Now().UTC().Format(time.RFC3339),
		"environment": environment,
	})
}
