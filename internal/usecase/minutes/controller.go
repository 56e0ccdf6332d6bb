package minutes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/pkg/jobcontext"
	"github.com/johnquangdev/meeting-minutes/pkg/metrics"
)

// StageListener is notified after every stage change, in order
type StageListener func(status entities.ProcessingStatus)

// Controller drives one transcript through the processing stages.
// A second Run while a generation is in flight fails with ErrGenerationInProgress.
type Controller struct {
	mu       sync.Mutex
	id       string
	stage    entities.Stage
	failure  string
	document *entities.MinutesDocument

	service  GenerationService
	timeout  time.Duration
	listener StageListener
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithTimeout bounds each run, including the model call
func WithTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) { c.timeout = d }
}

// WithStageListener registers a stage change callback
func WithStageListener(l StageListener) ControllerOption {
	return func(c *Controller) { c.listener = l }
}

// WithMetrics records stage and generation metrics
func WithMetrics(m *metrics.Metrics) ControllerOption {
	return func(c *Controller) { c.metrics = m }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a controller in the Idle stage
func NewController(id string, service GenerationService, opts ...ControllerOption) *Controller {
	c := &Controller{
		id:      id,
		stage:   entities.StageIdle,
		service: service,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Status returns the current stage, progress and failure reason
func (c *Controller) Status() entities.ProcessingStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

// Document returns a copy of the generated document, nil unless in Editing
func (c *Controller) Document() *entities.MinutesDocument {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.document == nil {
		return nil
	}
	doc := c.document.Clone()
	return &doc
}

// Reset returns to Idle and drops the document. It is rejected during a run.
func (c *Controller) Reset() error {
	c.mu.Lock()
	if c.stage.IsActive() {
		c.mu.Unlock()
		return entities.ErrGenerationInProgress
	}
	changed := c.stage != entities.StageIdle
	c.stage = entities.StageIdle
	c.failure = ""
	c.document = nil
	status := c.statusLocked()
	c.mu.Unlock()

	if changed {
		c.notify(status)
	}
	return nil
}

// Run executes one generation. On failure the controller is back in Idle with
// the reason recorded, and no document is exposed.
func (c *Controller) Run(ctx context.Context, req entities.GenerationRequest) (*entities.MinutesDocument, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	done := c.metrics.RunStarted()
	defer done()
	start := time.Now()

	if strings.TrimSpace(req.TranscriptText) == "" {
		return nil, c.fail(entities.ErrEmptyTranscript, start)
	}
	if err := c.advance(entities.StageExtracting); err != nil {
		return nil, c.fail(err, start)
	}

	runCtx, cancel := jobcontext.RunBegin(ctx, uuid.NewString(), c.id, c.timeout)
	defer cancel()

	if c.logger != nil {
		c.logger.Info("🚀 Generation started",
			zap.String("session_id", c.id),
			zap.String("run_id", jobcontext.GetRunMetadata(runCtx).RunID),
		)
	}

	var doc *entities.MinutesDocument
	err := jobcontext.Guard(runCtx, func(ctx context.Context) error {
		var genErr error
		doc, genErr = c.service.Generate(ctx, req)
		return genErr
	})
	if err == nil && doc == nil {
		err = &entities.MalformedResponseError{Reason: "no document produced"}
	}
	if err != nil {
		return nil, c.fail(err, start)
	}

	if err := c.advance(entities.StageGenerating); err != nil {
		return nil, c.fail(err, start)
	}

	c.mu.Lock()
	stored := doc.Clone()
	c.document = &stored
	c.mu.Unlock()

	if err := c.advance(entities.StageEditing); err != nil {
		return nil, c.fail(err, start)
	}

	c.metrics.ObserveGeneration("success", time.Since(start).Seconds())
	if c.logger != nil {
		c.logger.Info("✅ Generation completed",
			zap.String("session_id", c.id),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	out := stored.Clone()
	return &out, nil
}

// begin claims the controller for a run, resetting out of Editing first
func (c *Controller) begin() error {
	c.mu.Lock()
	if c.stage.IsActive() {
		c.mu.Unlock()
		return entities.ErrGenerationInProgress
	}

	var statuses []entities.ProcessingStatus
	if c.stage == entities.StageEditing {
		c.stage = entities.StageIdle
		c.document = nil
		statuses = append(statuses, c.statusLocked())
	}
	c.failure = ""
	c.stage = entities.StageUploading
	statuses = append(statuses, c.statusLocked())
	c.mu.Unlock()

	for _, s := range statuses {
		c.notify(s)
	}
	return nil
}

func (c *Controller) advance(next entities.Stage) error {
	c.mu.Lock()
	if !c.stage.CanTransitionTo(next) {
		current := c.stage
		c.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", entities.ErrInvalidTransition, current, next)
	}
	c.stage = next
	status := c.statusLocked()
	c.mu.Unlock()

	c.notify(status)
	return nil
}

// fail moves to Idle, records the reason and returns err unchanged
func (c *Controller) fail(err error, start time.Time) error {
	c.mu.Lock()
	c.stage = entities.StageIdle
	c.document = nil
	c.failure = err.Error()
	status := c.statusLocked()
	c.mu.Unlock()

	c.metrics.ObserveGeneration(outcomeFor(err), time.Since(start).Seconds())
	if c.logger != nil {
		c.logger.Error("❌ Generation failed",
			zap.String("session_id", c.id),
			zap.String("outcome", outcomeFor(err)),
			zap.Error(err),
		)
	}

	c.notify(status)
	return err
}

func (c *Controller) statusLocked() entities.ProcessingStatus {
	return entities.ProcessingStatus{
		Stage:    c.stage,
		Progress: c.stage.Progress(),
		Label:    c.stage.Label(),
		Failure:  c.failure,
	}
}

func (c *Controller) notify(status entities.ProcessingStatus) {
	c.metrics.ObserveStage(string(status.Stage))
	if c.listener != nil {
		c.listener(status)
	}
}

func outcomeFor(err error) string {
	var (
		transportErr *entities.TransportError
		malformedErr *entities.MalformedResponseError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, entities.ErrMissingCredential), errors.Is(err, entities.ErrInvalidCredential):
		return "credential_error"
	case errors.As(err, &transportErr):
		return "transport_error"
	case errors.As(err, &malformedErr):
		return "malformed_response"
	case errors.Is(err, entities.ErrEmptyTranscript), errors.Is(err, entities.ErrInvalidMeetingDate):
		return "invalid_input"
	default:
		return "error"
	}
}
