package distribution

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/pkg/metrics"
	"github.com/johnquangdev/meeting-minutes/pkg/tracing"
)

// Delivery is what the external collaborator receives
type Delivery struct {
	SessionID  string
	Document   entities.MinutesDocument
	Recipients []string
	ArchiveURL string
}

// Deliverer hands a document to the outside world (mail, chat, ...)
type Deliverer interface {
	Deliver(ctx context.Context, d Delivery) error
}

// Archiver stores a copy of the distributed document and returns a link to it
type Archiver interface {
	Archive(ctx context.Context, sessionID string, doc entities.MinutesDocument) (string, error)
}

// Service is the distribution hook. Send never fails once recipients are present.
type Service struct {
	deliverer Deliverer
	archiver  Archiver
	metrics   *metrics.Metrics
	tracer    *tracing.Tracer
	logger    *zap.Logger
}

// NewService creates the hook. deliverer and archiver may be nil.
func NewService(deliverer Deliverer, archiver Archiver, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		deliverer: deliverer,
		archiver:  archiver,
		metrics:   m,
		tracer:    tracing.NewTracer(),
		logger:    logger,
	}
}

// WithTracer replaces the tracer built from the global provider
func (s *Service) WithTracer(t *tracing.Tracer) *Service {
	if t != nil {
		s.tracer = t
	}
	return s
}

// Send hands doc to every recipient and returns how many were accepted.
// recipients must already be deduplicated. doc is not modified.
func (s *Service) Send(ctx context.Context, sessionID string, doc entities.MinutesDocument, recipients []string) (accepted int, err error) {
	ctx, span := s.tracer.StartDistributeSpan(ctx, sessionID, len(recipients))
	defer func() { tracing.End(span, err) }()

	if len(recipients) == 0 {
		return 0, entities.ErrEmptyRecipientList
	}

	delivery := Delivery{
		SessionID:  sessionID,
		Document:   doc.Clone(),
		Recipients: append([]string(nil), recipients...),
	}

	failed := false
	if s.archiver != nil {
		url, err := s.archiver.Archive(ctx, sessionID, delivery.Document)
		if err != nil {
			failed = true
			if s.logger != nil {
				s.logger.Warn("⚠️ Failed to archive minutes", zap.String("session_id", sessionID), zap.Error(err))
			}
		} else {
			delivery.ArchiveURL = url
		}
	}

	if s.deliverer != nil {
		if err := s.deliverer.Deliver(ctx, delivery); err != nil {
			failed = true
			if s.logger != nil {
				s.logger.Warn("⚠️ Delivery hand-off failed", zap.String("session_id", sessionID), zap.Error(err))
			}
		}
	}

	span.SetAttributes(attribute.Bool("delivery_failed", failed))
	s.metrics.ObserveDelivery(len(recipients), failed)
	if s.logger != nil {
		s.logger.Info("📧 Minutes handed off for delivery",
			zap.String("session_id", sessionID),
			zap.Int("recipients", len(recipients)),
			zap.String("archive_url", delivery.ArchiveURL),
		)
	}
	return len(recipients), nil
}

// LogDeliverer records deliveries in the log. It is the default collaborator.
type LogDeliverer struct {
	logger *zap.Logger
}

// NewLogDeliverer creates a LogDeliverer
func NewLogDeliverer(logger *zap.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger}
}

func (d *LogDeliverer) Deliver(ctx context.Context, delivery Delivery) error {
	if d.logger != nil {
		d.logger.Info("📨 Delivering minutes",
			zap.String("session_id", delivery.SessionID),
			zap.String("meeting_title", delivery.Document.MeetingTitle),
			zap.Strings("recipients", delivery.Recipients),
		)
	}
	return nil
}
