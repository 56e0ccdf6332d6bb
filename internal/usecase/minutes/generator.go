package minutes

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/internal/usecase/credential"
	"github.com/johnquangdev/meeting-minutes/pkg/ai"
	"github.com/johnquangdev/meeting-minutes/pkg/tracing"
)

// GenerationService turns a transcript into a minutes document
type GenerationService interface {
	Generate(ctx context.Context, req entities.GenerationRequest) (*entities.MinutesDocument, error)
}

// ChatCompleter issues one chat completion call
type ChatCompleter interface {
	Complete(ctx context.Context, apiKey string, messages []ai.Message) (string, error)
}

// CredentialSource provides the stored API credential
type CredentialSource interface {
	Get(ctx context.Context) (string, error)
}

// Generator calls the language model directly with the caller's credential
type Generator struct {
	chat   ChatCompleter
	creds  CredentialSource
	now    func() time.Time
	tracer *tracing.Tracer
	logger *zap.Logger
}

// NewGenerator creates a Generator. creds may be nil when every request carries a credential.
func NewGenerator(chat ChatCompleter, creds CredentialSource, logger *zap.Logger) *Generator {
	return &Generator{
		chat:   chat,
		creds:  creds,
		now:    time.Now,
		tracer: tracing.NewTracer(),
		logger: logger,
	}
}

// WithTracer replaces the tracer built from the global provider
func (g *Generator) WithTracer(t *tracing.Tracer) *Generator {
	if t != nil {
		g.tracer = t
	}
	return g
}

// Generate issues exactly one request and never returns a partial document
func (g *Generator) Generate(ctx context.Context, req entities.GenerationRequest) (doc *entities.MinutesDocument, err error) {
	ctx, span := g.tracer.StartGenerateSpan(ctx, len(req.TranscriptText), req.MeetingTitle)
	defer func() { tracing.End(span, err) }()

	apiKey, err := g.resolveCredential(ctx, req.Credential)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.TranscriptText) == "" {
		return nil, entities.ErrEmptyTranscript
	}
	if req.MeetingDate != "" && !entities.ValidDate(req.MeetingDate) {
		return nil, entities.ErrInvalidMeetingDate
	}

	if g.logger != nil {
		g.logger.Info("🤖 Generating meeting minutes",
			zap.Int("transcript_chars", len(req.TranscriptText)),
			zap.String("meeting_title", req.MeetingTitle),
		)
	}

	content, err := g.complete(ctx, apiKey, req.TranscriptText)
	if err != nil {
		return nil, err
	}

	doc, err = g.parse(ctx, content)
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("⚠️ Model returned unusable content", zap.Error(err))
		}
		return nil, err
	}

	doc.ApplyMetadata(req.MeetingTitle, req.MeetingDate, g.now())

	span.SetAttributes(
		attribute.Int(tracing.AttrAttendees, len(doc.Attendees)),
		attribute.Int(tracing.AttrActionItems, len(doc.ActionItems)),
	)
	if g.logger != nil {
		g.logger.Info("✅ Meeting minutes generated",
			zap.Int("attendees", len(doc.Attendees)),
			zap.Int("action_items", len(doc.ActionItems)),
		)
	}
	return doc, nil
}

func (g *Generator) complete(ctx context.Context, apiKey, transcriptText string) (content string, err error) {
	ctx, span := g.tracer.StartLLMSpan(ctx)
	defer func() { tracing.End(span, err) }()

	content, err = g.chat.Complete(ctx, apiKey, BuildMessages(transcriptText))
	if err != nil {
		return "", classifyChatError(err)
	}
	return content, nil
}

func (g *Generator) parse(ctx context.Context, content string) (doc *entities.MinutesDocument, err error) {
	_, span := g.tracer.StartParseSpan(ctx)
	defer func() { tracing.End(span, err) }()

	return ParseMinutes(content)
}

// resolveCredential prefers the explicit value over the stored one
func (g *Generator) resolveCredential(ctx context.Context, explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return credential.Validate(explicit)
	}
	if g.creds == nil {
		return "", entities.ErrMissingCredential
	}
	return g.creds.Get(ctx)
}

func classifyChatError(err error) error {
	var apiErr *ai.APIError
	switch {
	case errors.As(err, &apiErr):
		return &entities.TransportError{StatusCode: apiErr.StatusCode, Message: apiErr.Message, Err: err}
	case errors.Is(err, ai.ErrEmptyContent):
		return &entities.MalformedResponseError{Reason: "no content in response", Err: err}
	case errors.Is(err, ai.ErrInvalidEnvelope):
		return &entities.MalformedResponseError{Reason: "unexpected response envelope", Err: err}
	default:
		return &entities.TransportError{Message: err.Error(), Err: err}
	}
}
