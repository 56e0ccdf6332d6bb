package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name for every span in the service
const TracerName = "meeting-minutes"

// Span attribute keys
const (
	AttrSessionID       = "session_id"
	AttrTranscriptChars = "transcript_chars"
	AttrMeetingTitle    = "meeting_title"
	AttrAttendees       = "attendees"
	AttrActionItems     = "action_items"
	AttrRecipients      = "recipients"
	AttrErrorType       = "error_type"
)

// Span names
const (
	SpanGenerate    = "minutes.generate"
	SpanLLMCall     = "minutes.llm_call"
	SpanParseOutput = "minutes.parse_output"
	SpanDistribute  = "minutes.distribute"
)

// Tracer starts the spans of the minutes pipeline
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer uses the globally registered provider, a no-op until one is installed
func NewTracer() *Tracer {
	return &Tracer{tracer: otel.Tracer(TracerName)}
}

// NewTracerWithProvider uses tp instead of the global provider
func NewTracerWithProvider(tp trace.TracerProvider) *Tracer {
	return &Tracer{tracer: tp.Tracer(TracerName)}
}

// StartGenerateSpan starts the root span of one generation
func (t *Tracer) StartGenerateSpan(ctx context.Context, transcriptChars int, meetingTitle string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanGenerate,
		trace.WithAttributes(
			attribute.Int(AttrTranscriptChars, transcriptChars),
			attribute.String(AttrMeetingTitle, meetingTitle),
		),
	)
}

// StartLLMSpan starts a span for the language model call
func (t *Tracer) StartLLMSpan(ctx context.Context) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanLLMCall, trace.WithSpanKind(trace.SpanKindClient))
}

// StartParseSpan starts a span for decoding the model output
func (t *Tracer) StartParseSpan(ctx context.Context) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanParseOutput)
}

// StartDistributeSpan starts a span for one distribution hand-off
func (t *Tracer) StartDistributeSpan(ctx context.Context, sessionID string, recipients int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanDistribute,
		trace.WithAttributes(
			attribute.String(AttrSessionID, sessionID),
			attribute.Int(AttrRecipients, recipients),
		),
	)
}

// End records err on span, if any, and ends it
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(AttrErrorType, fmt.Sprintf("%T", err)))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
