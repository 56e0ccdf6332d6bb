package tracingtest

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Recorder is an in-memory TracerProvider for tests
type Recorder struct {
	noop.TracerProvider
	mu    sync.Mutex
	spans []*RecordedSpan
}

// RecordedSpan captures what instrumentation did with one span
type RecordedSpan struct {
	noop.Span
	mu          *sync.Mutex
	Name        string
	Attributes  []attribute.KeyValue
	Errors      []error
	Status      codes.Code
	Description string
	Ended       bool
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return recordingTracer{recorder: r}
}

// Spans returns a snapshot of the started spans in start order
func (r *Recorder) Spans() []RecordedSpan {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedSpan, 0, len(r.spans))
	for _, s := range r.spans {
		out = append(out, *s)
	}
	return out
}

type recordingTracer struct {
	noop.Tracer
	recorder *Recorder
}

func (t recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	span := &RecordedSpan{mu: &t.recorder.mu, Name: name, Attributes: cfg.Attributes()}

	t.recorder.mu.Lock()
	t.recorder.spans = append(t.recorder.spans, span)
	t.recorder.mu.Unlock()

	return trace.ContextWithSpan(ctx, span), span
}

func (s *RecordedSpan) SetAttributes(kv ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Attributes = append(s.Attributes, kv...)
}

func (s *RecordedSpan) RecordError(err error, _ ...trace.EventOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors = append(s.Errors, err)
}

func (s *RecordedSpan) SetStatus(code codes.Code, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = code
	s.Description = description
}

func (s *RecordedSpan) End(...trace.SpanEndOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ended = true
}

func (s *RecordedSpan) IsRecording() bool { return true }
