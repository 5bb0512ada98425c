package transport

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vakeel-dev/vakeel/internal/observability"
	obsmetrics "github.com/vakeel-dev/vakeel/pkg/observability"
)

// Caller is the transport surface the session manager consumes.
type Caller interface {
	SendChat(ctx context.Context, text string) (*ChatResult, error)
	AnalyzeDocument(ctx context.Context, doc Document, question string) (*AnalysisResult, error)
}

// Instrumented wraps a Caller with tracing and metrics. Failures are
// recorded by kind so dashboards can tell a gateway misroute from a network
// outage.
type Instrumented struct {
	inner Caller
}

// NewInstrumented wraps a transport caller with observability.
func NewInstrumented(inner Caller) *Instrumented {
	return &Instrumented{inner: inner}
}

// SendChat forwards to the wrapped caller under a span.
func (i *Instrumented) SendChat(ctx context.Context, text string) (*ChatResult, error) {
	ctx, span := observability.StartSpan(ctx, "backend.chat",
		trace.WithAttributes(
			attribute.Int("chat.text_length", len(text)),
		),
	)
	defer span.End()

	start := time.Now()
	result, err := i.inner.SendChat(ctx, text)
	i.record(span, "chat", start, err)

	if result != nil {
		span.SetAttributes(attribute.Float64("chat.latency_seconds", result.LatencySeconds))
	}
	return result, err
}

// AnalyzeDocument forwards to the wrapped caller under a span.
func (i *Instrumented) AnalyzeDocument(ctx context.Context, doc Document, question string) (*AnalysisResult, error) {
	ctx, span := observability.StartSpan(ctx, "backend.analyze",
		trace.WithAttributes(
			attribute.String("analyze.filename", doc.Name),
			attribute.Int("analyze.size_bytes", len(doc.Data)),
		),
	)
	defer span.End()

	start := time.Now()
	result, err := i.inner.AnalyzeDocument(ctx, doc, question)
	i.record(span, "analyze", start, err)

	if result != nil {
		span.SetAttributes(attribute.Float64("analyze.latency_seconds", result.LatencySeconds))
	}
	return result, err
}

func (i *Instrumented) record(span trace.Span, operation string, start time.Time, err error) {
	duration := time.Since(start)
	span.SetAttributes(
		attribute.Int64("backend.duration_ms", duration.Milliseconds()),
		attribute.Bool("backend.success", err == nil),
	)

	outcome := "success"
	if err != nil {
		outcome = "failure"
		span.RecordError(err)
		if kind, ok := KindOf(err); ok {
			span.SetAttributes(attribute.String("backend.failure_kind", string(kind)))
			obsmetrics.RecordBackendFailure(operation, string(kind))
		}
	}
	obsmetrics.RecordBackendRequest(operation, outcome, duration)
}
