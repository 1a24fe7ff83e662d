// Package otel exports oai request telemetry as OpenTelemetry spans.
//
//	tp := sdktrace.NewTracerProvider(...)
//	client := openai.New(key, openai.WithTelemetry(otel.NewHook(otel.WithTracerProvider(tp))))
//
// One client span is recorded per request. Streaming requests produce a
// single span covering the whole stream.
package otel

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petal-labs/oai/core"
)

const instrumentationName = "github.com/petal-labs/oai/contrib/otel"

// Hook implements core.TelemetryHook.
type Hook struct {
	tracer trace.Tracer
}

// Option configures a Hook.
type Option func(*hookConfig)

type hookConfig struct {
	provider trace.TracerProvider
}

// WithTracerProvider sets the provider spans are created from.
// Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *hookConfig) {
		c.provider = tp
	}
}

// NewHook returns a telemetry hook that records spans.
func NewHook(opts ...Option) *Hook {
	cfg := hookConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.provider == nil {
		cfg.provider = otel.GetTracerProvider()
	}
	return &Hook{tracer: cfg.provider.Tracer(instrumentationName)}
}

// OnRequestStart is a no-op. The span is built when the request ends,
// backdated to the start time.
func (h *Hook) OnRequestStart(core.RequestStartEvent) {}

// OnRequestEnd records one span for the finished request.
func (h *Hook) OnRequestEnd(e core.RequestEndEvent) {
	_, span := h.tracer.Start(context.Background(), "oai "+e.Endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithTimestamp(e.Start),
		trace.WithAttributes(
			attribute.String("gen_ai.system", "openai"),
			attribute.String("oai.endpoint", e.Endpoint),
			attribute.Bool("oai.streaming", e.Streaming),
		),
	)
	if e.Model != "" {
		span.SetAttributes(attribute.String("gen_ai.request.model", e.Model))
	}
	if e.Status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", e.Status))
	}
	if e.Err != nil {
		span.SetAttributes(attribute.String("error.type", errorType(e.Err)))
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	}
	span.End(trace.WithTimestamp(e.End))
}

func errorType(err error) string {
	var apiErr *core.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Type != "":
		return apiErr.Type
	case errors.Is(err, core.ErrNetwork):
		return "network"
	case errors.Is(err, core.ErrAPI):
		return "api"
	default:
		return "other"
	}
}

var _ core.TelemetryHook = (*Hook)(nil)
