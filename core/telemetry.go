package core

import (
	"context"
	"log/slog"
	"time"
)

// TelemetryHook receives request lifecycle notifications.
//
// Events carry operational metadata only: endpoint, model, timing and
// outcome. Credentials, prompts and generated content are never included,
// so events can be logged or exported as-is. Keep it that way when adding
// fields.
type TelemetryHook interface {
	OnRequestStart(e RequestStartEvent)
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent is emitted before a request is sent.
type RequestStartEvent struct {
	Endpoint  string    // API path, e.g. "/v1/chat/completions"
	Model     string    // model from the query, if any
	Streaming bool      // true for SSE requests
	Start     time.Time // when the request started
}

// RequestEndEvent is emitted when a plain request returns or a stream terminates.
type RequestEndEvent struct {
	Endpoint  string
	Model     string
	Streaming bool
	Status    int // HTTP status, 0 if no response was received
	Start     time.Time
	End       time.Time
	Err       error
}

// Duration returns the elapsed time for the request.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook discards all events.
type NoopTelemetryHook struct{}

func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

// SlogTelemetryHook logs request lifecycle events to a slog.Logger.
// Start events are logged at debug level, failed requests at warn.
type SlogTelemetryHook struct {
	Logger *slog.Logger
}

func (h SlogTelemetryHook) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h SlogTelemetryHook) OnRequestStart(e RequestStartEvent) {
	h.logger().Debug("request started",
		slog.String("endpoint", e.Endpoint),
		slog.String("model", e.Model),
		slog.Bool("streaming", e.Streaming),
	)
}

func (h SlogTelemetryHook) OnRequestEnd(e RequestEndEvent) {
	level := slog.LevelDebug
	attrs := []slog.Attr{
		slog.String("endpoint", e.Endpoint),
		slog.String("model", e.Model),
		slog.Bool("streaming", e.Streaming),
		slog.Int("status", e.Status),
		slog.Duration("duration", e.Duration()),
	}
	if e.Err != nil {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	h.logger().LogAttrs(context.Background(), level, "request finished", attrs...)
}

var (
	_ TelemetryHook = NoopTelemetryHook{}
	_ TelemetryHook = SlogTelemetryHook{}
)
