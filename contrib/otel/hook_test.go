package otel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/petal-labs/oai/core"
)

func newRecorder() (*Hook, *tracetest.SpanRecorder) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	return NewHook(WithTracerProvider(tp)), rec
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestHookRecordsSpan(t *testing.T) {
	hook, rec := newRecorder()
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	end := start.Add(1500 * time.Millisecond)

	hook.OnRequestStart(core.RequestStartEvent{Endpoint: "/v1/chat/completions", Start: start})
	require.Empty(t, rec.Ended())

	hook.OnRequestEnd(core.RequestEndEvent{
		Endpoint:  "/v1/chat/completions",
		Model:     "gpt-4o-mini",
		Streaming: true,
		Status:    200,
		Start:     start,
		End:       end,
	})

	spans := rec.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "oai /v1/chat/completions", span.Name())
	assert.Equal(t, trace.SpanKindClient, span.SpanKind())
	assert.Equal(t, start, span.StartTime())
	assert.Equal(t, end, span.EndTime())
	assert.Equal(t, codes.Unset, span.Status().Code)

	a := attrs(span)
	assert.Equal(t, "gpt-4o-mini", a["gen_ai.request.model"].AsString())
	assert.True(t, a["oai.streaming"].AsBool())
	assert.Equal(t, int64(200), a["http.response.status_code"].AsInt64())
	_, hasErr := a["error.type"]
	assert.False(t, hasErr)
}

func TestHookRecordsAPIError(t *testing.T) {
	hook, rec := newRecorder()
	now := time.Now()

	hook.OnRequestEnd(core.RequestEndEvent{
		Endpoint: "/v1/models",
		Status:   429,
		Start:    now,
		End:      now,
		Err:      &core.APIError{Status: 429, Message: "slow down", Type: "rate_limit_exceeded", Err: core.ErrRateLimited},
	})

	spans := rec.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, codes.Error, span.Status().Code)

	a := attrs(span)
	assert.Equal(t, "rate_limit_exceeded", a["error.type"].AsString())
	_, hasModel := a["gen_ai.request.model"]
	assert.False(t, hasModel)

	require.Len(t, span.Events(), 1)
	assert.Equal(t, "exception", span.Events()[0].Name)
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "network", errorType(core.NetworkError(context.Canceled)))
	assert.Equal(t, "api", errorType(&core.APIError{Err: core.ErrAPI}))
	assert.Equal(t, "other", errorType(errors.New("boom")))
}
