package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{
		Status:    401,
		RequestID: "req_123",
		Message:   "Invalid API key provided",
		Type:      "invalid_request_error",
		Code:      "invalid_api_key",
		Err:       ErrUnauthorized,
	}

	msg := err.Error()
	assert.Contains(t, msg, "Invalid API key provided")
	assert.Contains(t, msg, "status=401")
	assert.Contains(t, msg, "code=invalid_api_key")
	assert.Contains(t, msg, "request_id=req_123")
	assert.NotContains(t, msg, "param=")
}

func TestAPIErrorUnwrap(t *testing.T) {
	err := &APIError{Status: 401, Message: "nope", Err: ErrUnauthorized}
	assert.ErrorIs(t, err, ErrAPI)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrRateLimited)

	bare := &APIError{Message: "nope"}
	assert.ErrorIs(t, bare, ErrAPI)

	var target *APIError
	require.ErrorAs(t, error(err), &target)
	assert.Equal(t, 401, target.Status)
}

func TestParseErrorEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		ok      bool
		message string
		code    string
	}{
		{
			name:    "string message",
			body:    `{"error":{"message":"bad key","type":"invalid_request_error","param":null,"code":"invalid_api_key"}}`,
			ok:      true,
			message: "bad key",
			code:    "invalid_api_key",
		},
		{
			name:    "array message",
			body:    `{"error":{"message":["one","two"],"type":"invalid_request_error"}}`,
			ok:      true,
			message: "one\ntwo",
		},
		{
			name:    "numeric code",
			body:    `{"error":{"message":"slow down","type":"rate_limit_error","code":429}}`,
			ok:      true,
			message: "slow down",
			code:    "429",
		},
		{name: "payload object", body: `{"id":"chatcmpl-1","object":"chat.completion.chunk"}`},
		{name: "error without message", body: `{"error":{"type":"x"}}`},
		{name: "error not object", body: `{"error":"boom"}`},
		{name: "truncated", body: `{"error":{"message":"bad`},
		{name: "sse text", body: "data: {\"a\":1}\n"},
		{name: "array", body: `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr, ok := ParseErrorEnvelope([]byte(tt.body))
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Nil(t, apiErr)
				return
			}
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.ErrorIs(t, apiErr, ErrAPI)
		})
	}
}

func TestRateLimitError(t *testing.T) {
	err := RateLimitError("30")
	assert.Equal(t, "Rate limit exceeded. Please try again after 30 seconds.", err.Message)
	assert.Equal(t, "rate_limit_error", err.Type)
	assert.ErrorIs(t, err, ErrRateLimited)

	generic := RateLimitError("")
	assert.Equal(t, "Rate limit exceeded. Please try again later.", generic.Message)
}

func TestServerError(t *testing.T) {
	err := ServerError(503, "upstream unavailable")
	assert.Equal(t, "upstream unavailable", err.Message)
	assert.Equal(t, "503", err.Code)
	assert.ErrorIs(t, err, ErrServer)

	empty := ServerError(500, "")
	assert.Equal(t, "An error occurred (code: 500)", empty.Message)
}

func TestWrappedErrors(t *testing.T) {
	netErr := NetworkError(context.Canceled)
	assert.ErrorIs(t, netErr, ErrNetwork)
	assert.ErrorIs(t, netErr, context.Canceled)

	decErr := DecodeError(errors.New("unexpected end of JSON input"))
	assert.ErrorIs(t, decErr, ErrDecode)
	assert.Contains(t, decErr.Error(), "unexpected end of JSON input")
}

func TestSentinelForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{400, ErrBadRequest},
		{401, ErrUnauthorized},
		{403, ErrUnauthorized},
		{404, ErrNotFound},
		{429, ErrRateLimited},
		{500, ErrServer},
		{503, ErrServer},
		{418, ErrServer},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, SentinelForStatus(tt.status), tt.want, "status %d", tt.status)
	}
}
