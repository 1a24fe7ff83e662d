package normalize

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petal-labs/oai/core"
)

func TestResponseError(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		header       http.Header
		body         string
		wantCode     string
		wantType     string
		wantMsg      string
		wantSentinel error
	}{
		{
			name:         "bad request envelope",
			status:       http.StatusBadRequest,
			header:       http.Header{"X-Request-Id": []string{"req-123"}},
			body:         `{"error":{"message":"Invalid model","type":"invalid_request_error","param":"model","code":"invalid_model"}}`,
			wantCode:     "invalid_model",
			wantType:     "invalid_request_error",
			wantMsg:      "Invalid model",
			wantSentinel: core.ErrBadRequest,
		},
		{
			name:         "code falls back to type",
			status:       http.StatusUnauthorized,
			header:       http.Header{},
			body:         `{"error":{"message":"Invalid API key","type":"authentication_error"}}`,
			wantCode:     "authentication_error",
			wantType:     "authentication_error",
			wantMsg:      "Invalid API key",
			wantSentinel: core.ErrUnauthorized,
		},
		{
			name:         "not found envelope",
			status:       http.StatusNotFound,
			header:       http.Header{},
			body:         `{"error":{"message":"The model 'gpt-9' does not exist","type":"invalid_request_error","code":"model_not_found"}}`,
			wantCode:     "model_not_found",
			wantType:     "invalid_request_error",
			wantMsg:      "The model 'gpt-9' does not exist",
			wantSentinel: core.ErrNotFound,
		},
		{
			name:         "fallback to status text",
			status:       http.StatusBadGateway,
			header:       http.Header{},
			body:         `{}`,
			wantType:     "server_error",
			wantMsg:      "{}",
			wantSentinel: core.ErrServer,
		},
		{
			name:         "empty body",
			status:       http.StatusServiceUnavailable,
			header:       nil,
			body:         "",
			wantType:     "server_error",
			wantMsg:      "Service Unavailable",
			wantSentinel: core.ErrServer,
		},
		{
			name:         "rate limit without envelope",
			status:       http.StatusTooManyRequests,
			header:       http.Header{"Retry-After": []string{"12"}},
			body:         "slow down",
			wantCode:     "429",
			wantType:     "rate_limit_error",
			wantMsg:      "Rate limit exceeded. Please try again after 12 seconds.",
			wantSentinel: core.ErrRateLimited,
		},
		{
			name:         "rate limit envelope",
			status:       http.StatusTooManyRequests,
			header:       http.Header{},
			body:         `{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`,
			wantCode:     "insufficient_quota",
			wantType:     "insufficient_quota",
			wantMsg:      "You exceeded your current quota",
			wantSentinel: core.ErrRateLimited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ResponseError(tt.status, tt.header, []byte(tt.body))

			var apiErr *core.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.header.Get(HeaderRequestID), apiErr.RequestID)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantType, apiErr.Type)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.ErrorIs(t, err, tt.wantSentinel)
			assert.ErrorIs(t, err, core.ErrAPI)
		})
	}
}

func TestBodyError(t *testing.T) {
	err, ok := BodyError(http.StatusOK, http.Header{"X-Request-Id": []string{"req-9"}},
		[]byte(`{"error":{"message":"Something went wrong","type":"server_error"}}`))
	require.True(t, ok)
	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Something went wrong", apiErr.Message)
	assert.Equal(t, "req-9", apiErr.RequestID)
	assert.ErrorIs(t, err, core.ErrAPI)

	_, ok = BodyError(http.StatusOK, nil, []byte(`{"id":"x"}`))
	assert.False(t, ok)
}

func TestAPIErrorDefaults(t *testing.T) {
	err := APIError(http.StatusForbidden, "req-1", "", "", nil)
	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Forbidden", apiErr.Message)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	custom := errors.New("custom")
	err = APIError(http.StatusTeapot, "", "teapot", "short and stout", custom)
	assert.ErrorIs(t, err, custom)
	assert.Contains(t, err.Error(), "short and stout")
}

func TestWrappers(t *testing.T) {
	assert.ErrorIs(t, NetworkError(errors.New("reset")), core.ErrNetwork)
	assert.ErrorIs(t, DecodeError(errors.New("eof")), core.ErrDecode)
}
