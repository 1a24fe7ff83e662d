package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// APIError is the structured error returned by the API, either as the
// {"error":{...}} envelope or synthesized by the client from an HTTP status.
type APIError struct {
	Status    int
	RequestID string
	Message   string
	Type      string
	Param     string
	Code      string
	Err       error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	fmt.Fprintf(&sb, " (type=%s", e.Type)
	if e.Status != 0 {
		fmt.Fprintf(&sb, ", status=%d", e.Status)
	}
	if e.Code != "" {
		fmt.Fprintf(&sb, ", code=%s", e.Code)
	}
	if e.Param != "" {
		fmt.Fprintf(&sb, ", param=%s", e.Param)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&sb, ", request_id=%s", e.RequestID)
	}
	sb.WriteByte(')')
	return sb.String()
}

// Unwrap returns the classification sentinels so errors.Is matches both
// ErrAPI and the status specific sentinel.
func (e *APIError) Unwrap() []error {
	if e.Err == nil || e.Err == ErrAPI {
		return []error{ErrAPI}
	}
	return []error{ErrAPI, e.Err}
}

// Sentinel errors for classification.
var (
	ErrAPI            = errors.New("api error")
	ErrUnknownContent = errors.New("unknown content")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrRateLimited    = errors.New("rate limited")
	ErrBadRequest     = errors.New("bad request")
	ErrNotFound       = errors.New("not found")
	ErrServer         = errors.New("server error")
	ErrNetwork        = errors.New("network error")
	ErrDecode         = errors.New("decode error")
	ErrEmptyData      = errors.New("empty data")
)

// SentinelForStatus maps an HTTP status code to its classification sentinel.
func SentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrServer
	}
}

// ParseErrorEnvelope reports whether data is a complete {"error":{...}}
// envelope and returns its contents. The message may be a string or an
// array of strings; arrays are joined with newlines.
func ParseErrorEnvelope(data []byte) (*APIError, bool) {
	if !gjson.ValidBytes(data) {
		return nil, false
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, false
	}
	env := root.Get("error")
	if !env.IsObject() {
		return nil, false
	}
	msg := env.Get("message")
	if !msg.Exists() {
		return nil, false
	}

	apiErr := &APIError{
		Type:  env.Get("type").String(),
		Param: env.Get("param").String(),
		Code:  env.Get("code").String(),
		Err:   ErrAPI,
	}
	if msg.IsArray() {
		parts := make([]string, 0, len(msg.Array()))
		for _, m := range msg.Array() {
			parts = append(parts, m.String())
		}
		apiErr.Message = strings.Join(parts, "\n")
	} else {
		apiErr.Message = msg.String()
	}
	return apiErr, true
}

// RateLimitError synthesizes the error surfaced for an HTTP 429 response.
// retryAfter is the raw retry-after header value and may be empty.
func RateLimitError(retryAfter string) *APIError {
	message := "Rate limit exceeded. Please try again later."
	if retryAfter != "" {
		message = fmt.Sprintf("Rate limit exceeded. Please try again after %s seconds.", retryAfter)
	}
	return &APIError{
		Status:  429,
		Message: message,
		Type:    "rate_limit_error",
		Code:    "429",
		Err:     ErrRateLimited,
	}
}

// ServerError synthesizes the error surfaced for a non-429 HTTP status >= 400
// whose body is not an error envelope. body is carried as the message.
func ServerError(status int, body string) *APIError {
	if body == "" {
		body = fmt.Sprintf("An error occurred (code: %d)", status)
	}
	return &APIError{
		Status:  status,
		Message: body,
		Type:    "server_error",
		Code:    fmt.Sprint(status),
		Err:     ErrServer,
	}
}

// NetworkError wraps a transport failure (including cancellation).
func NetworkError(err error) error {
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

// DecodeError wraps a payload decode failure.
func DecodeError(err error) error {
	return fmt.Errorf("%w: %w", ErrDecode, err)
}
