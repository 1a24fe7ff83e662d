// Package normalize turns failed HTTP exchanges into *core.APIError values.
package normalize

import (
	"net/http"
	"strings"

	"github.com/petal-labs/oai/core"
)

// HeaderRequestID is the response header carrying the server request ID.
const HeaderRequestID = "x-request-id"

// ResponseError normalizes a response with status >= 400.
//
// A body holding an {"error":{...}} envelope keeps the server's message,
// type, param and code. Otherwise a 429 becomes the rate limit error and
// any other status carries the raw body (or the status text) as message.
// The status sentinel is always attached.
func ResponseError(status int, header http.Header, body []byte) error {
	requestID := header.Get(HeaderRequestID)

	if apiErr, ok := core.ParseErrorEnvelope(body); ok {
		apiErr.Status = status
		apiErr.RequestID = requestID
		apiErr.Err = core.SentinelForStatus(status)
		if apiErr.Code == "" {
			apiErr.Code = apiErr.Type
		}
		return apiErr
	}

	if status == http.StatusTooManyRequests {
		apiErr := core.RateLimitError(header.Get("retry-after"))
		apiErr.RequestID = requestID
		return apiErr
	}

	return APIError(status, requestID, "", strings.TrimSpace(string(body)), nil)
}

// BodyError reports whether a 2xx body that failed to decode is actually
// an error envelope.
func BodyError(status int, header http.Header, body []byte) (error, bool) {
	apiErr, ok := core.ParseErrorEnvelope(body)
	if !ok {
		return nil, false
	}
	apiErr.Status = status
	apiErr.RequestID = header.Get(HeaderRequestID)
	return apiErr, true
}

// APIError constructs a normalized error.
// If message is empty, HTTP status text is used.
// If sentinel is nil, status-based mapping is applied.
func APIError(status int, requestID, code, message string, sentinel error) error {
	if message == "" {
		message = http.StatusText(status)
	}
	if sentinel == nil {
		sentinel = core.SentinelForStatus(status)
	}
	typ := "invalid_request_error"
	if sentinel == core.ErrServer {
		typ = "server_error"
	}
	return &core.APIError{
		Status:    status,
		RequestID: requestID,
		Type:      typ,
		Code:      code,
		Message:   message,
		Err:       sentinel,
	}
}

// NetworkError wraps transport failures.
func NetworkError(err error) error {
	return core.NetworkError(err)
}

// DecodeError wraps decode/parsing failures.
func DecodeError(err error) error {
	return core.DecodeError(err)
}
