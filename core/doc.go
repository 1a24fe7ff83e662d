// Package core holds the types shared by the stream decoder and the API
// client: the error model, credential handling and telemetry hooks.
//
// # Errors
//
// Every error surfaced by the client can be classified with errors.Is
// against one of the sentinels:
//
//   - [ErrAPI]: the server returned a {"error":{...}} envelope ([*APIError])
//   - [ErrRateLimited]: HTTP 429; the message carries retry-after guidance
//   - [ErrServer]: any other HTTP status >= 400
//   - [ErrUnauthorized], [ErrBadRequest], [ErrNotFound]: status specific
//   - [ErrUnknownContent]: bytes that are not text
//   - [ErrDecode]: a payload that could not be decoded
//   - [ErrNetwork]: transport failure, including cancellation
//
// An [*APIError] built from an HTTP status matches both [ErrAPI] and the
// status sentinel:
//
//	var apiErr *core.APIError
//	if errors.As(err, &apiErr) && errors.Is(err, core.ErrRateLimited) {
//	    log.Printf("slow down: %s", apiErr.Message)
//	}
//
// Nothing in this module retries. Rate limit responses are classified and
// returned to the caller.
package core
