package stream

import (
	"net/http"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/petal-labs/oai/core"
)

const (
	// DataPrefix starts every payload line of the event stream.
	DataPrefix = "data: "

	// DoneMarker is the payload of the final frame of a well-formed stream.
	DoneMarker = "[DONE]"
)

// DecodeFunc decodes one data payload into the stream's result type.
type DecodeFunc[T any] func(data []byte) (T, error)

// Validator is implemented by payload types that reject objects which are
// valid JSON but not a payload (an error envelope, for instance).
type Validator interface {
	Validate() error
}

// JSON returns a DecodeFunc that unmarshals a payload into T. When *T
// implements Validator, values failing validation are reported as errors.
func JSON[T any]() DecodeFunc[T] {
	return func(data []byte) (T, error) {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return v, err
		}
		if val, ok := any(&v).(Validator); ok {
			if err := val.Validate(); err != nil {
				var zero T
				return zero, err
			}
		}
		return v, nil
	}
}

// Handler receives the events produced by a Decoder. Any field may be nil.
//
//   - OnResult is called once per decoded payload, in stream order.
//   - OnError is called for decode failures and classified server errors.
//     The stream keeps going after OnError.
//   - OnDone is called exactly once when the connection ends. The error is
//     nil for a clean close.
type Handler[T any] struct {
	OnResult func(T)
	OnError  func(error)
	OnDone   func(error)
}

// DecoderOption configures a Decoder.
type DecoderOption func(*decoderOptions)

type decoderOptions struct {
	checkEveryChunk bool
}

// CheckEveryChunk makes the decoder look for an error envelope on every
// chunk instead of only the first one. A chunk classified as an error is
// reported and skipped; it does not reject the rest of the stream.
func CheckEveryChunk() DecoderOption {
	return func(o *decoderOptions) {
		o.checkEveryChunk = true
	}
}

// Decoder turns the raw bytes of one streaming HTTP response into typed
// events.
//
// Intake and Finish must be called from a single goroutine (or otherwise
// serialized) and Finish must be the last call. The decoder holds no lock:
// all of its state belongs to the delivery path of one connection.
type Decoder[T any] struct {
	decode  DecodeFunc[T]
	handler Handler[T]
	opts    decoderOptions

	status int
	header http.Header

	// pending is unterminated text carried over to the next chunk.
	pending string
	// partialRune holds the leading bytes of a rune split across chunks.
	partialRune []byte

	errorChecked bool
	rejected     bool
	received     bool
	terminated   bool
}

// NewDecoder creates a decoder delivering events to handler.
func NewDecoder[T any](decode DecodeFunc[T], handler Handler[T], opts ...DecoderOption) *Decoder[T] {
	d := &Decoder[T]{
		decode:  decode,
		handler: handler,
	}
	for _, opt := range opts {
		opt(&d.opts)
	}
	return d
}

// SetResponse records the HTTP status and headers the chunks arrive with.
// It must be called before the first Intake for status classification to
// take place.
func (d *Decoder[T]) SetResponse(status int, header http.Header) {
	d.status = status
	d.header = header
}

// Terminated reports whether Finish has been called.
func (d *Decoder[T]) Terminated() bool {
	return d.terminated
}

// Intake consumes the next chunk of the response body. Events are
// delivered synchronously before Intake returns.
func (d *Decoder[T]) Intake(chunk []byte) {
	if d.terminated || d.rejected || len(chunk) == 0 {
		return
	}

	data := chunk
	if len(d.partialRune) > 0 {
		data = append(d.partialRune, chunk...)
		d.partialRune = nil
	}
	data, rest := splitIncompleteRune(data)
	if !utf8.Valid(data) {
		d.emitError(core.ErrUnknownContent)
		return
	}
	if len(rest) > 0 {
		d.partialRune = append([]byte(nil), rest...)
	}
	if len(data) == 0 {
		return
	}
	d.received = true

	if !d.errorChecked || d.opts.checkEveryChunk {
		if err := d.classify(data); err != nil {
			d.emitError(err)
			if !d.opts.checkEveryChunk {
				d.rejected = true
			}
			return
		}
		d.errorChecked = true
	}

	d.consume(string(data))
}

// Finish reports the end of the connection. err is nil for a clean close.
// Only the first call has an effect.
func (d *Decoder[T]) Finish(err error) {
	if d.terminated {
		return
	}
	d.terminated = true

	// A rune still split at close can never complete.
	if len(d.partialRune) > 0 && !d.rejected {
		d.partialRune = nil
		d.emitError(core.ErrUnknownContent)
	}
	if err == nil && !d.received && d.status >= http.StatusBadRequest {
		err = d.statusError("")
	}
	if d.handler.OnDone != nil {
		d.handler.OnDone(err)
	}
}

// classify checks a chunk for an upfront failure: an error envelope, a
// rate limit, or any other error status.
func (d *Decoder[T]) classify(data []byte) error {
	if apiErr, ok := core.ParseErrorEnvelope(data); ok {
		if d.status >= http.StatusBadRequest {
			apiErr.Status = d.status
			apiErr.Err = core.SentinelForStatus(d.status)
		}
		apiErr.RequestID = d.header.Get("x-request-id")
		return apiErr
	}
	if d.status >= http.StatusBadRequest {
		return d.statusError(string(data))
	}
	return nil
}

func (d *Decoder[T]) statusError(body string) error {
	var apiErr *core.APIError
	if d.status == http.StatusTooManyRequests {
		apiErr = core.RateLimitError(d.header.Get("retry-after"))
	} else {
		apiErr = core.ServerError(d.status, body)
	}
	apiErr.RequestID = d.header.Get("x-request-id")
	return apiErr
}

// frame is one "data: " line of the current delivery.
type frame struct {
	payload    string
	raw        string
	terminated bool
}

func (d *Decoder[T]) consume(text string) {
	text = d.pending + text
	d.pending = ""

	var (
		frames []frame
		tail   string
	)
	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		terminated := i < len(lines)-1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, DataPrefix) {
			// An unterminated line that may still grow into a data line.
			if !terminated && strings.HasPrefix(DataPrefix, strings.TrimLeft(raw, " \t\r")) {
				tail = raw
			}
			continue
		}
		frames = append(frames, frame{
			payload:    line[len(DataPrefix):],
			raw:        raw,
			terminated: terminated,
		})
	}

	if len(frames) == 0 || frames[0].payload == DoneMarker {
		d.pending = tail
		return
	}

	var carry string
	last := len(frames) - 1
	for i, f := range frames {
		if f.payload == DoneMarker {
			continue
		}
		v, err := d.decode([]byte(f.payload))
		if err == nil {
			d.emitResult(v)
			continue
		}
		if i == last {
			// Most likely cut at a chunk boundary; retry with the next chunk.
			carry = f.raw
			if f.terminated {
				carry += "\n"
			}
			continue
		}
		if apiErr, ok := core.ParseErrorEnvelope([]byte(f.payload)); ok {
			d.emitError(apiErr)
		} else {
			d.emitError(core.DecodeError(err))
		}
	}
	d.pending = carry + tail
}

func (d *Decoder[T]) emitResult(v T) {
	if d.handler.OnResult != nil {
		d.handler.OnResult(v)
	}
}

func (d *Decoder[T]) emitError(err error) {
	if d.handler.OnError != nil {
		d.handler.OnError(err)
	}
}

// splitIncompleteRune separates a rune cut off at the end of b.
func splitIncompleteRune(b []byte) (complete, rest []byte) {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if !utf8.RuneStart(b[len(b)-i]) {
			continue
		}
		if !utf8.FullRune(b[len(b)-i:]) {
			return b[:len(b)-i], b[len(b)-i:]
		}
		break
	}
	return b, nil
}
