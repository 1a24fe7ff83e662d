package stream

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/petal-labs/oai/core"
	"github.com/petal-labs/oai/internal/slogx"
	"github.com/petal-labs/oai/internal/uuidx"
)

// DefaultBufferSize is the read size used to pull chunks off the body.
const DefaultBufferSize = 4096

// Family groups sessions by endpoint so they can be cancelled together.
type Family string

const (
	FamilyChat        Family = "chat"
	FamilyCompletions Family = "completions"
	FamilySpeech      Family = "speech"
)

// Doer sends an HTTP request. *http.Client implements it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Option configures Open.
type Option func(*options)

type options struct {
	registry   *Registry
	bufferSize int
	logger     *slog.Logger
	decoder    []DecoderOption
	onFinish   func(status int, err error)
}

// WithRegistry registers the session in r for the lifetime of the connection.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithBufferSize sets the maximum chunk size read from the body.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithLogger sets the logger for session lifecycle records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithDecoderOptions passes options through to the session's Decoder.
func WithDecoderOptions(opts ...DecoderOption) Option {
	return func(o *options) {
		o.decoder = append(o.decoder, opts...)
	}
}

// WithFinishHook installs a function called after the terminal event with
// the response status (0 if none was received) and the terminal error.
func WithFinishHook(fn func(status int, err error)) Option {
	return func(o *options) {
		o.onFinish = fn
	}
}

// Session is the handle to one open streaming request. It is returned
// before any event is delivered so the caller can cancel at any point.
type Session struct {
	id     string
	family Family
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// ID returns the session identity used by the Registry.
func (s *Session) ID() string { return s.id }

// Family returns the endpoint family the session belongs to.
func (s *Session) Family() Family { return s.family }

// Cancel asks the connection to close. The terminal event is still
// delivered, with an error matching core.ErrNetwork and context.Canceled.
// Cancel may be called any number of times from any goroutine.
func (s *Session) Cancel() { s.cancel() }

// Done is closed after the terminal event has been delivered.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err returns the terminal error. It is only meaningful after Done is closed.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Wait blocks until the session terminates or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Open issues req on its own goroutine and streams the response body
// through a Decoder built from decode and handler.
//
// Handler callbacks run on the session goroutine, one at a time and in
// stream order. A slow callback delays only this session.
func Open[T any](ctx context.Context, doer Doer, req *http.Request, family Family, decode DecodeFunc[T], handler Handler[T], opts ...Option) *Session {
	o := options{bufferSize: DefaultBufferSize}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		id:     uuidx.NewString(),
		family: family,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	onDone := handler.OnDone
	handler.OnDone = func(err error) {
		s.err = err
		if onDone != nil {
			onDone(err)
		}
	}
	dec := NewDecoder(decode, handler, o.decoder...)

	if o.registry != nil {
		o.registry.Register(s)
	}
	logger := slogx.OrDefault(o.logger).With(
		slogx.LoggerName("stream"),
		slogx.SessionID(s.id),
		slog.String(slogx.KeyFamily, string(family)),
	)

	go pump(ctx, s, doer, req.WithContext(ctx), dec, &o, logger)
	return s
}

func pump[T any](ctx context.Context, s *Session, doer Doer, req *http.Request, dec *Decoder[T], o *options, logger *slog.Logger) {
	var status int
	finish := func(err error) {
		dec.Finish(err)
		if o.registry != nil {
			o.registry.Unregister(s.id)
		}
		logger.Debug("stream closed", slog.Int("status", status), slogx.Error(s.err))
		if o.onFinish != nil {
			o.onFinish(status, s.err)
		}
		s.cancel()
		close(s.done)
	}

	logger.Debug("stream opening", slog.String("url", req.URL.Redacted()))
	resp, err := doer.Do(req)
	if err != nil {
		finish(transportError(ctx, err))
		return
	}
	status = resp.StatusCode
	dec.SetResponse(resp.StatusCode, resp.Header)

	buf := make([]byte, o.bufferSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			dec.Intake(chunk)
		}
		if err == nil {
			continue
		}
		resp.Body.Close()
		if err == io.EOF {
			finish(nil)
		} else {
			finish(transportError(ctx, err))
		}
		return
	}
}

// transportError classifies a failure of the connection. Cancellation is
// reported through the context error so callers can match context.Canceled.
func transportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return core.NetworkError(ctxErr)
	}
	return core.NetworkError(err)
}
