package openai

import (
	"context"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/petal-labs/oai/core"
	"github.com/petal-labs/oai/stream"
)

// makeStreamable sets "stream": true on an encoded request body.
func makeStreamable(body []byte) ([]byte, error) {
	out, err := sjson.SetBytes(body, "stream", true)
	if err != nil {
		return nil, encodeError(err)
	}
	return out, nil
}

// openStream issues r as a streaming request and returns its session. The
// session is registered with the client before any event is delivered.
//
// The plain request timeout does not apply; streams end on EOF, on ctx, or
// through Session.Cancel and CancelChatStreams.
func openStream[T any](ctx context.Context, c *Client, r request, family stream.Family, handler stream.Handler[T]) (*stream.Session, error) {
	httpReq, err := c.newHTTPRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	start := time.Now()
	c.config.Telemetry.OnRequestStart(core.RequestStartEvent{
		Endpoint:  r.path,
		Model:     r.model,
		Streaming: true,
		Start:     start,
	})

	opts := []stream.Option{
		stream.WithRegistry(c.streams),
		stream.WithLogger(c.logger),
		stream.WithBufferSize(c.config.StreamBufferSize),
		stream.WithFinishHook(func(status int, err error) {
			c.config.Telemetry.OnRequestEnd(core.RequestEndEvent{
				Endpoint:  r.path,
				Model:     r.model,
				Streaming: true,
				Status:    status,
				Start:     start,
				End:       time.Now(),
				Err:       err,
			})
		}),
	}
	if c.config.CheckEveryChunk {
		opts = append(opts, stream.WithDecoderOptions(stream.CheckEveryChunk()))
	}

	return stream.Open(ctx, c.config.HTTPClient, httpReq, family, stream.JSON[T](), handler, opts...), nil
}

// CancelChatStreams cancels every open chat stream and returns how many
// were cancelled. Each stream still completes, with an error matching
// core.ErrNetwork and context.Canceled. Completions and speech streams are
// not affected.
func (c *Client) CancelChatStreams() int {
	return c.streams.CancelAll(stream.FamilyChat)
}

// ActiveStreams returns the number of streams whose connection is open.
func (c *Client) ActiveStreams() int {
	return c.streams.Len()
}

// ChatsStream streams a chat completion. Chunks arrive through handler in
// order; the returned session can cancel the stream at any point.
func (c *Client) ChatsStream(ctx context.Context, q ChatQuery, handler stream.Handler[ChatStreamResult]) (*stream.Session, error) {
	r, err := jsonRequest(c.config.Paths.Chats, q.Model, q)
	if err != nil {
		return nil, err
	}
	if r.body, err = makeStreamable(r.body); err != nil {
		return nil, err
	}
	return openStream(ctx, c, r, stream.FamilyChat, handler)
}

// CompletionsStream streams a text completion.
func (c *Client) CompletionsStream(ctx context.Context, q CompletionsQuery, handler stream.Handler[CompletionsResult]) (*stream.Session, error) {
	r, err := jsonRequest(c.config.Paths.Completions, q.Model, q)
	if err != nil {
		return nil, err
	}
	if r.body, err = makeStreamable(r.body); err != nil {
		return nil, err
	}
	return openStream(ctx, c, r, stream.FamilyCompletions, handler)
}

// AudioCreateSpeechStream streams synthesized speech as server-sent events.
// stream_format defaults to "sse" when the query leaves it empty.
func (c *Client) AudioCreateSpeechStream(ctx context.Context, q AudioSpeechQuery, handler stream.Handler[AudioSpeechResult]) (*stream.Session, error) {
	r, err := jsonRequest(c.config.Paths.AudioSpeech, q.Model, q)
	if err != nil {
		return nil, err
	}
	if !gjson.GetBytes(r.body, "stream_format").Exists() {
		if r.body, err = sjson.SetBytes(r.body, "stream_format", "sse"); err != nil {
			return nil, encodeError(err)
		}
	}
	return openStream(ctx, c, r, stream.FamilySpeech, handler)
}
