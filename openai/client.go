package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/petal-labs/oai/core"
	"github.com/petal-labs/oai/internal/normalize"
	"github.com/petal-labs/oai/internal/slogx"
	"github.com/petal-labs/oai/stream"
)

// DefaultAPIKeyEnvVar is the environment variable name for the OpenAI API key.
const DefaultAPIKeyEnvVar = "OPENAI_API_KEY"

// AssistantsBeta is the OpenAI-Beta header value sent to the assistants,
// threads and runs endpoints.
const AssistantsBeta = "assistants=v2"

// ErrAPIKeyNotFound is returned when the API key environment variable is not set.
var ErrAPIKeyNotFound = errors.New("openai: OPENAI_API_KEY environment variable not set")

// NewFromEnv creates a client using the OPENAI_API_KEY environment variable.
//
//	client, err := openai.NewFromEnv(openai.WithOrgID("org-xxx"))
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewFromEnv(opts ...Option) (*Client, error) {
	apiKey := os.Getenv(DefaultAPIKeyEnvVar)
	if apiKey == "" {
		return nil, ErrAPIKeyNotFound
	}
	return New(apiKey, opts...), nil
}

// Client is an OpenAI API client. Client is safe for concurrent use.
//
// Streaming calls return a *stream.Session immediately and deliver results
// through callbacks on the session goroutine. Open chat streams can be
// stopped together with CancelChatStreams.
type Client struct {
	config  Config
	streams *stream.Registry
	logger  *slog.Logger
}

// New creates a client with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	cfg := Config{
		APIKey:     core.NewSecret(apiKey),
		BaseURL:    DefaultBaseURL,
		HTTPClient: http.DefaultClient,
		Timeout:    DefaultTimeout,
		Paths:      DefaultPaths(),
		Telemetry:  core.NoopTelemetryHook{},
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Telemetry == nil {
		cfg.Telemetry = core.NoopTelemetryHook{}
	}

	return &Client{
		config:  cfg,
		streams: stream.NewRegistry(),
		logger:  slogx.OrDefault(cfg.Logger).With(slogx.LoggerName("openai")),
	}
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return c.config
}

// buildHeaders constructs the HTTP headers for an API request.
func (c *Client) buildHeaders() http.Header {
	headers := make(http.Header)

	headers.Set("Authorization", "Bearer "+c.config.APIKey.Expose())
	headers.Set("Content-Type", "application/json")

	if c.config.OrgID != "" {
		headers.Set("OpenAI-Organization", c.config.OrgID)
	}
	if c.config.ProjectID != "" {
		headers.Set("OpenAI-Project", c.config.ProjectID)
	}

	for key, values := range c.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// request describes one exchange with the API.
type request struct {
	method      string
	path        string // endpoint path after placeholder expansion
	query       url.Values
	model       string
	body        []byte
	contentType string // defaults to application/json
	beta        bool   // assistants API
}

func (c *Client) newHTTPRequest(ctx context.Context, r request) (*http.Request, error) {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, r.method, c.buildURL(r.path, r.query), body)
	if err != nil {
		return nil, normalize.NetworkError(err)
	}
	for key, values := range c.buildHeaders() {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if r.contentType != "" {
		httpReq.Header.Set("Content-Type", r.contentType)
	}
	if r.beta {
		httpReq.Header.Set("OpenAI-Beta", AssistantsBeta)
	}
	return httpReq, nil
}

// response is the outcome of a plain exchange.
type response struct {
	status int
	header http.Header
	body   []byte
}

// send performs a single plain exchange. Responses with status >= 400 are
// returned as normalized errors.
func (c *Client) send(ctx context.Context, r request) (resp *response, err error) {
	start := time.Now()
	c.config.Telemetry.OnRequestStart(core.RequestStartEvent{
		Endpoint: r.path,
		Model:    r.model,
		Start:    start,
	})
	defer func() {
		var status int
		if resp != nil {
			status = resp.status
		} else {
			var apiErr *core.APIError
			if errors.As(err, &apiErr) {
				status = apiErr.Status
			}
		}
		c.config.Telemetry.OnRequestEnd(core.RequestEndEvent{
			Endpoint: r.path,
			Model:    r.model,
			Status:   status,
			Start:    start,
			End:      time.Now(),
			Err:      err,
		})
	}()

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	httpReq, err := c.newHTTPRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, normalize.NetworkError(err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, normalize.NetworkError(err)
	}

	if httpResp.StatusCode >= 400 {
		return nil, normalize.ResponseError(httpResp.StatusCode, httpResp.Header, body)
	}

	return &response{
		status: httpResp.StatusCode,
		header: httpResp.Header,
		body:   body,
	}, nil
}

// doJSON performs a plain exchange and decodes the body into T. A 2xx body
// holding an error envelope is returned as that error.
func doJSON[T any](ctx context.Context, c *Client, r request) (*T, error) {
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	if len(resp.body) == 0 {
		return nil, core.ErrEmptyData
	}

	if apiErr, ok := normalize.BodyError(resp.status, resp.header, resp.body); ok {
		return nil, apiErr
	}
	var out T
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, normalize.DecodeError(err)
	}
	return &out, nil
}

// jsonRequest builds a POST request with a JSON-encoded body.
func jsonRequest(path, model string, v any) (request, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return request{}, encodeError(err)
	}
	return request{
		method: http.MethodPost,
		path:   path,
		model:  model,
		body:   body,
	}, nil
}

func getRequest(path string, query url.Values) request {
	return request{
		method: http.MethodGet,
		path:   path,
		query:  query,
	}
}

func encodeError(err error) error {
	return fmt.Errorf("encode request: %w", err)
}
