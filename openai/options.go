package openai

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/petal-labs/oai/core"
)

// DefaultBaseURL is the default OpenAI API base URL. Endpoint paths carry
// the version prefix.
const DefaultBaseURL = "https://api.openai.com"

// DefaultTimeout bounds plain (non-streaming) requests.
const DefaultTimeout = 60 * time.Second

// Config holds configuration for the client.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey core.Secret

	// BaseURL is the API base URL. Defaults to https://api.openai.com
	BaseURL string

	// HTTPClient is the HTTP client to use. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// OrgID is the optional OpenAI organization ID.
	OrgID string

	// ProjectID is the optional OpenAI project ID.
	ProjectID string

	// Headers contains optional extra headers to include in requests.
	Headers http.Header

	// Timeout applies to plain requests. Streaming requests are bounded
	// only by their context and by cancellation.
	Timeout time.Duration

	// Paths overrides individual endpoint paths.
	Paths PathConfig

	// Telemetry receives request lifecycle events.
	Telemetry core.TelemetryHook

	// Logger receives debug records. Defaults to slog.Default().
	Logger *slog.Logger

	// StreamBufferSize is the read size used for streamed bodies.
	StreamBufferSize int

	// CheckEveryChunk makes stream decoders look for an error envelope on
	// every chunk instead of only the first one.
	CheckEveryChunk bool
}

// Option configures the client.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithOrgID sets the OpenAI organization ID header.
func WithOrgID(org string) Option {
	return func(c *Config) {
		c.OrgID = org
	}
}

// WithProjectID sets the OpenAI project ID header.
func WithProjectID(project string) Option {
	return func(c *Config) {
		c.ProjectID = project
	}
}

// WithHeader adds an extra header to include in requests.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Set(key, value)
	}
}

// WithTimeout sets the plain request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithPaths overrides endpoint paths. Empty fields keep their defaults.
func WithPaths(p PathConfig) Option {
	return func(c *Config) {
		c.Paths = p.withDefaults()
	}
}

// WithTelemetry sets the telemetry hook.
func WithTelemetry(hook core.TelemetryHook) Option {
	return func(c *Config) {
		c.Telemetry = hook
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithStreamBufferSize sets the read size for streamed bodies.
func WithStreamBufferSize(n int) Option {
	return func(c *Config) {
		c.StreamBufferSize = n
	}
}

// WithCheckEveryChunk enables error envelope detection on every stream chunk.
func WithCheckEveryChunk() Option {
	return func(c *Config) {
		c.CheckEveryChunk = true
	}
}
