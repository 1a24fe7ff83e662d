package commands

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petal-labs/oai/cli/config"
	"github.com/petal-labs/oai/openai"
)

// syncBuffer is written from stream goroutines while tests poll it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testApp struct {
	app     *App
	stdout  *syncBuffer
	stderr  *syncBuffer
	signals chan chan<- os.Signal
}

func newTestApp(t *testing.T, baseURL string, stdin io.Reader, opts ...AppOption) *testApp {
	t.Helper()
	ta := &testApp{
		stdout:  &syncBuffer{},
		stderr:  &syncBuffer{},
		signals: make(chan chan<- os.Signal, 1),
	}
	if stdin == nil {
		stdin = bytes.NewReader(nil)
	}

	base := []AppOption{
		WithIO(stdin, ta.stdout, ta.stderr),
		WithConfigLoader(func(string) (*config.Config, error) { return config.Default(), nil }),
		WithClientFactory(func(cfg *config.Config, logger *slog.Logger) (*openai.Client, error) {
			return openai.New("test-key", openai.WithBaseURL(baseURL), openai.WithLogger(logger)), nil
		}),
		WithSignalNotifier(func(c chan<- os.Signal) func() {
			ta.signals <- c
			return func() {}
		}),
	}
	ta.app = NewApp(append(base, opts...)...)
	return ta
}

func (ta *testApp) run(args ...string) error {
	ta.app.SetArgs(append(args, "--env-file", ""))
	return ta.app.Execute()
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var ec *exitError
	require.True(t, errors.As(err, &ec), "expected exit error, got %v", err)
	return ec.ExitCode()
}

func TestModelsCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/models":
			_, _ = io.WriteString(w, `{"object":"list","data":[{"id":"whisper-1","owned_by":"openai"},{"id":"gpt-4o","owned_by":"openai"}]}`)
		case "/v1/models/gpt-4o":
			_, _ = io.WriteString(w, `{"id":"gpt-4o","object":"model","owned_by":"system"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	ta := newTestApp(t, server.URL, nil)
	require.NoError(t, ta.run("models"))
	assert.Equal(t, "gpt-4o\nwhisper-1\n", ta.stdout.String())

	ta = newTestApp(t, server.URL, nil)
	require.NoError(t, ta.run("models", "gpt-4o", "--json"))
	var m openai.ModelResult
	require.NoError(t, json.Unmarshal([]byte(ta.stdout.String()), &m))
	assert.Equal(t, "system", m.OwnedBy)
}

func TestAPIErrorExitCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-request-id", "req_9")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`)
	}))
	defer server.Close()

	ta := newTestApp(t, server.URL, nil)
	err := ta.run("models")
	assert.Equal(t, ExitAPI, exitCode(t, err))
	assert.Contains(t, ta.stderr.String(), "Error: Incorrect API key provided")
	assert.Contains(t, ta.stderr.String(), "req_9")

	ta = newTestApp(t, server.URL, nil)
	err = ta.run("models", "--json")
	assert.Equal(t, ExitAPI, exitCode(t, err))
	assert.Contains(t, ta.stderr.String(), `"code": "invalid_api_key"`)
}

func TestNetworkErrorExitCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	ta := newTestApp(t, url, nil)
	err := ta.run("models")
	assert.Equal(t, ExitNetwork, exitCode(t, err))
}

func TestMissingAPIKey(t *testing.T) {
	t.Setenv("OAI_TEST_KEY", "")
	ta := newTestApp(t, "http://127.0.0.1:0", nil,
		WithConfigLoader(func(string) (*config.Config, error) {
			cfg := config.Default()
			cfg.APIKeyEnv = "OAI_TEST_KEY"
			return cfg, nil
		}),
		WithClientFactory(defaultClientFactory),
	)

	err := ta.run("models")
	assert.Equal(t, ExitValidation, exitCode(t, err))
	assert.Contains(t, ta.stderr.String(), "OAI_TEST_KEY")
}

func TestUnknownFlagIsValidationError(t *testing.T) {
	ta := newTestApp(t, "http://127.0.0.1:0", nil)
	err := ta.run("models", "--no-such-flag")
	assert.Equal(t, ExitValidation, exitCode(t, err))
}

func TestEmbedCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var q openai.EmbeddingsQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		assert.Equal(t, "text-embedding-3-small", q.Model)
		assert.Equal(t, []string{"fox", "dog"}, q.Input)
		require.NotNil(t, q.Dimensions)
		assert.Equal(t, 2, *q.Dimensions)
		_, _ = io.WriteString(w, `{"object":"list","data":[{"index":0,"embedding":[0.5,-0.25]},{"index":1,"embedding":[1,0]}]}`)
	}))
	defer server.Close()

	ta := newTestApp(t, server.URL, nil)
	require.NoError(t, ta.run("embed", "fox", "dog", "--dimensions", "2"))
	assert.Equal(t, "[0] 2 dims: [0.5000, -0.2500]\n[1] 2 dims: [1.0000, 0.0000]\n", ta.stdout.String())
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "[0.1000, 0.2000, ...]", preview([]float64{0.1, 0.2, 0.3}, 2))
	assert.Equal(t, "[]", preview(nil, 2))
}

func TestSpeakCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var q openai.AudioSpeechQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		assert.Equal(t, "tts-1", q.Model)
		assert.Equal(t, "alloy", q.Voice)
		assert.Equal(t, "Hello there", q.Input)
		_, _ = io.WriteString(w, "ID3-bytes")
	}))
	defer server.Close()

	out := filepath.Join(t.TempDir(), "hello.mp3")
	ta := newTestApp(t, server.URL, nil)
	require.NoError(t, ta.run("speak", "--input", "Hello there", "--out", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "ID3-bytes", string(data))
	assert.Contains(t, ta.stdout.String(), "Saved "+out)
}

func TestSpeakStreamCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var q openai.AudioSpeechQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		assert.Equal(t, "sse", q.StreamFormat)
		assert.Equal(t, "nova", q.Voice)

		w.Header().Set("Content-Type", "text/event-stream")
		// "aGVs" and "bG8=" are base64 for "hel" and "lo".
		_, _ = io.WriteString(w, "data: {\"type\":\"speech.audio.delta\",\"audio\":\"aGVs\"}\n\n")
		_, _ = io.WriteString(w, "data: {\"type\":\"speech.audio.delta\",\"audio\":\"bG8=\"}\n\n")
		_, _ = io.WriteString(w, "data: {\"type\":\"speech.audio.done\"}\n\n")
	}))
	defer server.Close()

	dir := t.TempDir()
	out := filepath.Join(dir, "hello.mp3")
	ta := newTestApp(t, server.URL, nil)
	require.NoError(t, ta.run("speak", "--input", "hello", "--voice", "nova", "--out", out, "--stream", "--json"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Contains(t, ta.stdout.String(), `"path"`)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSpeakRequiresInput(t *testing.T) {
	ta := newTestApp(t, "http://127.0.0.1:0", nil)
	err := ta.run("speak")
	assert.Equal(t, ExitValidation, exitCode(t, err))
}

func TestExitError(t *testing.T) {
	inner := errors.New("test error")
	err := exitWithCode(ExitValidation, inner)

	assert.Equal(t, "test error", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, ExitValidation, exitCode(t, err))
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 1, ExitValidation)
	assert.Equal(t, 2, ExitAPI)
	assert.Equal(t, 3, ExitNetwork)
}
