// Package commands implements the oai command tree using Cobra.
package commands

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/petal-labs/oai/cli/config"
	"github.com/petal-labs/oai/openai"
)

// ConfigLoader loads CLI config from a path.
type ConfigLoader func(path string) (*config.Config, error)

// ClientFactory creates an API client from the loaded config.
type ClientFactory func(cfg *config.Config, logger *slog.Logger) (*openai.Client, error)

// SignalNotifier relays interrupts to c until the returned stop func is called.
type SignalNotifier func(c chan<- os.Signal) (stop func())

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig ConfigLoader
	newClient  ClientFactory
	notify     SignalNotifier
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	logger     *slog.Logger

	cfgFile    string
	envFile    string
	model      string
	jsonOutput bool
	verbose    bool
	cfg        *config.Config

	chat  chatFlags
	speak speakFlags
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithClientFactory injects a client factory dependency.
func WithClientFactory(factory ClientFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newClient = factory
		}
	}
}

// WithSignalNotifier replaces os/signal delivery of interrupts.
func WithSignalNotifier(n SignalNotifier) AppOption {
	return func(a *App) {
		if n != nil {
			a.notify = n
		}
	}
}

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		loadConfig: config.LoadConfig,
		newClient:  defaultClientFactory,
		notify:     notifyInterrupt,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "oai",
		Short: "oai - command-line client for OpenAI compatible APIs",
		Long: `oai talks to the OpenAI API or any server exposing the same endpoints.

Chat with streaming replies, list models, create embeddings and synthesize speech.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.oai/config.yaml)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the API key")
	root.PersistentFlags().StringVar(&a.model, "model", "", "model ID (e.g. gpt-4o-mini)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable debug logging")

	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.AddCommand(a.newChatCommand())
	root.AddCommand(a.newModelsCommand())
	root.AddCommand(a.newEmbedCommand())
	root.AddCommand(a.newSpeakCommand())
	root.AddCommand(a.newInitCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// SetArgs overrides the command line arguments, for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// Execute runs the root command.
func (a *App) Execute() error {
	err := a.root.Execute()
	if err != nil {
		var ec *exitError
		if !errors.As(err, &ec) {
			// Flag and argument errors from cobra itself.
			a.printError("validation_error", err)
			err = exitWithCode(ExitValidation, err)
		}
	}
	return err
}

func (a *App) initConfig() error {
	a.logger = newLogger(a.stderr, a.verbose)
	slog.SetDefault(a.logger)

	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return a.fail(ExitValidation, err)
		}
	}

	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := a.loadConfig(path)
	if err != nil {
		return a.fail(ExitValidation, err)
	}
	a.cfg = cfg

	if a.model == "" && cfg.DefaultModel != "" {
		a.model = cfg.DefaultModel
	}
	return nil
}

func (a *App) client() (*openai.Client, error) {
	c, err := a.newClient(a.cfg, a.logger)
	if err != nil {
		return nil, a.fail(ExitValidation, err)
	}
	return c, nil
}

func notifyInterrupt(c chan<- os.Signal) func() {
	signal.Notify(c, os.Interrupt)
	return func() { signal.Stop(c) }
}

var defaultApp = NewApp()

// Execute runs the default app root command.
func Execute() error {
	return defaultApp.Execute()
}
