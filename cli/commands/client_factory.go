package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/petal-labs/oai/cli/config"
	"github.com/petal-labs/oai/core"
	"github.com/petal-labs/oai/openai"
)

func defaultClientFactory(cfg *config.Config, logger *slog.Logger) (*openai.Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	envVar := cfg.APIKeyEnv
	if envVar == "" {
		envVar = openai.DefaultAPIKeyEnvVar
	}
	apiKey := os.Getenv(envVar)
	if apiKey == "" {
		return nil, fmt.Errorf("no API key: set %s in the environment or a .env file", envVar)
	}

	opts := cfg.ClientOptions()
	opts = append(opts,
		openai.WithLogger(logger),
		openai.WithTelemetry(core.SlogTelemetryHook{Logger: logger}),
	)
	return openai.New(apiKey, opts...), nil
}
