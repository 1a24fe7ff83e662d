// Package config handles CLI configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/petal-labs/oai/openai"
)

// Config represents the CLI configuration file.
type Config struct {
	APIKeyEnv    string            `yaml:"api_key_env"`
	BaseURL      string            `yaml:"base_url,omitempty"`
	Organization string            `yaml:"organization,omitempty"`
	Project      string            `yaml:"project,omitempty"`
	DefaultModel string            `yaml:"default_model,omitempty"`
	SpeechModel  string            `yaml:"speech_model,omitempty"`
	Voice        string            `yaml:"voice,omitempty"`
	EmbedModel   string            `yaml:"embed_model,omitempty"`
	Timeout      time.Duration     `yaml:"timeout,omitempty"`
	Headers      map[string]string `yaml:"headers,omitempty"`
	Paths        openai.PathConfig `yaml:"paths,omitempty"`
}

// DefaultConfigPath returns the default configuration file path for the current platform.
// - macOS/Linux: ~/.oai/config.yaml
// - Windows: %USERPROFILE%\.oai\config.yaml
func DefaultConfigPath() string {
	var homeDir string
	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		return "config.yaml"
	}
	return filepath.Join(homeDir, ".oai", "config.yaml")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		APIKeyEnv:    openai.DefaultAPIKeyEnvVar,
		DefaultModel: "gpt-4o-mini",
		SpeechModel:  "tts-1",
		Voice:        "alloy",
		EmbedModel:   "text-embedding-3-small",
	}
}

// LoadConfig loads configuration from path. A missing file yields the
// defaults without error; unset fields keep their defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = openai.DefaultAPIKeyEnvVar
	}
	return cfg, nil
}

// ClientOptions translates the file settings into client options.
func (c *Config) ClientOptions() []openai.Option {
	var opts []openai.Option
	if c.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(c.BaseURL))
	}
	if c.Organization != "" {
		opts = append(opts, openai.WithOrgID(c.Organization))
	}
	if c.Project != "" {
		opts = append(opts, openai.WithProjectID(c.Project))
	}
	if c.Timeout > 0 {
		opts = append(opts, openai.WithTimeout(c.Timeout))
	}
	for k, v := range c.Headers {
		opts = append(opts, openai.WithHeader(k, v))
	}
	if c.Paths != (openai.PathConfig{}) {
		opts = append(opts, openai.WithPaths(c.Paths))
	}
	return opts
}
