package commands

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petal-labs/oai/cli/config"
)

func TestWriteConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	err := writeConfigFile(path, configTemplateData{APIKeyEnv: "OPENAI_API_KEY", BaseURL: "http://localhost:11434", Model: "llama3.2"}, false)
	if err != nil {
		t.Fatalf("writeConfigFile() error = %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BaseURL != "http://localhost:11434" {
		t.Errorf("BaseURL = %q, want http://localhost:11434", cfg.BaseURL)
	}
	if cfg.DefaultModel != "llama3.2" {
		t.Errorf("DefaultModel = %q, want llama3.2", cfg.DefaultModel)
	}
	if cfg.Timeout.String() != "1m0s" {
		t.Errorf("Timeout = %v, want 1m0s", cfg.Timeout)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestWriteConfigFileDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := writeConfigFile(path, configTemplateData{APIKeyEnv: "OPENAI_API_KEY"}, false); err != nil {
		t.Fatalf("writeConfigFile() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(content), "# base_url: https://api.openai.com") {
		t.Error("config should carry a commented base_url")
	}
	if !strings.Contains(string(content), "default_model: gpt-4o-mini") {
		t.Error("config missing default model")
	}
}

func TestWriteConfigFileExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("default_model: keep\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	err := writeConfigFile(path, configTemplateData{APIKeyEnv: "OPENAI_API_KEY"}, false)
	if !errors.Is(err, errConfigExists) {
		t.Fatalf("writeConfigFile() error = %v, want errConfigExists", err)
	}

	if err := writeConfigFile(path, configTemplateData{APIKeyEnv: "OPENAI_API_KEY", Model: "gpt-4o"}, true); err != nil {
		t.Fatalf("writeConfigFile(force) error = %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DefaultModel != "gpt-4o" {
		t.Errorf("DefaultModel = %q, want gpt-4o", cfg.DefaultModel)
	}
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	ta := newTestApp(t, "http://127.0.0.1:0", nil)
	if err := ta.run("init", "--config", path); err != nil {
		t.Fatalf("init error = %v", err)
	}
	if !strings.Contains(ta.stdout.String(), "Created "+path) {
		t.Errorf("stdout = %q, want Created message", ta.stdout.String())
	}

	ta = newTestApp(t, "http://127.0.0.1:0", nil)
	err := ta.run("init", "--config", path)
	if got := exitCode(t, err); got != ExitValidation {
		t.Errorf("exit code = %d, want %d", got, ExitValidation)
	}
}
