package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/petal-labs/oai/cli/config"
	"github.com/petal-labs/oai/openai"
)

func (a *App) newInitCommand() *cobra.Command {
	var (
		force   bool
		baseURL string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Write a starter config file to ~/.oai/config.yaml, or to --config.

Example:
  oai init
  oai init --base-url http://localhost:11434 --model llama3.2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgFile
			if path == "" {
				path = config.DefaultConfigPath()
			}

			data := configTemplateData{
				APIKeyEnv: openai.DefaultAPIKeyEnvVar,
				BaseURL:   baseURL,
				Model:     a.model,
			}
			if err := writeConfigFile(path, data, force); err != nil {
				return a.fail(ExitValidation, err)
			}

			fmt.Fprintf(a.stdout, "Created %s\n\n", path)
			fmt.Fprintln(a.stdout, "Next steps:")
			fmt.Fprintf(a.stdout, "  export %s=<your-key>   (or put it in .env)\n", data.APIKeyEnv)
			fmt.Fprintln(a.stdout, "  oai chat")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL for OpenAI compatible servers")
	return cmd
}

type configTemplateData struct {
	APIKeyEnv string
	BaseURL   string
	Model     string
}

var errConfigExists = errors.New("config file already exists (use --force to overwrite)")

func writeConfigFile(path string, data configTemplateData, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s: %w", path, errConfigExists)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var configTemplate = `# oai configuration
# The API key is read from this environment variable (a .env file works too).
api_key_env: {{.APIKeyEnv}}
{{if .BaseURL}}base_url: {{.BaseURL}}
{{else}}# base_url: https://api.openai.com
{{end}}# organization: org-...
# project: proj_...
default_model: {{if .Model}}{{.Model}}{{else}}gpt-4o-mini{{end}}
speech_model: tts-1
voice: alloy
embed_model: text-embedding-3-small
timeout: 60s

# Extra headers sent with every request.
# headers:
#   X-Example: value

# Endpoint paths, for servers that mount the API elsewhere.
# paths:
#   chats: /v1/chat/completions
`
