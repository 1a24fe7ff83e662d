package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petal-labs/oai/openai"
)

func (a *App) newEmbedCommand() *cobra.Command {
	var dimensions int

	cmd := &cobra.Command{
		Use:   "embed <text>...",
		Short: "Create embeddings, one per argument",
		Long: `Create an embedding vector for each argument.

The embedding model is taken from --model, or embed_model in the config.

Examples:
  oai embed "the quick brown fox"
  oai embed first second --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model := a.embedModel(cmd)
			client, err := a.client()
			if err != nil {
				return err
			}

			q := openai.EmbeddingsQuery{Model: model, Input: args}
			if dimensions > 0 {
				q.Dimensions = &dimensions
			}
			res, err := client.Embeddings(cmd.Context(), q)
			if err != nil {
				return a.handleAPIError(err)
			}
			if a.jsonOutput {
				return a.writeJSON(res)
			}
			for _, e := range res.Data {
				fmt.Fprintf(a.stdout, "[%d] %d dims: %s\n", e.Index, len(e.Embedding), preview(e.Embedding, 4))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&dimensions, "dimensions", 0, "truncate vectors to this many dimensions (0 = model default)")
	return cmd
}

// embedModel prefers an explicit --model over the chat default.
func (a *App) embedModel(cmd *cobra.Command) string {
	if f := cmd.Flag("model"); f != nil && f.Changed {
		return a.model
	}
	if a.cfg != nil && a.cfg.EmbedModel != "" {
		return a.cfg.EmbedModel
	}
	return "text-embedding-3-small"
}

func preview(v []float64, n int) string {
	parts := make([]string, 0, n+1)
	for i, x := range v {
		if i == n {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprintf("%.4f", x))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
