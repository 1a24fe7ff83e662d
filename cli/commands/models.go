package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func (a *App) newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models [model-id]",
		Short: "List models, or describe one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				m, err := client.Model(cmd.Context(), args[0])
				if err != nil {
					return a.handleAPIError(err)
				}
				if a.jsonOutput {
					return a.writeJSON(m)
				}
				fmt.Fprintf(a.stdout, "%s\towned by %s\n", m.ID, m.OwnedBy)
				return nil
			}

			res, err := client.Models(cmd.Context())
			if err != nil {
				return a.handleAPIError(err)
			}
			if a.jsonOutput {
				return a.writeJSON(res)
			}
			sort.Slice(res.Data, func(i, j int) bool { return res.Data[i].ID < res.Data[j].ID })
			for _, m := range res.Data {
				fmt.Fprintln(a.stdout, m.ID)
			}
			return nil
		},
	}
}
