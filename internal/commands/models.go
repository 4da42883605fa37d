// internal/commands/models.go
package hedlab

import (
	"fmt"

	"github.com/spf13/cobra"
)

// modelsCmd is the parent for model catalog commands.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect the models the backend can run",
}

type modelGroupOutput struct {
	Group  string   `json:"group"`
	Label  string   `json:"label"`
	Cloud  bool     `json:"cloud"`
	Models []string `json:"models"`
}

// modelsListCmd prints the model catalog grouped by provider.
var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available models grouped by provider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		s := newSession()
		if err := s.RefreshModels(cmd.Context()); err != nil {
			return sessionError(s, err)
		}
		catalog := s.Snapshot().Catalog
		out := cmd.OutOrStdout()

		if format != formatText {
			groups := make([]modelGroupOutput, 0, len(catalog.Groups))
			for _, g := range catalog.Groups {
				groups = append(groups, modelGroupOutput{Group: g.Name, Label: g.Label, Cloud: g.Cloud, Models: g.Models})
			}
			return writeStructured(out, format, groups)
		}

		if catalog.Empty() {
			fmt.Fprintln(out, "No models available.")
			return nil
		}
		for i, g := range catalog.Groups {
			if i > 0 {
				fmt.Fprintln(out)
			}
			heading := g.Label
			if g.Cloud {
				heading += " (API key required)"
			}
			headingColor.Fprintln(out, heading)
			for _, m := range g.Models {
				fmt.Fprintf(out, "  %s\n", m)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd)
	modelsListCmd.Flags().StringP("output", "o", formatText, "output format: text, json or yaml")
}
