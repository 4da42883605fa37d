package hedlab

import (
	"fmt"
	"text/tabwriter"

	"github.com/mwiater/hedlab/internal/api"
	"github.com/mwiater/hedlab/internal/util"
	"github.com/spf13/cobra"
)

// descriptionsCmd is the parent for description history commands.
var descriptionsCmd = &cobra.Command{
	Use:   "descriptions",
	Short: "Inspect previously used descriptions",
}

var descriptionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List descriptions with how often each was run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		s := newSession()
		if err := s.RefreshDescriptions(cmd.Context()); err != nil {
			return sessionError(s, err)
		}
		entries := s.Snapshot().Descriptions
		out := cmd.OutOrStdout()
		if format != formatText {
			if entries == nil {
				entries = []api.DescriptionEntry{}
			}
			return writeStructured(out, format, entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No descriptions yet.")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RUNS\tDESCRIPTION")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\n", e.Count, util.TruncateRunes(util.SingleLine(e.Description), 100))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(descriptionsCmd)
	descriptionsCmd.AddCommand(descriptionsListCmd)
	descriptionsListCmd.Flags().StringP("output", "o", formatText, "output format: text, json or yaml")
}
