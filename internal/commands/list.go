package hedlab

import "github.com/spf13/cobra"

// listCmd groups listing commands that are not tied to a backend resource.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Group commands for listing hedlab information",
}

func init() {
	rootCmd.AddCommand(listCmd)
}
