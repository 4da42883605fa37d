package hedlab

import (
	"github.com/mwiater/hedlab/internal/tui"
	"github.com/spf13/cobra"
)

// startGUI is swapped out in tests.
var startGUI = tui.Start

// uiCmd opens the interactive workbench. It is also what the bare root command runs.
var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive experiment workbench",
	Long:  `Opens the full-screen workbench: run experiments, browse history, edit the HED vocabulary and manage API keys.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startGUI(cmd.Context(), GetConfig(), newSession())
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
