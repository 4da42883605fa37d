// internal/commands/list_commands.go
package hedlab

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// CommandInfo holds the path and description of a command for display.
type CommandInfo struct {
	Path        string
	Description string
}

// commandsCmd implements 'list commands', which prints the command tree with paths
// in the first column and short descriptions in the second.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ListCommands(cmd.OutOrStdout(), collectCommandData(rootCmd, "", ""))
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
}

// ListCommands prints the command tree in a two-column layout.
func ListCommands(out io.Writer, commands []CommandInfo) {
	width := 0
	for _, c := range commands {
		width = max(width, len(c.Path))
	}

	headingColor.Fprintln(out, "Commands and Subcommands:")
	for _, c := range commands {
		fmt.Fprintf(out, "  %-*s  %s\n", width, c.Path, c.Description)
	}
}

// collectCommandData walks the command tree depth first. Hidden commands, help and
// shell completion are left out.
func collectCommandData(cmd *cobra.Command, parentPath, indent string) []CommandInfo {
	if cmd.Hidden || cmd.Name() == "help" || strings.HasPrefix(cmd.Name(), "completion") {
		return nil
	}
	path := strings.TrimSpace(parentPath + " " + cmd.Name())
	all := []CommandInfo{{Path: indent + path, Description: cmd.Short}}
	for _, sub := range cmd.Commands() {
		all = append(all, collectCommandData(sub, path, indent+"  ")...)
	}
	return all
}
