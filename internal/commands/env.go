// internal/commands/env.go
package hedlab

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// envCmd is the parent for backend credential commands.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage API keys stored by the backend",
	Long:  `Lists, sets and removes the environment variables the backend reads provider API keys from. Values are never shown in full.`,
}

var envListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured and available credential variables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		s := newSession()
		if err := s.OpenCredentials(cmd.Context()); err != nil {
			return sessionError(s, err)
		}
		st := s.Snapshot()
		unconfigured := s.Unconfigured()
		out := cmd.OutOrStdout()

		if format != formatText {
			type credentialOutput struct {
				Name       string `json:"name"`
				Configured bool   `json:"configured"`
				Preview    string `json:"preview,omitempty"`
			}
			rows := make([]credentialOutput, 0, len(st.Credentials)+len(unconfigured))
			for _, c := range st.Credentials {
				rows = append(rows, credentialOutput{Name: c.Name, Configured: c.Configured, Preview: c.Preview})
			}
			for _, name := range unconfigured {
				rows = append(rows, credentialOutput{Name: name})
			}
			return writeStructured(out, format, rows)
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "VARIABLE\tSTATUS\tVALUE")
		for _, c := range st.Credentials {
			fmt.Fprintf(w, "%s\tconfigured\t%s\n", c.Name, c.Preview)
		}
		for _, name := range unconfigured {
			fmt.Fprintf(w, "%s\tnot set\t-\n", name)
		}
		return w.Flush()
	},
}

var envSetCmd = &cobra.Command{
	Use:   "set NAME VALUE",
	Short: "Add or update a credential variable",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		if err := s.SetCredential(cmd.Context(), args[0], args[1]); err != nil {
			return sessionError(s, err)
		}
		printAlert(cmd.ErrOrStderr(), s)
		return nil
	},
}

var envUnsetCmd = &cobra.Command{
	Use:     "unset NAME",
	Aliases: []string{"rm"},
	Short:   "Remove a credential variable",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		if err := s.RemoveCredential(cmd.Context(), args[0]); err != nil {
			return sessionError(s, err)
		}
		printAlert(cmd.ErrOrStderr(), s)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.AddCommand(envListCmd, envSetCmd, envUnsetCmd)
	envListCmd.Flags().StringP("output", "o", formatText, "output format: text, json or yaml")
}
