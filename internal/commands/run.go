// internal/commands/run.go
package hedlab

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mwiater/hedlab/internal/logging"
	"github.com/mwiater/hedlab/internal/workbench"
	"github.com/spf13/cobra"
)

var (
	runModel        string
	runDescription  string
	runTemplateFile string
	runName         string
)

// runCmd submits one experiment and prints the result.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one annotation experiment",
	Long: `Sends a description to the backend with the chosen model and prompt template, then prints
the model response, the extracted annotation, validation issues and the quality grade.
Cloud models need their API key configured first (see 'hedlab env set').`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}

		template := ""
		if runTemplateFile != "" {
			data, err := os.ReadFile(runTemplateFile)
			if err != nil {
				return fmt.Errorf("read template: %w", err)
			}
			template = string(data)
		}

		ctx := cmd.Context()
		s := newSession()
		if err := s.RefreshModels(ctx); err != nil {
			logging.LogEvent("run: model catalog unavailable: %v", err)
		}
		s.UpdateForm(func(f *workbench.Form) {
			if runModel != "" {
				f.Model = runModel
			}
			f.Description = runDescription
			if template != "" {
				f.PromptTemplate = template
			}
			f.ExperimentName = runName
		})

		outcome, err := s.Run(ctx)
		if err != nil {
			if errors.Is(err, workbench.ErrCredentialRequired) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Set the key with: hedlab env set NAME VALUE")
			}
			return sessionError(s, err)
		}

		out := cmd.OutOrStdout()
		if format != formatText {
			return writeStructured(out, format, outcome.Result)
		}
		printAlert(cmd.ErrOrStderr(), s)
		if cur := s.Snapshot().Current; cur != nil {
			printSections(out, workbench.DetailSections(*cur))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runModel, "model", "m", "", "model identifier (defaults to the configured default model)")
	runCmd.Flags().StringVarP(&runDescription, "description", "d", "", "natural-language description to annotate")
	runCmd.Flags().StringVarP(&runTemplateFile, "template", "t", "", "file holding the prompt template (defaults to the built-in template)")
	runCmd.Flags().StringVarP(&runName, "name", "n", "", "optional experiment name")
	runCmd.Flags().StringP("output", "o", formatText, "output format: text, json or yaml")
	_ = runCmd.MarkFlagRequired("description")
}

// trimmedArg returns args[i] without surrounding whitespace.
func trimmedArg(args []string, i int) string {
	if i >= len(args) {
		return ""
	}
	return strings.TrimSpace(args[i])
}
