// internal/commands/experiments.go
package hedlab

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/k0kubun/pp"
	"github.com/mwiater/hedlab/internal/api"
	"github.com/mwiater/hedlab/internal/metrics"
	"github.com/mwiater/hedlab/internal/util"
	"github.com/mwiater/hedlab/internal/workbench"
	"github.com/spf13/cobra"
)

var (
	experimentsShowDump bool
	experimentsDir      string
)

// experimentsCmd is the parent for experiment history commands.
var experimentsCmd = &cobra.Command{
	Use:     "experiments",
	Aliases: []string{"exp"},
	Short:   "Browse, rename, download and import saved experiments",
}

var experimentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved experiments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		s := newSession()
		if err := s.RefreshExperiments(cmd.Context()); err != nil {
			return sessionError(s, err)
		}
		list := s.Snapshot().Experiments
		out := cmd.OutOrStdout()
		if format != formatText {
			if list == nil {
				list = []api.ExperimentSummary{}
			}
			return writeStructured(out, format, list)
		}
		if len(list) == 0 {
			fmt.Fprintln(out, "No experiments yet.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tMODEL\tTIMESTAMP\tTIME\tISSUES\tSCORE\tFILE")
		for _, e := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				util.TruncateRunes(e.DisplayName(), 40),
				e.Model,
				workbench.FormatTimestamp(e.Timestamp),
				summaryTime(e),
				summaryIssues(e),
				summaryScore(e),
				e.Filename,
			)
		}
		return w.Flush()
	},
}

var experimentsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compare models across saved experiments",
	Long:  `Aggregates the experiment history per model: run count, inference time, validation issues and quality score.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		s := newSession()
		if err := s.RefreshExperiments(cmd.Context()); err != nil {
			return sessionError(s, err)
		}
		stats := metrics.Summarize(s.Snapshot().Experiments)
		out := cmd.OutOrStdout()
		if format != formatText {
			return writeStructured(out, format, stats)
		}
		if len(stats) == 0 {
			fmt.Fprintln(out, "No experiments yet.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "MODEL\tRUNS\tMEAN TIME\tMEAN ISSUES\tCLEAN\tMEAN SCORE")
		for _, m := range stats {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
				m.Model,
				m.Experiments,
				statOrDash(m.InferenceSeconds, workbench.FormatInferenceTime),
				statOrDash(m.ValidationIssues, func(v float64) string { return fmt.Sprintf("%.1f", v) }),
				cleanRate(m),
				statOrDash(m.QualityScore, func(v float64) string { return fmt.Sprintf("%.1f", v) }),
			)
		}
		return w.Flush()
	},
}

var experimentsShowCmd = &cobra.Command{
	Use:   "show FILE",
	Short: "Show one experiment in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		s := newSession()
		rec, err := s.ViewExperiment(cmd.Context(), trimmedArg(args, 0))
		if err != nil {
			return sessionError(s, err)
		}
		out := cmd.OutOrStdout()
		switch {
		case experimentsShowDump:
			pp.Fprintln(out, rec)
			return nil
		case format != formatText:
			return writeStructured(out, format, rec)
		}
		printSections(out, workbench.DetailSections(rec))
		return nil
	},
}

var experimentsRenameCmd = &cobra.Command{
	Use:   "rename FILE NAME",
	Short: "Change the display name of an experiment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		if err := s.RenameExperiment(cmd.Context(), trimmedArg(args, 0), args[1]); err != nil {
			return sessionError(s, err)
		}
		printAlert(cmd.ErrOrStderr(), s)
		return nil
	},
}

var experimentsDownloadCmd = &cobra.Command{
	Use:   "download FILE",
	Short: "Download the stored experiment file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		path, err := s.DownloadExperiment(cmd.Context(), trimmedArg(args, 0), downloadDir(experimentsDir))
		if err != nil {
			return sessionError(s, err)
		}
		printAlert(cmd.ErrOrStderr(), s)
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var experimentsImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Validate a local experiment file and save it to the backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read experiment file: %w", err)
		}
		s := newSession()
		name, err := s.ImportRecord(cmd.Context(), data)
		if err != nil {
			return sessionError(s, err)
		}
		printAlert(cmd.ErrOrStderr(), s)
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(experimentsCmd)
	experimentsCmd.AddCommand(experimentsListCmd, experimentsStatsCmd, experimentsShowCmd, experimentsRenameCmd, experimentsDownloadCmd, experimentsImportCmd)

	experimentsListCmd.Flags().StringP("output", "o", formatText, "output format: text, json or yaml")
	experimentsStatsCmd.Flags().StringP("output", "o", formatText, "output format: text, json or yaml")
	experimentsShowCmd.Flags().StringP("output", "o", formatText, "output format: text, json or yaml")
	experimentsShowCmd.Flags().BoolVar(&experimentsShowDump, "dump", false, "pretty-print the raw record")
	experimentsDownloadCmd.Flags().StringVar(&experimentsDir, "dir", "", "directory to write into (defaults to downloadDir from config)")
}

// downloadDir is the --dir value when given, otherwise the configured download directory.
func downloadDir(flagDir string) string {
	if flagDir != "" {
		return flagDir
	}
	if cfg := GetConfig(); cfg != nil {
		return cfg.DownloadDirectory()
	}
	return "."
}

func summaryTime(e api.ExperimentSummary) string {
	if e.InferenceTime == nil {
		return "-"
	}
	return workbench.FormatInferenceTime(*e.InferenceTime)
}

func summaryIssues(e api.ExperimentSummary) string {
	if e.ValidationIssues == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *e.ValidationIssues)
}

func summaryScore(e api.ExperimentSummary) string {
	if e.QualityScore == nil || *e.QualityScore == "" {
		return "-"
	}
	return string(*e.QualityScore)
}

func statOrDash(rs metrics.RunningStat, format func(float64) string) string {
	if rs.Count == 0 {
		return "-"
	}
	return format(rs.Mean)
}

func cleanRate(m metrics.ModelStats) string {
	if m.ValidationIssues.Count == 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d", m.CleanAnnotations, m.ValidationIssues.Count)
}
