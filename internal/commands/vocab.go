// internal/commands/vocab.go
package hedlab

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mwiater/hedlab/internal/vocabwatch"
	"github.com/spf13/cobra"
)

var (
	vocabDir   string
	vocabWatch bool
)

// vocabCmd is the parent for HED vocabulary commands.
var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Read, download or replace the HED vocabulary",
}

var vocabShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current vocabulary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		text, err := s.OpenVocab(cmd.Context())
		if err != nil {
			return sessionError(s, err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, text)
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(out)
		}
		return nil
	},
}

var vocabDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the reformatted vocabulary file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		path, err := s.DownloadVocab(cmd.Context(), downloadDir(vocabDir))
		if err != nil {
			return sessionError(s, err)
		}
		printAlert(cmd.ErrOrStderr(), s)
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var vocabPushCmd = &cobra.Command{
	Use:   "push FILE",
	Short: "Replace the vocabulary with a local file",
	Long: `Uploads FILE as the new vocabulary. With --watch the file is uploaded again every time it
is saved, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read vocabulary: %w", err)
		}

		ctx := cmd.Context()
		s := newSession()
		if err := s.PushVocab(ctx, string(content)); err != nil {
			return sessionError(s, err)
		}
		printAlert(cmd.ErrOrStderr(), s)
		if !vocabWatch {
			return nil
		}

		w, err := vocabwatch.New(path, vocabwatch.DefaultDebounce)
		if err != nil {
			return err
		}
		defer w.Close()
		w.Seed(content)

		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)\n", path)
		return w.Run(ctx, func(ctx context.Context, text string) error {
			err := s.PushVocab(ctx, text)
			if err != nil {
				printError(cmd.ErrOrStderr(), sessionError(s, err))
				return err
			}
			printAlert(cmd.ErrOrStderr(), s)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(vocabCmd)
	vocabCmd.AddCommand(vocabShowCmd, vocabDownloadCmd, vocabPushCmd)
	vocabDownloadCmd.Flags().StringVar(&vocabDir, "dir", "", "directory to write into (defaults to downloadDir from config)")
	vocabPushCmd.Flags().BoolVarP(&vocabWatch, "watch", "w", false, "re-upload the file whenever it changes")
}
