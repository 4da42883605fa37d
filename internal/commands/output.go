// internal/commands/output.go
package hedlab

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mwiater/hedlab/internal/util"
	"github.com/mwiater/hedlab/internal/workbench"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by -o.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var levelColors = map[workbench.Level]*color.Color{
	workbench.LevelInfo:    color.New(color.FgCyan),
	workbench.LevelSuccess: color.New(color.FgGreen),
	workbench.LevelWarning: color.New(color.FgYellow),
	workbench.LevelDanger:  color.New(color.FgRed, color.Bold),
}

var headingColor = color.New(color.FgHiWhite, color.Bold)

// alertError is a failed command. Its message is what the user sees.
type alertError struct {
	level   workbench.Level
	message string
	err     error
}

func (e *alertError) Error() string { return e.message }

func (e *alertError) Unwrap() error { return e.err }

// sessionError turns a failed session action into the error returned from RunE,
// preferring the alert the session raised for it.
func sessionError(s *workbench.Session, err error) error {
	level, msg := workbench.Classify(err, "")
	if alert, ok := s.Alerts().Current(); ok && alert.Level >= workbench.LevelWarning {
		level, msg = alert.Level, alert.Message
	}
	return &alertError{level: level, message: msg, err: err}
}

// printLevel writes one coloured alert line.
func printLevel(w io.Writer, level workbench.Level, msg string) {
	c, ok := levelColors[level]
	if !ok {
		c = levelColors[workbench.LevelInfo]
	}
	c.Fprintf(w, "[%s] %s\n", strings.ToUpper(level.String()), msg)
}

// printAlert writes the session's current alert, if any.
func printAlert(w io.Writer, s *workbench.Session) {
	if alert, ok := s.Alerts().Current(); ok {
		printLevel(w, alert.Level, alert.Message)
	}
}

// printError reports a failed command.
func printError(w io.Writer, err error) {
	var aErr *alertError
	if errors.As(err, &aErr) {
		printLevel(w, aErr.level, aErr.message)
		return
	}
	printLevel(w, workbench.LevelDanger, "Error: "+err.Error())
}

// outputFormat resolves -o for commands that have it, falling back to --jsonMode.
func outputFormat(cmd *cobra.Command) (string, error) {
	format := formatText
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		format = strings.ToLower(strings.TrimSpace(f.Value.String()))
	} else if JSONModeEnabled() {
		format = formatJSON
	}
	switch format {
	case formatText, formatJSON, formatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// writeStructured encodes v as JSON or YAML. YAML goes through JSON first so field
// names match the backend's keys.
func writeStructured(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if format == formatJSON {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}

// printSections writes experiment detail sections. Block sections are indented under
// their heading.
func printSections(w io.Writer, sections []workbench.Section) {
	for _, s := range sections {
		if !s.Block {
			fmt.Fprintf(w, "%-17s %s\n", s.Title+":", s.Body)
			continue
		}
		fmt.Fprintln(w)
		headingColor.Fprintln(w, s.Title)
		fmt.Fprintln(w, util.Indent(strings.TrimRight(s.Body, "\n"), "  "))
	}
}
