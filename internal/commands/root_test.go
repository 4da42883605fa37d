// internal/commands/root_test.go
package hedlab

import (
	"context"
	"strings"
	"testing"

	"github.com/mwiater/hedlab/internal/appconfig"
	"github.com/mwiater/hedlab/internal/workbench"
)

// TestRootCmd verifies running the root command with an invalid subcommand reports an error.
func TestRootCmd(t *testing.T) {
	_, err := executeCommand(t, "{}", "nonexistent")
	if err == nil {
		t.Fatal("Expected an error for a nonexistent command, but got none")
	}

	expected := "unknown command \"nonexistent\" for \"hedlab\""
	if !strings.Contains(err.Error(), expected) {
		t.Errorf("Expected error to contain '%s', but got '%s'", expected, err.Error())
	}
}

func TestRootWithoutSubcommandStartsWorkbench(t *testing.T) {
	orig := startGUI
	t.Cleanup(func() { startGUI = orig })

	var gotCfg *appconfig.Config
	var gotSession *workbench.Session
	startGUI = func(ctx context.Context, cfg *appconfig.Config, s *workbench.Session) error {
		gotCfg, gotSession = cfg, s
		return nil
	}

	if _, err := executeCommand(t, `{"baseURL": "http://backend.test:5000", "defaultModel": "llama3.2:3b"}`); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if gotCfg == nil || gotCfg.Endpoint() != "http://backend.test:5000" {
		t.Fatalf("expected merged config to reach the workbench, got %+v", gotCfg)
	}
	if gotSession == nil {
		t.Fatal("expected a session")
	}
	if model := gotSession.Snapshot().Form.Model; model != "llama3.2:3b" {
		t.Fatalf("expected configured default model in the form, got %q", model)
	}
}

func TestUICommandStartsWorkbench(t *testing.T) {
	orig := startGUI
	t.Cleanup(func() { startGUI = orig })

	called := false
	startGUI = func(ctx context.Context, cfg *appconfig.Config, s *workbench.Session) error {
		called = true
		return nil
	}
	if _, err := executeCommand(t, "{}", "ui"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !called {
		t.Fatal("expected the ui command to start the workbench")
	}
}

func TestListCommandsOutput(t *testing.T) {
	out, err := executeCommand(t, "{}", "list", "commands")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{"Commands and Subcommands:", "hedlab experiments rename", "hedlab vocab push", "hedlab env unset"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %s", want, out)
		}
	}
	if strings.Contains(out, "completion") {
		t.Fatalf("completion commands should be hidden, got %s", out)
	}
}
