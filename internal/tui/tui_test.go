// internal/tui/tui_test.go
package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwiater/hedlab/internal/api"
	"github.com/mwiater/hedlab/internal/appconfig"
	"github.com/mwiater/hedlab/internal/workbench"
)

// testBackend serves the endpoints the TUI reaches.
type testBackend struct {
	mu          sync.Mutex
	experiments []api.ExperimentSummary
	hasKey      bool
	renamed     string
}

func (b *testBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	switch {
	case r.URL.Path == "/api/models":
		_ = enc.Encode(api.ModelCatalog{"ollama": {"qwen3:8b"}, "gemini": {"gemini-2.5-flash"}})
	case r.URL.Path == "/api/experiments":
		_ = enc.Encode(b.experiments)
	case r.URL.Path == "/api/descriptions":
		_ = enc.Encode([]api.DescriptionEntry{{Description: "a red car", Count: 2}})
	case strings.HasPrefix(r.URL.Path, "/api/experiment/"):
		_ = enc.Encode(api.Record{
			Filename:      strings.TrimPrefix(r.URL.Path, "/api/experiment/"),
			Model:         "qwen3:8b",
			Description:   "a red car",
			ModelResponse: "plain response",
		})
	case r.URL.Path == "/api/update_experiment_name":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.renamed = body["experiment_name"]
		_ = enc.Encode(map[string]bool{"success": true})
	case r.URL.Path == "/api/run_experiment":
		annotation := "(Red, Car)"
		seconds := 0.25
		b.experiments = append(b.experiments, api.ExperimentSummary{Filename: "experiment_1.json", Model: "qwen3:8b"})
		_ = enc.Encode(api.RunResult{Response: "done", Annotation: &annotation, InferenceTime: &seconds, AutoSaved: true, Filename: "experiment_1.json"})
	case r.URL.Path == "/api/check_api_key":
		_ = enc.Encode(api.APIKeyStatus{HasAPIKey: b.hasKey})
	case r.URL.Path == "/api/get_env_vars":
		_ = enc.Encode(api.EnvVars{Vars: map[string]api.EnvVar{}, Available: []string{"GEMINI_API_KEY"}})
	case r.URL.Path == "/api/hed_vocab":
		_ = enc.Encode(map[string]string{"vocab": "<HED/>"})
	default:
		http.NotFound(w, r)
	}
}

func newTestModel(t *testing.T, backend *testBackend) *model {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	cfg := &appconfig.Config{BaseURL: srv.URL, MarkdownStyle: "none"}
	session := workbench.New(api.New(cfg), workbench.OptionsFromConfig(cfg))
	m := initialModel(context.Background(), cfg, session)
	m.copyText = func(string) error { return nil }
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	m.Update(loadCmd(m.ctx, m.session)())
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "f2":
		return tea.KeyMsg{Type: tea.KeyF2}
	case "f4":
		return tea.KeyMsg{Type: tea.KeyF4}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitialLoadFillsForm(t *testing.T) {
	m := newTestModel(t, &testBackend{})
	if got := m.modelInput.Value(); got != "qwen3:8b" {
		t.Fatalf("expected default model, got %q", got)
	}
	if !strings.Contains(m.templateInput.Value(), "{{hed_vocab}}") {
		t.Fatal("expected default prompt template")
	}
	out := m.View()
	if !strings.Contains(out, "Ollama Models") || !strings.Contains(out, "Run") {
		t.Fatalf("unexpected view:\n%s", out)
	}
}

func TestRunShowsResults(t *testing.T) {
	backend := &testBackend{}
	m := newTestModel(t, backend)
	m.descInput.SetValue("a red car")

	m.Update(keyPress("ctrl+s"))
	if got := m.session.Snapshot().Form.Description; got != "a red car" {
		t.Fatalf("form not pushed to session: %q", got)
	}
	m.Update(runCmd(m.ctx, m.session)())

	out := m.View()
	for _, want := range []string{"(Red, Car)", "250ms", "Saved as experiment_1.json", "completed successfully"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
	if len(m.historyList.Items()) != 1 {
		t.Fatalf("history not refreshed, items=%d", len(m.historyList.Items()))
	}
}

func TestCloudModelWithoutKeySwitchesToCredentials(t *testing.T) {
	m := newTestModel(t, &testBackend{})
	m.modelInput.SetValue("gemini-2.5-flash")
	m.descInput.SetValue("a red car")
	m.Update(keyPress("ctrl+s"))
	m.Update(runCmd(m.ctx, m.session)())

	if m.tab != tabCredentials {
		t.Fatalf("expected credentials tab, got %d", m.tab)
	}
	out := m.View()
	if !strings.Contains(out, "GEMINI_API_KEY") {
		t.Fatalf("expected credential listing in view:\n%s", out)
	}
}

func TestQuitAsksWhenVocabularyDirty(t *testing.T) {
	m := newTestModel(t, &testBackend{})
	_, cmd := m.Update(keyPress("ctrl+c"))
	if cmd == nil {
		t.Fatal("expected quit without edits")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected quit message")
	}

	m.Update(keyPress("f4"))
	m.Update(openVocabCmd(m.ctx, m.session, false)())
	m.Update(keyPress("x"))
	if !m.session.NeedsLeaveConfirmation() {
		t.Fatal("expected edited vocabulary to be dirty")
	}

	_, cmd = m.Update(keyPress("ctrl+c"))
	if cmd != nil || m.confirm == nil {
		t.Fatal("expected confirmation prompt")
	}
	if !strings.Contains(m.View(), "Discard unsaved vocabulary changes") {
		t.Fatal("prompt not rendered")
	}
	m.Update(keyPress("n"))
	if m.confirm != nil {
		t.Fatal("prompt not cancelled")
	}

	m.Update(keyPress("ctrl+c"))
	_, cmd = m.Update(keyPress("y"))
	if cmd == nil {
		t.Fatal("expected quit after confirmation")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected quit message after confirmation")
	}
}

func TestReopenDirtyVocabularyAsksBeforeReload(t *testing.T) {
	m := newTestModel(t, &testBackend{})
	m.Update(keyPress("f4"))
	m.Update(openVocabCmd(m.ctx, m.session, false)())
	m.Update(keyPress("x"))
	m.Update(keyPress("f2"))

	_, cmd := m.Update(keyPress("f4"))
	if cmd != nil || m.confirm == nil {
		t.Fatal("expected reload confirmation when reopening with edits")
	}
	if !strings.Contains(m.View(), "Discard unsaved vocabulary changes and reload") {
		t.Fatal("reload prompt not rendered")
	}

	m.Update(keyPress("n"))
	if got := m.vocabInput.Value(); got != "<HED/>x" {
		t.Fatalf("expected edits kept after declining, got %q", got)
	}

	m.Update(keyPress("f2"))
	m.Update(keyPress("f4"))
	_, cmd = m.Update(keyPress("y"))
	if cmd == nil {
		t.Fatal("expected vocabulary fetch after confirmation")
	}
	m.Update(cmd())
	if got := m.vocabInput.Value(); got != "<HED/>" {
		t.Fatalf("expected fresh vocabulary, got %q", got)
	}
	if m.session.NeedsLeaveConfirmation() {
		t.Fatal("expected clean buffer after reload")
	}
}

func TestReopenCleanVocabularyRefetches(t *testing.T) {
	m := newTestModel(t, &testBackend{})
	m.Update(keyPress("f4"))
	m.Update(openVocabCmd(m.ctx, m.session, false)())
	m.Update(keyPress("f2"))

	_, cmd := m.Update(keyPress("f4"))
	if cmd == nil || m.confirm != nil {
		t.Fatal("expected a direct fetch when the buffer is clean")
	}
	if msg, ok := cmd().(actionMsg); !ok || msg.action != actOpenVocab {
		t.Fatalf("unexpected message %#v", msg)
	}
}

func TestHistoryDetailAndRename(t *testing.T) {
	backend := &testBackend{experiments: []api.ExperimentSummary{{Filename: "experiment_7.json", Model: "qwen3:8b"}}}
	m := newTestModel(t, backend)

	m.Update(keyPress("f2"))
	_, cmd := m.Update(keyPress("enter"))
	if cmd == nil {
		t.Fatal("expected experiment fetch")
	}
	m.Update(cmd())
	if !m.detailOpen {
		t.Fatal("expected detail view")
	}
	if out := m.View(); !strings.Contains(out, "Model Response") || !strings.Contains(out, "plain response") {
		t.Fatalf("unexpected detail view:\n%s", out)
	}

	m.Update(keyPress("r"))
	if !m.renaming {
		t.Fatal("expected rename prompt")
	}
	m.renameInput.SetValue("baseline")
	_, cmd = m.Update(keyPress("enter"))
	m.Update(cmd())

	if m.renaming {
		t.Fatal("rename prompt still open")
	}
	if got := m.state.Experiments[0].ExperimentName; got != "baseline" {
		t.Fatalf("list row not renamed: %q", got)
	}
	backend.mu.Lock()
	renamed := backend.renamed
	backend.mu.Unlock()
	if renamed != "baseline" {
		t.Fatalf("backend saw %q", renamed)
	}

	m.Update(keyPress("esc"))
	m.Update(keyPress("esc"))
	if m.detailOpen {
		t.Fatal("expected esc to close detail")
	}
}

func TestDescriptionSelectionFillsForm(t *testing.T) {
	m := newTestModel(t, &testBackend{})
	m.Update(tea.KeyMsg{Type: tea.KeyF3})
	m.Update(keyPress("enter"))
	if m.tab != tabRun || m.descInput.Value() != "a red car" {
		t.Fatalf("expected description copied to form, tab=%d desc=%q", m.tab, m.descInput.Value())
	}
}

func TestFocusTriggersRefresh(t *testing.T) {
	m := newTestModel(t, &testBackend{})
	_, cmd := m.Update(tea.FocusMsg{})
	if cmd == nil {
		t.Fatal("expected refresh on focus")
	}
	msg, ok := cmd().(actionMsg)
	if !ok || msg.action != actRefresh {
		t.Fatalf("unexpected message %#v", msg)
	}
}

func TestCopyAndDismissAlert(t *testing.T) {
	m := newTestModel(t, &testBackend{})
	var copied string
	m.copyText = func(s string) error {
		copied = s
		return nil
	}
	m.descInput.SetValue("a red car")
	m.Update(keyPress("ctrl+s"))
	m.Update(runCmd(m.ctx, m.session)())

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if copied != "(Red, Car)" {
		t.Fatalf("expected annotation copied, got %q", copied)
	}
	if !strings.Contains(m.View(), "Copied to clipboard") {
		t.Fatal("expected copy notice")
	}
	m.Update(keyPress("esc"))
	if _, ok := m.session.Alerts().Current(); ok {
		t.Fatal("expected alert dismissed")
	}
}
