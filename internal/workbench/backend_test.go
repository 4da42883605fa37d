package workbench

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mwiater/hedlab/internal/api"
	"github.com/mwiater/hedlab/internal/appconfig"
)

// fakeBackend is an in-memory experiment backend.
type fakeBackend struct {
	mu           sync.Mutex
	hits         map[string]int
	catalog      api.ModelCatalog
	experiments  []api.ExperimentSummary
	records      map[string]api.Record
	descriptions []api.DescriptionEntry
	vocab        string
	hasKey       bool
	env          map[string]api.EnvVar
	available    []string
	lastEnvSave  map[string]string
	lastRename   map[string]any
	runStarted   chan struct{}
	runRelease   chan struct{}
	runError     string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		hits: make(map[string]int),
		catalog: api.ModelCatalog{
			"ollama": {"qwen3:8b", "llama3.2:3b"},
			"gemini": {"gemini-2.5-flash"},
		},
		records:   make(map[string]api.Record),
		vocab:     "<HED/>",
		env:       map[string]api.EnvVar{},
		available: []string{"GEMINI_API_KEY", "OPENAI_API_KEY"},
	}
}

func (f *fakeBackend) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.hits {
		n += v
	}
	return n
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	key := path
	for _, prefix := range []string{"/api/experiment/", "/api/download_experiment/"} {
		if strings.HasPrefix(path, prefix) {
			key = prefix
		}
	}
	key = r.Method + " " + key
	f.mu.Lock()
	f.hits[key]++
	f.mu.Unlock()

	switch {
	case path == "/api/models":
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, f.catalog)
	case path == "/api/experiments":
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, f.experiments)
	case path == "/api/descriptions":
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, f.descriptions)
	case strings.HasPrefix(path, "/api/experiment/"):
		name := strings.TrimPrefix(path, "/api/experiment/")
		f.mu.Lock()
		rec, ok := f.records[name]
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]string{"error": "Experiment not found"})
			return
		}
		writeJSON(w, rec)
	case strings.HasPrefix(path, "/api/download_experiment/"):
		name := strings.TrimPrefix(path, "/api/download_experiment/")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"m"}`))
	case path == "/api/run_experiment":
		f.serveRun(w, r)
	case path == "/api/save_experiment":
		var rec api.Record
		_ = json.NewDecoder(r.Body).Decode(&rec)
		f.mu.Lock()
		name := fmt.Sprintf("experiment_%d.json", len(f.experiments)+1)
		f.experiments = append(f.experiments, api.ExperimentSummary{Filename: name, Model: rec.Model})
		f.mu.Unlock()
		writeJSON(w, map[string]string{"filename": name})
	case path == "/api/update_experiment_name":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.lastRename = body
		f.mu.Unlock()
		writeJSON(w, map[string]bool{"success": true})
	case path == "/api/hed_vocab":
		f.mu.Lock()
		defer f.mu.Unlock()
		if r.Method == http.MethodPost {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.vocab = body["vocab"]
			writeJSON(w, map[string]bool{"success": true})
			return
		}
		writeJSON(w, map[string]string{"vocab": f.vocab})
	case path == "/api/download_hed_vocab":
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte("<HED/>"))
	case path == "/api/check_api_key":
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, api.APIKeyStatus{HasAPIKey: f.hasKey})
	case path == "/api/get_env_vars":
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, api.EnvVars{Vars: f.env, Available: f.available})
	case path == "/api/save_env_var":
		var body struct {
			EnvVars map[string]string `json:"env_vars"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.lastEnvSave = body.EnvVars
		for k, v := range body.EnvVars {
			if v == "" {
				delete(f.env, k)
				continue
			}
			f.env[k] = api.EnvVar{Configured: true, Value: "***"}
		}
		f.mu.Unlock()
		writeJSON(w, api.SaveEnvVarsResult{Message: "Environment variables saved", UpdatedVars: []string{"x"}})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeBackend) serveRun(w http.ResponseWriter, r *http.Request) {
	var req api.RunRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if f.runStarted != nil {
		f.runStarted <- struct{}{}
		<-f.runRelease
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.runError != "" {
		writeJSON(w, map[string]string{"error": f.runError})
		return
	}
	name := fmt.Sprintf("experiment_%d.json", len(f.experiments)+1)
	f.experiments = append(f.experiments, api.ExperimentSummary{Filename: name, Model: req.Model, ExperimentName: req.ExperimentName})
	f.descriptions = append(f.descriptions, api.DescriptionEntry{Description: req.Description, Count: 1})
	annotation := "(Red, Car)"
	seconds := 1.5
	writeJSON(w, api.RunResult{
		Response:      "--- ANNOTATION START ---\n(Red, Car)\n--- ANNOTATION END ---",
		Prompt:        "expanded",
		Annotation:    &annotation,
		ExperimentID:  api.FlexString(fmt.Sprint(len(f.experiments))),
		InferenceTime: &seconds,
		AutoSaved:     true,
		Filename:      name,
	})
}

// newTestSession starts a fake backend and returns a session bound to it.
func newTestSession(t *testing.T, f *fakeBackend) *Session {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	cfg := &appconfig.Config{BaseURL: srv.URL, TimeoutSeconds: 5}
	opts := OptionsFromConfig(cfg)
	opts.Now = func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.Local) }
	opts.AlertTTL = time.Hour
	return New(api.New(cfg), opts)
}
