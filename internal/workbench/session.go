// internal/workbench/session.go

// Package workbench holds the experiment workbench state independently of any front
// end. A Session owns the backend client, the form draft, the loaded lists, the
// current experiment and the alert slot; the TUI and CLI drive it and render
// snapshots of its State.
package workbench

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/mwiater/hedlab/internal/api"
	"github.com/mwiater/hedlab/internal/appconfig"
	"github.com/mwiater/hedlab/internal/logging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Backend is the subset of the backend API the workbench uses. *api.Client satisfies it.
type Backend interface {
	Models(ctx context.Context) (api.ModelCatalog, error)
	Experiments(ctx context.Context) ([]api.ExperimentSummary, error)
	Experiment(ctx context.Context, filename string) (api.Record, error)
	RunExperiment(ctx context.Context, req api.RunRequest) (api.RunResult, error)
	SaveExperiment(ctx context.Context, rec api.Record) (string, error)
	UpdateExperimentName(ctx context.Context, filename, name string) error
	DownloadExperiment(ctx context.Context, filename string, w io.Writer) (string, error)
	Descriptions(ctx context.Context) ([]api.DescriptionEntry, error)
	Vocab(ctx context.Context) (string, error)
	SaveVocab(ctx context.Context, vocab string) error
	DownloadVocab(ctx context.Context, w io.Writer) (string, error)
	CheckAPIKey(ctx context.Context) (api.APIKeyStatus, error)
	EnvVars(ctx context.Context) (api.EnvVars, error)
	SaveEnvVars(ctx context.Context, values map[string]string) (api.SaveEnvVarsResult, error)
}

var _ Backend = (*api.Client)(nil)

// View is the panel the front end should show.
type View int

const (
	ViewForm View = iota
	ViewResults
	ViewHistory
	ViewDetail
	ViewDescriptions
	ViewVocab
	ViewCredentials
)

func (v View) String() string {
	switch v {
	case ViewResults:
		return "results"
	case ViewHistory:
		return "history"
	case ViewDetail:
		return "detail"
	case ViewDescriptions:
		return "descriptions"
	case ViewVocab:
		return "vocabulary"
	case ViewCredentials:
		return "credentials"
	default:
		return "form"
	}
}

// RunOutcome is the result of the latest successful run.
type RunOutcome struct {
	Request       api.RunRequest
	Result        api.RunResult
	InferenceTime string
	CompletedAt   time.Time
}

// State is a point-in-time copy of everything the front ends render.
type State struct {
	View                 View
	Form                 Form
	Catalog              Catalog
	ModelsErr            string
	Experiments          []api.ExperimentSummary
	ExperimentsErr       string
	Descriptions         []api.DescriptionEntry
	DescriptionsErr      string
	Current              *api.Record
	LastRun              *RunOutcome
	Vocab                VocabBuffer
	Credentials          []Credential
	AvailableCredentials []string
	Running              bool
}

// Options tune a Session.
type Options struct {
	DefaultModel   string
	AlertTTL       time.Duration
	CloudProviders []appconfig.CloudProvider
	Now            func() time.Time
}

// OptionsFromConfig derives session options from the application config.
func OptionsFromConfig(cfg *appconfig.Config) Options {
	if cfg == nil {
		cfg = &appconfig.Config{}
	}
	return Options{
		DefaultModel:   cfg.PreferredModel(),
		AlertTTL:       cfg.AlertTTL(),
		CloudProviders: cfg.Providers(),
	}
}

// Session is the workbench state store. It is safe for concurrent use.
type Session struct {
	backend Backend
	opts    Options
	alerts  *Alerts
	run     *semaphore.Weighted

	mu    sync.Mutex
	state State
}

// New creates a Session bound to backend. The form starts out reset.
func New(backend Backend, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AlertTTL <= 0 {
		opts.AlertTTL = 5 * time.Second
	}
	if opts.DefaultModel == "" {
		opts.DefaultModel = appconfig.DefaultModel
	}
	if opts.CloudProviders == nil {
		opts.CloudProviders = appconfig.DefaultCloudProviders()
	}
	s := &Session{
		backend: backend,
		opts:    opts,
		alerts:  NewAlerts(opts.AlertTTL, opts.Now),
		run:     semaphore.NewWeighted(1),
	}
	s.state.Form = defaultForm(opts.DefaultModel)
	return s
}

// Alerts exposes the alert slot.
func (s *Session) Alerts() *Alerts { return s.alerts }

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Catalog = s.state.Catalog.clone()
	st.Experiments = append([]api.ExperimentSummary(nil), s.state.Experiments...)
	st.Descriptions = append([]api.DescriptionEntry(nil), s.state.Descriptions...)
	st.Credentials = append([]Credential(nil), s.state.Credentials...)
	st.AvailableCredentials = append([]string(nil), s.state.AvailableCredentials...)
	if s.state.Current != nil {
		rec := *s.state.Current
		st.Current = &rec
	}
	if s.state.LastRun != nil {
		out := *s.state.LastRun
		st.LastRun = &out
	}
	return st
}

func (s *Session) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
}

// fail logs err, raises the matching alert and returns err unchanged.
func (s *Session) fail(err error, generic string) error {
	level, msg := Classify(err, generic)
	logging.LogEvent("workbench: %s: %v", level, err)
	s.alerts.Show(level, msg)
	return err
}

func (s *Session) succeed(msg string) {
	logging.LogEvent("workbench: success: %s", msg)
	s.alerts.Show(LevelSuccess, msg)
}

// SetView switches the active panel.
func (s *Session) SetView(v View) {
	s.update(func(st *State) { st.View = v })
}

// UpdateForm edits the draft in place.
func (s *Session) UpdateForm(fn func(*Form)) {
	s.update(func(st *State) { fn(&st.Form) })
}

// ResetForm restores the default model and prompt template, clears the other fields
// and hides the last result.
func (s *Session) ResetForm() {
	s.update(func(st *State) {
		st.Form = defaultForm(s.opts.DefaultModel)
		st.LastRun = nil
		st.View = ViewForm
	})
}

// Load performs the startup fetches in parallel and resets the form. Each list keeps
// its own error; the first failure is returned.
func (s *Session) Load(ctx context.Context) error {
	s.ResetForm()
	var g errgroup.Group
	g.Go(func() error { return s.RefreshModels(ctx) })
	g.Go(func() error { return s.RefreshExperiments(ctx) })
	g.Go(func() error { return s.RefreshDescriptions(ctx) })
	return g.Wait()
}

// RefreshModels reloads the model catalog.
func (s *Session) RefreshModels(ctx context.Context) error {
	raw, err := s.backend.Models(ctx)
	if err != nil {
		s.update(func(st *State) { st.ModelsErr = "Error loading models" })
		return s.fail(err, "Error loading models. Please check the backend log.")
	}
	cat := NewCatalog(raw, s.opts.CloudProviders)
	s.update(func(st *State) {
		st.Catalog = cat
		st.ModelsErr = ""
	})
	return nil
}

// RefreshExperiments reloads the history list in backend order. Failures are kept on
// the state rather than raised as alerts.
func (s *Session) RefreshExperiments(ctx context.Context) error {
	list, err := s.backend.Experiments(ctx)
	if err != nil {
		logging.LogEvent("workbench: load experiments: %v", err)
		s.update(func(st *State) { st.ExperimentsErr = "Error loading experiments." })
		return err
	}
	s.update(func(st *State) {
		st.Experiments = list
		st.ExperimentsErr = ""
	})
	return nil
}

// RefreshDescriptions reloads the description history.
func (s *Session) RefreshDescriptions(ctx context.Context) error {
	list, err := s.backend.Descriptions(ctx)
	if err != nil {
		logging.LogEvent("workbench: load descriptions: %v", err)
		s.update(func(st *State) { st.DescriptionsErr = "Error loading descriptions." })
		return err
	}
	s.update(func(st *State) {
		st.Descriptions = list
		st.DescriptionsErr = ""
	})
	return nil
}

// RefreshHistory reloads the experiment and description lists in parallel.
func (s *Session) RefreshHistory(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.RefreshExperiments(ctx) })
	g.Go(func() error { return s.RefreshDescriptions(ctx) })
	return g.Wait()
}

// SelectDescription copies a previously used description into the form.
func (s *Session) SelectDescription(index int) error {
	var err error
	s.update(func(st *State) {
		if index < 0 || index >= len(st.Descriptions) {
			err = &ValidationError{Message: "No description selected."}
			return
		}
		st.Form.Description = st.Descriptions[index].Description
		st.View = ViewForm
	})
	if err != nil {
		return s.fail(err, "")
	}
	s.alerts.Show(LevelInfo, "Description copied to the form.")
	return nil
}

func logLoadFailure(what string, err error) {
	logging.LogEvent("workbench: refresh %s: %v", what, err)
}
