package workbench

import (
	"context"
	"fmt"

	"github.com/mwiater/hedlab/internal/api"
)

// Running reports whether a run is in flight.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Running
}

// Run submits the current form. Only one run may be in flight; cloud models require
// their provider's credential before the run endpoint is called.
func (s *Session) Run(ctx context.Context) (RunOutcome, error) {
	st := s.Snapshot()
	form := st.Form
	if err := form.Validate(); err != nil {
		return RunOutcome{}, s.fail(err, "")
	}
	if !s.run.TryAcquire(1) {
		return RunOutcome{}, s.fail(ErrRunInFlight, "")
	}
	defer s.run.Release(1)

	s.update(func(st *State) { st.Running = true })
	defer s.update(func(st *State) { st.Running = false })

	if provider, ok := cloudProviderFor(st.Catalog, s.opts.CloudProviders, form.Model); ok {
		status, err := s.backend.CheckAPIKey(ctx)
		if err != nil {
			return RunOutcome{}, s.fail(err, "Error checking API key configuration.")
		}
		if !status.HasAPIKey {
			if err := s.loadCredentials(ctx); err != nil {
				logLoadFailure("credentials", err)
			}
			s.SetView(ViewCredentials)
			return RunOutcome{}, s.fail(fmt.Errorf("%w: %s needs %s", ErrCredentialRequired, form.Model, provider.CredentialVar), "")
		}
	}

	req := form.RunRequest()
	res, err := s.backend.RunExperiment(ctx, req)
	if err != nil {
		return RunOutcome{}, s.fail(err, "Error running experiment. Please try again.")
	}

	outcome := RunOutcome{Request: req, Result: res, CompletedAt: s.opts.Now()}
	if res.InferenceTime != nil {
		outcome.InferenceTime = FormatInferenceTime(*res.InferenceTime)
	}
	rec := recordFromRun(req, res, outcome)
	s.update(func(st *State) {
		st.LastRun = &outcome
		st.Current = &rec
		st.View = ViewResults
	})

	msg := "Experiment completed successfully!"
	if res.AutoSaved && res.Filename != "" {
		msg += fmt.Sprintf(" Saved as %s.", res.Filename)
	}
	s.succeed(msg)

	if err := s.RefreshHistory(ctx); err != nil {
		logLoadFailure("history after run", err)
	}
	return outcome, nil
}

func recordFromRun(req api.RunRequest, res api.RunResult, out RunOutcome) api.Record {
	return api.Record{
		ExperimentID:     res.ExperimentID,
		ExperimentName:   req.ExperimentName,
		Model:            req.Model,
		Description:      req.Description,
		PromptTemplate:   req.PromptTemplate,
		ModelResponse:    res.Response,
		FullPrompt:       res.Prompt,
		Annotation:       res.Annotation,
		InferenceTime:    res.InferenceTime,
		ValidationIssues: res.ValidationIssues,
		QualityGrade:     res.QualityGrade,
		Timestamp:        out.CompletedAt.Format("2006-01-02T15:04:05"),
		Filename:         res.Filename,
	}
}
