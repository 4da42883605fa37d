package workbench

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwiater/hedlab/internal/api"
)

// ViewExperiment loads a persisted experiment and makes it current.
func (s *Session) ViewExperiment(ctx context.Context, filename string) (api.Record, error) {
	rec, err := s.backend.Experiment(ctx, filename)
	if err != nil {
		return api.Record{}, s.fail(err, "Error loading experiment details.")
	}
	s.update(func(st *State) {
		st.Current = &rec
		st.View = ViewDetail
	})
	return rec, nil
}

// LoadCurrentToForm copies the current experiment's model, description and prompt
// template into the form as a fresh draft.
func (s *Session) LoadCurrentToForm() error {
	var err error
	s.update(func(st *State) {
		if st.Current == nil {
			err = ErrNoExperiment
			return
		}
		st.Form = Form{
			Model:          st.Current.Model,
			Description:    st.Current.Description,
			PromptTemplate: st.Current.PromptTemplate,
		}
		st.LastRun = nil
		st.View = ViewForm
	})
	if err != nil {
		return s.fail(err, "")
	}
	s.succeed("Experiment loaded to form!")
	return nil
}

// RenameExperiment sets the display name of a persisted experiment. Only the name of
// the matching list row and of the current record change locally.
func (s *Session) RenameExperiment(ctx context.Context, filename, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.fail(&ValidationError{Fields: []string{"name"}, Message: "Experiment name cannot be empty."}, "")
	}
	if err := s.backend.UpdateExperimentName(ctx, filename, name); err != nil {
		return s.fail(err, "Error updating experiment name.")
	}
	s.update(func(st *State) {
		for i := range st.Experiments {
			if st.Experiments[i].Filename == filename {
				st.Experiments[i].ExperimentName = name
			}
		}
		if st.Current != nil && st.Current.Filename == filename {
			rec := *st.Current
			rec.ExperimentName = name
			st.Current = &rec
		}
	})
	s.succeed("Experiment name updated successfully!")
	return nil
}

// DownloadExperiment saves a persisted experiment into dir and returns the file path.
func (s *Session) DownloadExperiment(ctx context.Context, filename, dir string) (string, error) {
	path, err := downloadTo(dir, filename, func(w io.Writer) (string, error) {
		return s.backend.DownloadExperiment(ctx, filename, w)
	})
	if err != nil {
		return "", s.fail(err, "Error downloading experiment.")
	}
	s.succeed("Downloaded " + path)
	return path, nil
}

// SaveCurrent stores the current experiment through the legacy save endpoint.
func (s *Session) SaveCurrent(ctx context.Context) (string, error) {
	st := s.Snapshot()
	if st.Current == nil {
		return "", s.fail(ErrNoExperiment, "")
	}
	name, err := s.backend.SaveExperiment(ctx, *st.Current)
	if err != nil {
		return "", s.fail(err, "Error saving experiment.")
	}
	s.update(func(st *State) {
		if st.Current != nil && st.Current.Filename == "" {
			rec := *st.Current
			rec.Filename = name
			st.Current = &rec
		}
	})
	s.succeed(fmt.Sprintf("Experiment saved as %s", name))
	if err := s.RefreshExperiments(ctx); err != nil {
		logLoadFailure("experiments after save", err)
	}
	return name, nil
}

// downloadTo streams fetch into a temporary file in dir and renames it to the name
// the backend reports, or fallback when it reports none.
func downloadTo(dir, fallback string, fetch func(io.Writer) (string, error)) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".hedlab-download-*")
	if err != nil {
		return "", fmt.Errorf("create download file: %w", err)
	}
	defer os.Remove(tmp.Name())

	name, err := fetch(tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}
	if name == "" {
		name = filepath.Base(fallback)
	}
	dest := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("store download: %w", err)
	}
	return dest, nil
}

// Section is one labelled block of an experiment detail view.
type Section struct {
	Title string
	Body  string
	// Block marks long text that should keep its line breaks.
	Block bool
}

// DetailSections lays out a record for display. Optional fields appear only when the
// backend sent them.
func DetailSections(rec api.Record) []Section {
	sections := []Section{
		{Title: "Model", Body: rec.Model},
		{Title: "Timestamp", Body: FormatTimestamp(rec.Timestamp)},
	}
	if rec.ExperimentName != "" {
		sections = append(sections, Section{Title: "Name", Body: rec.ExperimentName})
	}
	if rec.ExperimentID != "" {
		sections = append(sections, Section{Title: "Experiment ID", Body: string(rec.ExperimentID)})
	}
	sections = append(sections, Section{Title: "Description", Body: rec.Description})
	if rec.Annotation != nil {
		sections = append(sections, Section{Title: "Annotation", Body: *rec.Annotation, Block: true})
	}
	if rec.InferenceTime != nil {
		sections = append(sections, Section{Title: "Inference Time", Body: FormatInferenceTime(*rec.InferenceTime)})
	}
	if rec.ValidationIssues != nil {
		sections = append(sections, Section{Title: "Validation Issues", Body: fmt.Sprintf("%d", *rec.ValidationIssues)})
	}
	if g := rec.QualityGrade; g != nil {
		body := string(g.Score)
		if g.GraderModel != "" {
			body += " (graded by " + g.GraderModel + ")"
		}
		sections = append(sections, Section{Title: "Quality Grade", Body: body})
		if g.FullResponse != "" {
			sections = append(sections, Section{Title: "Grader Response", Body: g.FullResponse, Block: true})
		}
	}
	sections = append(sections,
		Section{Title: "Model Response", Body: rec.ModelResponse, Block: true},
		Section{Title: "Prompt Template", Body: rec.PromptTemplate, Block: true},
	)
	if rec.FullPrompt != "" {
		sections = append(sections, Section{Title: "Full Prompt", Body: rec.FullPrompt, Block: true})
	}
	return sections
}
