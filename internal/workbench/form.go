package workbench

import (
	"strings"

	"github.com/mwiater/hedlab/internal/api"
)

// Form is the experiment draft the user edits before a run.
type Form struct {
	Model          string
	Description    string
	PromptTemplate string
	ExperimentName string
}

// Validate requires a model, a description and a prompt template.
func (f Form) Validate() error {
	var missing []string
	if strings.TrimSpace(f.Model) == "" {
		missing = append(missing, "model")
	}
	if strings.TrimSpace(f.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(f.PromptTemplate) == "" {
		missing = append(missing, "prompt template")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: "Please fill in all required fields."}
	}
	return nil
}

// RunRequest converts the draft into the run payload.
func (f Form) RunRequest() api.RunRequest {
	return api.RunRequest{
		Model:          strings.TrimSpace(f.Model),
		Description:    f.Description,
		PromptTemplate: f.PromptTemplate,
		ExperimentName: strings.TrimSpace(f.ExperimentName),
	}
}

func defaultForm(model string) Form {
	return Form{Model: model, PromptTemplate: strings.TrimSpace(DefaultPromptTemplate)}
}
