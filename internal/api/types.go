package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Backend paths. Kept verbatim so any backend revision serving the web UI also
// serves hedlab.
const (
	pathModels             = "/api/models"
	pathExperiments        = "/api/experiments"
	pathExperiment         = "/api/experiment/"
	pathDownloadExperiment = "/api/download_experiment/"
	pathRunExperiment      = "/api/run_experiment"
	pathSaveExperiment     = "/api/save_experiment"
	pathUpdateName         = "/api/update_experiment_name"
	pathDescriptions       = "/api/descriptions"
	pathVocab              = "/api/hed_vocab"
	pathDownloadVocab      = "/api/download_hed_vocab"
	pathCheckAPIKey        = "/api/check_api_key"
	pathEnvVars            = "/api/get_env_vars"
	pathSaveEnvVar         = "/api/save_env_var"
)

// FlexString holds a JSON scalar that backends have sent both as a number and as a
// string (experiment ids, quality scores). The textual form is kept.
type FlexString string

// UnmarshalJSON accepts strings, numbers and null.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		*f = ""
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case raw[0] == '{' || raw[0] == '[':
		return fmt.Errorf("api: expected scalar, got %s", string(raw))
	default:
		*f = FlexString(raw)
	}
	return nil
}

// MarshalJSON writes numeric values back as numbers.
func (f FlexString) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(f), 64); err == nil {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

// IssueCount is the number of validation issues found in an annotation. Older backends
// send the issue list itself; it is counted on decode.
type IssueCount int

// UnmarshalJSON accepts a number, a list of issues, or null.
func (c *IssueCount) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*c = 0
		return nil
	}
	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		*c = IssueCount(len(items))
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("api: validation_issues: %w", err)
	}
	*c = IssueCount(int(n))
	return nil
}

// QualityGrade is the grader model's verdict on an annotation.
type QualityGrade struct {
	Score        FlexString `json:"score"`
	GraderModel  string     `json:"grader_model,omitempty"`
	FullResponse string     `json:"full_response,omitempty"`
}

// ModelCatalog maps a provider group (e.g. "ollama", "gemini") to its model identifiers.
type ModelCatalog map[string][]string

// ExperimentSummary is one row of GET /api/experiments.
type ExperimentSummary struct {
	Filename         string      `json:"filename"`
	Model            string      `json:"model"`
	ExperimentID     FlexString  `json:"experiment_id,omitempty"`
	ExperimentName   string      `json:"experiment_name,omitempty"`
	Description      string      `json:"description,omitempty"`
	Timestamp        string      `json:"timestamp"`
	InferenceTime    *float64    `json:"inference_time,omitempty"`
	ValidationIssues *IssueCount `json:"validation_issues,omitempty"`
	QualityScore     *FlexString `json:"quality_score,omitempty"`
}

// DisplayName is the experiment name when set, otherwise the filename.
func (s ExperimentSummary) DisplayName() string {
	if n := strings.TrimSpace(s.ExperimentName); n != "" {
		return n
	}
	return s.Filename
}

// Record is a full persisted experiment as returned by GET /api/experiment/{filename}
// and accepted by the legacy save endpoint.
type Record struct {
	ExperimentID     FlexString    `json:"experiment_id,omitempty"`
	ExperimentName   string        `json:"experiment_name,omitempty"`
	Model            string        `json:"model"`
	Description      string        `json:"description"`
	PromptTemplate   string        `json:"prompt_template"`
	ModelResponse    string        `json:"model_response"`
	FullPrompt       string        `json:"full_prompt,omitempty"`
	Annotation       *string       `json:"annotation,omitempty"`
	InferenceTime    *float64      `json:"inference_time,omitempty"`
	ValidationIssues *IssueCount   `json:"validation_issues,omitempty"`
	QualityGrade     *QualityGrade `json:"quality_grade,omitempty"`
	Timestamp        string        `json:"timestamp,omitempty"`
	Filename         string        `json:"filename,omitempty"`
}

// RunRequest is the body of POST /api/run_experiment.
type RunRequest struct {
	Model          string `json:"model"`
	Description    string `json:"description"`
	PromptTemplate string `json:"prompt_template"`
	ExperimentName string `json:"experiment_name"`
}

// RunResult is the success payload of POST /api/run_experiment.
type RunResult struct {
	Response         string        `json:"response"`
	Prompt           string        `json:"prompt"`
	Annotation       *string       `json:"annotation,omitempty"`
	ExperimentID     FlexString    `json:"experiment_id,omitempty"`
	InferenceTime    *float64      `json:"inference_time,omitempty"`
	ValidationIssues *IssueCount   `json:"validation_issues,omitempty"`
	QualityGrade     *QualityGrade `json:"quality_grade,omitempty"`
	AutoSaved        bool          `json:"auto_saved,omitempty"`
	Filename         string        `json:"filename,omitempty"`
}

// DescriptionEntry is a previously used description and how often it was used.
type DescriptionEntry struct {
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// APIKeyStatus is the payload of GET /api/check_api_key.
type APIKeyStatus struct {
	HasAPIKey  bool   `json:"has_api_key"`
	KeyPreview string `json:"key_preview,omitempty"`
}

// EnvVar describes one credential variable as the backend reports it. Value is a
// masked preview, never the secret.
type EnvVar struct {
	Configured bool   `json:"configured"`
	Value      string `json:"value"`
}

// EnvVars is the payload of GET /api/get_env_vars.
type EnvVars struct {
	Vars      map[string]EnvVar `json:"env_vars"`
	Available []string          `json:"available_vars"`
}

// SaveEnvVarsResult is the success payload of POST /api/save_env_var.
type SaveEnvVarsResult struct {
	Message     string   `json:"message"`
	UpdatedVars []string `json:"updated_vars"`
}

type saveEnvVarsRequest struct {
	EnvVars map[string]string `json:"env_vars"`
}

type updateNameRequest struct {
	Filename       string `json:"filename"`
	ExperimentName string `json:"experiment_name"`
}

type vocabPayload struct {
	Vocab string `json:"vocab"`
}

type saveExperimentResult struct {
	Filename string `json:"filename"`
}
