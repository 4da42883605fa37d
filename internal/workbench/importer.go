package workbench

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mwiater/hedlab/internal/api"
	"github.com/xeipuuv/gojsonschema"
)

// recordSchema describes an experiment file accepted for import.
var recordSchema = map[string]any{
	"type":     "object",
	"required": []any{"model", "description", "prompt_template", "model_response"},
	"properties": map[string]any{
		"model":             map[string]any{"type": "string", "minLength": 1},
		"description":       map[string]any{"type": "string", "minLength": 1},
		"prompt_template":   map[string]any{"type": "string", "minLength": 1},
		"model_response":    map[string]any{"type": "string"},
		"experiment_name":   map[string]any{"type": "string"},
		"full_prompt":       map[string]any{"type": "string"},
		"annotation":        map[string]any{"type": []any{"string", "null"}},
		"timestamp":         map[string]any{"type": "string"},
		"experiment_id":     map[string]any{"type": []any{"string", "number", "null"}},
		"inference_time":    map[string]any{"type": []any{"number", "null"}, "minimum": 0},
		"validation_issues": map[string]any{"type": []any{"integer", "array", "null"}},
		"quality_grade": map[string]any{
			"type": []any{"object", "null"},
			"properties": map[string]any{
				"score":         map[string]any{"type": []any{"string", "number"}},
				"grader_model":  map[string]any{"type": "string"},
				"full_response": map[string]any{"type": "string"},
			},
		},
	},
}

// DecodeRecord validates an experiment file and decodes it.
func DecodeRecord(data []byte) (api.Record, error) {
	if !json.Valid(data) {
		return api.Record{}, &ValidationError{Message: "Import file is not valid JSON."}
	}
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(recordSchema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return api.Record{}, fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return api.Record{}, &ValidationError{Message: "Invalid experiment file: " + strings.Join(details, "; ")}
	}
	var rec api.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return api.Record{}, fmt.Errorf("decode experiment file: %w", err)
	}
	return rec, nil
}

// ImportRecord validates an experiment file and stores it through the legacy save
// endpoint. The returned name is the file the backend wrote.
func (s *Session) ImportRecord(ctx context.Context, data []byte) (string, error) {
	rec, err := DecodeRecord(data)
	if err != nil {
		return "", s.fail(err, "Error importing experiment.")
	}
	name, err := s.backend.SaveExperiment(ctx, rec)
	if err != nil {
		return "", s.fail(err, "Error saving experiment. Please try again.")
	}
	s.succeed(fmt.Sprintf("Experiment saved as %s", name))
	if err := s.RefreshExperiments(ctx); err != nil {
		logLoadFailure("experiments after import", err)
	}
	return name, nil
}
