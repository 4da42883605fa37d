// internal/api/experiments.go
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Experiments lists persisted experiments in the order the backend provides.
func (c *Client) Experiments(ctx context.Context) ([]ExperimentSummary, error) {
	var list []ExperimentSummary
	if err := c.call(ctx, http.MethodGet, pathExperiments, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Experiment fetches the full record stored under filename.
func (c *Client) Experiment(ctx context.Context, filename string) (Record, error) {
	if err := checkFilename(filename); err != nil {
		return Record{}, err
	}
	var rec Record
	if err := c.call(ctx, http.MethodGet, pathExperiment+url.PathEscape(filename), nil, &rec); err != nil {
		return Record{}, err
	}
	if rec.Filename == "" {
		rec.Filename = filename
	}
	return rec, nil
}

// RunExperiment submits a run and blocks until the backend has a model response.
func (c *Client) RunExperiment(ctx context.Context, req RunRequest) (RunResult, error) {
	var res RunResult
	if err := c.call(ctx, http.MethodPost, pathRunExperiment, req, &res); err != nil {
		return RunResult{}, err
	}
	return res, nil
}

// SaveExperiment persists a full record through the legacy save endpoint and returns
// the filename the backend chose.
func (c *Client) SaveExperiment(ctx context.Context, rec Record) (string, error) {
	var res saveExperimentResult
	if err := c.call(ctx, http.MethodPost, pathSaveExperiment, rec, &res); err != nil {
		return "", err
	}
	return res.Filename, nil
}

// UpdateExperimentName renames an experiment. Only the key and the new name are sent.
func (c *Client) UpdateExperimentName(ctx context.Context, filename, name string) error {
	if err := checkFilename(filename); err != nil {
		return err
	}
	return c.call(ctx, http.MethodPost, pathUpdateName, updateNameRequest{Filename: filename, ExperimentName: name}, nil)
}

// DownloadExperiment streams the stored experiment file into w and returns the file
// name suggested by the backend.
func (c *Client) DownloadExperiment(ctx context.Context, filename string, w io.Writer) (string, error) {
	if err := checkFilename(filename); err != nil {
		return "", err
	}
	name, err := c.download(ctx, pathDownloadExperiment+url.PathEscape(filename), w)
	if err != nil {
		return "", err
	}
	if name == "" {
		name = filename
	}
	return name, nil
}

var errEmptyFilename = errors.New("api: experiment filename is required")

func checkFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return errEmptyFilename
	}
	return nil
}
