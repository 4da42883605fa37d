package api

import (
	"context"
	"net/http"
)

// CheckAPIKey reports whether the backend has a cloud-provider key configured.
func (c *Client) CheckAPIKey(ctx context.Context) (APIKeyStatus, error) {
	var status APIKeyStatus
	if err := c.call(ctx, http.MethodGet, pathCheckAPIKey, nil, &status); err != nil {
		return APIKeyStatus{}, err
	}
	return status, nil
}

// EnvVars lists credential variables and which of them are configured.
func (c *Client) EnvVars(ctx context.Context) (EnvVars, error) {
	var vars EnvVars
	if err := c.call(ctx, http.MethodGet, pathEnvVars, nil, &vars); err != nil {
		return EnvVars{}, err
	}
	if vars.Vars == nil {
		vars.Vars = map[string]EnvVar{}
	}
	return vars, nil
}

// SaveEnvVars adds, updates or removes credential variables. An empty value tells the
// backend to remove that variable.
func (c *Client) SaveEnvVars(ctx context.Context, values map[string]string) (SaveEnvVarsResult, error) {
	var res SaveEnvVarsResult
	if err := c.call(ctx, http.MethodPost, pathSaveEnvVar, saveEnvVarsRequest{EnvVars: values}, &res); err != nil {
		return SaveEnvVarsResult{}, err
	}
	return res, nil
}
