package workbench

import (
	"context"
	"sort"
	"strings"
)

// Credential is a configured backend credential. Preview is the masked value the
// backend reports.
type Credential struct {
	Name       string
	Configured bool
	Preview    string
}

// OpenCredentials loads the credential listing and shows the credential panel.
func (s *Session) OpenCredentials(ctx context.Context) error {
	if err := s.loadCredentials(ctx); err != nil {
		return s.fail(err, "Error loading environment variables.")
	}
	s.SetView(ViewCredentials)
	return nil
}

func (s *Session) loadCredentials(ctx context.Context) error {
	vars, err := s.backend.EnvVars(ctx)
	if err != nil {
		return err
	}
	var creds []Credential
	listed := make(map[string]bool)
	for _, name := range vars.Available {
		listed[name] = true
		if v, ok := vars.Vars[name]; ok && v.Configured {
			creds = append(creds, Credential{Name: name, Configured: true, Preview: v.Value})
		}
	}
	var extra []string
	for name, v := range vars.Vars {
		if !listed[name] && v.Configured {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		creds = append(creds, Credential{Name: name, Configured: true, Preview: vars.Vars[name].Value})
	}
	available := append([]string(nil), vars.Available...)
	s.update(func(st *State) {
		st.Credentials = creds
		st.AvailableCredentials = available
	})
	return nil
}

// Unconfigured lists the credential names the backend accepts that have no value yet,
// in backend order.
func (s *Session) Unconfigured() []string {
	st := s.Snapshot()
	configured := make(map[string]bool, len(st.Credentials))
	for _, c := range st.Credentials {
		configured[c.Name] = true
	}
	var out []string
	for _, name := range st.AvailableCredentials {
		if !configured[name] {
			out = append(out, name)
		}
	}
	return out
}

// SetCredential adds or updates one credential.
func (s *Session) SetCredential(ctx context.Context, name, value string) error {
	name = strings.TrimSpace(name)
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(value) == "" {
		missing = append(missing, "value")
	}
	if len(missing) > 0 {
		return s.fail(&ValidationError{Fields: missing, Message: "Please provide both a variable and a value."}, "")
	}
	return s.saveCredential(ctx, name, value, name+" saved.")
}

// RemoveCredential clears one credential on the backend.
func (s *Session) RemoveCredential(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.fail(&ValidationError{Fields: []string{"name"}, Message: "Please choose a variable to remove."}, "")
	}
	return s.saveCredential(ctx, name, "", name+" removed.")
}

// saveCredential writes one value, then reloads the credential listing and the model
// catalog since available models depend on configured keys.
func (s *Session) saveCredential(ctx context.Context, name, value, done string) error {
	res, err := s.backend.SaveEnvVars(ctx, map[string]string{name: value})
	if err != nil {
		return s.fail(err, "Error saving environment variable.")
	}
	if res.Message != "" {
		done = res.Message
	}
	s.succeed(done)
	if err := s.loadCredentials(ctx); err != nil {
		logLoadFailure("credentials", err)
	}
	if err := s.RefreshModels(ctx); err != nil {
		logLoadFailure("models", err)
	}
	return nil
}
