package workbench

import (
	"errors"
	"strings"

	"github.com/mwiater/hedlab/internal/api"
)

var (
	// ErrRunInFlight is returned when a run is submitted while another is still pending.
	ErrRunInFlight = errors.New("an experiment is already running; wait for it to finish")
	// ErrCredentialRequired is returned when a cloud model is selected but the backend
	// has no key for its provider.
	ErrCredentialRequired = errors.New("API key required")
	// ErrConfirmationRequired is returned when an action would discard unsaved edits.
	ErrConfirmationRequired = errors.New("unsaved vocabulary changes would be lost")
	// ErrNoExperiment is returned by actions that need a current experiment.
	ErrNoExperiment = errors.New("no experiment data available")
)

// ValidationError reports input rejected before any backend call.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + " (missing: " + strings.Join(e.Fields, ", ") + ")"
}

// Classify maps an error to the alert level and message shown to the user. generic is
// used for transport failures whose details only belong in the log.
func Classify(err error, generic string) (Level, string) {
	var vErr *ValidationError
	var apiErr *api.Error
	switch {
	case err == nil:
		return LevelInfo, ""
	case errors.As(err, &vErr):
		return LevelWarning, vErr.Message
	case errors.Is(err, ErrRunInFlight), errors.Is(err, ErrConfirmationRequired), errors.Is(err, ErrNoExperiment):
		return LevelWarning, sentence(err.Error())
	case errors.Is(err, ErrCredentialRequired):
		return LevelWarning, sentence(err.Error()) + " Configure it to use this model."
	case errors.As(err, &apiErr):
		return LevelDanger, apiErr.Message
	}
	if generic == "" {
		generic = "Request failed. Please try again."
	}
	if api.IsTimeout(err) {
		return LevelDanger, generic + " (request timed out)"
	}
	return LevelDanger, generic
}

// sentence capitalizes msg and ends it with a period.
func sentence(msg string) string {
	if msg == "" {
		return msg
	}
	msg = strings.ToUpper(msg[:1]) + msg[1:]
	if !strings.HasSuffix(msg, ".") && !strings.HasSuffix(msg, "!") {
		msg += "."
	}
	return msg
}
