// internal/workbench/alerts.go
package workbench

import (
	"sync"
	"time"
)

// Level is the severity of an alert.
type Level int

const (
	// LevelInfo is a neutral notice.
	LevelInfo Level = iota
	// LevelSuccess confirms a completed action.
	LevelSuccess
	// LevelWarning reports input that was rejected before any request was made.
	LevelWarning
	// LevelDanger reports a backend or transport failure.
	LevelDanger
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelDanger:
		return "danger"
	default:
		return "info"
	}
}

// Alert is a dismissible status message that expires on its own.
type Alert struct {
	ID      uint64
	Level   Level
	Message string
	Raised  time.Time
	Expires time.Time
}

// Alerts holds at most one alert. Showing a new alert replaces the previous one.
type Alerts struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	seq     uint64
	current *Alert
}

// NewAlerts creates an alert holder whose alerts live for ttl.
func NewAlerts(ttl time.Duration, now func() time.Time) *Alerts {
	if now == nil {
		now = time.Now
	}
	return &Alerts{ttl: ttl, now: now}
}

// Show replaces the current alert.
func (a *Alerts) Show(level Level, message string) Alert {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	raised := a.now()
	alert := Alert{ID: a.seq, Level: level, Message: message, Raised: raised, Expires: raised.Add(a.ttl)}
	a.current = &alert
	return alert
}

// Current returns the live alert, if any. Expired alerts are cleared.
func (a *Alerts) Current() (Alert, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return Alert{}, false
	}
	if !a.now().Before(a.current.Expires) {
		a.current = nil
		return Alert{}, false
	}
	return *a.current, true
}

// Dismiss clears the current alert.
func (a *Alerts) Dismiss() {
	a.mu.Lock()
	a.current = nil
	a.mu.Unlock()
}

// Expire clears the alert with the given id if it is still the current one. Timers
// started for an older alert must not remove a newer one.
func (a *Alerts) Expire(id uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current != nil && a.current.ID == id {
		a.current = nil
	}
}

// TTL is how long each alert stays visible.
func (a *Alerts) TTL() time.Duration { return a.ttl }
