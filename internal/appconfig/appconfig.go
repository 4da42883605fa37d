// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
	// DefaultBaseURL is where the experiment backend listens unless configured otherwise.
	DefaultBaseURL = "http://localhost:5000"
	// DefaultModel is preselected whenever the experiment form is reset.
	DefaultModel = "qwen3:8b"
	// defaultRequestTimeout is the default timeout for backend requests. Runs against
	// local models can take minutes, so this is generous.
	defaultRequestTimeout = 600 * time.Second
	// defaultAlertTTL is how long an alert stays visible before it expires.
	defaultAlertTTL = 5 * time.Second
	// defaultMarkdownStyle is the glamour style used for model responses.
	defaultMarkdownStyle = "dark"
)

// ErrNoConfig is returned by Load when no configuration file exists.
var ErrNoConfig = errors.New("no configuration file found")

// Config represents the top-level application configuration.
type Config struct {
	BaseURL            string          `json:"baseURL" mapstructure:"baseURL"`
	Debug              bool            `json:"debug" mapstructure:"debug"`
	JSONMode           bool            `json:"jsonMode" mapstructure:"jsonMode"`
	TimeoutSeconds     int             `json:"timeout,omitempty" mapstructure:"timeout"`
	LogFile            string          `json:"logFile,omitempty" mapstructure:"logFile"`
	DefaultModel       string          `json:"defaultModel,omitempty" mapstructure:"defaultModel"`
	AlertSeconds       int             `json:"alertSeconds,omitempty" mapstructure:"alertSeconds"`
	DownloadDir        string          `json:"downloadDir,omitempty" mapstructure:"downloadDir"`
	AutoRefreshSeconds int             `json:"autoRefreshSeconds,omitempty" mapstructure:"autoRefreshSeconds"`
	MarkdownStyle      string          `json:"markdownStyle,omitempty" mapstructure:"markdownStyle"`
	CloudProviders     []CloudProvider `json:"cloudProviders,omitempty" mapstructure:"cloudProviders"`
	ConfigPath         string          `json:"-" mapstructure:"-"`
}

// CloudProvider describes a model family that is served by a hosted API and therefore
// needs a credential variable to be configured on the backend before it can run.
type CloudProvider struct {
	// Group is the key the backend uses for this provider in GET /api/models.
	Group string `json:"group" mapstructure:"group"`
	// Prefix matches model identifiers that belong to the provider.
	Prefix string `json:"prefix" mapstructure:"prefix"`
	// CredentialVar is the environment variable the backend reads the key from.
	CredentialVar string `json:"credentialVar" mapstructure:"credentialVar"`
}

// DefaultCloudProviders returns the providers known to the backend out of the box.
func DefaultCloudProviders() []CloudProvider {
	return []CloudProvider{{Group: "gemini", Prefix: "gemini", CredentialVar: "GEMINI_API_KEY"}}
}

// Endpoint returns the backend base URL without a trailing slash.
func (c Config) Endpoint() string {
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/")
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AlertTTL returns how long alerts stay on screen.
func (c Config) AlertTTL() time.Duration {
	if c.AlertSeconds <= 0 {
		return defaultAlertTTL
	}
	return time.Duration(c.AlertSeconds) * time.Second
}

// AutoRefreshInterval returns the background refresh period, or zero when disabled.
func (c Config) AutoRefreshInterval() time.Duration {
	if c.AutoRefreshSeconds <= 0 {
		return 0
	}
	return time.Duration(c.AutoRefreshSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "hedlab.log"
}

// PreferredModel returns the model the experiment form starts with.
func (c Config) PreferredModel() string {
	if m := strings.TrimSpace(c.DefaultModel); m != "" {
		return m
	}
	return DefaultModel
}

// DownloadDirectory returns where downloaded experiments and vocabularies are written.
func (c Config) DownloadDirectory() string {
	if d := strings.TrimSpace(c.DownloadDir); d != "" {
		return d
	}
	return "."
}

// MarkdownRenderStyle returns the glamour style name, or "none" when rendering is disabled.
func (c Config) MarkdownRenderStyle() string {
	if s := strings.TrimSpace(c.MarkdownStyle); s != "" {
		return s
	}
	return defaultMarkdownStyle
}

// Providers returns the configured cloud providers or the defaults.
func (c Config) Providers() []CloudProvider {
	if len(c.CloudProviders) == 0 {
		return DefaultCloudProviders()
	}
	return c.CloudProviders
}

// Validate reports configuration values that cannot work.
func (c Config) Validate() error {
	u, err := url.Parse(c.Endpoint())
	if err != nil {
		return fmt.Errorf("invalid baseURL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid baseURL %q: scheme must be http or https", c.BaseURL)
	}
	for i, p := range c.CloudProviders {
		if strings.TrimSpace(p.CredentialVar) == "" {
			return fmt.Errorf("cloudProviders[%d]: credentialVar is required", i)
		}
		if strings.TrimSpace(p.Prefix) == "" && strings.TrimSpace(p.Group) == "" {
			return fmt.Errorf("cloudProviders[%d]: one of group or prefix is required", i)
		}
	}
	return nil
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		if err := config.Validate(); err != nil {
			return Config{}, err
		}
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, config.Validate()
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("%w (searched %q and %q)", ErrNoConfig, DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("%w at %q", ErrNoConfig, path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}
	if strings.TrimSpace(config.BaseURL) == "" {
		config.BaseURL = DefaultBaseURL
	}

	return config, nil
}
