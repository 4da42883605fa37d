// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

// TestLoad tests the Load function to ensure it correctly handles various
// scenarios, including valid and invalid configurations. A valid file loads with
// defaults applied, while invalid JSON, an unusable backend URL and a missing file
// all produce errors.
func TestLoad(t *testing.T) {
	validConfig := `{
        "baseURL": "http://localhost:5001/",
        "defaultModel": "llama3:8b",
        "cloudProviders": [
            {"group": "gemini", "prefix": "gemini", "credentialVar": "GEMINI_API_KEY"}
        ]
    }`
	tmpfile, err := os.CreateTemp("", "config.json")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())
	if _, err := tmpfile.Write([]byte(validConfig)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if cfg.Endpoint() != "http://localhost:5001" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Endpoint())
	}
	if cfg.PreferredModel() != "llama3:8b" {
		t.Fatalf("expected configured default model, got %q", cfg.PreferredModel())
	}
	if cfg.TimeoutSeconds != 600 {
		t.Fatalf("expected default timeout of 600 seconds, got %d", cfg.TimeoutSeconds)
	}
	if cfg.RequestTimeout() != 600*time.Second {
		t.Fatalf("expected default request timeout of 600s, got %v", cfg.RequestTimeout())
	}
	if cfg.AlertTTL() != 5*time.Second {
		t.Fatalf("expected default alert ttl of 5s, got %v", cfg.AlertTTL())
	}
	if cfg.ConfigPath != tmpfile.Name() {
		t.Fatalf("expected config path to be recorded, got %q", cfg.ConfigPath)
	}

	invalidJSON := `{ "baseURL": `
	tmpfile2, err := os.CreateTemp("", "config.json")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile2.Name())
	if _, err := tmpfile2.Write([]byte(invalidJSON)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile2.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmpfile2.Name()); err == nil {
		t.Fatal("Load() with invalid JSON should have failed")
	}

	badScheme := `{ "baseURL": "ftp://example.com" }`
	tmpfile3, err := os.CreateTemp("", "config.json")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile3.Name())
	if _, err := tmpfile3.Write([]byte(badScheme)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile3.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmpfile3.Name()); err == nil {
		t.Fatal("Load() with a non-http baseURL should have failed")
	}

	if _, err := Load("nonexistent.json"); err == nil {
		t.Fatal("Load() with nonexistent file should have failed")
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	if cfg.Endpoint() != DefaultBaseURL {
		t.Fatalf("Endpoint() = %q", cfg.Endpoint())
	}
	if cfg.PreferredModel() != DefaultModel {
		t.Fatalf("PreferredModel() = %q", cfg.PreferredModel())
	}
	if cfg.LogFilePath() != "hedlab.log" {
		t.Fatalf("LogFilePath() = %q", cfg.LogFilePath())
	}
	if cfg.DownloadDirectory() != "." {
		t.Fatalf("DownloadDirectory() = %q", cfg.DownloadDirectory())
	}
	if cfg.AutoRefreshInterval() != 0 {
		t.Fatalf("AutoRefreshInterval() = %v", cfg.AutoRefreshInterval())
	}
	if cfg.MarkdownRenderStyle() != "dark" {
		t.Fatalf("MarkdownRenderStyle() = %q", cfg.MarkdownRenderStyle())
	}
	providers := cfg.Providers()
	if len(providers) != 1 || providers[0].CredentialVar != "GEMINI_API_KEY" {
		t.Fatalf("unexpected default providers: %+v", providers)
	}
}

func TestValidateCloudProviders(t *testing.T) {
	cfg := Config{CloudProviders: []CloudProvider{{Group: "openai"}}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing credentialVar to fail validation")
	}
	cfg = Config{CloudProviders: []CloudProvider{{CredentialVar: "X"}}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected provider without group or prefix to fail validation")
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	ShowConfig(&buf, "", nil, Config{AutoRefreshSeconds: 30})
	out := buf.String()
	for _, want := range []string{"No config file loaded", "Backend:         http://localhost:5000", "every 30s", "GEMINI_API_KEY"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
