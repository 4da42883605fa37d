// internal/appconfig/load_integration_test.go
package appconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultPathWithLegacyFallback(t *testing.T) {
	tempDir := t.TempDir()

	payload := `{ "baseURL": "http://127.0.0.1:5000", "timeout": 30 }`
	if err := os.WriteFile(filepath.Join(tempDir, "config.json"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ConfigPath != legacyConfigPath {
		t.Fatalf("expected legacy path, got %q", cfg.ConfigPath)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Fatalf("expected timeout 30, got %d", cfg.TimeoutSeconds)
	}
}

func TestLoadDefaultPathMissing(t *testing.T) {
	tempDir := t.TempDir()
	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })

	_, err = Load("")
	if !errors.Is(err, ErrNoConfig) {
		t.Fatalf("expected ErrNoConfig when neither config path exists, got %v", err)
	}
}
