package logging

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "hedlab.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
		SetDebug(false)
	})

	LogEvent("hello %s", "world")
	LogDebug("hidden %s", "line")
	SetDebug(true)
	LogDebug("visible %s", "line")
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if strings.Contains(content, "hidden line") {
		t.Fatalf("debug line written while debug was off: %s", content)
	}
	if !strings.Contains(content, "[DEBUG] visible line") {
		t.Fatalf("expected LogDebug content, got: %s", content)
	}
}

func TestBuildRequestMessageDefaults(t *testing.T) {
	msg := buildRequestMessage(" out ", "post", " ", " abc ", map[string]any{"ok": true})
	if !strings.Contains(msg, "[OUT]") {
		t.Fatalf("expected uppercased direction, got: %s", msg)
	}
	if !strings.Contains(msg, "method=POST") {
		t.Fatalf("expected uppercased method, got: %s", msg)
	}
	if !strings.Contains(msg, "endpoint=unknown") {
		t.Fatalf("expected default endpoint, got: %s", msg)
	}
	if !strings.Contains(msg, "request_id=abc") {
		t.Fatalf("expected request id, got: %s", msg)
	}
	if !strings.Contains(msg, "payload={\"ok\":true}") {
		t.Fatalf("expected payload json, got: %s", msg)
	}
}

func TestFormatPayloadVariants(t *testing.T) {
	if got := formatPayload(nil); got != "null" {
		t.Fatalf("nil payload: %s", got)
	}
	if got := formatPayload(" "); got != `""` {
		t.Fatalf("empty string payload: %s", got)
	}
	if got := formatPayload([]byte("hi")); got != "hi" {
		t.Fatalf("byte payload: %s", got)
	}
	if got := formatPayload(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer payload: %s", got)
	}
}

func TestRedactValues(t *testing.T) {
	got := RedactValues(map[string]string{"GEMINI_API_KEY": "secret", "OTHER": ""})
	if got["GEMINI_API_KEY"] != redacted {
		t.Fatalf("expected secret to be masked, got %q", got["GEMINI_API_KEY"])
	}
	if got["OTHER"] != "" {
		t.Fatalf("expected removal marker to survive, got %q", got["OTHER"])
	}
}

func TestInitDiscard(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	if err := Init(""); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	LogEvent("discard")
	if buf.Len() != 0 {
		t.Fatalf("expected log output discarded, got: %s", buf.String())
	}
}
