package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("gateway")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "gateway" {
		t.Errorf("expected service 'gateway', got %q", l.service)
	}
}

func TestNew_InvalidLevelFallsBack(t *testing.T) {
	cfg := &Config{
		Level:  "not-a-level",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithComponent_EmitsComponentField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "test").WithComponent("registry")
	l.Info("adapter stored")

	out := buf.String()
	if !strings.Contains(out, `"component":"registry"`) {
		t.Errorf("expected component field in output, got %s", out)
	}
	if !strings.Contains(out, "adapter stored") {
		t.Errorf("expected message in output, got %s", out)
	}
}

func TestWithFields_EmitsFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "test").WithFields(map[string]interface{}{"adapter": "llm"})
	l.Info("call completed", Fields("retries", 2))

	out := buf.String()
	if !strings.Contains(out, `"adapter":"llm"`) {
		t.Errorf("expected adapter field, got %s", out)
	}
	if !strings.Contains(out, `"retries":2`) {
		t.Errorf("expected retries field, got %s", out)
	}
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected default level info, got %s", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected default format console, got %s", cfg.Format)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamps on by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Level: "verbose", Format: "json"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}

	cfg = Config{Level: "debug", Format: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}

	cfg = Config{Level: "debug", Format: "json"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFields_SkipsNonStringKeys(t *testing.T) {
	m := Fields("a", 1, 2, "ignored", "b", "x")
	if len(m) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(m), m)
	}
	if m["a"] != 1 || m["b"] != "x" {
		t.Errorf("unexpected map contents: %v", m)
	}
}

func TestDurationFields(t *testing.T) {
	m := DurationFields("call", 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", m[FieldDuration])
	}
}
