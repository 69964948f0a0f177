package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	logger := New("test-service")

	if logger == nil {
		t.Fatal("New() returned nil")
	}
	if logger.Name() != "test-service" {
		t.Errorf("name = %v, want test-service", logger.Name())
	}
}

func TestLogger_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := Wrap(NewLogger(LoggerConfig{ServiceName: "reader", Level: "info", Format: "json", Output: &buf}), "reader")

	logger.With("component", "service").Info("submission parsed", "id", "abc", "exprs", 3, 42, "ignored", "dangling")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", buf.String(), err)
	}

	fields := entry
	if fields["id"] != "abc" || fields["exprs"] != float64(3) || fields["component"] != "service" {
		t.Errorf("unexpected fields: %v", fields)
	}
	if _, ok := fields["dangling"]; ok {
		t.Error("odd trailing key should be dropped")
	}
}

func TestToFields(t *testing.T) {
	if toFields() != nil {
		t.Error("toFields() with no args should be nil")
	}
	fields := toFields("a", 1, "b")
	if len(fields) != 1 || fields["a"] != 1 {
		t.Errorf("toFields() = %v", fields)
	}
}

func TestConfigure(t *testing.T) {
	var buf bytes.Buffer
	Configure("debug", "logfmt", &buf)
	t.Cleanup(func() { Configure("info", "json", nil) })

	cfg := DefaultLoggerConfig("svc")
	if cfg.Level != "debug" || cfg.Format != "logfmt" || cfg.ServiceName != "svc" {
		t.Errorf("DefaultLoggerConfig() = %+v", cfg)
	}

	New("svc").Debug("configured", "k", "v")
	if !strings.Contains(buf.String(), `k="v"`) {
		t.Errorf("expected logfmt output, got %q", buf.String())
	}
}
