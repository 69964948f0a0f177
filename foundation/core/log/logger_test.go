// File: logger_test.go
// Title: Logger Tests
// Description: Tests for logger configuration, derived loggers, levels,
//              error logging and the performance timer.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive logger tests
// - 2026-10-18 v0.2.0: Reader error severities, timer durations

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	mdwerror "github.com/msto63/sexpad/foundation/core/error"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithConfig(Config{Level: level, Format: format, Output: &buf, Name: "test"}), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNew(t *testing.T) {
	logger := New()

	if logger == nil {
		t.Fatal("New() should not return nil")
	}
	if logger.GetLevel() != DefaultLevel() {
		t.Errorf("New() level = %v, want %v", logger.GetLevel(), DefaultLevel())
	}
	if logger.contextFields == nil {
		t.Error("New() should initialize context fields")
	}
}

func TestLoggerWithLevel(t *testing.T) {
	logger := New()
	newLogger := logger.WithLevel(LevelDebug)

	if newLogger == logger {
		t.Error("WithLevel() should return a new logger instance")
	}
	if newLogger.GetLevel() != LevelDebug {
		t.Errorf("WithLevel() level = %v, want %v", newLogger.GetLevel(), LevelDebug)
	}
	if logger.GetLevel() != DefaultLevel() {
		t.Error("WithLevel() should not modify original logger")
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatJSON)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown too")

	lines := decodeLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 entries, got %d: %s", len(lines), buf.String())
	}
	if lines[0]["level"] != "warn" || lines[1]["level"] != "error" {
		t.Errorf("unexpected levels: %v, %v", lines[0]["level"], lines[1]["level"])
	}
}

func TestWithFieldsAndRequestID(t *testing.T) {
	base, buf := newBufferLogger(LevelDebug, FormatJSON)
	logger := base.WithField("component", "sexpr-parser").WithRequestID("req-1")

	logger.Info("parsed", Fields{"exprs": 3})
	base.Info("plain")

	lines := decodeLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(lines))
	}
	if lines[0]["component"] != "sexpr-parser" {
		t.Errorf("component = %v", lines[0]["component"])
	}
	if lines[0]["request_id"] != "req-1" {
		t.Errorf("request_id = %v", lines[0]["request_id"])
	}
	if lines[0]["exprs"] != float64(3) {
		t.Errorf("exprs = %v", lines[0]["exprs"])
	}
	if lines[0]["logger"] != "test" {
		t.Errorf("logger = %v", lines[0]["logger"])
	}
	if _, ok := lines[1]["component"]; ok {
		t.Error("derived logger fields leaked into the base logger")
	}
}

func TestLogErrorUsesSeverity(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
	}{
		{
			name:      "reader error is info",
			err:       mdwerror.New("unexpected ')'").WithCode(mdwerror.CodeUnmatchedClose),
			wantLevel: "info",
		},
		{
			name:      "database error is error",
			err:       mdwerror.New("locked").WithCode(mdwerror.CodeDatabaseError),
			wantLevel: "error",
		},
		{
			name:      "plain error is error",
			err:       errors.New("plain"),
			wantLevel: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelTrace, FormatJSON)
			logger.LogError(tt.err)

			lines := decodeLines(t, buf)
			if len(lines) != 1 {
				t.Fatalf("Expected 1 entry, got %d", len(lines))
			}
			if lines[0]["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", lines[0]["level"], tt.wantLevel)
			}
		})
	}
}

func TestLogErrorNil(t *testing.T) {
	logger, buf := newBufferLogger(LevelTrace, FormatJSON)
	logger.LogError(nil)
	if buf.Len() != 0 {
		t.Errorf("LogError(nil) wrote %q", buf.String())
	}
}

func TestTimer(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)

	timer := logger.StartTimer("parse").WithField("bytes", 10)
	elapsed := timer.Stop()
	if elapsed < 0 {
		t.Errorf("elapsed = %v", elapsed)
	}
	if again := timer.Stop(); again != 0 {
		t.Errorf("second Stop() = %v, want 0", again)
	}

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(lines))
	}
	if lines[0]["message"] != "parse completed" {
		t.Errorf("message = %v", lines[0]["message"])
	}
	if lines[0]["operation"] != "parse" || lines[0]["success"] != true {
		t.Errorf("unexpected timer fields: %v", lines[0])
	}
}

func TestTimerStopWithError(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatText)

	logger.StartTimer("submit").StopWithError(errors.New("boom"))

	out := buf.String()
	if !strings.Contains(out, "submit failed") || !strings.Contains(out, `error="boom"`) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestCaller(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)
	logger.WithCaller(0).Info("where")

	lines := decodeLines(t, buf)
	caller, _ := lines[0]["caller"].(string)
	if !strings.HasPrefix(caller, "logger_test.go:") {
		t.Errorf("caller = %q, want logger_test.go:<line>", caller)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{" WARNING ", LevelWarn, false},
		{"trc", LevelTrace, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
