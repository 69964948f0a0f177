// File: format_test.go
// Title: Formatter Tests
// Description: Tests for the JSON, text, console and logfmt formatters.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial formatter tests
// - 2026-10-18 v0.2.0: Deterministic field ordering

package log

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/sexpad/foundation/core/error"
)

func testEntry() *Entry {
	e := NewEntry(LevelWarn, "parse failed")
	e.Timestamp = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	e.Logger = "sexpad"
	e.Fields["line"] = 1
	e.Fields["column"] = 4
	e.Fields["source"] = "(a ]]"
	return e
}

func TestTextFormatterSortsFields(t *testing.T) {
	out, err := NewTextFormatter().Format(testEntry())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "12:00:00 [WRN] {sexpad} parse failed [column=4 line=1 source=(a ]]]\n"
	if string(out) != want {
		t.Errorf("Format() = %q, want %q", out, want)
	}
}

func TestLogfmtFormatter(t *testing.T) {
	out, err := NewLogfmtFormatter().Format(testEntry())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := `timestamp=2026-10-18T12:00:00Z level=warn message="parse failed" logger=sexpad column=4 line=1 source="(a ]]"` + "\n"
	if string(out) != want {
		t.Errorf("Format() = %q, want %q", out, want)
	}
}

func TestJSONFormatterIncludesErrorDetails(t *testing.T) {
	e := testEntry()
	e.Error = mdwerror.New("unexpected ')'").WithCode(mdwerror.CodeUnmatchedClose)

	out, err := NewJSONFormatter().Format(e)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	details, ok := decoded["error_details"].(map[string]interface{})
	if !ok {
		t.Fatalf("error_details missing: %s", out)
	}
	if details["code"] != string(mdwerror.CodeUnmatchedClose) {
		t.Errorf("error_details.code = %v", details["code"])
	}
}

func TestConsoleFormatterColors(t *testing.T) {
	f := NewConsoleFormatter()
	out, _ := f.Format(testEntry())
	if !strings.HasPrefix(string(out), LevelWarn.Color()) {
		t.Errorf("console output not colored: %q", out)
	}

	f.DisableColors = true
	plain, _ := f.Format(testEntry())
	if strings.Contains(string(plain), "\033[") {
		t.Errorf("DisableColors output contains escapes: %q", plain)
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"json", "text", "console", "logfmt"} {
		f, err := ParseFormat(name)
		if err != nil {
			t.Errorf("ParseFormat(%q) error = %v", name, err)
		}
		if f.String() != name {
			t.Errorf("ParseFormat(%q).String() = %q", name, f.String())
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}
