// File: config_test.go
// Title: Configuration Loader Tests
// Description: Tests for TOML/YAML loading, dot-notation lookups, defaults,
//              environment overrides and struct decoding.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-25 v0.1.0: Initial test implementation
// - 2026-10-18 v0.2.0: Decode and env prefix tests

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/sexpad/foundation/core/error"
)

const sampleTOML = `
[general]
name = "sexpad"
debug = true

[http]
addr = ":8080"
read_timeout = "5s"

[reader]
max_source_length = 1024
`

const sampleYAML = `
general:
  name: sexpad
  debug: true
http:
  addr: ":9090"
reader:
  max_source_length: 2048
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadDetectsFormat(t *testing.T) {
	tests := []struct {
		file     string
		content  string
		format   Format
		wantAddr string
		wantMax  int
	}{
		{"sexpad.toml", sampleTOML, FormatTOML, ":8080", 1024},
		{"sexpad.yaml", sampleYAML, FormatYAML, ":9090", 2048},
		{"sexpad.yml", sampleYAML, FormatYAML, ":9090", 2048},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Format() != tt.format {
				t.Errorf("Format() = %v, want %v", cfg.Format(), tt.format)
			}
			if got := cfg.GetString("http.addr"); got != tt.wantAddr {
				t.Errorf("http.addr = %q, want %q", got, tt.wantAddr)
			}
			if got := cfg.GetInt("reader.max_source_length"); got != tt.wantMax {
				t.Errorf("reader.max_source_length = %d, want %d", got, tt.wantMax)
			}
			if !cfg.GetBool("general.debug") {
				t.Error("general.debug should be true")
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); !mdwerror.HasCode(err, mdwerror.CodeValidationFailed) {
		t.Errorf("empty path: got %v", err)
	}

	missing := filepath.Join(t.TempDir(), "nope.toml")
	if _, err := Load(missing); !mdwerror.HasCode(err, mdwerror.CodeMissingConfig) {
		t.Errorf("missing file: got %v", err)
	}

	broken := writeFile(t, "broken.toml", "[http\naddr = ")
	if _, err := Load(broken); !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("broken file: got %v", err)
	}
}

func TestDefaultsAndGetters(t *testing.T) {
	cfg, err := LoadFromString(sampleTOML, FormatTOML)
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	if got := cfg.GetString("grpc.addr", ":9090"); got != ":9090" {
		t.Errorf("default string = %q", got)
	}
	if got := cfg.GetInt("store.max_rows", 500); got != 500 {
		t.Errorf("default int = %d", got)
	}
	if got := cfg.GetDuration("http.read_timeout"); got != 5*time.Second {
		t.Errorf("duration = %v, want 5s", got)
	}
	if got := cfg.GetDuration("http.write_timeout", time.Second); got != time.Second {
		t.Errorf("default duration = %v", got)
	}
	if cfg.Has("grpc") {
		t.Error("Has(grpc) should be false")
	}

	cfg.Set("grpc.addr", ":7000")
	if got := cfg.GetString("grpc.addr"); got != ":7000" {
		t.Errorf("after Set: %q", got)
	}
}

func TestEnvOverride(t *testing.T) {
	path := writeFile(t, "sexpad.toml", sampleTOML)
	cfg, err := LoadWithOptions(path, LoadOptions{Format: FormatAuto, EnvPrefix: "SEXPAD"})
	if err != nil {
		t.Fatalf("LoadWithOptions() error = %v", err)
	}

	t.Setenv("SEXPAD_HTTP_ADDR", ":1234")
	t.Setenv("SEXPAD_READER_MAX_SOURCE_LENGTH", "42")

	if got := cfg.GetString("http.addr"); got != ":1234" {
		t.Errorf("http.addr = %q, want :1234", got)
	}
	if got := cfg.GetInt("reader.max_source_length"); got != 42 {
		t.Errorf("reader.max_source_length = %d, want 42", got)
	}
}

func TestDecode(t *testing.T) {
	type settings struct {
		General struct {
			Name string `toml:"name" yaml:"name"`
		} `toml:"general" yaml:"general"`
		Reader struct {
			MaxSourceLength int `toml:"max_source_length" yaml:"max_source_length"`
		} `toml:"reader" yaml:"reader"`
	}

	for _, tc := range []struct {
		content string
		format  Format
		want    int
	}{
		{sampleTOML, FormatTOML, 1024},
		{sampleYAML, FormatYAML, 2048},
	} {
		t.Run(tc.format.String(), func(t *testing.T) {
			cfg, err := LoadFromString(tc.content, tc.format)
			if err != nil {
				t.Fatalf("LoadFromString() error = %v", err)
			}
			var s settings
			if err := cfg.Decode(&s); err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if s.General.Name != "sexpad" || s.Reader.MaxSourceLength != tc.want {
				t.Errorf("Decode() = %+v", s)
			}
		})
	}
}
