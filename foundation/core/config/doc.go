// Package config loads TOML and YAML configuration files.
//
// Package: config
// Title: sexpad Configuration Loader
// Description: Format-detecting loader for TOML (BurntSushi/toml) and YAML
//              (gopkg.in/yaml.v3) files with dot-notation lookups, typed
//              getters with defaults, environment variable overrides and
//              decoding into structs.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2026-10-18 v0.2.0: Decode into structs, file watching and caches removed
//
// Usage:
//
//	cfg, err := config.LoadWithOptions("sexpad.toml", config.LoadOptions{EnvPrefix: "SEXPAD"})
//	addr := cfg.GetString("http.addr", ":8080")   // SEXPAD_HTTP_ADDR overrides
//	limit := cfg.GetInt("reader.max_source_length", 65536)
package config
