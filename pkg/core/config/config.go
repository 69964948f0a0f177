// ============================================================================
// sexpad - S-expression scratchpad
// ============================================================================
//
// Package:     config
// Description: Typed application configuration with defaults and SEXPAD_*
//              environment overrides
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	fconfig "github.com/msto63/sexpad/foundation/core/config"
	mdwerror "github.com/msto63/sexpad/foundation/core/error"
)

// EnvPrefix prefixes environment overrides, e.g. SEXPAD_HTTP_PORT
const EnvPrefix = "SEXPAD"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	HTTP    HTTPConfig    `toml:"http" yaml:"http"`
	GRPC    GRPCConfig    `toml:"grpc" yaml:"grpc"`
	Store   StoreConfig   `toml:"store" yaml:"store"`
	Reader  ReaderConfig  `toml:"reader" yaml:"reader"`

	// Source is the file the configuration was read from, empty for defaults
	Source string `toml:"-" yaml:"-"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name" yaml:"name"`
	Environment string `toml:"environment" yaml:"environment"`
	DataDir     string `toml:"data_dir" yaml:"data_dir"`
	LogLevel    string `toml:"log_level" yaml:"log_level"`
	LogFormat   string `toml:"log_format" yaml:"log_format"`
}

// HTTPConfig holds the HTTP/WebSocket server settings
type HTTPConfig struct {
	Host            string   `toml:"host" yaml:"host"`
	Port            int      `toml:"port" yaml:"port"`
	ReadTimeout     Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	AllowedOrigins  []string `toml:"allowed_origins" yaml:"allowed_origins"`
}

// GRPCConfig holds the gRPC server settings
type GRPCConfig struct {
	Enabled    bool   `toml:"enabled" yaml:"enabled"`
	Host       string `toml:"host" yaml:"host"`
	Port       int    `toml:"port" yaml:"port"`
	Reflection bool   `toml:"reflection" yaml:"reflection"`
}

// StoreConfig holds submission history settings
type StoreConfig struct {
	Driver        string `toml:"driver" yaml:"driver"` // sqlite or memory
	Path          string `toml:"path" yaml:"path"`
	RetentionDays int    `toml:"retention_days" yaml:"retention_days"`
}

// ReaderConfig holds reader limits
type ReaderConfig struct {
	MaxSourceLength int `toml:"max_source_length" yaml:"max_source_length"`
	HistoryLimit    int `toml:"history_limit" yaml:"history_limit"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration with environment overrides
func Default() *Config {
	src, _ := fconfig.LoadFromString("", fconfig.FormatTOML)
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnv(src.WithEnvPrefix(EnvPrefix))
	return cfg
}

// Load loads configuration from a TOML or YAML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	src, err := fconfig.LoadWithOptions(path, fconfig.LoadOptions{
		Format:    fconfig.FormatAuto,
		EnvPrefix: EnvPrefix,
	})
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := src.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.Source = path
	cfg.applyDefaults()
	cfg.applyEnv(src)
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by SEXPAD_CONFIG, else the first file
// found in the default locations, else the defaults
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvPrefix + "_CONFIG")
	if path == "" {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// DefaultPaths lists the locations searched by LoadFromEnv
func DefaultPaths() []string {
	paths := []string{
		"./sexpad.toml",
		"./sexpad.yaml",
		"./configs/sexpad.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "sexpad", "config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "sexpad"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// HTTP
	if c.HTTP.Host == "" {
		c.HTTP.Host = "127.0.0.1"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeout.Duration == 0 {
		c.HTTP.ReadTimeout.Duration = 15 * time.Second
	}
	if c.HTTP.WriteTimeout.Duration == 0 {
		c.HTTP.WriteTimeout.Duration = 15 * time.Second
	}
	if c.HTTP.ShutdownTimeout.Duration == 0 {
		c.HTTP.ShutdownTimeout.Duration = 10 * time.Second
	}

	// gRPC
	if c.GRPC.Host == "" {
		c.GRPC.Host = "127.0.0.1"
	}
	if c.GRPC.Port == 0 {
		c.GRPC.Port = 9090
	}

	// Store
	if c.Store.Driver == "" {
		c.Store.Driver = "sqlite"
	}
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.General.DataDir, "sexpad.db")
	}
	if c.Store.RetentionDays == 0 {
		c.Store.RetentionDays = 30
	}

	// Reader
	if c.Reader.MaxSourceLength == 0 {
		c.Reader.MaxSourceLength = 64 * 1024
	}
	if c.Reader.HistoryLimit == 0 {
		c.Reader.HistoryLimit = 20
	}
}

// applyEnv lets SEXPAD_<SECTION>_<KEY> override file values
func (c *Config) applyEnv(src *fconfig.Config) {
	c.General.LogLevel = src.GetString("general.log_level", c.General.LogLevel)
	c.General.LogFormat = src.GetString("general.log_format", c.General.LogFormat)
	c.General.DataDir = src.GetString("general.data_dir", c.General.DataDir)

	c.HTTP.Host = src.GetString("http.host", c.HTTP.Host)
	c.HTTP.Port = src.GetInt("http.port", c.HTTP.Port)

	c.GRPC.Enabled = src.GetBool("grpc.enabled", c.GRPC.Enabled)
	c.GRPC.Host = src.GetString("grpc.host", c.GRPC.Host)
	c.GRPC.Port = src.GetInt("grpc.port", c.GRPC.Port)

	c.Store.Driver = src.GetString("store.driver", c.Store.Driver)
	c.Store.Path = src.GetString("store.path", c.Store.Path)

	c.Reader.MaxSourceLength = src.GetInt("reader.max_source_length", c.Reader.MaxSourceLength)
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Store.Path = os.ExpandEnv(c.Store.Path)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "memory":
	default:
		return mdwerror.New(fmt.Sprintf("unknown store driver %q", c.Store.Driver)).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("field", "store.driver")
	}
	if c.Reader.MaxSourceLength < 0 {
		return mdwerror.New("reader.max_source_length must not be negative").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("field", "reader.max_source_length")
	}
	for field, port := range map[string]int{"http.port": c.HTTP.Port, "grpc.port": c.GRPC.Port} {
		if port < 0 || port > 65535 {
			return mdwerror.New(fmt.Sprintf("%s out of range: %d", field, port)).
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.Validate").
				WithDetail("field", field)
		}
	}
	return nil
}

// HTTPAddress returns host:port for the HTTP server
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

// GRPCAddress returns host:port for the gRPC server
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.GRPC.Host, c.GRPC.Port)
}
