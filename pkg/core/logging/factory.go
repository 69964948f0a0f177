// ============================================================================
// sexpad - S-expression scratchpad
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating configured loggers
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"sync"

	mdwlog "github.com/msto63/sexpad/foundation/core/log"
)

var (
	defaultsMu sync.RWMutex
	defaults   = LoggerConfig{Level: "info", Format: "json"}
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service or component name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: json, text, console or logfmt (default: json)
	Format string

	// Primary output (default: stderr)
	Output io.Writer

	// Additional outputs besides the primary one
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns the process-wide defaults for a service
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()

	cfg := defaults
	cfg.ServiceName = serviceName
	return cfg
}

// Configure sets the defaults used by New and NewSimpleLogger.
// The CLI calls it once after reading flags and the config file.
func Configure(level, format string, output io.Writer) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()

	if level != "" {
		defaults.Level = level
	}
	if format != "" {
		defaults.Format = format
	}
	if output != nil {
		defaults.Output = output
	}
}

// NewLogger creates a new foundation logger
func NewLogger(cfg LoggerConfig) *mdwlog.Logger {
	level, err := mdwlog.ParseLevel(cfg.Level)
	if err != nil {
		level = mdwlog.LevelInfo
	}

	format, err := mdwlog.ParseFormat(cfg.Format)
	if err != nil {
		format = mdwlog.FormatJSON
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	})
}

// NewSimpleLogger creates a logger with the process-wide defaults
func NewSimpleLogger(serviceName string) *mdwlog.Logger {
	return NewLogger(DefaultLoggerConfig(serviceName))
}

// Compatibility layer for code using key/value pairs

// Logger wraps the foundation logger with key/value logging methods
type Logger struct {
	*mdwlog.Logger
	name string
}

// New creates a named key/value logger
func New(name string) *Logger {
	return &Logger{
		Logger: NewSimpleLogger(name),
		name:   name,
	}
}

// Wrap adapts an existing foundation logger
func Wrap(logger *mdwlog.Logger, name string) *Logger {
	return &Logger{Logger: logger, name: name}
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// With returns a logger that adds the given key/value pairs to every entry
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		Logger: l.Logger.WithFields(toFields(keysAndValues...)),
		name:   l.name,
	}
}

// Debug logs a debug message with key/value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key/value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key/value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key/value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to mdwlog.Fields
func toFields(keysAndValues ...interface{}) mdwlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mdwlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
