// Package log provides structured logging for sexpad.
//
// Package: log
// Title: sexpad Structured Logging
// Description: Leveled, structured logging with persistent context fields,
//              request IDs and pluggable output formats (JSON, text, colored
//              console, logfmt). Errors from foundation/core/error are logged
//              with their code, severity and details.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging
// - 2026-10-18 v0.2.0: Sorted field output, async mode and user context removed
//
// Usage:
//
//	logger := mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelDebug, Format: mdwlog.FormatText})
//	logger = logger.WithField("component", "sexpr-parser")
//	logger.Info("parsed submission", mdwlog.Fields{"tokens": 12, "exprs": 1})
//
//	timer := logger.StartTimer("parse")
//	defer timer.Stop()
package log
