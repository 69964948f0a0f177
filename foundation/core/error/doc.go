// Package error provides structured error handling for sexpad.
//
// Package: error
// Title: sexpad Error Handling Framework
// Description: Structured errors with codes, severity, details and stack
//              traces. Reader failures, configuration problems and storage
//              errors all surface through this type so that the CLI, the
//              HTTP/WebSocket handlers and the gRPC service can map them to
//              exit codes and status codes consistently.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-18 v0.2.0: Code table reduced to reader, config, store and service codes
//
// Usage:
//
//	err := mdwerror.New("unexpected closing delimiter").
//		WithCode(mdwerror.CodeUnmatchedClose).
//		WithDetail("line", 1).
//		WithDetail("column", 1)
//
//	if mdwerror.HasCode(err, mdwerror.CodeUnmatchedClose) {
//		// show the diagnostic next to the editor
//	}
package error
