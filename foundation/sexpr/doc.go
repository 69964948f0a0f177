// Package sexpr is the entry point to the S-expression reader.
//
// Package: sexpr
// Title: S-Expression Reader Facade
// Description: Exposes Parse and Stringify over the parser and ast
//              packages, plus a tagged plain-value dump of expression
//              trees (JSON, YAML and protobuf Struct encodings) used by the
//              HTTP, WebSocket, gRPC and CLI surfaces.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation
//
// Dump form: every expression becomes a single-key object naming its
// kind, and a top-level sequence becomes an array:
//
//	(concat "Hello" x 1)
//
//	[{"list": [{"symbol": "concat"}, {"string": "Hello"}, {"symbol": "x"}, {"number": 1}]}]
package sexpr
