// Package parser implements the S-expression reader: a tokenizer with
// line/column tracking and a stack-based parser producing ast trees.
//
// Package: parser
// Title: S-Expression Tokenizer and Parser
// Description: Converts source text into tokens (open, close, string,
//              atom) and tokens into ast.Expr trees. Handles ';' line
//              comments, interchangeable bracket kinds, escaped string
//              literals, decimal numbers and unbounded nesting.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation
//
// Reading rules:
//
//   - "(", "[" and "{" open a list; ")", "]" and "}" close one. Bracket
//     kinds are not matched, so "(a]" reads as "(a)".
//   - A close with no open list fails with UnmatchedClose. Lists still
//     open at end of input are closed silently.
//   - String literals use JSON escapes; Go escapes are accepted as well.
//   - An atom reads as a Number when it is a complete decimal literal
//     ("42", "-3.5", "1e3"), otherwise as a Symbol ("abc", "1abc", "0x10").
//
// Tokenize, Parse and ParseTokens keep no shared state and may be called
// concurrently.
package parser
