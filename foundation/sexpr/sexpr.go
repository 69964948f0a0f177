// File: sexpr.go
// Title: S-Expression Reader Entry Points
// Description: Parse, Stringify and Tokenize wrappers over the parser and
//              ast packages.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package sexpr

import (
	"errors"

	"github.com/msto63/sexpad/foundation/sexpr/ast"
	"github.com/msto63/sexpad/foundation/sexpr/parser"
)

// Parse reads all top-level expressions from source. Errors are
// *parser.ParseError values.
func Parse(source string) ([]ast.Expr, error) {
	return parser.Parse(source)
}

// Stringify renders expressions as canonical source, one per line
func Stringify(exprs []ast.Expr) string {
	return ast.Stringify(exprs)
}

// Tokenize exposes the token stream for diagnostics
func Tokenize(source string) ([]parser.Token, error) {
	return parser.Tokenize(source)
}

// Canonicalize parses source and renders it back
func Canonicalize(source string) (string, error) {
	exprs, err := Parse(source)
	if err != nil {
		return "", err
	}
	return Stringify(exprs), nil
}

// AsParseError returns the reader error carried by err, if any
func AsParseError(err error) (*parser.ParseError, bool) {
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
