// File: stringify.go
// Title: S-Expression Stringifier
// Description: Renders expression trees as canonical source text that the
//              parser reads back to an equal tree.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial stringifier implementation

package ast

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Stringify renders a top-level sequence, one expression per line
func Stringify(exprs []Expr) string {
	var sb strings.Builder
	for i, expr := range exprs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		writeExpr(&sb, expr)
	}
	return sb.String()
}

// Format renders a single expression
func Format(expr Expr) string {
	var sb strings.Builder
	writeExpr(&sb, expr)
	return sb.String()
}

func writeExpr(sb *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case Number:
		sb.WriteString(formatNumber(e.Value))
	case Symbol:
		sb.WriteString(e.Name)
	case String:
		sb.WriteString(quoteString(e.Value))
	case List:
		sb.WriteByte('(')
		for i, item := range e.Items {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeExpr(sb, item)
		}
		sb.WriteByte(')')
	}
}

// formatNumber yields the shortest decimal that parses back to v
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// quoteString produces a JSON string literal. Content that is not valid
// UTF-8 falls back to Go quoting, whose \x escapes the parser also accepts.
func quoteString(s string) string {
	if !utf8.ValidString(s) {
		return strconv.Quote(s)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
