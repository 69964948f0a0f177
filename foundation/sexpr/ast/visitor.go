// File: visitor.go
// Title: S-Expression Visitor and Tree Printer
// Description: Implements the visitor pattern for expression trees, a
//              depth-first Walk helper and an indented tree printer used
//              by the CLI and the terminal scratchpad.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial visitor implementation

package ast

import (
	"fmt"
	"strings"
)

// Visitor interface for traversing expression trees
type Visitor interface {
	VisitNumber(n Number) interface{}
	VisitSymbol(s Symbol) interface{}
	VisitString(s String) interface{}
	VisitList(l List) interface{}
}

// Walk visits expr and its descendants depth-first in source order.
// Returning false from fn skips the children of the current node.
func Walk(expr Expr, fn func(expr Expr, depth int) bool) {
	walk(expr, 0, fn)
}

func walk(expr Expr, depth int, fn func(Expr, int) bool) {
	if !fn(expr, depth) {
		return
	}
	if list, ok := expr.(List); ok {
		for _, item := range list.Items {
			walk(item, depth+1, fn)
		}
	}
}

// Stats summarises a top-level sequence
type Stats struct {
	Numbers  int `json:"numbers"`
	Symbols  int `json:"symbols"`
	Strings  int `json:"strings"`
	Lists    int `json:"lists"`
	MaxDepth int `json:"max_depth"`
}

// Collect counts the nodes of all expressions
func Collect(exprs []Expr) Stats {
	var stats Stats
	for _, expr := range exprs {
		Walk(expr, func(e Expr, depth int) bool {
			if depth+1 > stats.MaxDepth {
				stats.MaxDepth = depth + 1
			}
			switch e.Kind() {
			case KindNumber:
				stats.Numbers++
			case KindSymbol:
				stats.Symbols++
			case KindString:
				stats.Strings++
			case KindList:
				stats.Lists++
			}
			return true
		})
	}
	return stats
}

// TreePrinter renders an expression as an indented outline
type TreePrinter struct {
	Indent string
	sb     strings.Builder
	depth  int
}

// NewTreePrinter creates a printer with two-space indentation
func NewTreePrinter() *TreePrinter {
	return &TreePrinter{Indent: "  "}
}

// Print renders all expressions and resets the printer
func (tp *TreePrinter) Print(exprs []Expr) string {
	tp.sb.Reset()
	tp.depth = 0
	for _, expr := range exprs {
		expr.Accept(tp)
	}
	return tp.sb.String()
}

func (tp *TreePrinter) line(format string, args ...interface{}) {
	tp.sb.WriteString(strings.Repeat(tp.Indent, tp.depth))
	fmt.Fprintf(&tp.sb, format, args...)
	tp.sb.WriteByte('\n')
}

func (tp *TreePrinter) VisitNumber(n Number) interface{} {
	tp.line("number %s", formatNumber(n.Value))
	return nil
}

func (tp *TreePrinter) VisitSymbol(s Symbol) interface{} {
	tp.line("symbol %s", s.Name)
	return nil
}

func (tp *TreePrinter) VisitString(s String) interface{} {
	tp.line("string %s", quoteString(s.Value))
	return nil
}

func (tp *TreePrinter) VisitList(l List) interface{} {
	tp.line("list (%d)", len(l.Items))
	tp.depth++
	for _, item := range l.Items {
		item.Accept(tp)
	}
	tp.depth--
	return nil
}
