// Package ast defines the expression tree produced by the S-expression
// reader and renders it back to source text.
//
// Package: ast
// Title: S-Expression Abstract Syntax Tree
// Description: Provides the sealed Expr interface with its four cases
//              (Number, Symbol, String, List), structural equality, a
//              visitor for traversal and the canonical stringifier.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation
//
// Trees are values: a List owns its Items and nothing in this package
// mutates a tree after construction. Stringify is the inverse of the
// parser for every tree the parser can produce:
//
//	exprs, _ := parser.Parse(`(define x "hi") ; note`)
//	ast.Stringify(exprs) // (define x "hi")
package ast
