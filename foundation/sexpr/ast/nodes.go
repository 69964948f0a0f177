// File: nodes.go
// Title: S-Expression Node Definitions
// Description: Defines the Expr interface and its four concrete cases
//              together with kind reporting and structural equality.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial node definitions

package ast

// Kind identifies the concrete case of an Expr
type Kind int

const (
	KindNumber Kind = iota
	KindSymbol
	KindString
	KindList
)

// String returns a string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Expr is a node of the expression tree. The set of implementations is
// closed: Number, Symbol, String and List.
type Expr interface {
	// Kind reports the concrete case
	Kind() Kind

	// String returns the canonical source rendering of the node
	String() string

	// Accept implements the visitor pattern
	Accept(visitor Visitor) interface{}

	exprNode() // marker method
}

// Number is a numeric atom
type Number struct {
	Value float64
}

// Symbol is any atom that does not read as a number
type Symbol struct {
	Name string
}

// String is a decoded string literal
type String struct {
	Value string
}

// List is a parenthesised sequence. Items is empty, not nil, for "()".
type List struct {
	Items []Expr
}

func (Number) exprNode() {}
func (Symbol) exprNode() {}
func (String) exprNode() {}
func (List) exprNode()   {}

func (Number) Kind() Kind { return KindNumber }
func (Symbol) Kind() Kind { return KindSymbol }
func (String) Kind() Kind { return KindString }
func (List) Kind() Kind   { return KindList }

func (n Number) String() string { return formatNumber(n.Value) }
func (s Symbol) String() string { return s.Name }
func (s String) String() string { return quoteString(s.Value) }
func (l List) String() string   { return Format(l) }

func (n Number) Accept(visitor Visitor) interface{} { return visitor.VisitNumber(n) }
func (s Symbol) Accept(visitor Visitor) interface{} { return visitor.VisitSymbol(s) }
func (s String) Accept(visitor Visitor) interface{} { return visitor.VisitString(s) }
func (l List) Accept(visitor Visitor) interface{}   { return visitor.VisitList(l) }

// Len returns the number of items in the list
func (l List) Len() int {
	return len(l.Items)
}

// Head returns the first item, or nil for an empty list
func (l List) Head() Expr {
	if len(l.Items) == 0 {
		return nil
	}
	return l.Items[0]
}

// Equal reports whether two trees are structurally equal
func Equal(a, b Expr) bool {
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		return ok && av.Value == bv.Value
	case Symbol:
		bv, ok := b.(Symbol)
		return ok && av.Name == bv.Name
	case String:
		bv, ok := b.(String)
		return ok && av.Value == bv.Value
	case List:
		bv, ok := b.(List)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

// EqualAll reports whether two top-level sequences are structurally equal
func EqualAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
