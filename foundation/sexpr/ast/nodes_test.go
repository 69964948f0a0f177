// File: nodes_test.go
// Title: S-Expression AST Tests
// Description: Tests for structural equality, stringification, the tree
//              printer and node statistics.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial test suite

package ast

import (
	"math"
	"testing"
)

func list(items ...Expr) List {
	if items == nil {
		items = []Expr{}
	}
	return List{Items: items}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Expr
		want bool
	}{
		{"same number", Number{42}, Number{42}, true},
		{"different number", Number{42}, Number{43}, false},
		{"symbol vs string", Symbol{"x"}, String{"x"}, false},
		{"nested lists", list(Symbol{"a"}, list(Number{1})), list(Symbol{"a"}, list(Number{1})), true},
		{"list length", list(Symbol{"a"}), list(Symbol{"a"}, Symbol{"b"}), false},
		{"empty lists", list(), List{}, true},
		{"nil", nil, nil, true},
		{"nil vs value", nil, Number{0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name  string
		exprs []Expr
		want  string
	}{
		{"empty", nil, ""},
		{"integer", []Expr{Number{42}}, "42"},
		{"fraction", []Expr{Number{-3.5}}, "-3.5"},
		{"large exponent", []Expr{Number{1e21}}, "1e+21"},
		{"small exponent", []Expr{Number{1e-7}}, "1e-07"},
		{"negative zero", []Expr{Number{math.Copysign(0, -1)}}, "-0"},
		{"symbol", []Expr{Symbol{"lambda"}}, "lambda"},
		{"string", []Expr{String{"Hello"}}, `"Hello"`},
		{"string escapes", []Expr{String{"say \"hi\"\n\t\\"}}, `"say \"hi\"\n\t\\"`},
		{"string html", []Expr{String{"<a&b>"}}, `"<a&b>"`},
		{"invalid utf8", []Expr{String{"\xff"}}, `"\xff"`},
		{"empty list", []Expr{list()}, "()"},
		{"nested", []Expr{list(Symbol{"a"}, list(Symbol{"b"}, Number{1}), String{"c"})}, `(a (b 1) "c")`},
		{"top level newline", []Expr{Symbol{"a"}, list(Symbol{"b"})}, "a\n(b)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.exprs); got != tt.want {
				t.Errorf("Stringify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNodeString(t *testing.T) {
	expr := list(Symbol{"define"}, Symbol{"x"}, String{"hi"})
	if got := expr.String(); got != `(define x "hi")` {
		t.Errorf("String() = %q", got)
	}
	if expr.Kind() != KindList || expr.Kind().String() != "list" {
		t.Errorf("Kind() = %v", expr.Kind())
	}
	if expr.Len() != 3 || !Equal(expr.Head(), Symbol{"define"}) {
		t.Errorf("Len/Head = %d/%v", expr.Len(), expr.Head())
	}
	if list().Head() != nil {
		t.Error("Head() of empty list should be nil")
	}
}

func TestTreePrinter(t *testing.T) {
	exprs := []Expr{
		list(Symbol{"lambda"}, list(Symbol{"x"}), list(Symbol{"+"}, Symbol{"x"}, Number{1})),
		String{"done"},
	}

	want := "list (3)\n" +
		"  symbol lambda\n" +
		"  list (1)\n" +
		"    symbol x\n" +
		"  list (3)\n" +
		"    symbol +\n" +
		"    symbol x\n" +
		"    number 1\n" +
		"string \"done\"\n"

	tp := NewTreePrinter()
	if got := tp.Print(exprs); got != want {
		t.Errorf("Print() =\n%s\nwant\n%s", got, want)
	}
	if got := tp.Print(exprs); got != want {
		t.Error("Print() should reset between calls")
	}
}

func TestCollect(t *testing.T) {
	exprs := []Expr{
		list(Symbol{"a"}, list(Number{1}, String{"s"})),
		Symbol{"b"},
	}

	got := Collect(exprs)
	want := Stats{Numbers: 1, Symbols: 2, Strings: 1, Lists: 2, MaxDepth: 3}
	if got != want {
		t.Errorf("Collect() = %+v, want %+v", got, want)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	var visited int
	Walk(list(list(Symbol{"hidden"}), Symbol{"seen"}), func(e Expr, depth int) bool {
		visited++
		return depth == 0
	})
	if visited != 3 {
		t.Errorf("visited %d nodes, want 3", visited)
	}
}
