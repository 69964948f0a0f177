// File: dump.go
// Title: Tagged Expression Dump
// Description: Converts expression trees to and from tagged plain values
//              and encodes them as JSON, YAML or protobuf ListValue.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation
// - 2026-10-18 v0.1.1: Undump only accepts values with a source form

package sexpr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/sexpad/foundation/core/error"
	"github.com/msto63/sexpad/foundation/sexpr/ast"
	"github.com/msto63/sexpad/foundation/sexpr/parser"
)

// Dump tags
const (
	TagNumber = "number"
	TagSymbol = "symbol"
	TagString = "string"
	TagList   = "list"
)

// Dump converts a top-level sequence to tagged plain values
func Dump(exprs []ast.Expr) []interface{} {
	out := make([]interface{}, len(exprs))
	for i, expr := range exprs {
		out[i] = DumpExpr(expr)
	}
	return out
}

// DumpExpr converts a single expression to its tagged form
func DumpExpr(expr ast.Expr) map[string]interface{} {
	switch e := expr.(type) {
	case ast.Number:
		return map[string]interface{}{TagNumber: e.Value}
	case ast.Symbol:
		return map[string]interface{}{TagSymbol: e.Name}
	case ast.String:
		return map[string]interface{}{TagString: e.Value}
	case ast.List:
		return map[string]interface{}{TagList: Dump(e.Items)}
	default:
		return nil
	}
}

// DumpJSON encodes the tagged form as indented JSON. Trees nested deeper
// than encoding/json can indent are returned compact.
func DumpJSON(exprs []ast.Expr) ([]byte, error) {
	data, err := json.Marshal(Dump(exprs))
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode dump as JSON").
			WithCode(mdwerror.CodeInternal).
			WithOperation("sexpr.DumpJSON")
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, data, "", "  "); err != nil {
		return data, nil
	}
	return indented.Bytes(), nil
}

// DumpYAML encodes the tagged form as YAML
func DumpYAML(exprs []ast.Expr) ([]byte, error) {
	data, err := yaml.Marshal(Dump(exprs))
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode dump as YAML").
			WithCode(mdwerror.CodeInternal).
			WithOperation("sexpr.DumpYAML")
	}
	return data, nil
}

// Undump converts tagged plain values (as produced by Dump or decoded
// from JSON) back to expressions
func Undump(values []interface{}) ([]ast.Expr, error) {
	exprs := make([]ast.Expr, len(values))
	for i, v := range values {
		expr, err := undumpValue(v)
		if err != nil {
			return nil, mdwerror.Wrap(err, "invalid expression dump").
				WithCode(mdwerror.CodeInvalidFormat).
				WithOperation("sexpr.Undump").
				WithDetail("index", i)
		}
		exprs[i] = expr
	}
	return exprs, nil
}

// UndumpJSON decodes a JSON dump
func UndumpJSON(data []byte) ([]ast.Expr, error) {
	var values []interface{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, mdwerror.Wrap(err, "invalid JSON dump").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation("sexpr.UndumpJSON")
	}
	return Undump(values)
}

func undumpValue(v interface{}) (ast.Expr, error) {
	m, ok := v.(map[string]interface{})
	if !ok || len(m) != 1 {
		return nil, fmt.Errorf("expected an object with one tag, got %T", v)
	}

	for tag, inner := range m {
		switch tag {
		case TagNumber:
			n, ok := toFloat(inner)
			if !ok {
				return nil, fmt.Errorf("number tag holds %T", inner)
			}
			if math.IsNaN(n) || math.IsInf(n, 0) {
				return nil, fmt.Errorf("number %v has no source form", n)
			}
			return ast.Number{Value: n}, nil
		case TagSymbol:
			s, ok := inner.(string)
			if !ok || s == "" {
				return nil, fmt.Errorf("symbol tag holds %T", inner)
			}
			if !isSymbolName(s) {
				return nil, fmt.Errorf("%q does not read back as a symbol", s)
			}
			return ast.Symbol{Name: s}, nil
		case TagString:
			s, ok := inner.(string)
			if !ok {
				return nil, fmt.Errorf("string tag holds %T", inner)
			}
			return ast.String{Value: s}, nil
		case TagList:
			items, ok := inner.([]interface{})
			if !ok {
				return nil, fmt.Errorf("list tag holds %T", inner)
			}
			exprs := make([]ast.Expr, len(items))
			for i, item := range items {
				expr, err := undumpValue(item)
				if err != nil {
					return nil, err
				}
				exprs[i] = expr
			}
			return ast.List{Items: exprs}, nil
		default:
			return nil, fmt.Errorf("unknown tag %q", tag)
		}
	}
	return nil, fmt.Errorf("empty object")
}

// isSymbolName reports whether name reads back as exactly that symbol
func isSymbolName(name string) bool {
	exprs, err := parser.Parse(name)
	if err != nil || len(exprs) != 1 {
		return false
	}
	sym, ok := exprs[0].(ast.Symbol)
	return ok && sym.Name == name
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// ToProto encodes expressions as a protobuf ListValue in dump form
func ToProto(exprs []ast.Expr) (*structpb.ListValue, error) {
	lv, err := structpb.NewList(Dump(exprs))
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode expressions as protobuf").
			WithCode(mdwerror.CodeInternal).
			WithOperation("sexpr.ToProto")
	}
	return lv, nil
}

// FromProto decodes a protobuf ListValue in dump form
func FromProto(lv *structpb.ListValue) ([]ast.Expr, error) {
	if lv == nil {
		return []ast.Expr{}, nil
	}
	return Undump(lv.AsSlice())
}
