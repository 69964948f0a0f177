// File: parser.go
// Title: S-Expression Parser
// Description: Builds ast trees from tokens using an explicit stack of
//              list frames. Decodes string literals and classifies atoms
//              as numbers or symbols.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial parser implementation

package parser

import (
	"encoding/json"
	"strconv"

	"github.com/msto63/sexpad/foundation/sexpr/ast"
)

// Parse reads all top-level expressions from source.
// On failure no partial result is returned.
func Parse(source string) ([]ast.Expr, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens builds trees from a token sequence
func ParseTokens(tokens []Token) ([]ast.Expr, error) {
	// stack[0] is the implicit top-level frame
	stack := [][]ast.Expr{make([]ast.Expr, 0)}

	for _, tok := range tokens {
		top := len(stack) - 1

		switch tok.Kind {
		case TokenOpen:
			stack = append(stack, make([]ast.Expr, 0))

		case TokenClose:
			if top == 0 {
				return nil, newParseError(UnmatchedClose, tok.Span, "unmatched closing delimiter", nil)
			}
			list := ast.List{Items: stack[top]}
			stack = stack[:top]
			stack[top-1] = append(stack[top-1], list)

		case TokenString:
			value, err := decodeString(tok.Text)
			if err != nil {
				return nil, newParseError(StringDecode, tok.Span, "invalid string literal: "+err.Error(), err)
			}
			stack[top] = append(stack[top], ast.String{Value: value})

		default:
			stack[top] = append(stack[top], readAtom(tok.Text))
		}
	}

	for len(stack) > 1 {
		top := len(stack) - 1
		list := ast.List{Items: stack[top]}
		stack = stack[:top]
		stack[top-1] = append(stack[top-1], list)
	}

	return stack[0], nil
}

// decodeString decodes a quoted literal with JSON escapes, falling back
// to Go escapes (\x, \a, \v, \U, octal)
func decodeString(text string) (string, error) {
	var value string
	jsonErr := json.Unmarshal([]byte(text), &value)
	if jsonErr == nil {
		return value, nil
	}
	if value, err := strconv.Unquote(text); err == nil {
		return value, nil
	}
	return "", jsonErr
}

func readAtom(text string) ast.Expr {
	if v, ok := parseNumber(text); ok {
		return ast.Number{Value: v}
	}
	return ast.Symbol{Name: text}
}

// parseNumber accepts decimal literals only: optional sign, digits with an
// optional fraction and exponent. Hex, Inf, NaN, underscores and values
// out of float64 range stay symbols.
func parseNumber(text string) (float64, bool) {
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c >= '0' && c <= '9', c == '.', c == '+', c == '-', c == 'e', c == 'E':
		default:
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
