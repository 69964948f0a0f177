// File: lexer.go
// Title: S-Expression Lexical Analyzer (Tokenizer)
// Description: Converts source text into a flat token sequence with byte
//              spans and 1-based line/column positions. Comments and
//              whitespace are dropped.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial lexer implementation

package parser

import (
	"fmt"
	"unicode/utf8"
)

// TokenKind represents the kind of a lexical token
type TokenKind int

const (
	TokenOpen   TokenKind = iota // ( [ {
	TokenClose                   // ) ] }
	TokenString                  // "literal", quotes included
	TokenAtom                    // number or symbol text
)

// String returns a string representation of the token kind
func (k TokenKind) String() string {
	switch k {
	case TokenOpen:
		return "OPEN"
	case TokenClose:
		return "CLOSE"
	case TokenString:
		return "STRING"
	case TokenAtom:
		return "ATOM"
	default:
		return "UNKNOWN"
	}
}

// Span locates a token in the source. Start and End are byte offsets
// (End exclusive); Line and Column are 1-based and refer to Start.
type Span struct {
	Start  int `json:"start"`
	End    int `json:"end"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Token represents a lexical token with position information
type Token struct {
	Span Span
	Kind TokenKind
	Text string // "(" or ")" for delimiters, raw source text otherwise
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("%d:%d %s %s", t.Span.Line, t.Span.Column, t.Kind, t.Text)
}

// Lexer performs lexical analysis of S-expression source
type Lexer struct {
	input  string
	pos    int // byte offset of the next unread character
	line   int
	column int
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, column: 1}
}

// Tokenize converts the whole source into tokens
func Tokenize(source string) ([]Token, error) {
	return NewLexer(source).Tokenize()
}

// Tokenize returns all remaining tokens
func (l *Lexer) Tokenize() ([]Token, error) {
	tokens := make([]Token, 0, len(l.input)/4)
	for {
		tok, ok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token. ok is false at end of input.
func (l *Lexer) Next() (tok Token, ok bool, err error) {
	for l.pos < len(l.input) {
		start, line, column := l.pos, l.line, l.column
		ch := l.peek()

		switch {
		case ch == ';':
			l.skipComment()
		case isOpen(ch):
			l.advance()
			return l.token(TokenOpen, "(", start, line, column), true, nil
		case isClose(ch):
			l.advance()
			return l.token(TokenClose, ")", start, line, column), true, nil
		case ch == '"':
			if !l.scanString() {
				span := Span{Start: start, End: start + 1, Line: line, Column: column}
				return Token{}, false, newParseError(UnterminatedString, span, "unterminated string literal", nil)
			}
			return l.token(TokenString, l.input[start:l.pos], start, line, column), true, nil
		case isWhitespace(ch):
			l.advance()
		default:
			for l.pos < len(l.input) && isAtomChar(l.peek()) {
				l.advance()
			}
			return l.token(TokenAtom, l.input[start:l.pos], start, line, column), true, nil
		}
	}
	return Token{}, false, nil
}

func (l *Lexer) token(kind TokenKind, text string, start, line, column int) Token {
	return Token{
		Span: Span{Start: start, End: l.pos, Line: line, Column: column},
		Kind: kind,
		Text: text,
	}
}

// peek decodes the rune at the current position
func (l *Lexer) peek() rune {
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// advance consumes one character and updates line/column
func (l *Lexer) advance() rune {
	r, width := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += width
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

// skipComment consumes up to, not including, the next newline
func (l *Lexer) skipComment() {
	for l.pos < len(l.input) && l.peek() != '\n' {
		l.advance()
	}
}

// scanString consumes a string literal starting at the opening quote.
// It reports false when input ends before the closing quote.
func (l *Lexer) scanString() bool {
	l.advance() // opening quote
	for l.pos < len(l.input) {
		switch l.advance() {
		case '\\':
			if l.pos >= len(l.input) {
				return false
			}
			l.advance()
		case '"':
			return true
		}
	}
	return false
}

func isOpen(r rune) bool {
	return r == '(' || r == '[' || r == '{'
}

func isClose(r rune) bool {
	return r == ')' || r == ']' || r == '}'
}

func isWhitespace(r rune) bool {
	return r <= ' '
}

func isAtomChar(r rune) bool {
	return !isWhitespace(r) && !isOpen(r) && !isClose(r) && r != '"' && r != ';'
}
