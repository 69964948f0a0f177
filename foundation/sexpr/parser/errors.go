// File: errors.go
// Title: S-Expression Reader Errors
// Description: Defines ParseError with its kinds and source span, and its
//              conversion to the foundation error type.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial error model

package parser

import (
	"encoding/json"
	"fmt"

	mdwerror "github.com/msto63/sexpad/foundation/core/error"
)

// ErrorKind classifies reader failures
type ErrorKind int

const (
	// UnmatchedClose: a close delimiter with no open list
	UnmatchedClose ErrorKind = iota + 1

	// StringDecode: a string literal with a malformed escape
	StringDecode

	// UnterminatedString: input ended inside a string literal
	UnterminatedString
)

// String returns a string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case UnmatchedClose:
		return "UnmatchedClose"
	case StringDecode:
		return "StringDecode"
	case UnterminatedString:
		return "UnterminatedString"
	default:
		return "Unknown"
	}
}

// Code returns the foundation error code for the kind
func (k ErrorKind) Code() mdwerror.Code {
	switch k {
	case UnmatchedClose:
		return mdwerror.CodeUnmatchedClose
	case StringDecode:
		return mdwerror.CodeStringDecode
	case UnterminatedString:
		return mdwerror.CodeUnterminatedString
	default:
		return mdwerror.CodeUnknown
	}
}

// ParseError is the single terminal failure of a Tokenize or Parse call
type ParseError struct {
	Kind    ErrorKind
	Span    Span
	Message string
	Cause   error
}

// Error renders "line L, column C: message"
func (pe *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", pe.Span.Line, pe.Span.Column, pe.Message)
}

// Unwrap returns the decoder error for StringDecode failures
func (pe *ParseError) Unwrap() error {
	return pe.Cause
}

// MDWError converts the parse error to a foundation error
func (pe *ParseError) MDWError() *mdwerror.Error {
	var err *mdwerror.Error
	if pe.Cause != nil {
		err = mdwerror.Wrap(pe.Cause, pe.Error())
	} else {
		err = mdwerror.New(pe.Error())
	}
	return err.
		WithCode(pe.Kind.Code()).
		WithOperation("parser.Parse").
		WithDetail("line", pe.Span.Line).
		WithDetail("column", pe.Span.Column).
		WithDetail("offset", pe.Span.Start)
}

// MarshalJSON renders the error for API responses
func (pe *ParseError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string `json:"kind"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Line    int    `json:"line"`
		Column  int    `json:"column"`
		Offset  int    `json:"offset"`
	}{
		Kind:    pe.Kind.String(),
		Code:    pe.Kind.Code().String(),
		Message: pe.Message,
		Line:    pe.Span.Line,
		Column:  pe.Span.Column,
		Offset:  pe.Span.Start,
	})
}

func newParseError(kind ErrorKind, span Span, message string, cause error) *ParseError {
	return &ParseError{
		Kind:    kind,
		Span:    span,
		Message: message,
		Cause:   cause,
	}
}
