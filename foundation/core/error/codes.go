// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across sexpad and their mapping
//              to categories, HTTP status codes and gRPC status codes.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-18 v0.2.0: Reader codes, gRPC mapping

package error

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Reader
	CodeUnmatchedClose     Code = "SEXPR_UNMATCHED_CLOSE"
	CodeStringDecode       Code = "SEXPR_STRING_DECODE"
	CodeUnterminatedString Code = "SEXPR_UNTERMINATED_STRING"

	// Storage
	CodeDatabaseError    Code = "DATABASE_ERROR"
	CodeConnectionFailed Code = "CONNECTION_FAILED"

	// Service and network
	CodeServiceUnavailable    Code = "SERVICE_UNAVAILABLE"
	CodeNetworkError          Code = "NETWORK_ERROR"
	CodeServiceInitialization Code = "SERVICE_INITIALIZATION"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Validation
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeRequiredField    Code = "REQUIRED_FIELD"
	CodeInvalidFormat    Code = "INVALID_FORMAT"
	CodeInvalidLength    Code = "INVALID_LENGTH"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout,
		CodeUnmatchedClose, CodeStringDecode, CodeUnterminatedString,
		CodeDatabaseError, CodeConnectionFailed,
		CodeServiceUnavailable, CodeNetworkError, CodeServiceInitialization,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig,
		CodeValidationFailed, CodeRequiredField, CodeInvalidFormat, CodeInvalidLength:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeUnmatchedClose, CodeStringDecode, CodeUnterminatedString:
		return "sexpr"
	case CodeDatabaseError, CodeConnectionFailed:
		return "database"
	case CodeServiceUnavailable, CodeNetworkError, CodeServiceInitialization:
		return "service"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "configuration"
	case CodeValidationFailed, CodeRequiredField, CodeInvalidFormat, CodeInvalidLength:
		return "validation"
	default:
		return "generic"
	}
}

// HTTPStatus returns the appropriate HTTP status code for this error code
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidInput, CodeValidationFailed, CodeRequiredField, CodeInvalidFormat,
		CodeUnmatchedClose, CodeStringDecode, CodeUnterminatedString:
		return http.StatusBadRequest
	case CodeInvalidLength:
		return http.StatusRequestEntityTooLarge
	case CodeTimeout:
		return http.StatusRequestTimeout
	case CodeServiceUnavailable, CodeDatabaseError, CodeConnectionFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GRPCCode returns the gRPC status code matching this error code
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeNotFound:
		return codes.NotFound
	case CodeInvalidInput, CodeValidationFailed, CodeRequiredField, CodeInvalidFormat,
		CodeUnmatchedClose, CodeStringDecode, CodeUnterminatedString:
		return codes.InvalidArgument
	case CodeInvalidLength:
		return codes.ResourceExhausted
	case CodeTimeout:
		return codes.DeadlineExceeded
	case CodeServiceUnavailable, CodeDatabaseError, CodeConnectionFailed:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}
