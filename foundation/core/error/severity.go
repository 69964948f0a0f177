// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors. The logger uses them to
//              pick the level an error is reported at.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-18 v0.2.0: Severity mapping for reader codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a problem with caller input, such as malformed source text
	SeverityLow Severity = iota

	// SeverityMedium indicates an error that affects functionality but has workarounds
	SeverityMedium

	// SeverityHigh indicates a serious error such as a broken history database
	SeverityHigh

	// SeverityCritical indicates the process cannot continue
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeServiceInitialization:
		return SeverityCritical

	case CodeDatabaseError, CodeConnectionFailed, CodeServiceUnavailable:
		return SeverityHigh

	case CodeInvalidInput, CodeNotFound, CodeValidationFailed, CodeRequiredField,
		CodeInvalidFormat, CodeInvalidLength,
		CodeUnmatchedClose, CodeStringDecode, CodeUnterminatedString:
		return SeverityLow

	default:
		return SeverityMedium
	}
}
