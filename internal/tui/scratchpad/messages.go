// ============================================================================
// sexpad - S-expression scratchpad
// ============================================================================
//
// Package:     scratchpad
// Description: Entries and async message types for the terminal scratchpad
// Author:      Mike Stoffels
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package scratchpad

import (
	"time"

	"github.com/msto63/sexpad/internal/scratchpad/service"
)

// Entry is one submission shown in the output panel
type Entry struct {
	Source   string
	Result   *service.Result
	Err      error // service failure, e.g. source too long
	Duration time.Duration
}

// Failed reports whether the entry carries a parse or service error
func (e Entry) Failed() bool {
	return e.Err != nil || (e.Result != nil && e.Result.Error != nil)
}

// submitResultMsg is sent when a submission completes
type submitResultMsg struct {
	source   string
	result   *service.Result
	err      error
	duration time.Duration
}
