// ============================================================================
// sexpad - S-expression scratchpad
// ============================================================================
//
// Package:     scratchpad
// Description: Lipgloss styles for the terminal scratchpad
// Author:      Mike Stoffels
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package scratchpad

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorAccent    = lipgloss.Color("#F59E0B")
	ColorError     = lipgloss.Color("#EF4444")
	ColorText      = lipgloss.Color("#F9FAFB")
	ColorTextMuted = lipgloss.Color("#9CA3AF")
	ColorDimmed    = lipgloss.Color("#4B5563")
	ColorBgPanel   = lipgloss.Color("#1F2937")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Output panel styles
var (
	OutputPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorDimmed).
				Padding(0, 1)

	SourceStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	CanonicalStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	TreeStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			PaddingLeft(2)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	ErrorDetailStyle = lipgloss.NewStyle().
				Foreground(ColorError)
)

// Input styles
var (
	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimmed).
			Padding(0, 1)

	FocusedInputStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)
)
