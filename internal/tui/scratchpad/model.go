// ============================================================================
// sexpad - S-expression scratchpad
// ============================================================================
//
// Package:     scratchpad
// Description: Bubbletea model for the terminal scratchpad: an editor whose
//              submissions are read and shown as canonical text and tree
// Author:      Mike Stoffels
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package scratchpad

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/sexpad/foundation/sexpr/ast"
	"github.com/msto63/sexpad/internal/scratchpad/service"
)

// Submitter reads a source text. *service.Service implements it.
type Submitter interface {
	Submit(ctx context.Context, source string) (*service.Result, error)
}

// Config holds scratchpad configuration
type Config struct {
	Submitter     Submitter
	Title         string
	CharLimit     int
	SubmitTimeout time.Duration
	MaxEntries    int // oldest entries are dropped beyond this
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Title:         "sexpad",
		CharLimit:     64 * 1024,
		SubmitTimeout: 5 * time.Second,
		MaxEntries:    50,
	}
}

// Model is the Bubbletea model for the scratchpad
type Model struct {
	width   int
	height  int
	ready   bool
	loading bool

	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	entries []Entry
	config  Config
}

// New creates a new scratchpad model
func New(cfg Config) Model {
	defaults := DefaultConfig()
	if cfg.Title == "" {
		cfg.Title = defaults.Title
	}
	if cfg.CharLimit <= 0 {
		cfg.CharLimit = defaults.CharLimit
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = defaults.SubmitTimeout
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = defaults.MaxEntries
	}

	ta := textarea.New()
	ta.Placeholder = "(define greeting \"hello\") ; ctrl+s or alt+enter to read"
	ta.Focus()
	ta.CharLimit = cfg.CharLimit
	ta.SetWidth(80)
	ta.SetHeight(6)
	ta.ShowLineNumbers = true
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = FocusedInputStyle
	ta.BlurredStyle.Base = InputStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	return Model{
		textarea: ta,
		spinner:  sp,
		entries:  []Entry{},
		config:   cfg,
	}
}

// Entries returns the submissions shown so far, oldest first
func (m Model) Entries() []Entry {
	return m.entries
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+s", "alt+enter":
			return m.submit()
		case "ctrl+l":
			m.entries = m.entries[:0]
			m.updateViewportContent()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := m.textarea.Height() + 4
		viewportHeight := msg.Height - headerHeight - footerHeight - 2
		if viewportHeight < 3 {
			viewportHeight = 3
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.textarea.SetWidth(msg.Width - 2)
		m.updateViewportContent()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case submitResultMsg:
		m.loading = false
		m.entries = append(m.entries, Entry{
			Source:   msg.source,
			Result:   msg.result,
			Err:      msg.err,
			Duration: msg.duration,
		})
		if over := len(m.entries) - m.config.MaxEntries; over > 0 {
			m.entries = m.entries[over:]
		}
		m.updateViewportContent()
		m.viewport.GotoBottom()
	}

	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit sends the editor content to the reader and clears the editor
func (m Model) submit() (tea.Model, tea.Cmd) {
	source := m.textarea.Value()
	if strings.TrimSpace(source) == "" || m.loading || m.config.Submitter == nil {
		return m, nil
	}

	m.textarea.Reset()
	m.loading = true

	submitter := m.config.Submitter
	timeout := m.config.SubmitTimeout
	read := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		result, err := submitter.Submit(ctx, source)
		return submitResultMsg{
			source:   source,
			result:   result,
			err:      err,
			duration: time.Since(start),
		}
	}

	return m, tea.Batch(read, m.spinner.Tick)
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	if len(m.entries) == 0 {
		m.viewport.SetContent(SubtitleStyle.Render("Nothing read yet."))
		return
	}

	parts := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		parts = append(parts, RenderEntry(e))
	}
	m.viewport.SetContent(strings.Join(parts, "\n\n"))
}

// RenderEntry renders one submission: the source, then either the
// canonical text with its tree or the error with its position
func RenderEntry(e Entry) string {
	var sb strings.Builder

	for _, line := range strings.Split(strings.TrimRight(e.Source, "\n"), "\n") {
		sb.WriteString(SourceStyle.Render("› " + line))
		sb.WriteByte('\n')
	}

	switch {
	case e.Err != nil:
		sb.WriteString(ErrorStyle.Render("error"))
		sb.WriteByte(' ')
		sb.WriteString(ErrorDetailStyle.Render(e.Err.Error()))

	case e.Result != nil && e.Result.Error != nil:
		pe := e.Result.Error
		sb.WriteString(ErrorStyle.Render(pe.Kind.String()))
		sb.WriteByte(' ')
		sb.WriteString(ErrorDetailStyle.Render(pe.Error()))

	case e.Result != nil:
		if e.Result.Canonical == "" {
			sb.WriteString(SubtitleStyle.Render("(no expressions)"))
			break
		}
		sb.WriteString(CanonicalStyle.Render(e.Result.Canonical))
		sb.WriteByte('\n')
		tree := ast.NewTreePrinter().Print(e.Result.Exprs)
		sb.WriteString(TreeStyle.Render(strings.TrimRight(tree, "\n")))
	}

	return sb.String()
}

// View renders the model
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := TitleStyle.Render(m.config.Title) + "  " + SubtitleStyle.Render("S-expression scratchpad")
	output := OutputPanelStyle.Width(m.width - 2).Render(m.viewport.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		output,
		m.textarea.View(),
		m.statusBar(),
	)
}

func (m Model) statusBar() string {
	var status string
	switch {
	case m.loading:
		status = m.spinner.View() + " reading"
	case len(m.entries) == 0:
		status = "ready"
	case m.entries[len(m.entries)-1].Failed():
		status = StatusErrorStyle.Render("✗ error")
	default:
		last := m.entries[len(m.entries)-1]
		status = StatusOKStyle.Render(fmt.Sprintf("✓ %d expr", len(last.Result.Exprs)))
	}

	help := strings.Join([]string{
		HelpKeyStyle.Render("ctrl+s") + HelpDescStyle.Render(" read"),
		HelpKeyStyle.Render("ctrl+l") + HelpDescStyle.Render(" clear"),
		HelpKeyStyle.Render("esc") + HelpDescStyle.Render(" quit"),
	}, "  ")

	return StatusBarStyle.Width(m.width).Render(status + "  " + help)
}

// Run starts the scratchpad program
func Run(cfg Config) error {
	_, err := tea.NewProgram(New(cfg), tea.WithAltScreen()).Run()
	return err
}
