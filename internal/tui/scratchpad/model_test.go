package scratchpad

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	mdwlog "github.com/msto63/sexpad/foundation/core/log"
	"github.com/msto63/sexpad/internal/scratchpad/service"
	"github.com/msto63/sexpad/pkg/core/logging"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	svc, err := service.NewService(service.Config{
		Logger: logging.Wrap(mdwlog.New().WithOutput(io.Discard), "test"),
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	cfg := DefaultConfig()
	cfg.Submitter = svc
	m := New(cfg)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

// submitSource types source, presses key and feeds the read result back
func submitSource(t *testing.T, m Model, source string, key tea.KeyMsg) Model {
	t.Helper()
	m.textarea.SetValue(source)

	updated, cmd := m.Update(key)
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("Expected a read command")
	}
	if m.textarea.Value() != "" {
		t.Errorf("editor should be cleared after submit, got %q", m.textarea.Value())
	}
	if !m.loading {
		t.Error("model should be loading while the read is pending")
	}

	msg := findSubmitResult(cmd())
	if msg == nil {
		t.Fatal("read command produced no result")
	}
	updated, _ = m.Update(*msg)
	return updated.(Model)
}

func findSubmitResult(msg tea.Msg) *submitResultMsg {
	switch msg := msg.(type) {
	case submitResultMsg:
		return &msg
	case tea.BatchMsg:
		for _, cmd := range msg {
			if cmd == nil {
				continue
			}
			if res := findSubmitResult(cmd()); res != nil {
				return res
			}
		}
	}
	return nil
}

func TestSubmitKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{name: "ctrl+s", key: tea.KeyMsg{Type: tea.KeyCtrlS}},
		{name: "alt+enter", key: tea.KeyMsg{Type: tea.KeyEnter, Alt: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := submitSource(t, newTestModel(t), "[a 1.0]", tt.key)

			entries := m.Entries()
			if len(entries) != 1 {
				t.Fatalf("Expected 1 entry, got %d", len(entries))
			}
			if entries[0].Failed() {
				t.Fatalf("unexpected failure: %+v", entries[0])
			}
			if entries[0].Result.Canonical != "(a 1)" {
				t.Errorf("Canonical = %q", entries[0].Result.Canonical)
			}
			if m.loading {
				t.Error("loading should be reset")
			}
		})
	}
}

func TestSubmitParseError(t *testing.T) {
	m := submitSource(t, newTestModel(t), "(a)\n)", tea.KeyMsg{Type: tea.KeyCtrlS})

	entry := m.Entries()[0]
	if !entry.Failed() {
		t.Fatal("Expected failed entry")
	}

	rendered := RenderEntry(entry)
	if !strings.Contains(rendered, "line 2, column 1") {
		t.Errorf("rendered entry lacks position: %q", rendered)
	}
	if !strings.Contains(m.View(), "error") {
		t.Error("status bar should report the error")
	}
}

func TestEmptySubmitIgnored(t *testing.T) {
	m := newTestModel(t)
	m.textarea.SetValue("   \n ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("blank editor should not be submitted")
	}
	if updated.(Model).loading {
		t.Error("model should not be loading")
	}
}

func TestClearEntries(t *testing.T) {
	m := submitSource(t, newTestModel(t), "x", tea.KeyMsg{Type: tea.KeyCtrlS})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if n := len(updated.(Model).Entries()); n != 0 {
		t.Errorf("Expected no entries after clear, got %d", n)
	}
}

func TestMaxEntries(t *testing.T) {
	m := newTestModel(t)
	m.config.MaxEntries = 2

	for _, src := range []string{"a", "b", "c"} {
		m = submitSource(t, m, src, tea.KeyMsg{Type: tea.KeyCtrlS})
	}

	entries := m.Entries()
	if len(entries) != 2 || entries[0].Source != "b" || entries[1].Source != "c" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestRenderEntry(t *testing.T) {
	svc, _ := service.NewService(service.Config{
		Logger: logging.Wrap(mdwlog.New().WithOutput(io.Discard), "test"),
	})
	result, err := svc.Submit(context.Background(), `(greet "hi")`)
	if err != nil {
		t.Fatal(err)
	}

	rendered := RenderEntry(Entry{Source: `(greet "hi")`, Result: result})
	for _, want := range []string{`(greet "hi")`, "list (2)", "symbol greet", `string "hi"`} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered entry missing %q:\n%s", want, rendered)
		}
	}

	failed := RenderEntry(Entry{Source: "x", Err: errors.New("source exceeds maximum length")})
	if !strings.Contains(failed, "source exceeds maximum length") {
		t.Errorf("service error not rendered: %q", failed)
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t)
	for _, key := range []tea.KeyMsg{{Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s should quit", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should produce tea.QuitMsg", key)
		}
	}
}
