package repl

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testModel(t *testing.T, history ...string) model {
	t.Helper()

	h := NewHistory("")
	for _, line := range history {
		if err := h.Add(line); err != nil {
			t.Fatal(err)
		}
	}

	return newModel(t.Context(), newSession(t), h)
}

func typeText(m model, s string) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})

	return m
}

func press(m model, k tea.KeyType) (model, tea.Cmd) {
	return m.handleKey(tea.KeyMsg{Type: k})
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}

	_, ok := cmd().(tea.QuitMsg)

	return ok
}

func TestModel_TabCompletesSingleMatch(t *testing.T) {
	m := typeText(testModel(t), "cons")

	m, _ = press(m, tea.KeyTab)

	if got := m.input.Value(); got != "const" {
		t.Errorf("input = %q, want const", got)
	}

	if m.selected != -1 {
		t.Errorf("selected = %d after single completion", m.selected)
	}
}

func TestModel_TabCyclesAndEscRestores(t *testing.T) {
	m := typeText(testModel(t), "e")
	if len(m.matches) < 2 {
		t.Fatalf("matches = %d, want several", len(m.matches))
	}

	m, _ = press(m, tea.KeyTab)
	first := m.input.Value()

	m, _ = press(m, tea.KeyTab)
	if m.input.Value() == first {
		t.Error("second Tab did not advance")
	}

	m, _ = press(m, tea.KeyShiftTab)
	if m.input.Value() != first {
		t.Errorf("Shift-Tab = %q, want %q", m.input.Value(), first)
	}

	m, _ = press(m, tea.KeyEsc)
	if m.input.Value() != "e" || m.selected != -1 {
		t.Errorf("Esc left input %q, selected %d", m.input.Value(), m.selected)
	}
}

func TestModel_EnterEvaluates(t *testing.T) {
	m := typeText(testModel(t), "let x: number = 4")

	m, cmd := press(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("Enter returned no command")
	}

	if m.input.Value() != "" {
		t.Errorf("input = %q after Enter", m.input.Value())
	}

	if !m.session.Env().Has("x") {
		t.Error("declaration was not evaluated")
	}

	if m.history.Len() != 1 {
		t.Errorf("history has %d entries", m.history.Len())
	}

	// Names in scope become completions.
	m = typeText(m, "x")
	if len(m.matches) == 0 || m.matches[0].Str != "x" {
		t.Errorf("matches = %v, want x first", m.matches)
	}
}

func TestModel_QuitCommand(t *testing.T) {
	m := typeText(testModel(t), ":quit")

	m, cmd := press(m, tea.KeyEnter)
	if !m.quitting || cmd == nil {
		t.Errorf("quitting = %v, cmd = %v", m.quitting, cmd)
	}

	if m.View() != "" {
		t.Error("View() not empty after quit")
	}
}

func TestModel_CtrlC(t *testing.T) {
	m := typeText(testModel(t), "1 + 1")

	m, cmd := press(m, tea.KeyCtrlC)
	if m.input.Value() != "" || m.quitting {
		t.Fatalf("Ctrl-C on text: input %q, quitting %v", m.input.Value(), m.quitting)
	}

	if isQuit(cmd) {
		t.Error("Ctrl-C on text quit")
	}

	m, cmd = press(m, tea.KeyCtrlC)
	if !m.quitting || !isQuit(cmd) {
		t.Error("Ctrl-C on empty line did not quit")
	}
}

func TestModel_HistoryBrowse(t *testing.T) {
	m := typeText(testModel(t, "first", "second"), "draft")

	steps := []struct {
		key  tea.KeyType
		want string
	}{
		{tea.KeyUp, "second"},
		{tea.KeyUp, "first"},
		{tea.KeyUp, "first"},
		{tea.KeyDown, "second"},
		{tea.KeyDown, "draft"},
		{tea.KeyDown, "draft"},
	}

	for i, step := range steps {
		m, _ = press(m, step.key)
		if got := m.input.Value(); got != step.want {
			t.Errorf("step %d: input = %q, want %q", i, got, step.want)
		}
	}
}

func TestModel_WindowSize(t *testing.T) {
	next, _ := testModel(t).Update(tea.WindowSizeMsg{Width: 40, Height: 10})

	m, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}

	if m.width != 40 {
		t.Errorf("width = %d, want 40", m.width)
	}
}
