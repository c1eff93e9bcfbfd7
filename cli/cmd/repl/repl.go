package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/langgen/lang"
	"github.com/ardnew/langgen/log"
)

const (
	evalPrompt   = "➜ "
	defaultWidth = 80
)

var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	commandStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// Run starts an interactive session for l. History is loaded from and
// appended to historyPath, or kept in memory if historyPath is empty.
func Run(
	ctx context.Context,
	l *lang.Language,
	historyPath string,
	opts ...tea.ProgramOption,
) error {
	session, err := NewSession(l)
	if err != nil {
		return err
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		log.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.Any("error", err))
	}

	l.Logger.TraceContext(ctx, "repl start",
		slog.String("language", l.Name),
		slog.String("history", historyPath),
		slog.Int("history_len", history.Len()))

	p := tea.NewProgram(newModel(ctx, session, history),
		append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)

	_, err = p.Run()

	return err
}

// model is the bubbletea model of the REPL.
type model struct {
	ctx     context.Context //nolint:containedctx
	session *Session
	history *History
	input   textinput.Model
	width   int

	historyIdx int // history.Len() when not browsing
	draft      string

	matches   fuzzy.Matches
	wordStart int
	wordEnd   int
	selected  int // -1 unless cycling
	preTab    string
	preCursor int

	quitting bool
}

func newModel(ctx context.Context, s *Session, h *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.CharLimit = 4096
	ti.Width = defaultWidth - len(evalPrompt)
	ti.Focus()

	return model{
		ctx:        ctx,
		session:    s,
		history:    h,
		input:      ti,
		width:      defaultWidth,
		historyIdx: h.Len(),
		selected:   -1,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(evalPrompt)-2, 1)

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var hint string

	switch input := m.input.Value(); {
	case m.historyIdx < m.history.Len():
		hint = hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))

	case strings.TrimSpace(input) == "":
		hint = hintStyle.Render("Enter a statement, or :help for commands")

	default:
		hint = renderCandidateBar(m.matches, m.selected, m.width)
	}

	return m.input.View() + "\n" + hint + "\n"
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.setInput("")

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.selected >= 0 {
			m.selected = -1
			m.refresh()

			return m, nil
		}

		return m.execute()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.browse(-1), nil

	case tea.KeyDown:
		return m.browse(1), nil

	case tea.KeyEsc:
		if m.selected >= 0 {
			m.input.SetValue(m.preTab)
			m.input.SetCursor(m.preCursor)
			m.selected = -1
			m.refresh()
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.selected = -1
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh()

	return m, cmd
}

// setInput replaces the input line and leaves history browsing.
func (m *model) setInput(s string) {
	m.input.SetValue(s)
	m.input.SetCursor(len(s))
	m.historyIdx = m.history.Len()
	m.selected = -1
	m.refresh()
}

// refresh recomputes completions for the word at the cursor.
func (m *model) refresh() {
	m.matches, m.wordStart, m.wordEnd = complete(
		m.input.Value(), m.input.Position(), m.session.Env().Names())

	m.input.Prompt = promptStyle.Render(evalPrompt)
	if isCommand(m.input.Value()) {
		m.input.Prompt = commandStyle.Render(evalPrompt)
	}
}

// cycle selects the next (dir > 0) or previous completion. A single match
// is accepted immediately.
func (m model) cycle(dir int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if m.selected < 0 {
		m.preTab = m.input.Value()
		m.preCursor = m.input.Position()
	}

	switch {
	case n == 1:
		m.replaceWord(m.matches[0].Str)
		m.selected = -1
		m.matches = nil

		return m

	case m.selected < 0 && dir > 0:
		m.selected = 0

	case m.selected < 0:
		m.selected = n - 1

	default:
		m.selected = (m.selected + dir + n) % n
	}

	m.replaceWord(m.matches[m.selected].Str)

	return m
}

func (m *model) replaceWord(s string) {
	in := m.input.Value()
	m.input.SetValue(in[:m.wordStart] + s + in[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(s))
	m.wordEnd = m.wordStart + len(s)
}

// browse moves through history. Moving past the newest entry restores the
// line being edited before browsing began.
func (m model) browse(dir int) model {
	n := m.history.Len()
	if m.historyIdx == n {
		m.draft = m.input.Value()
	}

	idx := min(max(m.historyIdx+dir, 0), n)
	if idx == m.historyIdx {
		return m
	}

	line := m.draft
	if idx < n {
		line, _ = m.history.Entry(idx)
	}

	m.input.SetValue(line)
	m.input.SetCursor(len(line))
	m.historyIdx = idx
	m.selected = -1
	m.refresh()

	return m
}

// execute evaluates or runs the current line and prints its echo and output
// above the input.
func (m model) execute() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())

	m.setInput("")
	m.draft = ""

	if line == "" {
		return m, nil
	}

	if err := m.history.Add(line); err != nil {
		log.WarnContext(m.ctx, "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(line))

	if isCommand(line) {
		out, act, err := m.session.Command(line)

		switch {
		case err != nil:
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))

		case act == actionQuit:
			m.quitting = true

			return m, tea.Sequence(echo, tea.Quit)

		case act == actionClear:
			return m, tea.ClearScreen

		default:
			return m, tea.Sequence(echo, tea.Println(hintStyle.Render(out)))
		}
	}

	result, err := m.session.Eval(m.ctx, line)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(result)))
}
