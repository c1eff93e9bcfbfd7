package repl

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/langgen/lang"
)

// commandPrefix starts a REPL command such as ":env".
const commandPrefix = ":"

// commands lists the REPL commands with their help text.
var commands = []struct{ name, help string }{
	{"env", "list bindings in scope"},
	{"reset", "discard every binding"},
	{"clear", "clear the screen"},
	{"help", "print this help"},
	{"quit", "exit the REPL"},
}

// Session evaluates input lines against a persistent root environment.
type Session struct {
	lang *lang.Language
	env  *lang.Environment
}

// NewSession returns a Session for l with an empty environment.
func NewSession(l *lang.Language) (*Session, error) {
	if l == nil {
		return nil, ErrNoLanguage
	}

	return &Session{lang: l, env: l.NewEnvironment()}, nil
}

// Env returns the session's root environment.
func (s *Session) Env() *lang.Environment { return s.env }

// Eval evaluates src and returns the repr of its last statement. Bindings
// declared by src persist in the session.
func (s *Session) Eval(ctx context.Context, src string) (string, error) {
	v, report, err := s.lang.Eval(ctx, src, s.env)
	if err != nil {
		return "", err
	}

	s.lang.Logger.DebugContext(ctx, "repl eval",
		slog.Int("statements", len(report)),
		slog.String("type", v.Type()))

	return v.Repr(), nil
}

// action is the effect of a REPL command on the terminal.
type action int

const (
	actionPrint action = iota
	actionClear
	actionQuit
)

// Command runs the REPL command in line, which begins with ":".
func (s *Session) Command(line string) (string, action, error) {
	name, _, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(line), commandPrefix), " ")

	switch name {
	case "env", "e":
		return s.listEnv(), actionPrint, nil

	case "reset", "r":
		s.env = s.lang.NewEnvironment()

		return "environment reset", actionPrint, nil

	case "clear", "c":
		return "", actionClear, nil

	case "help", "h", "?":
		return helpText(), actionPrint, nil

	case "quit", "q", "exit":
		return "", actionQuit, nil

	default:
		return "", actionPrint, ErrUnknownCommand
	}
}

func (s *Session) listEnv() string {
	names := s.env.Names()
	if len(names) == 0 {
		return "(no bindings)"
	}

	var b strings.Builder

	for i, name := range names {
		slot, _ := s.env.Lookup(name)
		if i > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(name + " = " + slot.Value.Repr())

		if len(slot.Properties) > 0 {
			b.WriteString(" " + formatProperties(slot.Properties))
		}
	}

	return b.String()
}

func formatProperties(props map[string]string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + props[k]
	}

	return "[" + strings.Join(parts, " ") + "]"
}

func helpText() string {
	var b strings.Builder

	b.WriteString("Enter statements to evaluate them. Bindings persist between lines.\n\n")
	b.WriteString("Commands:\n")

	for _, c := range commands {
		b.WriteString("  " + commandPrefix + c.name + "\t" + c.help + "\n")
	}

	b.WriteString("\nTab and Shift-Tab cycle completions. Up and Down walk history.\n")
	b.WriteString("Ctrl-C clears the line or exits when it is empty. Ctrl-D exits.")

	return b.String()
}
