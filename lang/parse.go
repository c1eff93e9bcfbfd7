package lang

import (
	"context"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/langgen/log"
)

// Tokens is a cursor over a token sequence. Productions consume tokens from
// the front. Reading past the end yields an [EOF] token.
type Tokens struct {
	toks []Token
	pos  int
}

// NewTokens returns a cursor positioned at the first token.
func NewTokens(toks []Token) *Tokens {
	return &Tokens{toks: toks}
}

// Peek returns the next unconsumed token without consuming it.
func (t *Tokens) Peek() Token {
	return t.PeekN(0)
}

// PeekN returns the token n positions past the next unconsumed token.
func (t *Tokens) PeekN(n int) Token {
	if i := t.pos + n; i >= 0 && i < len(t.toks) {
		return t.toks[i]
	}

	return Token{Type: EOF}
}

// Next consumes and returns the next token.
func (t *Tokens) Next() Token {
	tok := t.Peek()
	if t.pos < len(t.toks) {
		t.pos++
	}

	return tok
}

// Accept consumes the next token if it has type typ and, when values are
// given, one of those values.
func (t *Tokens) Accept(typ string, values ...string) (Token, bool) {
	tok := t.Peek()
	if tok.Type != typ {
		return Token{}, false
	}

	if len(values) > 0 && !slices.Contains(values, tok.Value) {
		return Token{}, false
	}

	return t.Next(), true
}

// Expect consumes the next token, failing if its type is not typ.
func (t *Tokens) Expect(typ string) (Token, error) {
	tok, ok := t.Accept(typ)
	if !ok {
		got := t.Peek()

		return Token{}, ErrExpectedToken.With(
			slog.String("expected", typ),
			slog.String("type", got.Type),
			slog.String("value", got.Value),
		)
	}

	return tok, nil
}

// Mark returns the current position for use with [Tokens.Reset].
func (t *Tokens) Mark() int { return t.pos }

// Reset moves the cursor back to a position returned by [Tokens.Mark].
func (t *Tokens) Reset(mark int) { t.pos = min(max(mark, 0), len(t.toks)) }

// Remaining returns the unconsumed tokens.
func (t *Tokens) Remaining() []Token { return t.toks[t.pos:] }

// ParseFunc is a grammar production.
//
// It returns (nil, nil) when the next tokens do not start the production, so
// that the caller may try an alternative. It returns an error when the
// production started but could not be completed.
type ParseFunc func(*Tokens) (Node, error)

// Production is a registered grammar rule.
type Production struct {
	Parse ParseFunc
	// TopLevel marks a production eligible to start a statement.
	TopLevel bool
}

// Strategy decides which top-level production wins a statement position.
type Strategy int

const (
	// FirstMatch selects the earliest matching production in registration
	// order. Later productions are not attempted.
	FirstMatch Strategy = iota
	// LastMatch attempts every top-level production and selects the latest
	// one that matches.
	LastMatch
	// LongestMatch attempts every top-level production and selects the one
	// that consumes the most tokens. Ties go to the earliest.
	LongestMatch
)

// String returns the name of s.
func (s Strategy) String() string {
	switch s {
	case FirstMatch:
		return "first"
	case LastMatch:
		return "last"
	case LongestMatch:
		return "longest"
	default:
		return "Strategy(" + strconv.Itoa(int(s)) + ")"
	}
}

// Strategies returns the names accepted by [ParseStrategy].
func Strategies() []string {
	return []string{FirstMatch.String(), LastMatch.String(), LongestMatch.String()}
}

// ParseStrategy returns the strategy with the given name.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range []Strategy{FirstMatch, LastMatch, LongestMatch} {
		if strings.EqualFold(strings.TrimSpace(name), s.String()) {
			return s, nil
		}
	}

	return FirstMatch, NewError("unknown strategy").
		With(slog.String("name", name))
}

type entry struct {
	name string
	Production
}

// Registry is an ordered set of named productions.
type Registry struct {
	entries  []entry
	strategy Strategy
	logger   log.Logger
}

// RegistryOption configures a [Registry].
type RegistryOption func(*Registry)

// WithStrategy sets the top-level selection strategy.
func WithStrategy(s Strategy) RegistryOption {
	return func(r *Registry) { r.strategy = s }
}

// WithParseLogger sets the logger used while parsing.
func WithParseLogger(logger log.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// NumberExpressionProduction is the name under which [ParseNumberExpression]
// is registered by [NewRegistry].
const NumberExpressionProduction = NumberExpressionType

// NewRegistry returns a registry containing only the top-level
// NumberExpression production.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := new(Registry)

	for _, opt := range opts {
		opt(r)
	}

	r.Register(NumberExpressionProduction, Production{
		Parse:    ParseNumberExpression,
		TopLevel: true,
	})

	return r
}

// Strategy returns the top-level selection strategy.
func (r *Registry) Strategy() Strategy { return r.strategy }

// Register adds a production. Registering an existing name replaces that
// production in place.
func (r *Registry) Register(name string, p Production) {
	if i := r.index(name); i >= 0 {
		r.entries[i].Production = p

		return
	}

	r.entries = append(r.entries, entry{name: name, Production: p})
}

// Demote marks a production as reachable only from other productions.
func (r *Registry) Demote(name string) error {
	return r.setTopLevel(name, false)
}

// Promote marks a production eligible to start a statement.
func (r *Registry) Promote(name string) error {
	return r.setTopLevel(name, true)
}

// Lookup returns the production registered as name.
func (r *Registry) Lookup(name string) (Production, bool) {
	if i := r.index(name); i >= 0 {
		return r.entries[i].Production, true
	}

	return Production{}, false
}

// TopLevel returns the top-level productions in priority order.
func (r *Registry) TopLevel() iter.Seq2[string, Production] {
	return func(yield func(string, Production) bool) {
		for _, e := range r.entries {
			if e.TopLevel && !yield(e.name, e.Production) {
				return
			}
		}
	}
}

// Names returns the registered production names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}

	return names
}

func (r *Registry) index(name string) int {
	return slices.IndexFunc(r.entries, func(e entry) bool {
		return e.name == name
	})
}

func (r *Registry) setTopLevel(name string, top bool) error {
	i := r.index(name)
	if i < 0 {
		return ErrNoProduction.With(slog.String("name", name))
	}

	r.entries[i].TopLevel = top

	return nil
}

// Parse consumes tokens until [EOF] and returns the statements as a Scope.
//
// On success only the EOF token remains in ts.
func Parse(ctx context.Context, r *Registry, ts *Tokens) (*Scope, error) {
	program := new(Scope)

	for ts.Peek().Type != EOF {
		stmt, err := r.Statement(ts)
		if err != nil {
			return nil, err
		}

		r.logger.TraceContext(ctx, "parse statement",
			slog.String("type", stmt.Type()),
			slog.Int("position", ts.Mark()))

		program.Append(stmt)
	}

	r.logger.DebugContext(ctx, "parse complete",
		slog.Int("statement_count", program.Len()),
		slog.String("strategy", r.strategy.String()))

	return program, nil
}

// Statement parses one statement using the registry's top-level productions.
func (r *Registry) Statement(ts *Tokens) (Node, error) {
	start := ts.Mark()

	var (
		best    Node
		bestEnd = -1
	)

	for name, p := range r.TopLevel() {
		ts.Reset(start)

		node, err := p.Parse(ts)
		if err != nil {
			return nil, err
		}

		if node == nil {
			continue
		}

		end := ts.Mark()
		if end == start {
			return nil, ErrNoProgress.With(slog.String("production", name))
		}

		switch r.strategy {
		case FirstMatch:
			return node, nil

		case LongestMatch:
			if end <= bestEnd {
				continue
			}
		}

		best, bestEnd = node, end
	}

	if best == nil {
		ts.Reset(start)

		tok := ts.Peek()

		return nil, ErrUnknownToken.With(
			slog.String("type", tok.Type),
			slog.String("value", tok.Value),
		)
	}

	ts.Reset(bestEnd)

	return best, nil
}

// ParseNumberExpression parses a [NumberToken] into a [NumberExpression].
func ParseNumberExpression(ts *Tokens) (Node, error) {
	tok, ok := ts.Accept(NumberToken)
	if !ok {
		return nil, nil
	}

	v, err := strconv.ParseFloat(tok.Value, 64)
	if err == nil {
		return &NumberExpression{Value: v}, nil
	}

	if text, ok := normalizeNumber(tok.Value); ok {
		if v, nerr := strconv.ParseFloat(text, 64); nerr == nil {
			return &NumberExpression{Value: v}, nil
		}
	}

	return nil, ErrMalformedNumber.With(slog.String("value", tok.Value)).Wrap(err)
}

// normalizeNumber rewrites a literal using a non-default decimal separator
// into the form accepted by [strconv.ParseFloat]. A leading sign is kept,
// underscores between digits are dropped, and exactly one other non-digit
// rune is read as the separator. It reports false for anything else.
func normalizeNumber(s string) (string, bool) {
	var (
		b   strings.Builder
		sep bool
	)

	isDigit := func(i int) bool { return i >= 0 && i < len(s) && s[i] >= '0' && s[i] <= '9' }

	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)

		case (r == '+' || r == '-') && i == 0:
			b.WriteRune(r)

		case r == '_' && isDigit(i-1) && isDigit(i+1):
			// digit group

		case !sep:
			sep = true

			b.WriteByte('.')

		default:
			return "", false
		}
	}

	return b.String(), true
}
