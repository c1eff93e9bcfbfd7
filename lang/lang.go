package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/langgen/log"
)

// Language bundles the configuration of each pipeline stage.
type Language struct {
	Name        string
	Lexer       LexerConfig
	Parser      *Registry
	Interpreter *Interpreter
	Logger      log.Logger

	// Cache, if set, memoizes the programs returned by [Language.Parse].
	Cache *ParseCache
}

// Lex converts src into tokens using l's vocabulary.
func (l *Language) Lex(ctx context.Context, src string) ([]Token, error) {
	l.trace(ctx, "lex", src)

	cfg := l.Lexer
	cfg.Logger = l.Logger

	return Lex(ctx, cfg, src)
}

// Parse lexes and parses src into a program.
func (l *Language) Parse(ctx context.Context, src string) (*Scope, error) {
	if l.Cache != nil {
		return l.Cache.Load(ctx, l.Logger, src, l.Parser.Strategy(),
			func() (*Scope, error) { return l.parse(ctx, src) })
	}

	return l.parse(ctx, src)
}

func (l *Language) parse(ctx context.Context, src string) (*Scope, error) {
	toks, err := l.Lex(ctx, src)
	if err != nil {
		return nil, err
	}

	l.trace(ctx, "parse", src)

	return Parse(ctx, l.Parser, NewTokens(toks))
}

// Interpret lexes, parses and evaluates src in a new root environment.
func (l *Language) Interpret(ctx context.Context, src string) (Report, error) {
	program, err := l.Parse(ctx, src)
	if err != nil {
		return nil, err
	}

	l.trace(ctx, "interpret", src)

	return l.Interpreter.Interpret(ctx, program)
}

// Eval lexes, parses and evaluates src in env, keeping any bindings it
// declares. A nil env behaves like [Language.Interpret].
func (l *Language) Eval(
	ctx context.Context,
	src string,
	env *Environment,
) (Value, Report, error) {
	program, err := l.Parse(ctx, src)
	if err != nil {
		return nil, nil, err
	}

	l.trace(ctx, "eval", src)

	return l.Interpreter.EvaluateScope(program, env)
}

// NewEnvironment returns a root environment for use with [Language.Eval].
func (l *Language) NewEnvironment() *Environment {
	return l.Interpreter.NewEnvironment(nil)
}

func (l *Language) trace(ctx context.Context, stage, src string) {
	l.Logger.TraceContext(ctx, stage,
		slog.String("language", l.Name),
		slog.String("source_hash", strconv.FormatUint(Fingerprint(src), 36)),
		slog.Int("source_len", len(src)))
}

// Fingerprint returns a 64-bit hash of src.
func Fingerprint(src string) uint64 {
	return xxh3.HashString(src)
}

// ReadSource reads all program text from r.
func ReadSource(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadSource.Wrap(err)
	}

	return string(data), nil
}
