// Package tlang is a small arithmetic, boolean and variable language built on
// package lang.
//
//	let x: number = 10 / 4;      // 2.500000
//	const ok: boolean = !false;  // true
//	x = x * 2                    // 5.000000
//	{ let x: number = 1; x + 1 } // 2.000000, outer x unchanged
//
// Precedence from loosest to tightest is logical (&& ||), additive (+ -),
// multiplicative (* /), unary (!), then literals, names and parentheses.
// Binary operators are right-associative and && and || always evaluate both
// operands. Statements may be separated by ";" but need not be.
//
// Names declared with const reject assignment through a validation rule on
// the isMutable slot property.
package tlang

import (
	"github.com/ardnew/langgen/lang"
	"github.com/ardnew/langgen/log"
)

// Name identifies the language in logs.
const Name = "tlang"

// Option configures a Tlang [lang.Language].
type Option func(*options)

type options struct {
	logger   log.Logger
	strategy lang.Strategy
	cache    *lang.ParseCache
	interp   []lang.InterpreterOption
}

// WithLogger sets the logger of every pipeline stage.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithStrategy sets the top-level production strategy.
func WithStrategy(s lang.Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// WithCache memoizes parsed programs in c.
func WithCache(c *lang.ParseCache) Option {
	return func(o *options) { o.cache = c }
}

// WithInterpreter appends interpreter options, e.g. extra validation rules.
func WithInterpreter(opts ...lang.InterpreterOption) Option {
	return func(o *options) { o.interp = append(o.interp, opts...) }
}

// New returns the Tlang pipeline.
func New(opts ...Option) *lang.Language {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	interp := append([]lang.InterpreterOption{lang.WithLogger(o.logger)}, o.interp...)

	return &lang.Language{
		Name:  Name,
		Lexer: LexerConfig(),
		Parser: Registry(
			lang.WithStrategy(o.strategy),
			lang.WithParseLogger(o.logger),
		),
		Interpreter: Interpreter(interp...),
		Logger:      o.logger,
		Cache:       o.cache,
	}
}
