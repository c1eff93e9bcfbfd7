package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Error categories. Every error produced by the toolkit matches exactly one of
// these with [errors.Is].
var (
	ErrLex        = NewError("lex error")
	ErrSyntax     = NewError("syntax error")
	ErrName       = NewError("name error")
	ErrValidation = NewError("validation error")
	ErrEval       = NewError("evaluation error")
)

// Lex errors.
var (
	ErrUnmatchedInput      = ErrLex.Derive("unmatched input")
	ErrUnbalancedComment   = ErrLex.Derive("unbalanced comment")
	ErrNumberFormat        = ErrLex.Derive("invalid number format")
	ErrUnterminatedLiteral = ErrLex.Derive("unterminated literal")
)

// Syntax errors.
var (
	ErrUnknownToken    = ErrSyntax.Derive("unknown token")
	ErrExpectedToken   = ErrSyntax.Derive("expected token")
	ErrMalformedNumber = ErrSyntax.Derive("malformed numeric literal")
	ErrNoProgress      = ErrSyntax.Derive("production consumed no tokens")
	ErrNoProduction    = ErrSyntax.Derive("production not registered")
)

// Name errors.
var (
	ErrUndeclared = ErrName.Derive("undeclared name")
	ErrRedeclared = ErrName.Derive("redeclared name")
)

// Validation errors.
var (
	ErrInvalidProperty = ErrValidation.Derive("invalid property")
	ErrRuleRejected    = ErrValidation.Derive("rule rejected")
	ErrRuleCompile     = ErrValidation.Derive("rule compilation failed")
)

// Evaluation errors.
var (
	ErrNoEvaluator     = ErrEval.Derive("no evaluator registered")
	ErrNodeType        = ErrEval.Derive("unexpected node type")
	ErrUnknownOperator = ErrEval.Derive("unknown operator")
	ErrOperandType     = ErrEval.Derive("invalid operand type")
	ErrTypeMismatch    = ErrEval.Derive("type mismatch")
	ErrDivideByZero    = ErrEval.Derive("division by zero")
	ErrMaxDepth        = ErrEval.Derive("maximum evaluation depth exceeded")
	ErrNoValue         = ErrEval.Derive("evaluator returned no value")
)

// ErrReadSource is returned when program text cannot be read.
var ErrReadSource = NewError("failed to read source")

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Errors derived from another Error (see [Error.Derive], [Error.With] and
// [Error.Wrap]) match their ancestors with [errors.Is].
type Error struct {
	msg    string
	err    error
	parent *Error
	attrs  []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message has the form "<msg> [k=v ...]: <err>", omitting any part that
// is empty.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if len(e.attrs) > 0 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteByte('[')

		for i, a := range e.attrs {
			if i > 0 {
				sb.WriteByte(' ')
			}

			sb.WriteString(a.String())
		}

		sb.WriteByte(']')
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is e or one of the errors e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	for p := e; p != nil; p = p.parent {
		if p == t {
			return true
		}
	}

	return false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Derive creates a new sentinel with its own message that matches e.
func (e *Error) Derive(msg string) *Error {
	return &Error{msg: msg, parent: e}
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:    e.msg,
		err:    err,
		parent: e,
		attrs:  e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:    e.msg,
		err:    e.err,
		parent: e,
		attrs:  newAttrs,
	}
}
