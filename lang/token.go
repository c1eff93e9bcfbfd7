package lang

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// EOF is the type of the token appended after the last lexeme.
const EOF = "EOF"

// NumberToken is the token type consumed by [ParseNumberExpression].
const NumberToken = "NUMBER"

// Token is a lexeme tagged with the name of the [TokenType] that matched it.
type Token struct {
	Type  string
	Value string
}

// String returns the two-line form printed by the lex command.
func (t Token) String() string {
	return "Type: " + t.Type + "\nValue: " + t.Value
}

// LogValue implements slog.LogValuer.
func (t Token) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", t.Type),
		slog.String("value", t.Value),
	)
}

// Matcher recognizes a prefix of src.
//
// An empty lexeme with a nil error means src does not start with a match.
// A non-nil error aborts lexing.
type Matcher func(src string) (lexeme string, err error)

// TokenType is a named matcher. Several token types may share a name.
type TokenType struct {
	Name  string
	Match Matcher
}

// Literal returns a TokenType that matches its own name.
func Literal(name string) TokenType {
	return Keyword(name, name)
}

// Keyword returns a TokenType named name that matches the fixed string lexeme.
func Keyword(name, lexeme string) TokenType {
	return TokenType{
		Name: name,
		Match: func(src string) (string, error) {
			if lexeme != "" && strings.HasPrefix(src, lexeme) {
				return lexeme, nil
			}

			return "", nil
		},
	}
}

// Func returns a TokenType named name using matcher m.
func Func(name string, m Matcher) TokenType {
	return TokenType{Name: name, Match: m}
}

// NumberMatcher matches a run of ASCII digits containing at most one sep.
// A lone sep with no digits is not a number.
func NumberMatcher(sep rune) Matcher {
	return func(src string) (string, error) {
		var (
			n      int
			dot    bool
			digits bool
		)

		for n < len(src) {
			r, size := utf8.DecodeRuneInString(src[n:])

			switch {
			case r >= '0' && r <= '9':
				digits = true

			case r == sep:
				if dot {
					return "", ErrNumberFormat.With(
						slog.String("input", src[:n+size]),
					)
				}

				dot = true

			default:
				return numberLexeme(src[:n], digits), nil
			}

			n += size
		}

		return numberLexeme(src[:n], digits), nil
	}
}

func numberLexeme(lexeme string, digits bool) string {
	if !digits {
		return ""
	}

	return lexeme
}

// IdentifierMatcher matches a run of ASCII letters and underscores.
// Digits are never part of an identifier.
func IdentifierMatcher() Matcher {
	return func(src string) (string, error) {
		n := 0

		for n < len(src) {
			c := src[n]
			if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
				break
			}

			n++
		}

		return src[:n], nil
	}
}

// QuotedMatcher matches a literal enclosed in delim. A delim preceded by
// escape does not terminate the literal. The lexeme includes both delimiters.
func QuotedMatcher(delim, escape rune) Matcher {
	return func(src string) (string, error) {
		r, size := utf8.DecodeRuneInString(src)
		if size == 0 || r != delim {
			return "", nil
		}

		for n := size; n < len(src); {
			r, w := utf8.DecodeRuneInString(src[n:])
			n += w

			switch r {
			case escape:
				_, w = utf8.DecodeRuneInString(src[n:])
				n += w

			case delim:
				return src[:n], nil
			}
		}

		return "", ErrUnterminatedLiteral.With(slog.String("input", src))
	}
}
