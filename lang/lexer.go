package lang

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/langgen/log"
)

// LexerConfig describes the vocabulary of a language.
//
// TokenTypes are tried in order against the remaining input; the first
// non-empty match wins.
type LexerConfig struct {
	TokenTypes []TokenType

	// Whitespace lists the characters skipped between lexemes.
	Whitespace string
	// LineComment starts a comment running to the end of the line.
	LineComment string
	// BlockComment holds the open and close delimiters of a multi-line comment.
	BlockComment [2]string

	// DecimalSeparator, CharDelimiter, StringDelimiter and Escape configure
	// the matchers returned by NumberMatcher, CharMatcher and StringMatcher.
	DecimalSeparator rune
	CharDelimiter    rune
	StringDelimiter  rune
	Escape           rune

	Logger log.Logger
}

// DefaultLexerConfig returns a LexerConfig with C-style comments, ASCII
// whitespace, and the given token types.
func DefaultLexerConfig(types ...TokenType) LexerConfig {
	return LexerConfig{
		TokenTypes:       types,
		Whitespace:       " \t\r\n",
		LineComment:      "//",
		BlockComment:     [2]string{"/*", "*/"},
		DecimalSeparator: '.',
		CharDelimiter:    '\'',
		StringDelimiter:  '"',
		Escape:           '\\',
	}
}

// NumberMatcher returns a [NumberMatcher] using the configured separator.
func (c LexerConfig) NumberMatcher() Matcher {
	return NumberMatcher(c.DecimalSeparator)
}

// StringMatcher returns a [QuotedMatcher] for string literals.
func (c LexerConfig) StringMatcher() Matcher {
	return QuotedMatcher(c.StringDelimiter, c.Escape)
}

// CharMatcher returns a [QuotedMatcher] for character literals.
func (c LexerConfig) CharMatcher() Matcher {
	return QuotedMatcher(c.CharDelimiter, c.Escape)
}

// Lex converts src into tokens. The returned slice always ends with an [EOF]
// token. Any failure aborts the whole lex.
func Lex(ctx context.Context, cfg LexerConfig, src string) ([]Token, error) {
	var tokens []Token

	begin, end := cfg.BlockComment[0], cfg.BlockComment[1]

	for {
		src = strings.TrimLeft(src, cfg.Whitespace)
		if src == "" {
			break
		}

		if cfg.LineComment != "" && strings.HasPrefix(src, cfg.LineComment) {
			if i := strings.IndexByte(src, '\n'); i >= 0 {
				src = src[i:]
			} else {
				src = ""
			}

			continue
		}

		if begin != "" && strings.HasPrefix(src, begin) {
			i := strings.Index(src[len(begin):], end)
			if end == "" || i < 0 {
				return nil, ErrUnbalancedComment.With(
					slog.String("reason", "opened and not closed before EOF"),
				)
			}

			src = src[len(begin)+i+len(end):]

			continue
		}

		if end != "" && strings.HasPrefix(src, end) {
			return nil, ErrUnbalancedComment.With(
				slog.String("reason", "closed without being opened"),
			)
		}

		tok, err := match(cfg.TokenTypes, src)
		if err != nil {
			return nil, err
		}

		cfg.Logger.TraceContext(ctx, "lex token", slog.Any("token", tok))

		tokens = append(tokens, tok)
		src = src[len(tok.Value):]
	}

	tokens = append(tokens, Token{Type: EOF})

	cfg.Logger.DebugContext(ctx, "lex complete",
		slog.Int("token_count", len(tokens)))

	return tokens, nil
}

// match returns a token for the first type in types matching a prefix of src.
func match(types []TokenType, src string) (Token, error) {
	for _, tt := range types {
		if tt.Match == nil {
			continue
		}

		lexeme, err := tt.Match(src)
		if err != nil {
			return Token{}, ErrLex.With(slog.String("token_type", tt.Name)).Wrap(err)
		}

		// A lexeme must be a prefix of the input or Lex would not advance
		// correctly.
		if lexeme != "" && strings.HasPrefix(src, lexeme) {
			return Token{Type: tt.Name, Value: lexeme}, nil
		}
	}

	return Token{}, ErrUnmatchedInput.With(slog.String("input", src))
}
