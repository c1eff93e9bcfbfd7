package tlang

import "github.com/ardnew/langgen/lang"

// Token types.
const (
	AssignKeyword = "ASSIGN_KEYWORD"
	Semicolon     = "SEMICOLON"
	Colon         = "COLON"
	Assign        = "ASSIGN"
	OpenParen     = "OPEN_PAREN"
	CloseParen    = "CLOSE_PAREN"
	OpenBrace     = "OPEN_BRACE"
	CloseBrace    = "CLOSE_BRACE"
	Operator      = "OPERATOR"
	UnaryOperator = "UNARY_OPERATOR"
	Bool          = "BOOL"
	TypeName      = "TYPE"
	Number        = lang.NumberToken
	Ident         = "IDENTIFIER"
)

// Keywords lists every fixed lexeme of the language, in lexing order.
var Keywords = []string{
	"let", "const",
	";", ":", "=", "(", ")", "{", "}",
	"&&", "||", "+", "-", "*", "/",
	"!",
	"true", "false",
	"number", "boolean",
}

// LexerConfig returns the Tlang vocabulary.
//
// Keywords are matched as prefixes, so an identifier that begins with a
// keyword (e.g. "letter") lexes as that keyword followed by the rest.
func LexerConfig() lang.LexerConfig {
	cfg := lang.DefaultLexerConfig()

	cfg.TokenTypes = []lang.TokenType{
		lang.Keyword(AssignKeyword, "let"),
		lang.Keyword(AssignKeyword, "const"),
		lang.Keyword(Semicolon, ";"),
		lang.Keyword(Colon, ":"),
		lang.Keyword(Assign, "="),
		lang.Keyword(OpenParen, "("),
		lang.Keyword(CloseParen, ")"),
		lang.Keyword(OpenBrace, "{"),
		lang.Keyword(CloseBrace, "}"),
		lang.Keyword(Operator, "&&"),
		lang.Keyword(Operator, "||"),
		lang.Keyword(Operator, "+"),
		lang.Keyword(Operator, "-"),
		lang.Keyword(Operator, "*"),
		lang.Keyword(Operator, "/"),
		lang.Keyword(UnaryOperator, "!"),
		lang.Keyword(Bool, "true"),
		lang.Keyword(Bool, "false"),
		lang.Keyword(TypeName, "number"),
		lang.Keyword(TypeName, "boolean"),
		lang.Func(Number, cfg.NumberMatcher()),
		lang.Func(Ident, lang.IdentifierMatcher()),
	}

	return cfg
}
