// Package lang is a toolkit for building small interpreted languages.
//
// A language author supplies three tables and the package drives the
// pipeline between them:
//
//	source ─[LexerConfig]→ []Token ─[Registry]→ *Scope ─[Interpreter]→ Report
//
// # Lexing
//
// A [LexerConfig] holds an ordered list of [TokenType] matchers. [Lex] skips
// whitespace and comments, then tries each matcher against the remaining
// input; the first non-empty match becomes the next [Token]. The result
// always ends with an [EOF] token.
//
// # Parsing
//
// A [Registry] holds named productions. A production returns (nil, nil) when
// the input does not start with it, and an error when it started but could
// not finish. Productions flagged top-level compete to start each statement;
// the winner is chosen by the registry's [Strategy], and the cursor is
// rewound between attempts.
//
// [NewRegistry] pre-registers a top-level NumberExpression production.
// Languages with their own expression grammar usually [Registry.Demote] it
// and reach [ParseNumberExpression] from a primary-expression rule instead.
//
// # Evaluation
//
// An [Interpreter] maps node type tags to [Evaluator] functions. Use
// [EvaluatorFor] to write evaluators against a concrete node type.
//
// Bindings live in an [Environment] chain. Declaring a name is always local;
// reading and assigning search enclosing scopes. Each slot carries string
// properties drawn from a whitelist, and validation [Rule] values run on the
// init, set and get events they are sensitive to. Rules are data: they can be
// plain Go predicates ([NewRule]) or expressions compiled by expr-lang
// ([ExprRule]).
//
// # Errors
//
// Every failure is an [*Error] matching one category sentinel with
// [errors.Is]: [ErrLex], [ErrSyntax], [ErrName], [ErrValidation] or
// [ErrEval]. The first error aborts the pipeline stage it occurs in.
//
// # Example
//
// See package tlang for a complete language built on this package.
package lang
