package tlang

import (
	"log/slog"

	"github.com/ardnew/langgen/lang"
)

// Production names.
const (
	DeclarationProduction = DeclarationType
	AssignmentProduction  = AssignmentType
	BlockProduction       = "Block"
	ExpressionProduction  = BinaryType
	UnaryProduction       = UnaryType
	PrimaryProduction     = "PrimaryExpression"
	BooleanProduction     = BooleanType
)

// Operator precedence levels, loosest first.
var (
	logicalOps        = []string{"&&", "||"}
	additiveOps       = []string{"+", "-"}
	multiplicativeOps = []string{"*", "/"}
)

// Registry returns the Tlang grammar.
//
// Top-level productions, in priority order: Declaration, Assignment, Block,
// BinaryExpression. The built-in NumberExpression production is demoted and
// reached through PrimaryExpression.
//
// Every binary operator is right-associative: "1 - 2 - 3" parses as
// "1 - (2 - 3)".
func Registry(opts ...lang.RegistryOption) *lang.Registry {
	r := lang.NewRegistry(opts...)
	p := &parser{registry: r}

	r.Register(DeclarationProduction, lang.Production{Parse: p.declaration, TopLevel: true})
	r.Register(AssignmentProduction, lang.Production{Parse: p.assignment, TopLevel: true})
	r.Register(BlockProduction, lang.Production{Parse: p.block, TopLevel: true})
	r.Register(ExpressionProduction, lang.Production{Parse: p.statement, TopLevel: true})
	r.Register(UnaryProduction, lang.Production{Parse: p.unary})
	r.Register(PrimaryProduction, lang.Production{Parse: p.primary})
	r.Register(BooleanProduction, lang.Production{Parse: p.boolean})

	// NumberExpression is registered by NewRegistry, so this cannot fail.
	_ = r.Demote(lang.NumberExpressionProduction)

	return r
}

type parser struct {
	registry *lang.Registry
}

func expected(what string, ts *lang.Tokens) error {
	tok := ts.Peek()

	return lang.ErrExpectedToken.With(
		slog.String("expected", what),
		slog.String("type", tok.Type),
		slog.String("value", tok.Value),
	)
}

// terminate consumes an optional statement separator.
func terminate(ts *lang.Tokens) {
	ts.Accept(Semicolon)
}

func (p *parser) declaration(ts *lang.Tokens) (lang.Node, error) {
	kw, ok := ts.Accept(AssignKeyword)
	if !ok {
		return nil, nil
	}

	name, err := ts.Expect(Ident)
	if err != nil {
		return nil, err
	}

	if _, err := ts.Expect(Colon); err != nil {
		return nil, err
	}

	typ, err := ts.Expect(TypeName)
	if err != nil {
		return nil, err
	}

	if _, err := ts.Expect(Assign); err != nil {
		return nil, err
	}

	value, err := p.logical(ts)
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, expected("expression", ts)
	}

	terminate(ts)

	return &Declaration{
		Keyword:  kw.Value,
		Name:     name.Value,
		TypeName: typ.Value,
		Value:    value,
	}, nil
}

func (p *parser) assignment(ts *lang.Tokens) (lang.Node, error) {
	if ts.Peek().Type != Ident || ts.PeekN(1).Type != Assign {
		return nil, nil
	}

	name := ts.Next()
	ts.Next()

	value, err := p.logical(ts)
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, expected("expression", ts)
	}

	terminate(ts)

	return &Assignment{Name: name.Value, Value: value}, nil
}

func (p *parser) block(ts *lang.Tokens) (lang.Node, error) {
	if _, ok := ts.Accept(OpenBrace); !ok {
		return nil, nil
	}

	scope := new(lang.Scope)

	for {
		switch ts.Peek().Type {
		case CloseBrace:
			ts.Next()
			terminate(ts)

			return scope, nil

		case lang.EOF:
			return nil, expected(CloseBrace, ts)
		}

		stmt, err := p.registry.Statement(ts)
		if err != nil {
			return nil, err
		}

		scope.Append(stmt)
	}
}

// statement parses an expression used as a statement.
func (p *parser) statement(ts *lang.Tokens) (lang.Node, error) {
	expr, err := p.logical(ts)
	if expr == nil || err != nil {
		return nil, err
	}

	terminate(ts)

	return expr, nil
}

func (p *parser) logical(ts *lang.Tokens) (lang.Node, error) {
	return p.binary(ts, logicalOps, p.additive)
}

func (p *parser) additive(ts *lang.Tokens) (lang.Node, error) {
	return p.binary(ts, additiveOps, p.multiplicative)
}

func (p *parser) multiplicative(ts *lang.Tokens) (lang.Node, error) {
	return p.binary(ts, multiplicativeOps, p.unary)
}

// binary parses operand (op self)? where self is the calling level, which
// makes every level right-associative.
func (p *parser) binary(
	ts *lang.Tokens,
	ops []string,
	operand lang.ParseFunc,
) (lang.Node, error) {
	left, err := operand(ts)
	if left == nil || err != nil {
		return nil, err
	}

	op, ok := ts.Accept(Operator, ops...)
	if !ok {
		return left, nil
	}

	right, err := p.binary(ts, ops, operand)
	if err != nil {
		return nil, err
	}

	if right == nil {
		return nil, expected("expression", ts)
	}

	return &BinaryExpression{Left: left, Operator: op.Value, Right: right}, nil
}

func (p *parser) unary(ts *lang.Tokens) (lang.Node, error) {
	op, ok := ts.Accept(UnaryOperator)
	if !ok {
		return p.primary(ts)
	}

	term, err := p.unary(ts)
	if err != nil {
		return nil, err
	}

	if term == nil {
		return nil, expected("expression", ts)
	}

	return &UnaryExpression{Operator: op.Value, Term: term}, nil
}

func (p *parser) primary(ts *lang.Tokens) (lang.Node, error) {
	switch ts.Peek().Type {
	case Bool:
		return p.boolean(ts)

	case Ident:
		return &Identifier{Name: ts.Next().Value}, nil

	case OpenParen:
		ts.Next()

		inner, err := p.logical(ts)
		if err != nil {
			return nil, err
		}

		if inner == nil {
			return nil, expected("expression", ts)
		}

		if _, err := ts.Expect(CloseParen); err != nil {
			return nil, err
		}

		return inner, nil

	default:
		num, ok := p.registry.Lookup(lang.NumberExpressionProduction)
		if !ok {
			return nil, nil
		}

		return num.Parse(ts)
	}
}

func (p *parser) boolean(ts *lang.Tokens) (lang.Node, error) {
	tok, ok := ts.Accept(Bool)
	if !ok {
		return nil, nil
	}

	return &BooleanExpression{Value: tok.Value == "true"}, nil
}
