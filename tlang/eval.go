package tlang

import (
	"log/slog"
	"strconv"

	"github.com/ardnew/langgen/lang"
)

// Slot properties.
const (
	PropMutable = "isMutable"
	PropType    = "type"
)

// MutabilityRule rejects assignment to a name unless its isMutable property
// is "true".
var MutabilityRule = lang.MustExprRule(
	"mutability",
	lang.OnSet,
	`properties.isMutable == "true"`,
)

// Interpreter returns an interpreter with the Tlang evaluators, properties
// and rules. Additional opts are applied last.
func Interpreter(opts ...lang.InterpreterOption) *lang.Interpreter {
	base := []lang.InterpreterOption{
		lang.WithEvaluator(DeclarationType, lang.EvaluatorFor(evalDeclaration)),
		lang.WithEvaluator(AssignmentType, lang.EvaluatorFor(evalAssignment)),
		lang.WithEvaluator(IdentifierType, lang.EvaluatorFor(evalIdentifier)),
		lang.WithEvaluator(BooleanType, lang.EvaluatorFor(evalBoolean)),
		lang.WithEvaluator(UnaryType, lang.EvaluatorFor(evalUnary)),
		lang.WithEvaluator(BinaryType, lang.EvaluatorFor(evalBinary)),
		lang.WithProperties(PropMutable, PropType),
		lang.WithRules(MutabilityRule),
	}

	return lang.NewInterpreter(append(base, opts...)...)
}

// typeOf maps a declared type name to the value type it admits.
var typeOf = map[string]string{
	"number":  lang.NumberType,
	"boolean": lang.BooleanType,
}

func checkType(name, declared string, v lang.Value) error {
	want, ok := typeOf[declared]
	if !ok || v.Type() == want {
		return nil
	}

	return lang.ErrTypeMismatch.With(
		slog.String("name", name),
		slog.String("declared", declared),
		slog.String("value", v.Type()),
	)
}

func evalDeclaration(
	in *lang.Interpreter,
	d *Declaration,
	env *lang.Environment,
) (lang.Value, error) {
	v, err := in.Evaluate(d.Value, env)
	if err != nil {
		return nil, err
	}

	if err := checkType(d.Name, d.TypeName, v); err != nil {
		return nil, err
	}

	return env.Init(d.Name, v, map[string]string{
		PropMutable: strconv.FormatBool(d.Mutable()),
		PropType:    d.TypeName,
	})
}

func evalAssignment(
	in *lang.Interpreter,
	a *Assignment,
	env *lang.Environment,
) (lang.Value, error) {
	v, err := in.Evaluate(a.Value, env)
	if err != nil {
		return nil, err
	}

	if slot, ok := env.Lookup(a.Name); ok {
		if declared, ok := slot.Property(PropType); ok {
			if err := checkType(a.Name, declared, v); err != nil {
				return nil, err
			}
		}
	}

	if _, err := env.Set(a.Name, v); err != nil {
		return nil, err
	}

	return v, nil
}

func evalIdentifier(
	_ *lang.Interpreter,
	id *Identifier,
	env *lang.Environment,
) (lang.Value, error) {
	return env.Get(id.Name)
}

func evalBoolean(
	_ *lang.Interpreter,
	b *BooleanExpression,
	_ *lang.Environment,
) (lang.Value, error) {
	return lang.Boolean(b.Value), nil
}

func evalUnary(
	in *lang.Interpreter,
	u *UnaryExpression,
	env *lang.Environment,
) (lang.Value, error) {
	v, err := in.Evaluate(u.Term, env)
	if err != nil {
		return nil, err
	}

	switch u.Operator {
	case "!":
		return !lang.Truth(v), nil

	default:
		return nil, lang.ErrUnknownOperator.With(slog.String("operator", u.Operator))
	}
}

// evalBinary evaluates both operands before applying the operator; && and ||
// do not short-circuit.
func evalBinary(
	in *lang.Interpreter,
	b *BinaryExpression,
	env *lang.Environment,
) (lang.Value, error) {
	left, err := in.Evaluate(b.Left, env)
	if err != nil {
		return nil, err
	}

	right, err := in.Evaluate(b.Right, env)
	if err != nil {
		return nil, err
	}

	switch b.Operator {
	case "&&":
		return lang.Truth(left) && lang.Truth(right), nil

	case "||":
		return lang.Truth(left) || lang.Truth(right), nil

	case "+", "-", "*", "/":
		return arithmetic(b.Operator, left, right)

	default:
		return nil, lang.ErrUnknownOperator.With(slog.String("operator", b.Operator))
	}
}

func arithmetic(op string, left, right lang.Value) (lang.Value, error) {
	l, lok := lang.AsNumber(left)
	r, rok := lang.AsNumber(right)

	if !lok || !rok {
		return nil, lang.ErrOperandType.With(
			slog.String("operator", op),
			slog.String("left", left.Type()),
			slog.String("right", right.Type()),
		)
	}

	switch op {
	case "+":
		return l + r, nil

	case "-":
		return l - r, nil

	case "*":
		return l * r, nil

	default:
		if r == 0 {
			return nil, lang.ErrDivideByZero.With(slog.String("dividend", l.Repr()))
		}

		return l / r, nil
	}
}
