package lang

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Sensitivity is the set of environment events a [Rule] is checked on.
type Sensitivity uint8

const (
	OnInit Sensitivity = 1 << iota
	OnSet
	OnGet

	OnAll = OnInit | OnSet | OnGet
)

// Has reports whether s includes every event in event.
func (s Sensitivity) Has(event Sensitivity) bool {
	return event != 0 && s&event == event
}

// String returns the events in s joined by "|", e.g. "init|set".
func (s Sensitivity) String() string {
	var part []string

	for _, ev := range []struct {
		Sensitivity
		name string
	}{
		{OnInit, "init"},
		{OnSet, "set"},
		{OnGet, "get"},
	} {
		if s.Has(ev.Sensitivity) {
			part = append(part, ev.name)
		}
	}

	if len(part) == 0 {
		return "none"
	}

	return strings.Join(part, "|")
}

// Rule is a predicate over a [Slot], checked on the events in On.
//
// Check receives a copy of the slot. For OnSet it is the slot before the
// update.
type Rule struct {
	Name  string
	Check func(Slot) (bool, error)
	On    Sensitivity
}

// NewRule returns a Rule from a plain predicate.
func NewRule(name string, on Sensitivity, pred func(Slot) bool) Rule {
	return Rule{
		Name:  name,
		On:    on,
		Check: func(s Slot) (bool, error) { return pred(s), nil },
	}
}

// ruleEnv is the environment visible to expression rules.
type ruleEnv struct {
	Properties map[string]string `expr:"properties"`
	Kind       string            `expr:"kind"`
	Repr       string            `expr:"repr"`
	Truthy     bool              `expr:"truthy"`
}

func makeRuleEnv(s Slot) ruleEnv {
	env := ruleEnv{Properties: s.Properties}

	if env.Properties == nil {
		env.Properties = map[string]string{}
	}

	if s.Value != nil {
		env.Kind = s.Value.Type()
		env.Repr = s.Value.Repr()
		env.Truthy = s.Value.Truthy()
	}

	return env
}

// ExprRule compiles source as a boolean expression and returns a Rule that
// evaluates it against each checked slot.
//
// The expression can refer to:
//
//	properties  map[string]string  the slot's properties
//	kind        string             the value's type tag
//	repr        string             the value's textual form
//	truthy      bool               the value's truthiness
//
// For example:
//
//	properties.isMutable == "true"
func ExprRule(name string, on Sensitivity, source string) (Rule, error) {
	program, err := expr.Compile(source, expr.Env(ruleEnv{}), expr.AsBool())
	if err != nil {
		return Rule{}, ErrRuleCompile.With(
			slog.String("rule", name),
			slog.String("source", source),
		).Wrap(err)
	}

	return Rule{
		Name:  name,
		On:    on,
		Check: exprCheck(program),
	}, nil
}

// MustExprRule is like [ExprRule] but panics if source does not compile.
func MustExprRule(name string, on Sensitivity, source string) Rule {
	r, err := ExprRule(name, on, source)
	if err != nil {
		panic(err)
	}

	return r
}

func exprCheck(program *vm.Program) func(Slot) (bool, error) {
	return func(s Slot) (bool, error) {
		out, err := vm.Run(program, makeRuleEnv(s))
		if err != nil {
			return false, err
		}

		ok, isBool := out.(bool)
		if !isBool {
			return false, ErrRuleRejected.With(
				slog.String("result", slog.AnyValue(out).String()),
			)
		}

		return ok, nil
	}
}
