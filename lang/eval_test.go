package lang

import (
	"errors"
	"sync"
	"testing"
)

func numbers(values ...float64) *Scope {
	s := new(Scope)
	for _, v := range values {
		s.Append(&NumberExpression{Value: v})
	}

	return s
}

func TestInterpreter_Interpret(t *testing.T) {
	report, err := NewInterpreter().Interpret(t.Context(), numbers(1, 2.5))
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}

	want := Report{
		{Statement: "NumberExpression(1.000000)", Value: "1.000000"},
		{Statement: "NumberExpression(2.500000)", Value: "2.500000"},
	}

	if len(report) != len(want) {
		t.Fatalf("report = %v, want %v", report, want)
	}

	for i := range want {
		if report[i] != want[i] {
			t.Errorf("report[%d] = %v, want %v", i, report[i], want[i])
		}
	}
}

func TestInterpreter_EvaluateScope(t *testing.T) {
	in := NewInterpreter()

	tests := []struct {
		name  string
		scope *Scope
		want  Value
	}{
		{"nil scope", nil, Null{}},
		{"empty scope", new(Scope), Null{}},
		{"last statement wins", numbers(1, 2, 3), Number(3)},
		{"nested scope", &Scope{Body: []Node{numbers(4, 5)}}, Number(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, report, err := in.EvaluateScope(tt.scope, nil)
			if err != nil {
				t.Fatalf("EvaluateScope: %v", err)
			}

			if got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}

			if len(report) != tt.scope.Len() {
				t.Errorf("report has %d entries, want %d", len(report), tt.scope.Len())
			}
		})
	}
}

func TestInterpreter_NestedScopeRepr(t *testing.T) {
	program := &Scope{Body: []Node{numbers(1)}}

	report, err := NewInterpreter().Interpret(t.Context(), program)
	if err != nil {
		t.Fatal(err)
	}

	want := "{\n\tNumberExpression(1.000000)\n}"
	if res, _ := report.Last(); res.Statement != want {
		t.Errorf("statement = %q, want %q", res.Statement, want)
	}
}

func TestInterpreter_NoEvaluator(t *testing.T) {
	program := &Scope{Body: []Node{&tag{name: "orphan"}}}

	_, err := NewInterpreter().Interpret(t.Context(), program)
	if !errors.Is(err, ErrNoEvaluator) || !errors.Is(err, ErrEval) {
		t.Errorf("error = %v, want ErrNoEvaluator", err)
	}
}

func TestInterpreter_WithEvaluator(t *testing.T) {
	in := NewInterpreter(WithEvaluator("tag", EvaluatorFor(
		func(_ *Interpreter, n *tag, _ *Environment) (Value, error) {
			return Number(n.count), nil
		},
	)))

	v, _, err := in.EvaluateScope(&Scope{Body: []Node{&tag{name: "t", count: 7}}}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if v != Number(7) {
		t.Errorf("value = %v, want 7", v)
	}
}

func TestInterpreter_EvaluatorReturnsNoValue(t *testing.T) {
	in := NewInterpreter(WithEvaluator("tag", func(*Interpreter, Node, *Environment) (Value, error) {
		return nil, nil
	}))

	report, err := in.Interpret(t.Context(), &Scope{Body: []Node{&tag{name: "empty"}}})
	if !errors.Is(err, ErrNoValue) || !errors.Is(err, ErrEval) {
		t.Errorf("error = %v, want ErrNoValue", err)
	}

	if report != nil {
		t.Errorf("report = %v, want nil", report)
	}

	if _, err := in.Evaluate(&tag{name: "empty"}, nil); !errors.Is(err, ErrNoValue) {
		t.Errorf("Evaluate error = %v, want ErrNoValue", err)
	}
}

func TestEvaluatorFor_WrongNodeType(t *testing.T) {
	ev := EvaluatorFor(func(*Interpreter, *tag, *Environment) (Value, error) {
		return Null{}, nil
	})

	_, err := ev(NewInterpreter(), &NumberExpression{}, nil)
	if !errors.Is(err, ErrNodeType) {
		t.Errorf("error = %v, want ErrNodeType", err)
	}
}

func TestInterpreter_MaxDepth(t *testing.T) {
	// Two nested scopes around a number need three levels of Evaluate.
	program := &Scope{Body: []Node{&Scope{Body: []Node{numbers(1)}}}}

	tests := []struct {
		depth int
		err   error
	}{
		{2, ErrMaxDepth},
		{3, nil},
		{0, nil},
	}

	for _, tt := range tests {
		in := NewInterpreter(WithMaxDepth(tt.depth))

		_, err := in.Interpret(t.Context(), program)
		if !errors.Is(err, tt.err) {
			t.Errorf("max depth %d: error = %v, want %v", tt.depth, err, tt.err)
		}

		// The depth counter must not leak between runs.
		if _, err2 := in.Interpret(t.Context(), program); !errors.Is(err2, tt.err) {
			t.Errorf("max depth %d: second run error = %v, want %v", tt.depth, err2, tt.err)
		}
	}
}

func TestInterpreter_NestedScopeBindingsDiscarded(t *testing.T) {
	declare := EvaluatorFor(func(_ *Interpreter, n *tag, env *Environment) (Value, error) {
		return env.Init(n.name, Number(n.count), nil)
	})

	in := NewInterpreter(WithEvaluator("tag", declare))
	root := in.NewEnvironment(nil)

	inner := &Scope{Body: []Node{&tag{name: "x", count: 1}}}
	if _, _, err := in.EvaluateScope(&Scope{Body: []Node{inner}}, root); err != nil {
		t.Fatal(err)
	}

	if root.Has("x") {
		t.Error("binding from nested scope leaked into the enclosing scope")
	}
}

func TestInterpreter_ConcurrentInterpret(t *testing.T) {
	in := NewInterpreter()
	program := &Scope{Body: []Node{&Scope{Body: []Node{numbers(1, 2)}}}}

	var wg sync.WaitGroup

	for range 16 {
		wg.Go(func() {
			if _, err := in.Interpret(t.Context(), program); err != nil {
				t.Error(err)
			}
		})
	}

	wg.Wait()
}

func TestInterpreter_PolicyOptions(t *testing.T) {
	rule := NewRule("r", OnSet, func(Slot) bool { return true })
	in := NewInterpreter(WithProperties("a", "b", "a"), WithRules(rule))

	cfg := in.EnvConfig()
	if len(cfg.Properties) != 2 {
		t.Errorf("properties = %v, want [a b]", cfg.Properties)
	}

	if len(cfg.Rules) != 1 || cfg.Rules[0].Name != "r" {
		t.Errorf("rules = %v", cfg.Rules)
	}

	if env := in.NewEnvironment(nil); env.Config() != cfg {
		t.Error("environment does not share the interpreter policy")
	}
}

func TestValues(t *testing.T) {
	tests := []struct {
		v      Value
		typ    string
		repr   string
		truthy bool
	}{
		{Null{}, NullType, "null", false},
		{Number(0), NumberType, "0.000000", false},
		{Number(-2.5), NumberType, "-2.500000", true},
		{Boolean(true), BooleanType, "true", true},
		{Boolean(false), BooleanType, "false", false},
	}

	for _, tt := range tests {
		if tt.v.Type() != tt.typ || tt.v.Repr() != tt.repr || tt.v.Truthy() != tt.truthy {
			t.Errorf("%#v: got (%s, %s, %v), want (%s, %s, %v)",
				tt.v, tt.v.Type(), tt.v.Repr(), tt.v.Truthy(), tt.typ, tt.repr, tt.truthy)
		}

		if Truth(tt.v) != Boolean(tt.truthy) {
			t.Errorf("Truth(%#v) = %v", tt.v, Truth(tt.v))
		}
	}

	if Truth(nil) {
		t.Error("Truth(nil) is true")
	}
}
