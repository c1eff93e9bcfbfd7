package tlang

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/ardnew/langgen/lang"
)

func TestInterpret_Results(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // repr of the last statement's value
	}{
		{"division", "10 / 2", "5.000000"},
		{"precedence", "1 + 2 * 3", "7.000000"},
		{"parentheses", "(1 + 2) * 3", "9.000000"},
		{"subtraction is right-associative", "1 - 2 - 3", "2.000000"},
		{"division is right-associative", "8 / 4 / 2", "4.000000"},
		{"logical chain", "true && false || !false", "true"},
		{"negation", "!true", "false"},
		{"negated number", "!!1", "true"},
		{"numbers in logic", "1 && 0", "false"},
		{"let and assign", "let x: number = 2; x = x * 3; x", "6.000000"},
		{"no separators", "const b: boolean = true b", "true"},
		{"empty block", "{}", "null"},
		{"block value", "{ 1 2 }", "2.000000"},
		{"block shadows", "let x: number = 1 { let x: number = 5 x } x", "1.000000"},
		{"block assigns outer", "let x: number = 1 { x = 5 } x", "5.000000"},
		{"shadowed const is mutable", "const x: number = 1 { let x: number = 2 x = 3 x }", "3.000000"},
		{"comments", "// leading\n1 /* inner */ + 1", "2.000000"},
		{"decimal", "0.5 * 3", "1.500000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := New().Interpret(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("Interpret(%q): %v", tt.input, err)
			}

			last, ok := report.Last()
			if !ok {
				t.Fatalf("Interpret(%q) produced an empty report", tt.input)
			}

			if last.Value != tt.want {
				t.Errorf("Interpret(%q) = %s, want %s", tt.input, last.Value, tt.want)
			}
		})
	}
}

func TestInterpret_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"divide by zero", "1 / 0", lang.ErrDivideByZero},
		{"assign to const", "const i: boolean = true && false || !false i = false", lang.ErrRuleRejected},
		{"undeclared", "x", lang.ErrUndeclared},
		{"assign undeclared", "x = 1", lang.ErrUndeclared},
		{"redeclare", "let x: number = 1 let x: number = 2", lang.ErrRedeclared},
		{"declared type mismatch", "let x: number = true", lang.ErrTypeMismatch},
		{"assigned type mismatch", "let x: number = 1 x = true", lang.ErrTypeMismatch},
		{"arithmetic on boolean", "true + 1", lang.ErrOperandType},
		{"block binding out of scope", "{ let y: number = 1 } y", lang.ErrUndeclared},
		{"missing assign", "let x: number 1", lang.ErrExpectedToken},
		{"missing type", "let x = 1", lang.ErrExpectedToken},
		{"bare keyword", "let", lang.ErrExpectedToken},
		{"unclosed paren", "(1 + 2", lang.ErrExpectedToken},
		{"unclosed block", "{ 1", lang.ErrExpectedToken},
		{"dangling operator", "1 +", lang.ErrExpectedToken},
		{"stray assign", "= 1", lang.ErrUnknownToken},
		{"unknown character", "1 $ 2", lang.ErrUnmatchedInput},
		{"unbalanced comment", "1 */", lang.ErrUnbalancedComment},
		{"bad number", "1.2.3", lang.ErrNumberFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := New().Interpret(t.Context(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Interpret(%q) error = %v, want %v", tt.input, err, tt.want)
			}

			if report != nil {
				t.Errorf("Interpret(%q) returned a report with an error", tt.input)
			}
		})
	}
}

func TestInterpret_ReportKeys(t *testing.T) {
	report, err := New().Interpret(t.Context(), "let x: number = 10 / 4; x = x * 2")
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"let x: number =\n\t(\n\t\tNumberExpression(10.000000)\n\t\t/\n\t\tNumberExpression(4.000000)\n\t)": "2.500000",
		"x =\n\t(\n\t\tIdentifier(x)\n\t\t*\n\t\tNumberExpression(2.000000)\n\t)":                           "5.000000",
	}

	got := report.Map()
	if len(got) != len(want) {
		t.Fatalf("report = %q", got)
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("report[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestParse_Tree(t *testing.T) {
	program, err := New().Parse(t.Context(), "{ !a } -1")
	if err == nil {
		t.Fatalf("unary minus is not an operator, got %s", program.Repr(0))
	}

	program, err = New().Parse(t.Context(), "{ !a }")
	if err != nil {
		t.Fatal(err)
	}

	want := "{\n\t{\n\t\t(\n\t\t\t!\n\t\t\tIdentifier(a)\n\t\t)\n\t}\n}"
	if got := program.Repr(0); got != want {
		t.Errorf("Repr =\n%s\nwant\n%s", got, want)
	}
}

func TestStrategies(t *testing.T) {
	const src = "let x: number = 1 x = 2 x"

	tests := []struct {
		strategy lang.Strategy
		want     string
		err      error
	}{
		{lang.FirstMatch, "2.000000", nil},
		{lang.LongestMatch, "2.000000", nil},
		// The expression production also matches "x" and, being
		// registered last, wins; "=" then starts no statement.
		{lang.LastMatch, "", lang.ErrUnknownToken},
	}

	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			report, err := New(WithStrategy(tt.strategy)).Interpret(t.Context(), src)
			if !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want %v", err, tt.err)
			}

			if tt.err != nil {
				return
			}

			if last, _ := report.Last(); last.Value != tt.want {
				t.Errorf("result = %s, want %s", last.Value, tt.want)
			}
		})
	}
}

func TestLexerConfig(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"let x: number = 1;", []string{AssignKeyword, Ident, Colon, TypeName, Assign, Number, Semicolon, lang.EOF}},
		{"letter", []string{AssignKeyword, Ident, lang.EOF}},
		{"truely", []string{Bool, Ident, lang.EOF}},
		{"a&&b||!c", []string{Ident, Operator, Ident, Operator, UnaryOperator, Ident, lang.EOF}},
		{"{(x)}", []string{OpenBrace, OpenParen, Ident, CloseParen, CloseBrace, lang.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := lang.Lex(t.Context(), LexerConfig(), tt.input)
			if err != nil {
				t.Fatal(err)
			}

			got := make([]string, len(toks))
			for i, tok := range toks {
				got[i] = tok.Type
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("types = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistry_Productions(t *testing.T) {
	r := Registry()

	var top []string
	for name := range r.TopLevel() {
		top = append(top, name)
	}

	want := []string{DeclarationProduction, AssignmentProduction, BlockProduction, ExpressionProduction}
	if !slices.Equal(top, want) {
		t.Errorf("top-level = %v, want %v", top, want)
	}

	for _, name := range []string{UnaryProduction, PrimaryProduction, BooleanProduction, lang.NumberExpressionProduction} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("production %s not registered", name)
		}
	}
}

func TestWithInterpreter_ExtraRule(t *testing.T) {
	nonNegative := lang.MustExprRule("non-negative", lang.OnInit|lang.OnSet,
		`kind != "NumberValue" || !(repr startsWith "-")`)

	l := New(WithInterpreter(lang.WithRules(nonNegative)))

	if _, err := l.Interpret(t.Context(), "let x: number = 0 - 1"); !errors.Is(err, lang.ErrRuleRejected) {
		t.Errorf("error = %v, want ErrRuleRejected", err)
	}

	if _, err := l.Interpret(t.Context(), "let x: number = 1 - 0"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEval_PersistentEnvironment(t *testing.T) {
	l := New()
	env := l.NewEnvironment()

	steps := []struct {
		src  string
		want string
	}{
		{"let n: number = 1", "1.000000"},
		{"n = n + 1", "2.000000"},
		{"n * 10", "20.000000"},
	}

	for _, step := range steps {
		v, _, err := l.Eval(t.Context(), step.src, env)
		if err != nil {
			t.Fatalf("Eval(%q): %v", step.src, err)
		}

		if v.Repr() != step.want {
			t.Errorf("Eval(%q) = %s, want %s", step.src, v.Repr(), step.want)
		}
	}

	slot, ok := env.Lookup("n")
	if !ok {
		t.Fatal("n not declared")
	}

	if m, _ := slot.Property(PropMutable); m != "true" {
		t.Errorf("isMutable = %q, want true", m)
	}

	if typ, _ := slot.Property(PropType); typ != "number" {
		t.Errorf("type = %q, want number", typ)
	}
}

func TestInterpret_ConcurrentWithCache(t *testing.T) {
	cache := lang.NewParseCache()
	l := New(WithCache(cache))

	var wg sync.WaitGroup

	for range 16 {
		wg.Go(func() {
			report, err := l.Interpret(t.Context(), "let x: number = 3 { x = x * x } x")
			if err != nil {
				t.Error(err)

				return
			}

			if last, _ := report.Last(); last.Value != "9.000000" {
				t.Errorf("result = %s, want 9.000000", last.Value)
			}
		})
	}

	wg.Wait()

	if hits, misses := cache.Stats(); misses != 1 || hits != 15 {
		t.Errorf("cache stats = %d hits, %d misses", hits, misses)
	}
}
