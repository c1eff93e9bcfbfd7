package lang

import (
	"context"
	"log/slog"
	"reflect"
	"slices"

	"github.com/ardnew/langgen/log"
)

// DefaultMaxDepth is the default limit on nested [Interpreter.Evaluate] calls.
const DefaultMaxDepth = 10000

// Evaluator computes the value of a node in env. Evaluators of composite
// nodes call [Interpreter.Evaluate] on their children.
type Evaluator func(in *Interpreter, node Node, env *Environment) (Value, error)

// EvaluatorFor adapts a function over a concrete node type to an [Evaluator].
// The returned evaluator fails with [ErrNodeType] if given any other type.
func EvaluatorFor[T Node](
	fn func(in *Interpreter, node T, env *Environment) (Value, error),
) Evaluator {
	return func(in *Interpreter, node Node, env *Environment) (Value, error) {
		n, ok := node.(T)
		if !ok {
			return nil, ErrNodeType.With(
				slog.String("type", node.Type()),
				slog.String("want", reflect.TypeFor[T]().String()),
			)
		}

		return fn(in, n, env)
	}
}

// Interpreter evaluates nodes by dispatching on their type tag.
//
// An Interpreter must not be reconfigured while evaluating. Calls to
// [Interpreter.Interpret] may run concurrently; direct calls to Evaluate and
// EvaluateScope share a depth counter and must not.
type Interpreter struct {
	evaluators map[string]Evaluator
	config     EnvConfig
	logger     log.Logger
	maxDepth   int
	depth      int
}

// InterpreterOption configures an [Interpreter].
type InterpreterOption func(*Interpreter)

// WithEvaluator registers ev for nodes with type tag typ, replacing any
// evaluator already registered for it.
func WithEvaluator(typ string, ev Evaluator) InterpreterOption {
	return func(in *Interpreter) { in.evaluators[typ] = ev }
}

// WithProperties adds names to the set of properties a slot may carry.
func WithProperties(names ...string) InterpreterOption {
	return func(in *Interpreter) {
		for _, name := range names {
			if !slices.Contains(in.config.Properties, name) {
				in.config.Properties = append(in.config.Properties, name)
			}
		}
	}
}

// WithRules appends validation rules.
func WithRules(rules ...Rule) InterpreterOption {
	return func(in *Interpreter) {
		in.config.Rules = append(in.config.Rules, rules...)
	}
}

// WithLogger sets the logger used while evaluating.
func WithLogger(logger log.Logger) InterpreterOption {
	return func(in *Interpreter) { in.logger = logger }
}

// WithMaxDepth limits nesting of [Interpreter.Evaluate] calls.
// A depth of zero or less disables the limit.
func WithMaxDepth(depth int) InterpreterOption {
	return func(in *Interpreter) { in.maxDepth = depth }
}

// NewInterpreter returns an interpreter with evaluators for [Scope] and
// [NumberExpression] in addition to those given by opts.
func NewInterpreter(opts ...InterpreterOption) *Interpreter {
	in := &Interpreter{
		evaluators: map[string]Evaluator{
			NumberExpressionType: EvaluatorFor(evalNumber),
			ScopeType:            EvaluatorFor(evalNestedScope),
		},
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(in)
	}

	return in
}

// Configure applies opts to in. It must not be called during evaluation.
func (in *Interpreter) Configure(opts ...InterpreterOption) *Interpreter {
	for _, opt := range opts {
		opt(in)
	}

	return in
}

// Logger returns the interpreter's logger.
func (in *Interpreter) Logger() log.Logger { return in.logger }

// EnvConfig returns the policy shared by environments created by in.
func (in *Interpreter) EnvConfig() *EnvConfig { return &in.config }

// NewEnvironment returns a scope enclosed by parent using in's policy.
func (in *Interpreter) NewEnvironment(parent *Environment) *Environment {
	return NewEnvironment(&in.config, parent)
}

// Evaluate computes the value of node in env.
func (in *Interpreter) Evaluate(node Node, env *Environment) (Value, error) {
	if node == nil {
		return Null{}, nil
	}

	ev, ok := in.evaluators[node.Type()]
	if !ok {
		return nil, ErrNoEvaluator.With(slog.String("type", node.Type()))
	}

	if in.maxDepth > 0 && in.depth >= in.maxDepth {
		return nil, ErrMaxDepth.With(slog.Int("max_depth", in.maxDepth))
	}

	in.depth++
	defer func() { in.depth-- }()

	v, err := ev(in, node, env)
	if err != nil {
		return nil, err
	}

	if v == nil {
		return nil, ErrNoValue.With(slog.String("type", node.Type()))
	}

	in.logger.Trace("evaluate",
		slog.String("node", node.Type()),
		valueAttr("value", v))

	return v, nil
}

// EvaluateScope evaluates each statement of scope in order and returns the
// value of the last one, or [Null] if scope is empty. If env is nil a new
// root environment is used.
//
// The returned report has one entry per statement.
func (in *Interpreter) EvaluateScope(
	scope *Scope,
	env *Environment,
) (Value, Report, error) {
	if env == nil {
		env = in.NewEnvironment(nil)
	}

	if scope == nil {
		return Null{}, Report{}, nil
	}

	var (
		last   Value = Null{}
		report       = make(Report, 0, scope.Len())
	)

	for _, stmt := range scope.Body {
		v, err := in.Evaluate(stmt, env)
		if err != nil {
			return nil, report, err
		}

		report = append(report, Result{
			Statement: stmt.Repr(0),
			Value:     v.Repr(),
		})

		last = v
	}

	return last, report, nil
}

// Interpret evaluates program in a new root environment.
func (in *Interpreter) Interpret(
	ctx context.Context,
	program *Scope,
) (Report, error) {
	run := *in
	run.depth = 0

	_, report, err := run.EvaluateScope(program, nil)
	if err != nil {
		in.logger.DebugContext(ctx, "interpret failed",
			slog.Int("completed", len(report)),
			slog.Any("error", err))

		return nil, err
	}

	in.logger.DebugContext(ctx, "interpret complete",
		slog.Int("statement_count", len(report)))

	return report, nil
}

func evalNumber(
	_ *Interpreter,
	n *NumberExpression,
	_ *Environment,
) (Value, error) {
	return Number(n.Value), nil
}

// evalNestedScope evaluates a scope appearing as a statement in a child of
// env. Its bindings are discarded afterward.
func evalNestedScope(in *Interpreter, s *Scope, env *Environment) (Value, error) {
	v, _, err := in.EvaluateScope(s, in.NewEnvironment(env))

	return v, err
}
