package lang

import (
	"log/slog"
	"maps"
	"slices"
)

// Slot is a declared binding: a value and its properties.
type Slot struct {
	Value      Value
	Properties map[string]string
}

// Property returns the named property of s.
func (s Slot) Property(name string) (string, bool) {
	v, ok := s.Properties[name]

	return v, ok
}

func (s Slot) clone() Slot {
	return Slot{Value: s.Value, Properties: maps.Clone(s.Properties)}
}

// EnvConfig is the policy shared by every [Environment] of an interpreter.
// It must not be modified once an environment refers to it.
type EnvConfig struct {
	// Properties is the set of property names a slot may carry.
	Properties []string
	// Rules are checked on the lifecycle events they are sensitive to.
	Rules []Rule
}

func (c *EnvConfig) allows(property string) bool {
	return c != nil && slices.Contains(c.Properties, property)
}

func (c *EnvConfig) check(event Sensitivity, key string, s Slot) error {
	if c == nil {
		return nil
	}

	for _, rule := range c.Rules {
		if !rule.On.Has(event) {
			continue
		}

		ok, err := rule.Check(s.clone())
		if err != nil {
			return ErrRuleRejected.With(
				slog.String("rule", rule.Name),
				slog.String("event", event.String()),
				slog.String("name", key),
			).Wrap(err)
		}

		if !ok {
			return ErrRuleRejected.With(
				slog.String("rule", rule.Name),
				slog.String("event", event.String()),
				slog.String("name", key),
			)
		}
	}

	return nil
}

// Environment is a lexical scope. Lookups that miss locally continue in the
// parent scope.
type Environment struct {
	config *EnvConfig
	parent *Environment
	values map[string]*Slot
}

// NewEnvironment returns an empty scope enclosed by parent.
// If cfg is nil the parent's config is used.
func NewEnvironment(cfg *EnvConfig, parent *Environment) *Environment {
	if cfg == nil && parent != nil {
		cfg = parent.config
	}

	return &Environment{
		config: cfg,
		parent: parent,
		values: make(map[string]*Slot),
	}
}

// Parent returns the enclosing scope, or nil at the root.
func (e *Environment) Parent() *Environment { return e.parent }

// Config returns the policy of e.
func (e *Environment) Config() *EnvConfig { return e.config }

// Has reports whether key is declared in this scope. Parents are not
// searched.
func (e *Environment) Has(key string) bool {
	_, ok := e.values[key]

	return ok
}

// Init declares key in this scope, shadowing any binding in a parent.
func (e *Environment) Init(
	key string,
	value Value,
	props map[string]string,
) (Value, error) {
	if e.Has(key) {
		return nil, ErrRedeclared.With(slog.String("name", key))
	}

	for _, p := range slices.Sorted(maps.Keys(props)) {
		if !e.config.allows(p) {
			return nil, ErrInvalidProperty.With(
				slog.String("name", key),
				slog.String("property", p),
			)
		}
	}

	slot := &Slot{Value: value, Properties: maps.Clone(props)}
	if slot.Properties == nil {
		slot.Properties = map[string]string{}
	}

	e.values[key] = slot

	if err := e.config.check(OnInit, key, *slot); err != nil {
		delete(e.values, key)

		return nil, err
	}

	return value, nil
}

// Set replaces the value bound to key in the closest scope declaring it and
// returns the previous value. Properties are preserved.
func (e *Environment) Set(key string, value Value) (Value, error) {
	slot, err := e.resolve(key)
	if err != nil {
		return nil, err
	}

	if err := e.config.check(OnSet, key, *slot); err != nil {
		return nil, err
	}

	prev := slot.Value
	slot.Value = value

	return prev, nil
}

// Get returns the value bound to key in the closest scope declaring it.
func (e *Environment) Get(key string) (Value, error) {
	slot, err := e.resolve(key)
	if err != nil {
		return nil, err
	}

	if err := e.config.check(OnGet, key, *slot); err != nil {
		return nil, err
	}

	return slot.Value, nil
}

// Lookup returns a copy of the slot bound to key without running any rules.
func (e *Environment) Lookup(key string) (Slot, bool) {
	slot, err := e.resolve(key)
	if err != nil {
		return Slot{}, false
	}

	return slot.clone(), true
}

// Names returns every name visible from e, sorted.
func (e *Environment) Names() []string {
	seen := make(map[string]struct{})

	for env := e; env != nil; env = env.parent {
		for k := range env.values {
			seen[k] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

func (e *Environment) resolve(key string) (*Slot, error) {
	for env := e; env != nil; env = env.parent {
		if slot, ok := env.values[key]; ok {
			return slot, nil
		}
	}

	return nil, ErrUndeclared.With(slog.String("name", key))
}
