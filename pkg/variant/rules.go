package variant

import (
	"fmt"
	"reflect"
	"sync"
)

// Rule converts a payload whose declared type is the rule's source type into
// a value of the rule's target type.
type Rule func(v any) (any, error)

// rulePair keys a rule by ordered (from, to) types.
type rulePair struct {
	from reflect.Type
	to   reflect.Type
}

// Registry holds the conversion rules consulted when a cast asks for a type
// other than the active alternative. At most one rule exists per ordered
// pair; registering a pair again replaces the earlier rule.
//
// A Registry is safe for concurrent use. Rules should be registered before
// the casts that depend on them run.
type Registry struct {
	mu    sync.RWMutex
	rules map[rulePair]Rule
}

// RegistryOption configures a registry at construction.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	builtins bool
}

// WithoutBuiltins leaves out the built-in text coercion rules, so only the
// native conversion applies until rules are registered.
func WithoutBuiltins() RegistryOption {
	return func(c *registryConfig) {
		c.builtins = false
	}
}

// NewRegistry creates a registry with the built-in text coercions installed.
func NewRegistry(options ...RegistryOption) *Registry {
	cfg := registryConfig{builtins: true}
	for _, option := range options {
		option(&cfg)
	}

	r := &Registry{rules: make(map[rulePair]Rule)}
	if cfg.builtins {
		installBuiltins(r)
	}
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by Cast and CastOr.
func Default() *Registry { return defaultRegistry }

// Register installs fn as the rule for converting L to T in r.
//
// When L is an interface type, a nil payload reaches fn as the zero L.
// Register panics if fn is nil.
func Register[L, T any](r *Registry, fn func(L) (T, error)) {
	if fn == nil {
		panic(fmt.Sprintf("register rule %v -> %v: rule cannot be nil", TypeOf[L](), TypeOf[T]()))
	}
	rule := func(v any) (any, error) {
		l, _ := v.(L)
		return fn(l)
	}
	// Both types come from type parameters, so RegisterRule cannot fail here.
	_ = r.RegisterRule(TypeOf[L](), TypeOf[T](), rule)
}

// RegisterRule installs rule for the ordered pair (from, to).
func (r *Registry) RegisterRule(from, to reflect.Type, rule Rule) error {
	if from == nil || to == nil {
		return fmt.Errorf("register rule: nil type")
	}
	if rule == nil {
		return fmt.Errorf("register rule %v -> %v: rule cannot be nil", from, to)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules[rulePair{from, to}] = rule
	return nil
}

// Unregister removes the rule for (from, to). It reports whether a rule was
// present.
func (r *Registry) Unregister(from, to reflect.Type) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := rulePair{from, to}
	_, ok := r.rules[key]
	delete(r.rules, key)
	return ok
}

// Has reports whether a rule is registered for (from, to).
func (r *Registry) Has(from, to reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rules[rulePair{from, to}]
	return ok
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rules)
}

func (r *Registry) lookup(from, to reflect.Type) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[rulePair{from, to}]
	return rule, ok
}

// Convert reinterprets value, whose declared type is from, as type to.
//
// The registered rule for (from, to) wins. Without one, Go's own conversion
// between the types is applied when it exists. Otherwise Convert returns a
// *ConversionError.
func (r *Registry) Convert(value any, from, to reflect.Type) (any, error) {
	if from == to {
		return value, nil
	}
	if rule, ok := r.lookup(from, to); ok {
		return rule(value)
	}
	if out, ok := nativeConvert(value, from, to); ok {
		return out, nil
	}
	return nil, &ConversionError{From: from, To: to}
}

// To converts value, declared as from, to T through r.
func To[T any](r *Registry, value any, from reflect.Type) (T, error) {
	var zero T
	out, err := r.Convert(value, from, TypeOf[T]())
	if err != nil {
		return zero, err
	}
	t, _ := out.(T)
	return t, nil
}
