// Package typedmap provides a string-keyed map whose values are variants
// over one alternative set, with typed accessors that fall back to a
// caller-supplied default.
//
// A Map does no locking. Callers that share one across goroutines must
// synchronise access themselves, as with a built-in map.
package typedmap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mesh-intelligence/varmap/pkg/variant"
)

// ErrKeyNotFound is wrapped by KeyNotFoundError.
var ErrKeyNotFound = errors.New("no such key")

// KeyNotFoundError reports a strict lookup of an absent key.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("no such key as: %s", e.Key)
}

func (e *KeyNotFoundError) Unwrap() error { return ErrKeyNotFound }

// Map is a string-keyed map of variants sharing one alternative set.
type Map struct {
	set      *variant.Set
	registry *variant.Registry
	values   map[string]variant.Variant
}

// Option configures a Map.
type Option func(*Map)

// WithRegistry makes casts on the map use r instead of variant.Default().
func WithRegistry(r *variant.Registry) Option {
	return func(m *Map) {
		if r != nil {
			m.registry = r
		}
	}
}

// New creates an empty map over set.
func New(set *variant.Set, options ...Option) *Map {
	m := &Map{
		set:      set,
		registry: variant.Default(),
		values:   make(map[string]variant.Variant),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// NewFrom creates a map over set holding entries. Entries declared over
// another set are retagged into set; the first entry that cannot be is
// reported with its key.
func NewFrom(set *variant.Set, entries map[string]variant.Variant, options ...Option) (*Map, error) {
	m := New(set, options...)
	for key, v := range entries {
		if err := m.Put(key, v); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Alternatives returns the map's alternative set.
func (m *Map) Alternatives() *variant.Set { return m.set }

// AlternativeCount returns the number of alternatives in the map's set.
func (m *Map) AlternativeCount() int { return m.set.Len() }

// Registry returns the registry used for casts.
func (m *Map) Registry() *variant.Registry { return m.registry }

// Count returns 1 if key is present and 0 otherwise.
func (m *Map) Count(key string) int {
	if _, ok := m.values[key]; ok {
		return 1
	}
	return 0
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.values) }

// Keys returns the keys in ascending order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the variant stored at key.
func (m *Map) Lookup(key string) (variant.Variant, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Put stores v at key, retagging it into the map's set when v was declared
// over another set. An empty variant is rejected with variant.ErrEmptyVariant.
func (m *Map) Put(key string, v variant.Variant) error {
	if v.Set() != m.set {
		out, err := variant.Retag(v, m.set)
		if err != nil {
			return fmt.Errorf("put %q: %w", key, err)
		}
		v = out
	} else if v.Empty() {
		return fmt.Errorf("put %q: %w", key, variant.ErrEmptyVariant)
	}
	m.values[key] = v
	return nil
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	_, ok := m.values[key]
	delete(m.values, key)
	return ok
}

// IndexAt returns the active alternative index of the entry at key.
func (m *Map) IndexAt(key string) (int, error) {
	v, ok := m.values[key]
	if !ok {
		return -1, &KeyNotFoundError{Key: key}
	}
	return v.Index(), nil
}
