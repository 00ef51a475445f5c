package typedmap

import "github.com/mesh-intelligence/varmap/pkg/variant"

// HoldsAs reports whether key is present and its active alternative is
// exactly T.
func HoldsAs[T any](m *Map, key string) bool {
	v, ok := m.values[key]
	return ok && variant.Holds[T](v)
}

// Get returns the value at key when it is present and held exactly as T,
// and def otherwise. It never converts.
func Get[T any](m *Map, key string, def T) T {
	v, ok := m.values[key]
	if !ok {
		return def
	}
	if t, ok := variant.Get[T](v); ok {
		return t
	}
	return def
}

// CastGet returns the value at key as T, converting through the map's
// registry when the active alternative differs. An absent key is a
// *KeyNotFoundError; conversion errors are returned unchanged.
func CastGet[T any](m *Map, key string) (T, error) {
	v, ok := m.values[key]
	if !ok {
		var zero T
		return zero, &KeyNotFoundError{Key: key}
	}
	return variant.CastWith[T](m.registry, v)
}

// CastGetOr is CastGet returning def for an absent key or a failed
// conversion.
func CastGetOr[T any](m *Map, key string, def T) T {
	v, ok := m.values[key]
	if !ok {
		return def
	}
	return variant.CastOrWith(m.registry, v, def)
}

// Set stores value at key as alternative T, replacing any existing entry.
// The only failure is T not being an alternative of the map's set.
func Set[T any](m *Map, key string, value T) error {
	v, err := variant.Hold(m.set, value)
	if err != nil {
		return err
	}
	m.values[key] = v
	return nil
}

// Emplace stores value at key only if key is absent. It reports whether
// the entry was inserted; an existing entry is left untouched.
func Emplace[T any](m *Map, key string, value T) (bool, error) {
	v, err := variant.Hold(m.set, value)
	if err != nil {
		return false, err
	}
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = v
	return true, nil
}

// TypeIndexOf returns the index of T in the map's alternative set.
func TypeIndexOf[T any](m *Map) (int, error) {
	return variant.IndexOf[T](m.set)
}
