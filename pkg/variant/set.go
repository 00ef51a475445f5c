package variant

import (
	"fmt"
	"reflect"
	"strings"
)

// Set is an ordered, fixed list of distinct alternative types. The position
// of a type in the list is its index. A Set is immutable once built and may
// be shared freely.
type Set struct {
	types []reflect.Type
}

// NewSet builds an alternative set from the given types in order.
// Returns ErrEmptySet for an empty list and ErrDuplicateAlternative when a
// type appears twice.
func NewSet(types ...reflect.Type) (*Set, error) {
	if len(types) == 0 {
		return nil, ErrEmptySet
	}
	for i, t := range types {
		if t == nil {
			return nil, fmt.Errorf("alternative %d: nil type", i)
		}
		for _, prev := range types[:i] {
			if prev == t {
				return nil, fmt.Errorf("%w: %v", ErrDuplicateAlternative, t)
			}
		}
	}
	s := &Set{types: make([]reflect.Type, len(types))}
	copy(s.types, types)
	return s, nil
}

// MustSet is like NewSet but panics on error. It is meant for package-level
// declarations whose types are fixed in source.
func MustSet(types ...reflect.Type) *Set {
	s, err := NewSet(types...)
	if err != nil {
		panic(err)
	}
	return s
}

// TypeOf returns the reflect.Type of T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Of1 declares a set with a single alternative.
func Of1[A any]() *Set { return MustSet(TypeOf[A]()) }

// Of2 declares the set {A, B}.
func Of2[A, B any]() *Set { return MustSet(TypeOf[A](), TypeOf[B]()) }

// Of3 declares the set {A, B, C}.
func Of3[A, B, C any]() *Set {
	return MustSet(TypeOf[A](), TypeOf[B](), TypeOf[C]())
}

// Of4 declares the set {A, B, C, D}.
func Of4[A, B, C, D any]() *Set {
	return MustSet(TypeOf[A](), TypeOf[B](), TypeOf[C](), TypeOf[D]())
}

// Of5 declares the set {A, B, C, D, E}.
func Of5[A, B, C, D, E any]() *Set {
	return MustSet(TypeOf[A](), TypeOf[B](), TypeOf[C](), TypeOf[D](), TypeOf[E]())
}

// Of6 declares the set {A, B, C, D, E, F}.
func Of6[A, B, C, D, E, F any]() *Set {
	return MustSet(TypeOf[A](), TypeOf[B](), TypeOf[C](), TypeOf[D](), TypeOf[E](), TypeOf[F]())
}

// Len returns the number of alternatives.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.types)
}

// At returns the alternative at index i.
func (s *Set) At(i int) reflect.Type { return s.types[i] }

// Types returns a copy of the alternatives in declaration order.
func (s *Set) Types() []reflect.Type {
	out := make([]reflect.Type, len(s.types))
	copy(out, s.types)
	return out
}

// IndexOf returns the position of t, scanning in declaration order.
func (s *Set) IndexOf(t reflect.Type) (int, bool) {
	if s == nil {
		return -1, false
	}
	for i, alt := range s.types {
		if alt == t {
			return i, true
		}
	}
	return -1, false
}

// Contains reports whether t is one of the alternatives.
func (s *Set) Contains(t reflect.Type) bool {
	_, ok := s.IndexOf(t)
	return ok
}

// Equal reports whether both sets declare the same types in the same order.
func (s *Set) Equal(o *Set) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil || len(s.types) != len(o.types) {
		return false
	}
	for i := range s.types {
		if s.types[i] != o.types[i] {
			return false
		}
	}
	return true
}

func (s *Set) String() string {
	if s == nil {
		return "variant<>"
	}
	names := make([]string, len(s.types))
	for i, t := range s.types {
		names[i] = t.String()
	}
	return "variant<" + strings.Join(names, ", ") + ">"
}

// IndexOf returns the zero-based position of T in s.
// Returns ErrNotAlternative if T is not a member.
func IndexOf[T any](s *Set) (int, error) {
	t := TypeOf[T]()
	i, ok := s.IndexOf(t)
	if !ok {
		return -1, notAlternative(t, s)
	}
	return i, nil
}

// MustIndexOf is like IndexOf but panics when T is not a member.
func MustIndexOf[T any](s *Set) int {
	i, err := IndexOf[T](s)
	if err != nil {
		panic(err)
	}
	return i
}
