package variant

import (
	"fmt"
	"reflect"
)

// Variant holds exactly one value whose declared type is an alternative of
// its set, or nothing. The zero Variant is empty and has no set.
//
// A Variant is a value: copying it copies the payload, and assigning a new
// alternative replaces the previous payload.
type Variant struct {
	set   *Set
	tag   int // index+1 of the active alternative; 0 when empty
	value any
}

// New returns an empty variant over s.
func New(s *Set) Variant {
	return Variant{set: s}
}

// Hold returns a variant over s holding v as alternative T.
// Returns ErrNotAlternative if T is not a member of s.
func Hold[T any](s *Set, v T) (Variant, error) {
	i, err := IndexOf[T](s)
	if err != nil {
		return New(s), err
	}
	return Variant{set: s, tag: i + 1, value: v}, nil
}

// MustHold is like Hold but panics when T is not a member of s.
func MustHold[T any](s *Set, v T) Variant {
	out, err := Hold(s, v)
	if err != nil {
		panic(err)
	}
	return out
}

// Assign makes dst hold v as alternative T. dst is unchanged on error.
func Assign[T any](dst *Variant, v T) error {
	out, err := Hold(dst.set, v)
	if err != nil {
		return err
	}
	*dst = out
	return nil
}

// Set returns the alternative set of v.
func (v Variant) Set() *Set { return v.set }

// Empty reports whether v holds no value.
func (v Variant) Empty() bool { return v.tag == 0 }

// Index returns the zero-based index of the active alternative, or -1 when
// v is empty.
func (v Variant) Index() int { return v.tag - 1 }

// Type returns the declared type of the active alternative, or nil when v
// is empty.
func (v Variant) Type() reflect.Type {
	if v.tag == 0 {
		return nil
	}
	return v.set.At(v.tag - 1)
}

// Value returns the payload as an interface value.
func (v Variant) Value() any { return v.value }

func (v Variant) String() string {
	if v.tag == 0 {
		return "<empty>"
	}
	return fmt.Sprintf("%v(%v)", v.Type(), v.value)
}

// Holds reports whether the active alternative of v is exactly T.
func Holds[T any](v Variant) bool {
	return v.tag != 0 && v.Type() == TypeOf[T]()
}

// Get returns the payload when the active alternative is exactly T. No
// conversion is attempted.
func Get[T any](v Variant) (T, bool) {
	if !Holds[T](v) {
		var zero T
		return zero, false
	}
	t, _ := v.value.(T)
	return t, true
}
