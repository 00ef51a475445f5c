package kinds

import (
	"fmt"
	"reflect"

	"github.com/mesh-intelligence/varmap/pkg/variant"
)

// Parse reads text as a value of the named kind and returns a variant over
// set holding it. The text goes through the same text coercion rules as a
// cast from string, so "12abc" parses as int 12 and only "true" is true.
func Parse(r *variant.Registry, set *variant.Set, kind, text string) (variant.Variant, error) {
	t, err := Type(kind)
	if err != nil {
		return variant.New(set), err
	}
	if !set.Contains(t) {
		return variant.New(set), fmt.Errorf("%w: kind %s not in %v", variant.ErrNotAlternative, kind, set)
	}

	value, err := r.Convert(text, textType, t)
	if err != nil {
		return variant.New(set), err
	}
	return hold(set, t, value)
}

// Format renders the payload of v as text through r.
func Format(r *variant.Registry, v variant.Variant) (string, error) {
	return variant.CastWith[string](r, v)
}

// hold wraps a value whose dynamic type is t in a variant over set.
func hold(set *variant.Set, t reflect.Type, value any) (variant.Variant, error) {
	switch t {
	case kindTypes[KindInt]:
		return variant.Hold(set, value.(int))
	case kindTypes[KindInt64]:
		return variant.Hold(set, value.(int64))
	case kindTypes[KindUint]:
		return variant.Hold(set, value.(uint))
	case kindTypes[KindFloat32]:
		return variant.Hold(set, value.(float32))
	case kindTypes[KindFloat64]:
		return variant.Hold(set, value.(float64))
	case kindTypes[KindBool]:
		return variant.Hold(set, value.(bool))
	case kindTypes[KindString]:
		return variant.Hold(set, value.(string))
	default:
		return variant.New(set), fmt.Errorf("%w: %v", ErrUnknownKind, t)
	}
}
