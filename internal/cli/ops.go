package cli

import (
	"fmt"

	"github.com/mesh-intelligence/varmap/internal/kinds"
	"github.com/mesh-intelligence/varmap/pkg/typedmap"
	"github.com/mesh-intelligence/varmap/pkg/variant"
)

// kindOps runs the generic typed-map and cast operations for one kind named
// on the command line. Results and defaults travel as text.
type kindOps struct {
	cast      func(r *variant.Registry, v variant.Variant) (string, error)
	castOr    func(r *variant.Registry, v variant.Variant, def string) (string, error)
	get       func(m *typedmap.Map, key string) (string, bool, error)
	getOr     func(m *typedmap.Map, key, def string) (string, error)
	castGet   func(m *typedmap.Map, key string) (string, error)
	castGetOr func(m *typedmap.Map, key, def string) (string, error)
}

var opsByKind = map[string]kindOps{
	kinds.KindInt:     opsFor[int](),
	kinds.KindInt64:   opsFor[int64](),
	kinds.KindUint:    opsFor[uint](),
	kinds.KindFloat32: opsFor[float32](),
	kinds.KindFloat64: opsFor[float64](),
	kinds.KindBool:    opsFor[bool](),
	kinds.KindString:  opsFor[string](),
}

func lookupOps(kind string) (kindOps, error) {
	ops, ok := opsByKind[kind]
	if !ok {
		return kindOps{}, fmt.Errorf("%w: %q", kinds.ErrUnknownKind, kind)
	}
	return ops, nil
}

func opsFor[T any]() kindOps {
	t := variant.TypeOf[T]()
	text := variant.TypeOf[string]()

	format := func(r *variant.Registry, v T) (string, error) {
		return variant.To[string](r, v, t)
	}
	parseDefault := func(r *variant.Registry, def string) (T, error) {
		out, err := variant.To[T](r, def, text)
		if err != nil {
			return out, fmt.Errorf("default %q: %w", def, err)
		}
		return out, nil
	}

	return kindOps{
		cast: func(r *variant.Registry, v variant.Variant) (string, error) {
			out, err := variant.CastWith[T](r, v)
			if err != nil {
				return "", err
			}
			return format(r, out)
		},
		castOr: func(r *variant.Registry, v variant.Variant, def string) (string, error) {
			d, err := parseDefault(r, def)
			if err != nil {
				return "", err
			}
			return format(r, variant.CastOrWith(r, v, d))
		},
		get: func(m *typedmap.Map, key string) (string, bool, error) {
			if !typedmap.HoldsAs[T](m, key) {
				return "", false, nil
			}
			var zero T
			s, err := format(m.Registry(), typedmap.Get(m, key, zero))
			return s, true, err
		},
		getOr: func(m *typedmap.Map, key, def string) (string, error) {
			d, err := parseDefault(m.Registry(), def)
			if err != nil {
				return "", err
			}
			return format(m.Registry(), typedmap.Get(m, key, d))
		},
		castGet: func(m *typedmap.Map, key string) (string, error) {
			out, err := typedmap.CastGet[T](m, key)
			if err != nil {
				return "", err
			}
			return format(m.Registry(), out)
		},
		castGetOr: func(m *typedmap.Map, key, def string) (string, error) {
			d, err := parseDefault(m.Registry(), def)
			if err != nil {
				return "", err
			}
			return format(m.Registry(), typedmap.CastGetOr(m, key, d))
		},
	}
}
