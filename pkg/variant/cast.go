package variant

// Cast returns the payload of v as T, converting through the default
// registry when the active alternative is not T.
func Cast[T any](v Variant) (T, error) {
	return CastWith[T](Default(), v)
}

// CastWith is Cast with an explicit registry.
// Returns ErrEmptyVariant for an empty variant, a *ConversionError when no
// conversion exists and the rule's error when a rule fails.
func CastWith[T any](r *Registry, v Variant) (T, error) {
	if v.Empty() {
		var zero T
		return zero, ErrEmptyVariant
	}
	if t, ok := Get[T](v); ok {
		return t, nil
	}
	return To[T](r, v.value, v.Type())
}

// CastOr is Cast returning def instead of an error.
func CastOr[T any](v Variant, def T) T {
	return CastOrWith(Default(), v, def)
}

// CastOrWith is CastWith returning def instead of an error.
func CastOrWith[T any](r *Registry, v Variant, def T) T {
	t, err := CastWith[T](r, v)
	if err != nil {
		return def
	}
	return t
}

// Retag moves the payload of src into a variant over dst without converting
// it. The active alternative of src must also be an alternative of dst,
// otherwise Retag returns an *IncompatibleTypeError.
func Retag(src Variant, dst *Set) (Variant, error) {
	if src.Empty() {
		return New(dst), ErrEmptyVariant
	}
	t := src.Type()
	i, ok := dst.IndexOf(t)
	if !ok {
		return New(dst), &IncompatibleTypeError{Type: t, Set: dst}
	}
	return Variant{set: dst, tag: i + 1, value: src.value}, nil
}

// RetagInto is Retag writing into dst, keeping dst's set. dst is unchanged
// on error.
func RetagInto(dst *Variant, src Variant) error {
	out, err := Retag(src, dst.set)
	if err != nil {
		return err
	}
	*dst = out
	return nil
}
