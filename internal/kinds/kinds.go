// Package kinds names the alternative types that can be declared outside Go
// source: in config.yaml, on the command line and in the store.
package kinds

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/mesh-intelligence/varmap/pkg/variant"
)

// Kind names.
const (
	KindInt     = "int"
	KindInt64   = "int64"
	KindUint    = "uint"
	KindFloat32 = "float32"
	KindFloat64 = "float64"
	KindBool    = "bool"
	KindString  = "string"
)

// DefaultKinds is the alternative set used when none is configured.
var DefaultKinds = []string{KindInt, KindFloat64, KindBool, KindString}

// ErrUnknownKind is returned for a name that is not one of the Kind constants.
var ErrUnknownKind = errors.New("unknown kind")

var kindTypes = map[string]reflect.Type{
	KindInt:     variant.TypeOf[int](),
	KindInt64:   variant.TypeOf[int64](),
	KindUint:    variant.TypeOf[uint](),
	KindFloat32: variant.TypeOf[float32](),
	KindFloat64: variant.TypeOf[float64](),
	KindBool:    variant.TypeOf[bool](),
	KindString:  variant.TypeOf[string](),
}

// textType is the declared type of literals before they are cast.
var textType = variant.TypeOf[string]()

// IsValid reports whether name is a recognized kind.
func IsValid(name string) bool {
	_, ok := kindTypes[name]
	return ok
}

// Type returns the Go type for a kind name.
func Type(name string) (reflect.Type, error) {
	t, ok := kindTypes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return t, nil
}

// Name returns the kind name of t, or "" when t has none.
func Name(t reflect.Type) string {
	for name, kt := range kindTypes {
		if kt == t {
			return name
		}
	}
	return ""
}

// Names returns the kind names of every alternative in set, in order.
// Returns ErrUnknownKind if an alternative has no kind name.
func Names(set *variant.Set) ([]string, error) {
	names := make([]string, set.Len())
	for i := range names {
		names[i] = Name(set.At(i))
		if names[i] == "" {
			return nil, fmt.Errorf("%w: %v", ErrUnknownKind, set.At(i))
		}
	}
	return names, nil
}

// Set builds an alternative set from kind names in the given order.
func Set(names ...string) (*variant.Set, error) {
	types := make([]reflect.Type, len(names))
	for i, name := range names {
		t, err := Type(name)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return variant.NewSet(types...)
}
