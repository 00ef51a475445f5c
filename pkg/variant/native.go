package variant

import "reflect"

// nativeConvert applies Go's conversion from type from to type to, the
// equivalent of writing to(value) in source. Integer to string is refused:
// Go reads it as a code point, which is never the intended coercion.
func nativeConvert(value any, from, to reflect.Type) (any, bool) {
	if !from.ConvertibleTo(to) || isRuneConversion(from, to) {
		return nil, false
	}

	src := reflect.New(from).Elem()
	if value != nil {
		rv := reflect.ValueOf(value)
		if !rv.Type().AssignableTo(from) {
			return nil, false
		}
		src.Set(rv)
	}
	// ConvertibleTo holds for slice to array of any length; CanConvert also
	// checks the length of this particular value.
	if !src.CanConvert(to) {
		return nil, false
	}
	return src.Convert(to).Interface(), true
}

func isRuneConversion(from, to reflect.Type) bool {
	if to.Kind() != reflect.String {
		return false
	}
	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}
