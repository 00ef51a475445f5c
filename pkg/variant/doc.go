// Package variant implements a closed tagged union over an ordered set of
// alternative types, together with the conversion engine used to read a
// variant's payload as a type other than its active alternative.
//
// An alternative set is declared once, usually with the generic constructors:
//
//	set := variant.Of3[int, bool, string]()
//	v, _ := variant.Hold(set, 1)
//	s, err := variant.Cast[string](v) // "1"
//
// Casts resolve in three steps: a rule registered for the exact (from, to)
// pair, then Go's own conversion between the two types, then failure with a
// *ConversionError. Text coercions for the numeric and boolean kinds are
// registered as rules in every registry made by NewRegistry.
package variant
