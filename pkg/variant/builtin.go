package variant

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/exp/constraints"
)

// installBuiltins registers the text coercions for every numeric kind and
// bool, in both directions, plus bool to number and number to bool.
func installBuiltins(r *Registry) {
	signedRules[int](r)
	signedRules[int8](r)
	signedRules[int16](r)
	signedRules[int32](r)
	signedRules[int64](r)

	unsignedRules[uint](r)
	unsignedRules[uint8](r)
	unsignedRules[uint16](r)
	unsignedRules[uint32](r)
	unsignedRules[uint64](r)

	floatRules[float32](r)
	floatRules[float64](r)

	Register(r, formatText[bool])
	Register(r, textToBool)
}

func signedRules[T constraints.Signed](r *Registry) {
	Register(r, formatText[T])
	Register(r, textToSigned[T])
	Register(r, boolToNumber[T])
	Register(r, numberToBool[T])
}

func unsignedRules[T constraints.Unsigned](r *Registry) {
	Register(r, formatText[T])
	Register(r, textToUnsigned[T])
	Register(r, boolToNumber[T])
	Register(r, numberToBool[T])
}

func floatRules[T constraints.Float](r *Registry) {
	Register(r, formatText[T])
	Register(r, textToFloat[T])
	Register(r, boolToNumber[T])
	Register(r, numberToBool[T])
}

// formatText renders numbers in plain decimal and bools as "true"/"false".
func formatText[T constraints.Integer | constraints.Float | ~bool](v T) (string, error) {
	return cast.ToStringE(v)
}

// textToBool is strict: only the exact text "true" is true.
func textToBool(s string) (bool, error) {
	return s == "true", nil
}

func boolToNumber[T constraints.Integer | constraints.Float](b bool) (T, error) {
	if b {
		return 1, nil
	}
	return 0, nil
}

// numberToBool is true for any non-zero value, NaN included.
func numberToBool[T constraints.Integer | constraints.Float](v T) (bool, error) {
	return v != 0, nil
}

func textToSigned[T constraints.Signed](s string) (T, error) {
	to := TypeOf[T]()
	digits := integerPrefix(s)
	if digits == "" {
		return 0, &ParseError{Text: s, To: to}
	}
	n, err := strconv.ParseInt(digits, 10, to.Bits())
	if err != nil {
		return 0, &ParseError{Text: s, To: to, Err: err}
	}
	return T(n), nil
}

func textToUnsigned[T constraints.Unsigned](s string) (T, error) {
	to := TypeOf[T]()
	digits := strings.TrimPrefix(integerPrefix(s), "+")
	if digits == "" {
		return 0, &ParseError{Text: s, To: to}
	}
	n, err := strconv.ParseUint(digits, 10, to.Bits())
	if err != nil {
		return 0, &ParseError{Text: s, To: to, Err: err}
	}
	return T(n), nil
}

func textToFloat[T constraints.Float](s string) (T, error) {
	to := TypeOf[T]()
	f, ok, err := floatPrefix(s, to.Bits())
	if err != nil {
		return 0, &ParseError{Text: s, To: to, Err: err}
	}
	if !ok {
		return 0, &ParseError{Text: s, To: to}
	}
	return T(f), nil
}

// cSpace is the white space skipped before a numeral: the ASCII set of the
// C locale, so non-ASCII spaces are not skipped.
const cSpace = " \t\n\v\f\r"

// integerPrefix returns the leading optionally signed run of decimal digits
// of s after leading white space, or "" when there is none.
func integerPrefix(s string) string {
	s = strings.TrimLeft(s, cSpace)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	j := skipDigits(s, i, isDecimal)
	if j == i {
		return ""
	}
	return s[:j]
}

// floatPrefix parses the longest leading floating-point numeral of s after
// leading white space. ok is false when there is none.
func floatPrefix(s string, bits int) (f float64, ok bool, err error) {
	s = strings.TrimLeft(s, cSpace)
	numeral := floatNumeral(s)
	if numeral == "" {
		return 0, false, nil
	}
	f, err = strconv.ParseFloat(numeral, bits)
	if err != nil {
		return 0, false, err
	}
	return f, true, nil
}

// floatNumeral scans the leading numeral of s in one pass and returns it in
// a form strconv.ParseFloat accepts. It recognizes decimal numerals with an
// optional exponent, hexadecimal numerals with an optional p exponent, and
// inf, infinity and nan in any case.
func floatNumeral(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	sign := s[:i]
	rest := s[i:]

	for _, word := range []string{"infinity", "inf"} {
		if hasFoldPrefix(rest, word) {
			return sign + rest[:len(word)]
		}
	}
	// ParseFloat rejects a signed NaN.
	if hasFoldPrefix(rest, "nan") {
		return rest[:3]
	}

	if len(rest) > 2 && rest[0] == '0' && (rest[1] == 'x' || rest[1] == 'X') {
		if hex := hexNumeral(rest[2:]); hex != "" {
			return sign + rest[:2] + hex
		}
		// "0x" with no hex digits reads as the numeral 0.
		return sign + "0"
	}

	end, ok := mantissa(rest, isDecimal)
	if !ok {
		return ""
	}
	end = exponent(rest, end, 'e', 'E')
	return sign + rest[:end]
}

// hexNumeral scans hex digits with an optional point and p exponent after a
// 0x prefix. A missing exponent is written as p0, which ParseFloat requires.
func hexNumeral(s string) string {
	end, ok := mantissa(s, isHex)
	if !ok {
		return ""
	}
	withExp := exponent(s, end, 'p', 'P')
	if withExp == end {
		return s[:end] + "p0"
	}
	return s[:withExp]
}

// mantissa scans digits, an optional point and more digits starting at 0.
// ok is false when no digit is present.
func mantissa(s string, digit func(byte) bool) (end int, ok bool) {
	end = skipDigits(s, 0, digit)
	n := end
	if end < len(s) && s[end] == '.' {
		after := skipDigits(s, end+1, digit)
		n += after - end - 1
		end = after
	}
	if n == 0 {
		return 0, false
	}
	return end, true
}

// exponent extends end over an exponent marked by lower or upper when at
// least one decimal digit follows the optional sign.
func exponent(s string, end int, lower, upper byte) int {
	if end >= len(s) || (s[end] != lower && s[end] != upper) {
		return end
	}
	i := end + 1
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	j := skipDigits(s, i, isDecimal)
	if j == i {
		return end
	}
	return j
}

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func skipDigits(s string, i int, digit func(byte) bool) int {
	for i < len(s) && digit(s[i]) {
		i++
	}
	return i
}

func isDecimal(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
