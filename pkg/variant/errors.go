package variant

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors. Structured errors below wrap one of these so callers can
// match with errors.Is.
var (
	ErrTypeConversion       = errors.New("type conversion not possible")
	ErrParse                = errors.New("text is not a valid numeral")
	ErrIncompatibleType     = errors.New("incompatible type specified")
	ErrNotAlternative       = errors.New("type is not an alternative of the set")
	ErrDuplicateAlternative = errors.New("duplicate alternative type")
	ErrEmptySet             = errors.New("alternative set must not be empty")
	ErrEmptyVariant         = errors.New("variant holds no value")
)

// ConversionError reports a cast with no exact match, no registered rule and
// no native conversion.
type ConversionError struct {
	From reflect.Type
	To   reflect.Type
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("can't convert from %v to %v", e.From, e.To)
}

func (e *ConversionError) Unwrap() error { return ErrTypeConversion }

// ParseError reports text that could not be read as a numeral of type To.
type ParseError struct {
	Text string
	To   reflect.Type
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %q as %v: %v", e.Text, e.To, e.Err)
	}
	return fmt.Sprintf("parse %q as %v: no numeral prefix", e.Text, e.To)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// IncompatibleTypeError reports a retag into a set that lacks the source's
// active alternative.
type IncompatibleTypeError struct {
	Type reflect.Type
	Set  *Set
}

func (e *IncompatibleTypeError) Error() string {
	return fmt.Sprintf("incompatible type specified: %v is not one of %v", e.Type, e.Set)
}

func (e *IncompatibleTypeError) Unwrap() error { return ErrIncompatibleType }

// notAlternative builds the error returned when t is not a member of s.
func notAlternative(t reflect.Type, s *Set) error {
	return fmt.Errorf("%w: %v not in %v", ErrNotAlternative, t, s)
}
