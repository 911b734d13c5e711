/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: value.go
Description: Tagged value model for the tablesynth engine. Provides the Value union
(null, bool, int, float, string) with tolerant equality, numeric coercion, and
canonical string forms shared by every predicate, alignment check, and simulation
comparison in the synthesizer.
*/

package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Epsilon is the tolerance used for every numeric comparison in the engine.
const Epsilon = 1e-9

// Kind identifies the concrete type stored in a Value
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

// Value is an immutable tagged union of the primitive cell types.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

// NullValue returns the null value
func NullValue() Value { return Value{} }

// BoolValue creates a boolean value
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue creates an integer value
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue creates a float value
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// StringValue creates a string value
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// NumberValue creates an integer value when f is integral, a float otherwise
func NumberValue(f float64) Value {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return IntValue(int64(f))
	}
	return FloatValue(f)
}

// Kind returns the concrete kind of the value
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNumeric reports whether the value is typed numeric (int or float).
// Strings that merely look numeric do not count; see AsNumber for coercion.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// Bool returns the boolean payload (false for other kinds)
func (v Value) Bool() bool { return v.kind == KindBool && v.b }

// Str returns the string payload (empty for other kinds)
func (v Value) Str() string {
	if v.kind == KindString {
		return v.s
	}
	return ""
}

// AsNumber coerces the value to a finite float64 where possible.
// Integers and finite floats convert directly; strings are parsed after
// trimming whitespace. Booleans and nulls never coerce.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		if math.IsInf(v.f, 0) || math.IsNaN(v.f) {
			return 0, false
		}
		return v.f, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Canonical returns the canonical string form used by tolerant equality.
// Integral floats collapse to their integer spelling so 1.0 and 1 agree.
func (v Value) Canonical() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		if v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) {
			return strconv.FormatInt(int64(v.f), 10)
		}
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}

// Key returns a kind-tagged form for exact deduplication (distinct from the
// tolerant Canonical form: an int 1 and the string "1" have different keys).
func (v Value) Key() string {
	switch v.kind {
	case KindNull:
		return "n:"
	case KindBool:
		return "b:" + v.Canonical()
	case KindInt:
		return "i:" + v.Canonical()
	case KindFloat:
		return "f:" + v.Canonical()
	default:
		return "s:" + v.s
	}
}

// Normalize collapses integral floats to integers so replayed numeric output
// never reads 1.0 where the sample says 1
func (v Value) Normalize() Value {
	if v.kind == KindFloat && v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) {
		return IntValue(int64(v.f))
	}
	return v
}

// Equal implements the engine's tolerant equality: values that both coerce to
// numbers compare within Epsilon, everything else compares by canonical
// string form. This loose equality is load-bearing for the whole search.
func Equal(a, b Value) bool {
	if na, aok := a.AsNumber(); aok {
		if nb, bok := b.AsNumber(); bok {
			return math.Abs(na-nb) < Epsilon
		}
	}
	return a.Canonical() == b.Canonical()
}

// Compare orders two values for ranking: numerically when both coerce to
// numbers, by canonical string otherwise. Numbers order before non-numbers so
// mixed columns still rank deterministically.
func Compare(a, b Value) int {
	na, aok := a.AsNumber()
	nb, bok := b.AsNumber()
	if aok && bok {
		switch {
		case math.Abs(na-nb) < Epsilon:
			return 0
		case na < nb:
			return -1
		default:
			return 1
		}
	}
	if aok != bok {
		if aok {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Canonical(), b.Canonical())
}

// FromAny converts a decoded JSON value into a Value. Numbers decoded via
// json.Number keep integer identity where possible.
func FromAny(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return IntValue(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return FloatValue(f), nil
	case float64:
		return NumberValue(t), nil
	case int:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	default:
		return Value{}, fmt.Errorf("unsupported cell type %T", raw)
	}
}

// MarshalJSON renders the value in its native JSON form
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	default:
		return json.Marshal(v.s)
	}
}

// String implements fmt.Stringer using the canonical form
func (v Value) String() string { return v.Canonical() }
