// Package value defines the typed global value used by the preprocessor.
// A global is one of three closed variants: a 64-bit signed integer, a
// 64-bit float, or a boolean. The variant set is fixed so that directive
// handling can switch over it exhaustively.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Kind discriminates the variants of Value.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
)

// String returns the WGSL-facing name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a tagged union over integer, float, and boolean. The zero
// value is the integer 0.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
}

// Int wraps a 64-bit signed integer.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float wraps a 64-bit float.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Bool wraps a boolean.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNumeric reports whether the value is an integer or a float.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// AsFloat returns the numeric value widened to float64. It panics on a
// boolean; callers must check IsNumeric first.
func (v Value) AsFloat() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindFloat:
		return v.f
	default:
		panic("value: AsFloat on a boolean")
	}
}

// IntVal returns the integer payload. Only meaningful when Kind is KindInt.
func (v Value) IntVal() int64 { return v.i }

// FloatVal returns the float payload. Only meaningful when Kind is KindFloat.
func (v Value) FloatVal() float64 { return v.f }

// BoolVal returns the boolean payload. Only meaningful when Kind is KindBool.
func (v Value) BoolVal() bool { return v.b }

// String renders the value for logs and error messages.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "invalid"
	}
}

// WGSLLiteral renders the value as a WGSL literal for constant emission.
// Integers render as plain decimal, floats in a form that always carries a
// fractional part or exponent so WGSL infers a float type. Booleans have
// no module-level constant form and return ok=false.
func (v Value) WGSLLiteral() (lit string, ok bool) {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10), true
	case KindFloat:
		return formatFloat(v.f), true
	default:
		return "", false
	}
}

// formatFloat renders f with the shortest round-trippable representation,
// forcing a trailing ".0" when the result would otherwise read as an
// integer literal.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// FromCty converts a literal produced by the HCL parser into a Value.
// Numeric literals in conditions are treated as floats; HCL does not
// distinguish integer from float literals, and comparisons widen to
// float64 anyway. Only numbers and booleans are accepted.
func FromCty(v cty.Value) (Value, error) {
	if v.IsNull() || !v.IsKnown() {
		return Value{}, fmt.Errorf("unsupported literal %#v", v)
	}
	switch v.Type() {
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return Float(f), nil
	case cty.Bool:
		return Bool(v.True()), nil
	default:
		return Value{}, fmt.Errorf("unsupported literal type %s", v.Type().FriendlyName())
	}
}
