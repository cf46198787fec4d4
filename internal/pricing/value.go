// Package pricing implements the quote pricing engine: parameter impact
// evaluation, variant price resolution, add-on aggregation, per-item price
// calculation, quote totals aggregation and quote-level modifier application.
//
// Every function in this package is pure and deterministic. Missing or
// malformed optional data degrades to a zero contribution so that a price
// preview always renders a number; only unknown enum values supplied by
// upstream configuration are reported as errors.
package pricing

import "strconv"

type ValueKind string

var (
	KindNumber ValueKind = "NUMBER"
	KindText   ValueKind = "TEXT"
	KindBool   ValueKind = "BOOL"
	KindNone   ValueKind = "NONE"
)

// ParamValue is the tagged union of values a pricing parameter can take.
type ParamValue struct {
	Kind   ValueKind
	Number float64
	Text   string
	Bool   bool
}

func NumberValue(v float64) ParamValue { return ParamValue{Kind: KindNumber, Number: v} }
func TextValue(v string) ParamValue    { return ParamValue{Kind: KindText, Text: v} }
func BoolValue(v bool) ParamValue      { return ParamValue{Kind: KindBool, Bool: v} }
func NoValue() ParamValue              { return ParamValue{Kind: KindNone} }

// FromJSONValue converts a decoded JSON value (float64, string, bool or nil)
// into a ParamValue. This is the single deserialization boundary for
// parameter values; anything unrecognized becomes NoValue.
func FromJSONValue(raw any) ParamValue {
	switch v := raw.(type) {
	case float64:
		return NumberValue(v)
	case int:
		return NumberValue(float64(v))
	case int64:
		return NumberValue(float64(v))
	case string:
		return TextValue(v)
	case bool:
		return BoolValue(v)
	default:
		return NoValue()
	}
}

// Numeric coerces the value for per-unit and multiplier arithmetic:
// booleans map to 0/1, text and absent values map to 0.
func (v ParamValue) Numeric() float64 {
	switch v.Kind {
	case KindNumber:
		return v.Number
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Truthy reports whether a checkbox-style value is set.
func (v ParamValue) Truthy() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Number != 0
	case KindText:
		return v.Text != "" && v.Text != "false" && v.Text != "0"
	default:
		return false
	}
}

// text renders the value in its option-matching form.
func (v ParamValue) text() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindText:
		return v.Text
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}
