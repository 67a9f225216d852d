package column

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// CoerceValue converts an arbitrary Go value into the tagged union. Integers
// of every width become Integer, floats become Float (integral floats keep
// the Float tag until inference decides otherwise), and time.Time becomes
// Date. Stringers keep their string form; nil, non-finite floats, and
// anything unrecognized become null.
func CoerceValue(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case int:
		return Int(int64(v))
	case int8:
		return Int(int64(v))
	case int16:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case uint:
		return Int(int64(v))
	case uint8:
		return Int(int64(v))
	case uint16:
		return Int(int64(v))
	case uint32:
		return Int(int64(v))
	case uint64:
		if v > math.MaxInt64 {
			return FloatVal(float64(v))
		}
		return Int(int64(v))
	case float32:
		return FloatVal(float64(v))
	case float64:
		return FloatVal(v)
	case bool:
		return Bool(v)
	case string:
		return Str(v)
	case time.Time:
		if v.IsZero() {
			return Null()
		}
		return DateVal(v)
	case *time.Time:
		if v == nil || v.IsZero() {
			return Null()
		}
		return DateVal(*v)
	case fmt.Stringer:
		return Str(v.String())
	default:
		return Null()
	}
}

// CoerceSlice converts a raw slice into tagged values.
func CoerceSlice(raw []any) []Value {
	out := make([]Value, len(raw))
	for i, r := range raw {
		out[i] = CoerceValue(r)
	}
	return out
}

// AsFloat64 coerces a value to float64 the way numeric aggregation sees it:
// Integer and Float widen, Boolean maps to 0/1, numeric strings parse.
// Everything else, including null, reports false.
func AsFloat64(v Value) (float64, bool) {
	if v.IsNull() {
		return 0, false
	}
	switch v.kind {
	case Integer:
		return float64(v.i), true
	case Float:
		return v.f, true
	case Boolean:
		if v.b {
			return 1, true
		}
		return 0, true
	case String:
		f, err := strconv.ParseFloat(v.s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsInt64 coerces a value to int64: Integer passes, integral Float truncates
// losslessly, Boolean maps to 0/1, integral strings parse.
func AsInt64(v Value) (int64, bool) {
	if v.IsNull() {
		return 0, false
	}
	switch v.kind {
	case Integer:
		return v.i, true
	case Float:
		if !isIntegral(v.f) {
			return 0, false
		}
		return int64(v.f), true
	case Boolean:
		if v.b {
			return 1, true
		}
		return 0, true
	case String:
		n, err := strconv.ParseInt(v.s, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// isIntegral reports whether f is a finite whole number representable as int64.
func isIntegral(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return false
	}
	return f == math.Trunc(f)
}

// Convert reinterprets a value under the target dtype. Values that do not
// coerce become null, matching the engine's treatment of unparseable cells.
func Convert(v Value, target DType) Value {
	if v.IsNull() {
		return Null()
	}
	if v.kind == target {
		return v
	}
	switch target {
	case Integer:
		if n, ok := AsInt64(v); ok {
			return Int(n)
		}
	case Float:
		if f, ok := AsFloat64(v); ok {
			return FloatVal(f)
		}
	case String:
		return Str(v.String())
	case Boolean:
		switch v.kind {
		case Integer:
			return Bool(v.i != 0)
		case Float:
			return Bool(v.f != 0)
		case String:
			if b, err := strconv.ParseBool(v.s); err == nil {
				return Bool(b)
			}
		}
	case Date:
		// Strings never convert implicitly; date parsing is an explicit
		// operation with its own layouts.
	}
	return Null()
}
