package column

import (
	"math"
	"strconv"
	"time"
)

// Value is a closed tagged union over the five column dtypes plus null. It is
// the only currency for element-level access: columns accept and return
// Values, never raw interface{} cells.
type Value struct {
	kind  DType
	valid bool
	i     int64
	f     float64
	s     string
	b     bool
	t     time.Time
}

// Int returns an Integer value.
func Int(v int64) Value { return Value{kind: Integer, valid: true, i: v} }

// FloatVal returns a Float value. Non-finite inputs collapse to null.
func FloatVal(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Null()
	}
	return Value{kind: Float, valid: true, f: v}
}

// Str returns a String value.
func Str(v string) Value { return Value{kind: String, valid: true, s: v} }

// Bool returns a Boolean value.
func Bool(v bool) Value { return Value{kind: Boolean, valid: true, b: v} }

// DateVal returns a Date value. The timestamp is normalized to UTC.
func DateVal(t time.Time) Value { return Value{kind: Date, valid: true, t: t.UTC()} }

// Null returns the null value. Null carries no dtype.
func Null() Value { return Value{} }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return !v.valid }

// Kind returns the value's dtype; ok is false for null.
func (v Value) Kind() (DType, bool) { return v.kind, v.valid }

// Int64 returns the Integer payload.
func (v Value) Int64() (int64, bool) {
	if !v.valid || v.kind != Integer {
		return 0, false
	}
	return v.i, true
}

// Float64 returns the Float payload.
func (v Value) Float64() (float64, bool) {
	if !v.valid || v.kind != Float {
		return 0, false
	}
	return v.f, true
}

// Str returns the String payload.
func (v Value) Str() (string, bool) {
	if !v.valid || v.kind != String {
		return "", false
	}
	return v.s, true
}

// Bool returns the Boolean payload.
func (v Value) Bool() (bool, bool) {
	if !v.valid || v.kind != Boolean {
		return false, false
	}
	return v.b, true
}

// Time returns the Date payload.
func (v Value) Time() (time.Time, bool) {
	if !v.valid || v.kind != Date {
		return time.Time{}, false
	}
	return v.t, true
}

// AsFloat widens Integer and Float values to float64. All other kinds,
// including null, report false.
func (v Value) AsFloat() (float64, bool) {
	if !v.valid {
		return 0, false
	}
	switch v.kind {
	case Integer:
		return float64(v.i), true
	case Float:
		return v.f, true
	default:
		return 0, false
	}
}

// Equal reports value equality. Nulls are equal to each other and to nothing
// else.
func (v Value) Equal(o Value) bool {
	if !v.valid || !o.valid {
		return v.valid == o.valid
	}
	if v.kind != o.kind {
		// A number is the same number whether it arrived integral or not.
		if v.kind.IsNumeric() && o.kind.IsNumeric() {
			a, _ := v.AsFloat()
			b, _ := o.AsFloat()
			return a == b
		}
		return false
	}
	switch v.kind {
	case Integer:
		return v.i == o.i
	case Float:
		return v.f == o.f
	case String:
		return v.s == o.s
	case Boolean:
		return v.b == o.b
	case Date:
		return v.t.Equal(o.t)
	default:
		return false
	}
}

// Compare orders two values: -1, 0, or +1. Nulls sort after every non-null
// value. Numeric kinds compare by magnitude; mixed non-numeric kinds order by
// dtype tag so sorting stays deterministic.
func (v Value) Compare(o Value) int {
	switch {
	case !v.valid && !o.valid:
		return 0
	case !v.valid:
		return 1
	case !o.valid:
		return -1
	}
	if v.kind != o.kind {
		if v.kind.IsNumeric() && o.kind.IsNumeric() {
			a, _ := v.AsFloat()
			b, _ := o.AsFloat()
			return compareFloat(a, b)
		}
		if v.kind < o.kind {
			return -1
		}
		return 1
	}
	switch v.kind {
	case Integer:
		switch {
		case v.i < o.i:
			return -1
		case v.i > o.i:
			return 1
		}
		return 0
	case Float:
		return compareFloat(v.f, o.f)
	case String:
		switch {
		case v.s < o.s:
			return -1
		case v.s > o.s:
			return 1
		}
		return 0
	case Boolean:
		switch {
		case !v.b && o.b:
			return -1
		case v.b && !o.b:
			return 1
		}
		return 0
	case Date:
		switch {
		case v.t.Before(o.t):
			return -1
		case v.t.After(o.t):
			return 1
		}
		return 0
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// String renders the value for display, export, and bucket keys. Null renders
// as the empty string; dates render as RFC 3339.
func (v Value) String() string {
	if !v.valid {
		return ""
	}
	switch v.kind {
	case Integer:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case String:
		return v.s
	case Boolean:
		return strconv.FormatBool(v.b)
	case Date:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Key renders a hashable identity for bucketing and deduplication. The dtype
// tag keeps 1 and "1" distinct, while Integer and Float share a numeric tag so
// equal numbers land in one bucket, matching Equal's equivalence.
func (v Value) Key() string {
	if !v.valid {
		return "\x00null"
	}
	if f, ok := v.AsFloat(); ok {
		return "num\x00" + strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.Itoa(int(v.kind)) + "\x00" + v.String()
}
