// Package column provides the typed column store underlying indexes, series,
// and data frames. Columns are dense, length-fixed sequences of exactly one
// declared dtype, backed by Apache Arrow arrays: numeric and boolean columns
// use packed buffers with validity bitmaps, strings use Arrow's reference
// layout, and dates are stored as nanosecond UTC timestamps.
package column

import (
	"fmt"

	"github.com/chartkit/tabular/internal/errors"
)

// DType identifies the declared value type of a column.
type DType int

const (
	// Integer columns hold int64 values.
	Integer DType = iota
	// Float columns hold float64 values.
	Float
	// String columns hold UTF-8 strings.
	String
	// Boolean columns hold bool values.
	Boolean
	// Date columns hold absolute timestamps (stored UTC).
	Date
)

// String returns the dtype name.
func (d DType) String() string {
	switch d {
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case String:
		return "String"
	case Boolean:
		return "Boolean"
	case Date:
		return "Date"
	default:
		return fmt.Sprintf("DType(%d)", int(d))
	}
}

// IsNumeric reports whether the dtype participates in numeric aggregation.
func (d DType) IsNumeric() bool {
	return d == Integer || d == Float
}

// ParseDType maps a dtype name to its DType. Matching is exact.
func ParseDType(s string) (DType, error) {
	switch s {
	case "Integer":
		return Integer, nil
	case "Float":
		return Float, nil
	case "String":
		return String, nil
	case "Boolean":
		return Boolean, nil
	case "Date":
		return Date, nil
	default:
		return String, errors.NewUnsupportedError("ParseDType", fmt.Sprintf("unknown dtype %q", s))
	}
}
