// Package scale normalizes value magnitudes for chart display.
//
// Large values are divided by a power-of-a-thousand factor and tagged with a
// display suffix (K, M, B) so axis labels stay short. Scaling is element-wise
// and null-preserving.
package scale

import (
	"math"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/dataframe"
	"github.com/chartkit/tabular/internal/errors"
)

// Info pairs a magnitude divisor with its display suffix.
type Info struct {
	Scale  float64
	Suffix string
}

// ForMax returns the scale for a maximum absolute value. Thresholds are
// inclusive and checked largest first: 1e9 gets "B", 1e6 "M", 1e3 "K",
// anything smaller is left unscaled.
func ForMax(maxAbs float64) Info {
	switch {
	case maxAbs >= 1e9:
		return Info{Scale: 1e9, Suffix: "B"}
	case maxAbs >= 1e6:
		return Info{Scale: 1e6, Suffix: "M"}
	case maxAbs >= 1e3:
		return Info{Scale: 1e3, Suffix: "K"}
	default:
		return Info{Scale: 1}
	}
}

// Common sizes one shared scale across several value sets using the global
// maximum absolute value, for traces that must share an axis. NaN and
// infinite entries are ignored.
func Common(valueSets ...[]float64) Info {
	var maxAbs float64
	for _, set := range valueSets {
		for _, v := range set {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if a := math.Abs(v); a > maxAbs {
				maxAbs = a
			}
		}
	}
	return ForMax(maxAbs)
}

// Frame divides each target column by its own scale and reports the applied
// scales by column name. With no explicit columns every numeric column is a
// target. Nulls pass through untouched; naming a non-numeric column is a
// type-mismatch error, and unscaled columns (factor 1) keep their dtype.
func Frame(df *dataframe.DataFrame, mem memory.Allocator, cols ...string) (*dataframe.DataFrame, map[string]Info, error) {
	const op = "scale.frame"

	targets := cols
	if len(targets) == 0 {
		for _, name := range df.Columns() {
			if col, ok := df.Column(name); ok && col.DType().IsNumeric() {
				targets = append(targets, name)
			}
		}
	}

	scaleBy := make(map[string]Info, len(targets))
	for _, name := range targets {
		col, ok := df.Column(name)
		if !ok {
			return nil, nil, errors.NewColumnNotFoundError(op, name)
		}
		if !col.DType().IsNumeric() {
			return nil, nil, errors.NewTypeMismatchError(op, name, "numeric column required for scaling")
		}
		scaleBy[name] = ForMax(maxAbsOf(col))
	}

	names := df.Columns()
	out := make([]*column.Column, 0, len(names))
	for _, name := range names {
		src, _ := df.Column(name)
		if info, ok := scaleBy[name]; ok && info.Scale != 1 {
			out = append(out, divide(src, info.Scale, mem))
			continue
		}
		out = append(out, src.Slice(0, src.Len(), mem))
	}

	idx := df.Index().Slice(0, df.Index().Len(), mem)
	res, err := dataframe.FromColumns(names, out, idx, mem)
	if err != nil {
		for _, c := range out {
			c.Release()
		}
		idx.Release()
		return nil, nil, err
	}
	return res, scaleBy, nil
}

func maxAbsOf(col *column.Column) float64 {
	vals, err := col.Float64s()
	if err != nil {
		return 0
	}
	var maxAbs float64
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}

func divide(src *column.Column, factor float64, mem memory.Allocator) *column.Column {
	vals := src.Values()
	out := make([]column.Value, len(vals))
	for i, v := range vals {
		if v.IsNull() {
			out[i] = column.Null()
			continue
		}
		f, _ := v.AsFloat()
		out[i] = column.FloatVal(f / factor)
	}
	return column.New(column.Float, out, mem)
}
