package dataframe

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/errors"
	"github.com/chartkit/tabular/internal/index"
	"github.com/chartkit/tabular/internal/series"
)

// ResampleOptions configures the rolling approximation of frequency
// resampling.
type ResampleOptions struct {
	// Rule is a frequency string such as "3D" or "2W"; its multiplier becomes
	// the rolling window length.
	Rule string
	// AggFunc is one of mean, sum, min, max, std. Empty means mean.
	AggFunc string
}

var windowAggs = map[string]bool{
	"mean": true,
	"sum":  true,
	"min":  true,
	"max":  true,
	"std":  true,
}

// Resample approximates frequency resampling with a trailing rolling window:
// a rule of "3D" aggregates over windows of three rows. The output keeps the
// input's length and index, so downstream alignment is unaffected.
func (df *DataFrame) Resample(opts ResampleOptions, mem memory.Allocator) (*DataFrame, error) {
	const op = "resample"
	f, err := index.ParseFreq(opts.Rule)
	if err != nil {
		return nil, err
	}
	fn := opts.AggFunc
	if fn == "" {
		fn = "mean"
	}
	return df.rollingFrame(op, f.N, fn, mem)
}

// RollingApply applies a trailing-window aggregate to every numeric column.
// Non-numeric columns are copied through untouched.
func (df *DataFrame) RollingApply(window int, fn string, mem memory.Allocator) (*DataFrame, error) {
	return df.rollingFrame("rolling", window, fn, mem)
}

func (df *DataFrame) rollingFrame(op string, window int, fn string, mem memory.Allocator) (*DataFrame, error) {
	if window < 1 {
		return nil, errors.NewValidationError(op, "", "window must be at least 1")
	}
	if !windowAggs[fn] {
		return nil, errors.NewUnsupportedError(op, fmt.Sprintf("unknown aggregation %q", fn))
	}

	names := append([]string(nil), df.order...)
	cols := make([]*column.Column, len(names))
	for i, name := range names {
		src := df.columns[name]
		if !src.DType().IsNumeric() {
			cols[i] = src.Slice(0, src.Len(), mem)
			continue
		}
		out, err := rollColumn(src, window, fn, mem)
		if err != nil {
			return nil, err
		}
		cols[i] = out
	}
	return FromColumns(names, cols, df.copyIndex(mem), mem)
}

// rollColumn runs one numeric column through a trailing rolling aggregate.
func rollColumn(src *column.Column, window int, fn string, mem memory.Allocator) (*column.Column, error) {
	s, err := series.New("", src.Slice(0, src.Len(), mem), nil, mem)
	if err != nil {
		return nil, err
	}
	defer s.Release()

	r, err := s.Rolling(series.RollingOptions{Window: window})
	if err != nil {
		return nil, err
	}

	var rolled *series.Series
	switch fn {
	case "mean":
		rolled, err = r.Mean(mem)
	case "sum":
		rolled, err = r.Sum(mem)
	case "min":
		rolled, err = r.Min(mem)
	case "max":
		rolled, err = r.Max(mem)
	case "std":
		rolled, err = r.Std(mem)
	}
	if err != nil {
		return nil, err
	}
	defer rolled.Release()
	return rolled.Column().Slice(0, rolled.Len(), mem), nil
}
