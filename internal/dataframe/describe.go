package dataframe

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/errors"
	"github.com/chartkit/tabular/internal/index"
	"github.com/chartkit/tabular/internal/series"
)

var describeRows = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Describe summarises every numeric column with count, mean, sample std,
// min, the quartiles and max, one row per statistic. A frame without numeric
// columns is a type error.
func (df *DataFrame) Describe(mem memory.Allocator) (*DataFrame, error) {
	const op = "describe"
	names := make([]string, 0, len(df.order))
	for _, name := range df.order {
		if df.columns[name].DType().IsNumeric() {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, errors.NewTypeMismatchError(op, "", "no numeric columns to describe")
	}

	cols := make([]*column.Column, len(names))
	for ci, name := range names {
		src := df.columns[name]
		s, err := series.New(name, src.Slice(0, src.Len(), mem), nil, mem)
		if err != nil {
			return nil, err
		}
		stats, err := columnStats(s)
		s.Release()
		if err != nil {
			return nil, err
		}
		cols[ci] = column.New(column.Float, stats, mem)
	}

	labels := make([]column.Value, len(describeRows))
	for i, row := range describeRows {
		labels[i] = column.Str(row)
	}
	return FromColumns(names, cols, index.FromValues(labels, mem), mem)
}

// columnStats computes the describe cells for one column. Statistics that
// come back NaN, such as the std of a single value, turn into null cells.
func columnStats(s *series.Series) ([]column.Value, error) {
	out := make([]column.Value, 0, len(describeRows))
	out = append(out, column.Int(int64(s.Count())))
	for _, stat := range []func() (float64, error){
		s.Mean,
		s.Std,
		s.Min,
		func() (float64, error) { return s.Quantile(0.25) },
		s.Median,
		func() (float64, error) { return s.Quantile(0.75) },
		s.Max,
	} {
		v, err := stat()
		if err != nil {
			return nil, err
		}
		out = append(out, column.FloatVal(v))
	}
	return out, nil
}
