package dataframe

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/errors"
	"github.com/chartkit/tabular/internal/index"
)

// PivotOptions selects the reshape axes and the bucket reducer.
type PivotOptions struct {
	// IndexColumn supplies the row labels of the result.
	IndexColumn string
	// PivotColumn supplies the result's column names, one per distinct value.
	PivotColumn string
	// ValueColumn supplies the cells that get bucketed and reduced.
	ValueColumn string
	// AggFunc reduces each (index, pivot) bucket: one of first, count, mean,
	// sum, median, min, max. Empty means first.
	AggFunc string
}

var pivotAggs = map[string]bool{
	"first":  true,
	"count":  true,
	"mean":   true,
	"sum":    true,
	"median": true,
	"min":    true,
	"max":    true,
}

// Pivot reshapes the frame into a wide table: one row per distinct index
// value, one column per distinct pivot value, both sorted ascending. Each
// cell reduces the value cells of its bucket; combinations that never occur
// stay null.
func (df *DataFrame) Pivot(opts PivotOptions, mem memory.Allocator) (*DataFrame, error) {
	const op = "pivot"
	for _, name := range []string{opts.IndexColumn, opts.PivotColumn, opts.ValueColumn} {
		if name == "" {
			return nil, errors.NewValidationError(op, "", "indexColumn, pivotColumn and valueColumn are required")
		}
		if !df.HasColumn(name) {
			return nil, errors.NewColumnNotFoundError(op, name)
		}
	}
	fn := opts.AggFunc
	if fn == "" {
		fn = "first"
	}
	if !pivotAggs[fn] {
		return nil, errors.NewUnsupportedError(op, fmt.Sprintf("unknown aggregation %q", fn))
	}

	idxCol := df.columns[opts.IndexColumn]
	pivCol := df.columns[opts.PivotColumn]
	valCol := df.columns[opts.ValueColumn]
	if fn != "first" && fn != "count" && !valCol.DType().IsNumeric() {
		return nil, errors.NewTypeMismatchError(op, opts.ValueColumn, "numeric aggregation over non-numeric column")
	}

	rowGroups := bucketByValue(idxCol)
	colGroups := bucketByValue(pivCol)

	rowPos := make(map[string]int, len(rowGroups))
	for i, g := range rowGroups {
		rowPos[g.key.Key()] = i
	}

	// cells[ci][ri] collects the raw value bucket for one output cell.
	cells := make([][][]column.Value, len(colGroups))
	for ci := range cells {
		cells[ci] = make([][]column.Value, len(rowGroups))
	}
	for ci, cg := range colGroups {
		for _, r := range cg.rows {
			ri := rowPos[idxCol.Value(r).Key()]
			cells[ci][ri] = append(cells[ci][ri], valCol.Value(r))
		}
	}

	names := make([]string, len(colGroups))
	cols := make([]*column.Column, len(colGroups))
	for ci, cg := range colGroups {
		name := cg.key.String()
		if cg.key.IsNull() {
			name = "null"
		}
		names[ci] = name

		vals := make([]column.Value, len(rowGroups))
		for ri := range rowGroups {
			bucket := cells[ci][ri]
			if len(bucket) == 0 {
				vals[ri] = column.Null()
				continue
			}
			v, err := aggregate(op, fn, bucket)
			if err != nil {
				return nil, err
			}
			vals[ri] = v
		}
		cols[ci] = column.New(column.InferValues(vals, column.DefaultSampleSize), vals, mem)
	}

	labels := make([]column.Value, len(rowGroups))
	for ri, g := range rowGroups {
		labels[ri] = g.key
	}
	return FromColumns(names, cols, index.FromValues(labels, mem), mem)
}
