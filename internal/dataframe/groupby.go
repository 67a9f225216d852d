package dataframe

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/errors"
	"github.com/chartkit/tabular/internal/index"
)

// GroupBy is the intermediate handle produced by DataFrame.GroupBy. The
// groups are fixed at construction, sorted by ascending key value.
type GroupBy struct {
	df     *DataFrame
	column string
	groups []group
}

// GroupBy buckets rows by the values of one column.
func (df *DataFrame) GroupBy(name string) (*GroupBy, error) {
	col, ok := df.columns[name]
	if !ok {
		return nil, errors.NewColumnNotFoundError("groupby", name)
	}
	return &GroupBy{df: df, column: name, groups: bucketByValue(col)}, nil
}

// Groups returns the number of distinct key values.
func (g *GroupBy) Groups() int { return len(g.groups) }

// Mean averages the numeric cells of every group.
func (g *GroupBy) Mean(mem memory.Allocator) (*DataFrame, error) {
	return g.apply("mean", mem)
}

// Sum totals the numeric cells of every group.
func (g *GroupBy) Sum(mem memory.Allocator) (*DataFrame, error) {
	return g.apply("sum", mem)
}

// Count reports the non-null cells of every group.
func (g *GroupBy) Count(mem memory.Allocator) (*DataFrame, error) {
	return g.apply("count", mem)
}

// apply reduces every numeric column group-by-group. The group keys become
// the result's index; non-numeric columns are left out, and a frame with
// nothing numeric to aggregate is a type error.
func (g *GroupBy) apply(fn string, mem memory.Allocator) (*DataFrame, error) {
	op := "groupby." + fn
	names := make([]string, 0, len(g.df.order))
	for _, name := range g.df.order {
		if name == g.column {
			continue
		}
		if g.df.columns[name].DType().IsNumeric() {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, errors.NewTypeMismatchError(op, "", "no numeric columns to aggregate")
	}

	cols := make([]*column.Column, len(names))
	for ci, name := range names {
		src := g.df.columns[name]
		vals := make([]column.Value, len(g.groups))
		for gi, grp := range g.groups {
			vals[gi] = reduceRows(src, grp.rows, fn)
		}
		dt := column.Float
		if fn == "count" {
			dt = column.Integer
		}
		cols[ci] = column.New(dt, vals, mem)
	}

	labels := make([]column.Value, len(g.groups))
	for gi, grp := range g.groups {
		labels[gi] = grp.key
	}
	return FromColumns(names, cols, index.FromValues(labels, mem), mem)
}

// reduceRows folds the selected rows of one column. count tallies non-null
// cells; the numeric reducers skip nulls and yield null for an empty fold.
func reduceRows(col *column.Column, rows []int, fn string) column.Value {
	if fn == "count" {
		n := 0
		for _, r := range rows {
			if !col.IsNull(r) {
				n++
			}
		}
		return column.Int(int64(n))
	}

	nums := make([]float64, 0, len(rows))
	for _, r := range rows {
		if f, ok := col.Value(r).AsFloat(); ok {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return column.Null()
	}
	return column.FloatVal(reduce(fn, nums))
}
