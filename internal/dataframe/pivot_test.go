package dataframe

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/errors"
)

func TestPivotDefaultFirst(t *testing.T) {
	mem := memory.NewGoAllocator()

	df := mkFrame(t, mem, map[string][]column.Value{
		"region": {column.Int(1), column.Int(1), column.Int(2)},
		"metric": {column.Str("x"), column.Str("y"), column.Str("x")},
		"amount": {column.Int(10), column.Int(20), column.Int(5)},
	}, Options{})
	defer df.Release()

	out, err := df.Pivot(PivotOptions{
		IndexColumn: "region",
		PivotColumn: "metric",
		ValueColumn: "amount",
	}, mem)
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, []string{"x", "y"}, out.Columns())
	assert.Equal(t, []column.Value{column.Int(1), column.Int(2)}, out.Index().Values())
	assert.Equal(t, []column.Value{column.Int(10), column.Int(5)}, colValues(t, out, "x"))
	// The (2, y) combination never occurs, so its cell is null.
	assert.Equal(t, []column.Value{column.Int(20), column.Null()}, colValues(t, out, "y"))
}

func TestPivotNumericAggs(t *testing.T) {
	mem := memory.NewGoAllocator()

	df := mkFrame(t, mem, map[string][]column.Value{
		"grp": {column.Str("a"), column.Str("a"), column.Str("a"), column.Str("b")},
		"col": {column.Str("x"), column.Str("x"), column.Str("x"), column.Str("x")},
		"val": {column.Int(10), column.Int(20), column.Int(60), column.Int(7)},
	}, Options{})
	defer df.Release()

	tests := []struct {
		name  string
		agg   string
		wantA float64
	}{
		{name: "mean", agg: "mean", wantA: 30},
		{name: "sum", agg: "sum", wantA: 90},
		{name: "median", agg: "median", wantA: 20},
		{name: "min", agg: "min", wantA: 10},
		{name: "max", agg: "max", wantA: 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := df.Pivot(PivotOptions{
				IndexColumn: "grp",
				PivotColumn: "col",
				ValueColumn: "val",
				AggFunc:     tt.agg,
			}, mem)
			require.NoError(t, err)
			defer out.Release()

			cells := colValues(t, out, "x")
			require.Len(t, cells, 2)
			assert.InDelta(t, tt.wantA, floatCell(t, cells[0]), 1e-9)
			assert.InDelta(t, 7, floatCell(t, cells[1]), 1e-9)
		})
	}
}

func TestPivotCount(t *testing.T) {
	mem := memory.NewGoAllocator()

	df := mkFrame(t, mem, map[string][]column.Value{
		"grp": {column.Str("a"), column.Str("a"), column.Str("b")},
		"col": {column.Str("x"), column.Str("x"), column.Str("x")},
		"val": {column.Int(10), column.Null(), column.Int(7)},
	}, Options{})
	defer df.Release()

	out, err := df.Pivot(PivotOptions{
		IndexColumn: "grp",
		PivotColumn: "col",
		ValueColumn: "val",
		AggFunc:     "count",
	}, mem)
	require.NoError(t, err)
	defer out.Release()

	// count reports bucket sizes, null cells included.
	assert.Equal(t, []column.Value{column.Int(2), column.Int(1)}, colValues(t, out, "x"))
}

func TestPivotMeanSkipsNulls(t *testing.T) {
	mem := memory.NewGoAllocator()

	df := mkFrame(t, mem, map[string][]column.Value{
		"grp": {column.Str("a"), column.Str("a"), column.Str("a")},
		"col": {column.Str("x"), column.Str("x"), column.Str("x")},
		"val": {column.Int(10), column.Null(), column.Int(20)},
	}, Options{})
	defer df.Release()

	out, err := df.Pivot(PivotOptions{
		IndexColumn: "grp",
		PivotColumn: "col",
		ValueColumn: "val",
		AggFunc:     "mean",
	}, mem)
	require.NoError(t, err)
	defer out.Release()

	assert.InDelta(t, 15, floatCell(t, colValues(t, out, "x")[0]), 1e-9)
}

func TestPivotNumericAggOnStringColumn(t *testing.T) {
	mem := memory.NewGoAllocator()

	df := mkFrame(t, mem, map[string][]column.Value{
		"grp": {column.Str("a")},
		"col": {column.Str("x")},
		"val": {column.Str("oops")},
	}, Options{})
	defer df.Release()

	_, err := df.Pivot(PivotOptions{
		IndexColumn: "grp",
		PivotColumn: "col",
		ValueColumn: "val",
		AggFunc:     "mean",
	}, mem)
	require.Error(t, err)
	assert.True(t, errors.IsTypeMismatch(err))

	// first works on any dtype.
	out, err := df.Pivot(PivotOptions{
		IndexColumn: "grp",
		PivotColumn: "col",
		ValueColumn: "val",
	}, mem)
	require.NoError(t, err)
	defer out.Release()
	assert.Equal(t, []column.Value{column.Str("oops")}, colValues(t, out, "x"))
}

func TestPivotColumnOrderSorted(t *testing.T) {
	mem := memory.NewGoAllocator()

	df := mkFrame(t, mem, map[string][]column.Value{
		"grp": {column.Int(1), column.Int(1), column.Int(1)},
		"col": {column.Str("beta"), column.Str("alpha"), column.Null()},
		"val": {column.Int(1), column.Int(2), column.Int(3)},
	}, Options{})
	defer df.Release()

	out, err := df.Pivot(PivotOptions{
		IndexColumn: "grp",
		PivotColumn: "col",
		ValueColumn: "val",
	}, mem)
	require.NoError(t, err)
	defer out.Release()

	// Pivot values sort ascending with the null bucket last.
	assert.Equal(t, []string{"alpha", "beta", "null"}, out.Columns())
}

func TestPivotErrors(t *testing.T) {
	mem := memory.NewGoAllocator()

	df := mkFrame(t, mem, map[string][]column.Value{
		"grp": {column.Str("a")},
		"col": {column.Str("x")},
		"val": {column.Int(1)},
	}, Options{})
	defer df.Release()

	_, err := df.Pivot(PivotOptions{IndexColumn: "grp", PivotColumn: "col"}, mem)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	_, err = df.Pivot(PivotOptions{
		IndexColumn: "grp",
		PivotColumn: "col",
		ValueColumn: "missing",
	}, mem)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	_, err = df.Pivot(PivotOptions{
		IndexColumn: "grp",
		PivotColumn: "col",
		ValueColumn: "val",
		AggFunc:     "mode",
	}, mem)
	require.Error(t, err)
	assert.True(t, errors.IsUnsupported(err))
}
