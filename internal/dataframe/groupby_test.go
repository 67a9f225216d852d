package dataframe

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/errors"
)

func groupedFrame(t *testing.T, mem memory.Allocator) *DataFrame {
	t.Helper()
	return mkFrame(t, mem, map[string][]column.Value{
		"cat":   {column.Str("b"), column.Str("a"), column.Str("b"), column.Str("a")},
		"v":     {column.Int(1), column.Int(2), column.Int(3), column.Null()},
		"label": {column.Str("p"), column.Str("q"), column.Str("r"), column.Str("s")},
	}, Options{})
}

func TestGroupByMean(t *testing.T) {
	mem := memory.NewGoAllocator()

	df := groupedFrame(t, mem)
	defer df.Release()

	g, err := df.GroupBy("cat")
	require.NoError(t, err)
	assert.Equal(t, 2, g.Groups())

	out, err := g.Mean(mem)
	require.NoError(t, err)
	defer out.Release()

	// Group keys sort ascending and non-numeric columns are left out.
	assert.Equal(t, []string{"v"}, out.Columns())
	assert.Equal(t, []column.Value{column.Str("a"), column.Str("b")}, out.Index().Values())

	cells := colValues(t, out, "v")
	assert.InDelta(t, 2, floatCell(t, cells[0]), 1e-9) // only the non-null cell
	assert.InDelta(t, 2, floatCell(t, cells[1]), 1e-9) // (1+3)/2
}

func TestGroupBySum(t *testing.T) {
	mem := memory.NewGoAllocator()

	df := groupedFrame(t, mem)
	defer df.Release()

	g, err := df.GroupBy("cat")
	require.NoError(t, err)
	out, err := g.Sum(mem)
	require.NoError(t, err)
	defer out.Release()

	cells := colValues(t, out, "v")
	assert.InDelta(t, 2, floatCell(t, cells[0]), 1e-9)
	assert.InDelta(t, 4, floatCell(t, cells[1]), 1e-9)
}

func TestGroupByCount(t *testing.T) {
	mem := memory.NewGoAllocator()

	df := groupedFrame(t, mem)
	defer df.Release()

	g, err := df.GroupBy("cat")
	require.NoError(t, err)
	out, err := g.Count(mem)
	require.NoError(t, err)
	defer out.Release()

	// Count tallies non-null cells per group.
	assert.Equal(t, column.Integer, out.DTypes()["v"])
	assert.Equal(t, []column.Value{column.Int(1), column.Int(2)}, colValues(t, out, "v"))
}

func TestGroupByAllNullGroup(t *testing.T) {
	mem := memory.NewGoAllocator()

	df := mkFrame(t, mem, map[string][]column.Value{
		"cat": {column.Str("a"), column.Str("b")},
		"v":   {column.Null(), column.Int(5)},
	}, Options{})
	defer df.Release()

	g, err := df.GroupBy("cat")
	require.NoError(t, err)
	out, err := g.Mean(mem)
	require.NoError(t, err)
	defer out.Release()

	cells := colValues(t, out, "v")
	assert.True(t, cells[0].IsNull())
	assert.InDelta(t, 5, floatCell(t, cells[1]), 1e-9)
}

func TestGroupByNoNumericColumns(t *testing.T) {
	mem := memory.NewGoAllocator()

	df := mkFrame(t, mem, map[string][]column.Value{
		"cat":   {column.Str("a")},
		"label": {column.Str("x")},
	}, Options{})
	defer df.Release()

	g, err := df.GroupBy("cat")
	require.NoError(t, err)
	_, err = g.Mean(mem)
	require.Error(t, err)
	assert.True(t, errors.IsTypeMismatch(err))
}

func TestGroupByUnknownColumn(t *testing.T) {
	mem := memory.NewGoAllocator()

	df := mkFrame(t, mem, map[string][]column.Value{
		"cat": {column.Str("a")},
	}, Options{})
	defer df.Release()

	_, err := df.GroupBy("missing")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestGroupByFloatKeys(t *testing.T) {
	mem := memory.NewGoAllocator()

	df := mkFrame(t, mem, map[string][]column.Value{
		"k": {column.Int(1), column.FloatVal(1.0), column.Int(2)},
		"v": {column.Int(10), column.Int(20), column.Int(30)},
	}, Options{DTypes: map[string]column.DType{"k": column.Float}})
	defer df.Release()

	g, err := df.GroupBy("k")
	require.NoError(t, err)
	assert.Equal(t, 2, g.Groups())

	out, err := g.Sum(mem)
	require.NoError(t, err)
	defer out.Release()
	cells := colValues(t, out, "v")
	assert.InDelta(t, 30, floatCell(t, cells[0]), 1e-9)
	assert.InDelta(t, 30, floatCell(t, cells[1]), 1e-9)
}
