package scale

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/dataframe"
	"github.com/chartkit/tabular/internal/errors"
)

func TestForMax(t *testing.T) {
	tests := []struct {
		name   string
		maxAbs float64
		want   Info
	}{
		{"below thousand", 999, Info{Scale: 1, Suffix: ""}},
		{"thousands", 1500, Info{Scale: 1e3, Suffix: "K"}},
		{"millions", 2_500_000, Info{Scale: 1e6, Suffix: "M"}},
		{"billions", 1_500_000_000, Info{Scale: 1e9, Suffix: "B"}},
		{"exact thousand", 1000, Info{Scale: 1e3, Suffix: "K"}},
		{"exact million", 1e6, Info{Scale: 1e6, Suffix: "M"}},
		{"exact billion", 1e9, Info{Scale: 1e9, Suffix: "B"}},
		{"zero", 0, Info{Scale: 1, Suffix: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForMax(tt.maxAbs))
		})
	}
}

func TestCommon(t *testing.T) {
	got := Common([]float64{500, -2000}, []float64{100})
	assert.Equal(t, Info{Scale: 1e3, Suffix: "K"}, got)

	got = Common([]float64{12, math.NaN(), math.Inf(1)}, nil)
	assert.Equal(t, Info{Scale: 1, Suffix: ""}, got)

	assert.Equal(t, Info{Scale: 1}, Common())
}

func TestFrameScalesColumn(t *testing.T) {
	mem := memory.NewGoAllocator()

	df, err := dataframe.New(map[string][]column.Value{
		"v": {column.Int(1000), column.Int(2000), column.Int(3000), column.Int(4000), column.Int(5000)},
	}, dataframe.Options{}, mem)
	require.NoError(t, err)
	defer df.Release()

	scaled, info, err := Frame(df, mem)
	require.NoError(t, err)
	defer scaled.Release()

	assert.Equal(t, Info{Scale: 1e3, Suffix: "K"}, info["v"])

	col, ok := scaled.Column("v")
	require.True(t, ok)
	assert.Equal(t, column.Float, col.DType())
	for i, want := range []float64{1, 2, 3, 4, 5} {
		assert.Equal(t, column.FloatVal(want), col.Value(i))
	}
	assert.True(t, scaled.Index().Equal(df.Index()))
}

func TestFramePreservesNulls(t *testing.T) {
	mem := memory.NewGoAllocator()

	df, err := dataframe.New(map[string][]column.Value{
		"v": {column.Int(1000), column.Null(), column.Int(3000)},
	}, dataframe.Options{}, mem)
	require.NoError(t, err)
	defer df.Release()

	scaled, _, err := Frame(df, mem)
	require.NoError(t, err)
	defer scaled.Release()

	col, _ := scaled.Column("v")
	assert.Equal(t, column.FloatVal(1), col.Value(0))
	assert.True(t, col.Value(1).IsNull())
	assert.Equal(t, column.FloatVal(3), col.Value(2))
}

func TestFrameSmallValuesUntouched(t *testing.T) {
	mem := memory.NewGoAllocator()

	df, err := dataframe.New(map[string][]column.Value{
		"v":     {column.Int(1), column.Int(2)},
		"label": {column.Str("a"), column.Str("b")},
	}, dataframe.Options{}, mem)
	require.NoError(t, err)
	defer df.Release()

	scaled, info, err := Frame(df, mem)
	require.NoError(t, err)
	defer scaled.Release()

	// Only numeric columns are targets; a factor of 1 keeps the dtype.
	assert.Equal(t, Info{Scale: 1, Suffix: ""}, info["v"])
	_, hasLabel := info["label"]
	assert.False(t, hasLabel)

	col, _ := scaled.Column("v")
	assert.Equal(t, column.Integer, col.DType())
	assert.Equal(t, column.Int(1), col.Value(0))
}

func TestFrameExplicitSubset(t *testing.T) {
	mem := memory.NewGoAllocator()

	df, err := dataframe.New(map[string][]column.Value{
		"a": {column.Int(5000)},
		"b": {column.Int(7000)},
	}, dataframe.Options{}, mem)
	require.NoError(t, err)
	defer df.Release()

	scaled, info, err := Frame(df, mem, "a")
	require.NoError(t, err)
	defer scaled.Release()

	assert.Equal(t, Info{Scale: 1e3, Suffix: "K"}, info["a"])
	_, hasB := info["b"]
	assert.False(t, hasB)

	a, _ := scaled.Column("a")
	b, _ := scaled.Column("b")
	assert.Equal(t, column.FloatVal(5), a.Value(0))
	assert.Equal(t, column.Int(7000), b.Value(0))
}

func TestFrameNegativeValues(t *testing.T) {
	mem := memory.NewGoAllocator()

	df, err := dataframe.New(map[string][]column.Value{
		"v": {column.Int(-2_000_000), column.Int(500)},
	}, dataframe.Options{}, mem)
	require.NoError(t, err)
	defer df.Release()

	scaled, info, err := Frame(df, mem)
	require.NoError(t, err)
	defer scaled.Release()

	assert.Equal(t, Info{Scale: 1e6, Suffix: "M"}, info["v"])
	col, _ := scaled.Column("v")
	assert.Equal(t, column.FloatVal(-2), col.Value(0))
	assert.Equal(t, column.FloatVal(0.0005), col.Value(1))
}

func TestFrameErrors(t *testing.T) {
	mem := memory.NewGoAllocator()

	df, err := dataframe.New(map[string][]column.Value{
		"label": {column.Str("a")},
		"v":     {column.Int(1)},
	}, dataframe.Options{}, mem)
	require.NoError(t, err)
	defer df.Release()

	_, _, err = Frame(df, mem, "label")
	assert.True(t, errors.IsTypeMismatch(err))

	_, _, err = Frame(df, mem, "missing")
	assert.True(t, errors.IsValidation(err))
}
