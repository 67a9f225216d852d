package dataframe

import (
	"fmt"
	"sort"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/errors"
)

// group is one distinct key value plus the rows carrying it, in frame order.
type group struct {
	key  column.Value
	rows []int
}

// bucketByValue collects row positions per distinct cell value, returning the
// groups sorted by ascending key with nulls last. Integer and Float cells
// holding the same number land in one bucket.
func bucketByValue(col *column.Column) []group {
	m := newValueMap(col.Len())
	groups := make([]group, 0)
	for i := 0; i < col.Len(); i++ {
		v := col.Value(i)
		if m.add(v.Key(), i) {
			groups = append(groups, group{key: v})
		}
	}
	for gi := range groups {
		groups[gi].rows = m.rows(groups[gi].key.Key())
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].key.Compare(groups[b].key) < 0
	})
	return groups
}

// aggregate reduces one bucket of raw cell values. first keeps the earliest
// cell as-is and count reports the bucket size; the numeric reducers skip
// cells that are not numbers and yield null when nothing numeric remains.
func aggregate(op, fn string, vals []column.Value) (column.Value, error) {
	switch fn {
	case "first":
		if len(vals) == 0 {
			return column.Null(), nil
		}
		return vals[0], nil
	case "count":
		return column.Int(int64(len(vals))), nil
	case "mean", "sum", "median", "min", "max":
		nums := numericsOf(vals)
		if len(nums) == 0 {
			return column.Null(), nil
		}
		return column.FloatVal(reduce(fn, nums)), nil
	default:
		return column.Null(), errors.NewUnsupportedError(op, fmt.Sprintf("unknown aggregation %q", fn))
	}
}

// numericsOf extracts the numeric cells of a bucket.
func numericsOf(vals []column.Value) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if f, ok := v.AsFloat(); ok {
			out = append(out, f)
		}
	}
	return out
}

// reduce folds a non-empty float slice under the named aggregation.
func reduce(fn string, nums []float64) float64 {
	switch fn {
	case "sum":
		return column.SumOf(nums)
	case "mean":
		return column.SumOf(nums) / float64(len(nums))
	case "min":
		lo, _, _ := column.MinMaxOf(nums)
		return lo
	case "max":
		_, hi, _ := column.MinMaxOf(nums)
		return hi
	case "median":
		sorted := append([]float64(nil), nums...)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return (sorted[mid-1] + sorted[mid]) / 2
		}
		return sorted[mid]
	}
	return 0
}
