// Package series provides a single named column bound to a row index, with
// positional and label access, null handling, statistics, and rolling
// windows. Every transformation returns a new Series over freshly allocated
// storage; no operation mutates its receiver.
package series

import (
	"fmt"
	"sort"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/errors"
	"github.com/chartkit/tabular/internal/index"
)

// Series is one named column of values addressed by an index.
type Series struct {
	name string
	col  *column.Column
	idx  *index.Index
}

// New binds a column to an index under the given name. A nil index gets the
// default positional index; otherwise index and column lengths must agree.
func New(name string, col *column.Column, idx *index.Index, mem memory.Allocator) (*Series, error) {
	if idx == nil {
		idx = index.NewRangeIndex(col.Len(), mem)
	}
	if idx.Len() != col.Len() {
		return nil, errors.NewLengthMismatchError("Series.New", idx.Len(), col.Len())
	}
	return &Series{name: name, col: col, idx: idx}, nil
}

// FromValues infers a dtype for the raw values and binds them to a positional
// index.
func FromValues(name string, values []column.Value, mem memory.Allocator) *Series {
	dt := column.InferValues(values, column.DefaultSampleSize)
	col := column.New(dt, values, mem)
	return &Series{name: name, col: col, idx: index.NewRangeIndex(col.Len(), mem)}
}

// Name returns the series name.
func (s *Series) Name() string { return s.name }

// Len returns the number of rows.
func (s *Series) Len() int { return s.col.Len() }

// DType returns the column dtype.
func (s *Series) DType() column.DType { return s.col.DType() }

// Column returns the backing column.
func (s *Series) Column() *column.Column { return s.col }

// Index returns the row index.
func (s *Series) Index() *index.Index { return s.idx }

// Values materializes all values.
func (s *Series) Values() []column.Value { return s.col.Values() }

// At returns the value at a row position.
func (s *Series) At(pos int) (column.Value, error) {
	if pos < 0 || pos >= s.col.Len() {
		return column.Null(), errors.NewOutOfBoundsError("Series.At", pos, s.col.Len())
	}
	return s.col.Value(pos), nil
}

// Loc returns the value at the first row whose index label matches.
func (s *Series) Loc(label column.Value) (column.Value, error) {
	pos := s.idx.IndexOf(label)
	if pos < 0 {
		return column.Null(), errors.NewLabelNotFoundError("Series.Loc", label.String())
	}
	return s.col.Value(pos), nil
}

// Slice copies rows [lo, hi) into a new series; bounds are clamped.
func (s *Series) Slice(lo, hi int, mem memory.Allocator) *Series {
	return &Series{name: s.name, col: s.col.Slice(lo, hi, mem), idx: s.idx.Slice(lo, hi, mem)}
}

// Head returns the first n rows.
func (s *Series) Head(n int, mem memory.Allocator) *Series {
	if n < 0 {
		n = 0
	}
	return s.Slice(0, n, mem)
}

// Tail returns the last n rows.
func (s *Series) Tail(n int, mem memory.Allocator) *Series {
	if n < 0 {
		n = 0
	}
	return s.Slice(s.Len()-n, s.Len(), mem)
}

// IsNA reports null-ness per row.
func (s *Series) IsNA() []bool {
	out := make([]bool, s.Len())
	for i := range out {
		out[i] = s.col.IsNull(i)
	}
	return out
}

// NotNA is the complement of IsNA.
func (s *Series) NotNA() []bool {
	out := s.IsNA()
	for i, b := range out {
		out[i] = !b
	}
	return out
}

// DropNA removes null rows; the index follows.
func (s *Series) DropNA(mem memory.Allocator) *Series {
	kept := make([]int, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		if !s.col.IsNull(i) {
			kept = append(kept, i)
		}
	}
	return s.take(kept, mem)
}

// FillNA replaces every null with a scalar. Fill values that do not fit the
// dtype widen the series: a numeric mismatch promotes to Float, anything else
// to String.
func (s *Series) FillNA(fill column.Value, mem memory.Allocator) (*Series, error) {
	if fill.IsNull() {
		return nil, errors.NewValidationError("Series.FillNA", s.name, "fill value must be non-null")
	}
	target := widenFor(s.col.DType(), fill)
	values := s.col.Values()
	for i, v := range values {
		if v.IsNull() {
			values[i] = fill
		}
	}
	return &Series{name: s.name, col: column.New(target, values, mem), idx: s.copyIndex(mem)}, nil
}

// FillNAByLabel fills nulls row by row from a label-to-value mapping; rows
// whose label has no entry stay null.
func (s *Series) FillNAByLabel(fills map[column.Value]column.Value, mem memory.Allocator) *Series {
	target := s.col.DType()
	values := s.col.Values()
	for i, v := range values {
		if !v.IsNull() {
			continue
		}
		label := s.idx.Column().Value(i)
		for k, fv := range fills {
			if fv.IsNull() || !label.Equal(k) {
				continue
			}
			values[i] = fv
			target = widenFor(target, fv)
			break
		}
	}
	return &Series{name: s.name, col: column.New(target, values, mem), idx: s.copyIndex(mem)}
}

// FillNAMethod propagates neighboring values into nulls: "ffill"/"pad" carry
// the previous valid value forward, "bfill"/"backfill" the next valid value
// back. Nulls with no donor stay null.
func (s *Series) FillNAMethod(method string, mem memory.Allocator) (*Series, error) {
	values := s.col.Values()
	switch method {
	case "ffill", "pad":
		last := column.Null()
		for i, v := range values {
			if v.IsNull() {
				values[i] = last
			} else {
				last = v
			}
		}
	case "bfill", "backfill":
		next := column.Null()
		for i := len(values) - 1; i >= 0; i-- {
			if values[i].IsNull() {
				values[i] = next
			} else {
				next = values[i]
			}
		}
	default:
		return nil, errors.NewUnsupportedError("Series.FillNAMethod", fmt.Sprintf("unknown fill method %q", method))
	}
	return &Series{name: s.name, col: column.New(s.col.DType(), values, mem), idx: s.copyIndex(mem)}, nil
}

// Unique returns the distinct values in first-appearance order, nulls
// included once, under a fresh positional index.
func (s *Series) Unique(mem memory.Allocator) *Series {
	seen := make(map[string]bool, s.Len())
	var out []column.Value
	for _, v := range s.col.Values() {
		k := v.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return &Series{
		name: s.name,
		col:  column.New(s.col.DType(), out, mem),
		idx:  index.NewRangeIndex(len(out), mem),
	}
}

// NUnique counts distinct non-null values.
func (s *Series) NUnique() int {
	seen := make(map[string]bool, s.Len())
	n := 0
	for _, v := range s.col.Values() {
		if v.IsNull() {
			continue
		}
		if k := v.Key(); !seen[k] {
			seen[k] = true
			n++
		}
	}
	return n
}

// ValueCounts tallies non-null values, most frequent first (ties keep
// first-appearance order). The counted values become the result's index.
func (s *Series) ValueCounts(mem memory.Allocator) *Series {
	type bucket struct {
		value column.Value
		count int
	}
	byKey := make(map[string]*bucket)
	var buckets []*bucket
	for _, v := range s.col.Values() {
		if v.IsNull() {
			continue
		}
		k := v.Key()
		b, ok := byKey[k]
		if !ok {
			b = &bucket{value: v}
			byKey[k] = b
			buckets = append(buckets, b)
		}
		b.count++
	}
	sort.SliceStable(buckets, func(a, b int) bool {
		return buckets[a].count > buckets[b].count
	})

	labels := make([]column.Value, len(buckets))
	counts := make([]int64, len(buckets))
	for i, b := range buckets {
		labels[i] = b.value
		counts[i] = int64(b.count)
	}
	return &Series{
		name: s.name,
		col:  column.FromInt64s(counts, mem),
		idx:  index.FromValues(labels, mem),
	}
}

// Sort orders rows by value, nulls last under either direction; the index
// follows the permutation.
func (s *Series) Sort(ascending bool, mem memory.Allocator) *Series {
	sorted, perm := index.NewIndex(s.col).Sort(ascending, mem)
	return &Series{name: s.name, col: sorted.Column(), idx: s.idx.Take(perm, mem)}
}

// String summarizes the series.
func (s *Series) String() string {
	return fmt.Sprintf("Series %q [%s] len=%d", s.name, s.DType(), s.Len())
}

// Release releases the backing storage.
func (s *Series) Release() {
	if s.col != nil {
		s.col.Release()
	}
	if s.idx != nil {
		s.idx.Release()
	}
}

func (s *Series) take(rows []int, mem memory.Allocator) *Series {
	return &Series{name: s.name, col: s.col.Take(rows, mem), idx: s.idx.Take(rows, mem)}
}

func (s *Series) copyIndex(mem memory.Allocator) *index.Index {
	return s.idx.Slice(0, s.idx.Len(), mem)
}

// widenFor picks the dtype that can hold both the current column and a fill
// value: the current dtype when the fill coerces losslessly, Float for mixed
// numerics, String otherwise.
func widenFor(target column.DType, v column.Value) column.DType {
	if !column.Convert(v, target).IsNull() {
		return target
	}
	k, _ := v.Kind()
	if target.IsNumeric() && k.IsNumeric() {
		return column.Float
	}
	return column.String
}
