package index

import (
	"fmt"
	"sort"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/errors"
)

// Index is an ordered sequence of row labels. Labels are not required to be
// unique until an explicit DropDuplicates. The Index owns its label column.
type Index struct {
	col *column.Column
}

// NewIndex wraps a label column as an index.
func NewIndex(col *column.Column) *Index {
	return &Index{col: col}
}

// NewRangeIndex builds the default positional index 0..n-1.
func NewRangeIndex(n int, mem memory.Allocator) *Index {
	labels := make([]int64, n)
	for i := range labels {
		labels[i] = int64(i)
	}
	return &Index{col: column.FromInt64s(labels, mem)}
}

// FromValues builds an index from tagged label values.
func FromValues(values []column.Value, mem memory.Allocator) *Index {
	dt := column.InferValues(values, column.DefaultSampleSize)
	return &Index{col: column.New(dt, values, mem)}
}

// Len returns the number of labels.
func (ix *Index) Len() int { return ix.col.Len() }

// DType returns the label dtype.
func (ix *Index) DType() column.DType { return ix.col.DType() }

// Column returns the backing label column.
func (ix *Index) Column() *column.Column { return ix.col }

// Get returns the label at pos; out-of-range positions are a validation
// error.
func (ix *Index) Get(pos int) (column.Value, error) {
	if pos < 0 || pos >= ix.col.Len() {
		return column.Null(), errors.NewOutOfBoundsError("Index.Get", pos, ix.col.Len())
	}
	return ix.col.Value(pos), nil
}

// IndexOf returns the position of the first occurrence of label, or -1.
func (ix *Index) IndexOf(label column.Value) int {
	for i := 0; i < ix.col.Len(); i++ {
		if ix.col.Value(i).Equal(label) {
			return i
		}
	}
	return -1
}

// Values materializes all labels.
func (ix *Index) Values() []column.Value { return ix.col.Values() }

// Slice copies labels [lo, hi) into a new index.
func (ix *Index) Slice(lo, hi int, mem memory.Allocator) *Index {
	return &Index{col: ix.col.Slice(lo, hi, mem)}
}

// Take builds a new index from the given positions; negative positions
// select null labels.
func (ix *Index) Take(rows []int, mem memory.Allocator) *Index {
	return &Index{col: ix.col.Take(rows, mem)}
}

// Sort returns the labels in order plus the permutation that produced them,
// so callers can reorder row data to match. Nulls sort last; the sort is
// stable.
func (ix *Index) Sort(ascending bool, mem memory.Allocator) (*Index, []int) {
	values := ix.col.Values()
	perm := make([]int, len(values))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		cmp := values[perm[a]].Compare(values[perm[b]])
		if ascending {
			return cmp < 0
		}
		// Nulls stay last under either direction.
		if values[perm[a]].IsNull() || values[perm[b]].IsNull() {
			return cmp < 0
		}
		return cmp > 0
	})
	return ix.Take(perm, mem), perm
}

// Union returns the sorted set union of two indexes.
func (ix *Index) Union(other *Index, mem memory.Allocator) *Index {
	merged := append(ix.col.Values(), other.col.Values()...)
	sort.SliceStable(merged, func(a, b int) bool { return merged[a].Compare(merged[b]) < 0 })

	unique := merged[:0]
	for _, v := range merged {
		if len(unique) == 0 || !unique[len(unique)-1].Equal(v) {
			unique = append(unique, v)
		}
	}
	return FromValues(unique, mem)
}

// Intersection returns the labels of ix that also occur in other, in ix
// order, deduplicated.
func (ix *Index) Intersection(other *Index, mem memory.Allocator) *Index {
	present := make(map[string]bool, other.Len())
	for _, v := range other.col.Values() {
		present[v.Key()] = true
	}

	var out []column.Value
	seen := make(map[string]bool)
	for _, v := range ix.col.Values() {
		k := v.Key()
		if present[k] && !seen[k] {
			out = append(out, v)
			seen[k] = true
		}
	}
	return FromValues(out, mem)
}

// DropDuplicates keeps the first occurrence of each label. It returns the new
// index and the kept row positions so row data can follow.
func (ix *Index) DropDuplicates(mem memory.Allocator) (*Index, []int) {
	seen := make(map[string]bool, ix.Len())
	var kept []int
	for i := 0; i < ix.col.Len(); i++ {
		k := ix.col.Value(i).Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, i)
	}
	return ix.Take(kept, mem), kept
}

// Equal reports whether two indexes hold the same labels in the same order.
func (ix *Index) Equal(other *Index) bool {
	if ix.Len() != other.Len() {
		return false
	}
	for i := 0; i < ix.Len(); i++ {
		if !ix.col.Value(i).Equal(other.col.Value(i)) {
			return false
		}
	}
	return true
}

// Min returns the smallest non-null label; an empty index is a validation
// error.
func (ix *Index) Min() (column.Value, error) {
	return ix.extremum("Index.Min", func(cmp int) bool { return cmp < 0 })
}

// Max returns the largest non-null label; an empty index is a validation
// error.
func (ix *Index) Max() (column.Value, error) {
	return ix.extremum("Index.Max", func(cmp int) bool { return cmp > 0 })
}

func (ix *Index) extremum(op string, better func(int) bool) (column.Value, error) {
	if ix.Len() == 0 {
		return column.Null(), errors.NewValidationError(op, "", "index is empty")
	}
	best := column.Null()
	for _, v := range ix.col.Values() {
		if v.IsNull() {
			continue
		}
		if best.IsNull() || better(v.Compare(best)) {
			best = v
		}
	}
	if best.IsNull() {
		return column.Null(), errors.NewValidationError(op, "", "index holds no non-null labels")
	}
	return best, nil
}

// String summarizes the index.
func (ix *Index) String() string {
	return fmt.Sprintf("Index[%s] len=%d", ix.DType(), ix.Len())
}

// Release releases the backing storage.
func (ix *Index) Release() {
	if ix.col != nil {
		ix.col.Release()
	}
}

