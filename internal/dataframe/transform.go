package dataframe

import (
	"fmt"
	"sort"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/errors"
	"github.com/chartkit/tabular/internal/index"
)

// Drop removes the named columns. Unknown names fail validation rather than
// being skipped.
func (df *DataFrame) Drop(mem memory.Allocator, names ...string) (*DataFrame, error) {
	dropSet := make(map[string]bool, len(names))
	for _, name := range names {
		if !df.HasColumn(name) {
			return nil, errors.NewColumnNotFoundError("drop", name)
		}
		dropSet[name] = true
	}

	cols := make(map[string]*column.Column, len(df.order)-len(dropSet))
	order := make([]string, 0, len(df.order)-len(dropSet))
	for _, name := range df.order {
		if dropSet[name] {
			continue
		}
		cols[name] = df.columns[name].Slice(0, df.Len(), mem)
		order = append(order, name)
	}
	return &DataFrame{columns: cols, order: order, idx: df.copyIndex(mem)}, nil
}

// Rename maps old column names to new ones, keeping column order. Renaming an
// unknown column or producing a duplicate name fails validation.
func (df *DataFrame) Rename(mapping map[string]string, mem memory.Allocator) (*DataFrame, error) {
	const op = "rename"
	for old := range mapping {
		if !df.HasColumn(old) {
			return nil, errors.NewColumnNotFoundError(op, old)
		}
	}

	cols := make(map[string]*column.Column, len(df.order))
	order := make([]string, 0, len(df.order))
	seen := make(map[string]bool, len(df.order))
	for _, name := range df.order {
		renamed := name
		if to, ok := mapping[name]; ok {
			renamed = to
		}
		if seen[renamed] {
			return nil, errors.NewValidationError(op, renamed, "duplicate column name after rename")
		}
		seen[renamed] = true
		cols[renamed] = df.columns[name].Slice(0, df.Len(), mem)
		order = append(order, renamed)
	}
	return &DataFrame{columns: cols, order: order, idx: df.copyIndex(mem)}, nil
}

// Select keeps only the named columns, in the given order.
func (df *DataFrame) Select(mem memory.Allocator, names ...string) (*DataFrame, error) {
	const op = "select"
	if err := checkDuplicates(op, names); err != nil {
		return nil, err
	}
	cols := make(map[string]*column.Column, len(names))
	for _, name := range names {
		src, ok := df.columns[name]
		if !ok {
			return nil, errors.NewColumnNotFoundError(op, name)
		}
		cols[name] = src.Slice(0, df.Len(), mem)
	}
	return &DataFrame{columns: cols, order: append([]string(nil), names...), idx: df.copyIndex(mem)}, nil
}

// SetIndex promotes a column to the row index, removing it from the columns.
// The previous index is discarded.
func (df *DataFrame) SetIndex(name string, mem memory.Allocator) (*DataFrame, error) {
	src, ok := df.columns[name]
	if !ok {
		return nil, errors.NewColumnNotFoundError("setIndex", name)
	}

	cols := make(map[string]*column.Column, len(df.order)-1)
	order := make([]string, 0, len(df.order)-1)
	for _, n := range df.order {
		if n == name {
			continue
		}
		cols[n] = df.columns[n].Slice(0, df.Len(), mem)
		order = append(order, n)
	}
	idx := index.NewIndex(src.Slice(0, df.Len(), mem))
	return &DataFrame{columns: cols, order: order, idx: idx}, nil
}

// ResetIndex demotes the row index to a leading column named "index" and
// installs a fresh range index.
func (df *DataFrame) ResetIndex(mem memory.Allocator) (*DataFrame, error) {
	const indexName = "index"
	if df.HasColumn(indexName) {
		return nil, errors.NewValidationError("resetIndex", indexName, "column already exists")
	}

	cols := make(map[string]*column.Column, len(df.order)+1)
	order := make([]string, 0, len(df.order)+1)
	cols[indexName] = df.idx.Column().Slice(0, df.Len(), mem)
	order = append(order, indexName)
	for _, name := range df.order {
		cols[name] = df.columns[name].Slice(0, df.Len(), mem)
		order = append(order, name)
	}
	return &DataFrame{columns: cols, order: order, idx: index.NewRangeIndex(df.Len(), mem)}, nil
}

// WithIndex replaces the row index, taking ownership of the given index.
func (df *DataFrame) WithIndex(idx *index.Index, mem memory.Allocator) (*DataFrame, error) {
	if idx.Len() != df.Len() {
		return nil, errors.NewLengthMismatchError("setIndex", df.Len(), idx.Len())
	}
	out := df.Slice(0, df.Len(), mem)
	out.idx.Release()
	out.idx = idx
	return out, nil
}

// ConvertColumnToDate reparses a column as datetimes. Cells that cannot be
// read as a date become null; numeric cells are treated as epoch
// milliseconds.
func (df *DataFrame) ConvertColumnToDate(name string, mem memory.Allocator) (*DataFrame, error) {
	if !df.HasColumn(name) {
		return nil, errors.NewColumnNotFoundError("convertColumnToDate", name)
	}

	cols := make(map[string]*column.Column, len(df.order))
	for _, n := range df.order {
		if n == name {
			cols[n] = df.columns[n].ToDate(mem)
		} else {
			cols[n] = df.columns[n].Slice(0, df.Len(), mem)
		}
	}
	return &DataFrame{columns: cols, order: append([]string(nil), df.order...), idx: df.copyIndex(mem)}, nil
}

// FilterByDateRange keeps rows whose date cell falls inside [start, end],
// inclusive on both ends. Null cells are dropped. The column must hold
// datetimes.
func (df *DataFrame) FilterByDateRange(name string, start, end time.Time, mem memory.Allocator) (*DataFrame, error) {
	const op = "filterByDateRange"
	src, ok := df.columns[name]
	if !ok {
		return nil, errors.NewColumnNotFoundError(op, name)
	}
	if src.DType() != column.Date {
		return nil, errors.NewTypeMismatchError(op, name, "column does not hold datetimes")
	}

	times, valid, err := src.Times()
	if err != nil {
		return nil, err
	}
	rows := make([]int, 0, len(times))
	for i, t := range times {
		if !valid[i] {
			continue
		}
		if !t.Before(start) && !t.After(end) {
			rows = append(rows, i)
		}
	}
	return df.take(rows, mem), nil
}

// DropNA removes rows containing nulls. Under "any" (the default for an empty
// mode) a single null cell drops the row; under "all" every cell in the row
// must be null.
func (df *DataFrame) DropNA(how string, mem memory.Allocator) (*DataFrame, error) {
	const op = "dropna"
	var requireAll bool
	switch how {
	case "", "any":
	case "all":
		requireAll = true
	default:
		return nil, errors.NewUnsupportedError(op, fmt.Sprintf("unknown drop mode %q", how))
	}

	rows := make([]int, 0, df.Len())
	for i := 0; i < df.Len(); i++ {
		nulls := 0
		for _, name := range df.order {
			if df.columns[name].IsNull(i) {
				nulls++
			}
		}
		drop := nulls > 0
		if requireAll {
			drop = len(df.order) > 0 && nulls == len(df.order)
		}
		if !drop {
			rows = append(rows, i)
		}
	}
	return df.take(rows, mem), nil
}

// Sort orders rows by one or more columns. The sort is stable; nulls sort
// last under either direction. The ascending slice is broadcast when it holds
// a single element, defaults to all-ascending when nil, and must otherwise
// match by in length.
func (df *DataFrame) Sort(by []string, ascending []bool, mem memory.Allocator) (*DataFrame, error) {
	const op = "sort"
	if len(by) == 0 {
		return nil, errors.NewValidationError(op, "", "at least one sort column is required")
	}
	keys := make([]*column.Column, len(by))
	for i, name := range by {
		col, ok := df.columns[name]
		if !ok {
			return nil, errors.NewColumnNotFoundError(op, name)
		}
		keys[i] = col
	}

	asc := ascending
	switch {
	case len(asc) == 0:
		asc = make([]bool, len(by))
		for i := range asc {
			asc[i] = true
		}
	case len(asc) == 1 && len(by) > 1:
		dir := asc[0]
		asc = make([]bool, len(by))
		for i := range asc {
			asc[i] = dir
		}
	case len(asc) != len(by):
		return nil, errors.NewLengthMismatchError(op, len(by), len(asc))
	}

	perm := make([]int, df.Len())
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		for k, col := range keys {
			va := col.Value(perm[a])
			vb := col.Value(perm[b])
			if va.IsNull() || vb.IsNull() {
				if va.IsNull() == vb.IsNull() {
					continue
				}
				return vb.IsNull()
			}
			c := va.Compare(vb)
			if c == 0 {
				continue
			}
			if asc[k] {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return df.take(perm, mem), nil
}

// Take gathers the given row positions into a new frame, index included.
// Negative positions produce all-null rows with a null index label.
func (df *DataFrame) Take(rows []int, mem memory.Allocator) *DataFrame {
	return df.take(rows, mem)
}

// Reindex conforms the frame to the target index. Rows whose label matches a
// target label carry their values over; target labels absent from the frame
// become all-null rows. Duplicate frame labels resolve to their first
// occurrence. The result's index is a copy of target.
func (df *DataFrame) Reindex(target *index.Index, mem memory.Allocator) *DataFrame {
	byKey := newValueMap(df.idx.Len())
	for pos, v := range df.idx.Values() {
		byKey.add(v.Key(), pos)
	}

	labels := target.Values()
	rows := make([]int, len(labels))
	for i, label := range labels {
		rows[i] = -1
		if hit := byKey.rows(label.Key()); len(hit) > 0 {
			rows[i] = hit[0]
		}
	}

	cols := make(map[string]*column.Column, len(df.order))
	for _, name := range df.order {
		cols[name] = df.columns[name].Take(rows, mem)
	}
	return &DataFrame{
		columns: cols,
		order:   append([]string(nil), df.order...),
		idx:     target.Slice(0, target.Len(), mem),
	}
}

func (df *DataFrame) copyIndex(mem memory.Allocator) *index.Index {
	return df.idx.Slice(0, df.idx.Len(), mem)
}
