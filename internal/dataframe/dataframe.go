// Package dataframe implements the two-dimensional labelled table at the
// heart of the engine: equally long typed columns sharing one row index.
package dataframe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/errors"
	"github.com/chartkit/tabular/internal/index"
	"github.com/chartkit/tabular/internal/series"
)

// DataFrame is a table of typed columns sharing one row index. Frames are
// immutable: every transforming operation returns a new frame backed by
// freshly allocated storage, never a view over the receiver's arrays.
type DataFrame struct {
	columns map[string]*column.Column
	order   []string // maintains column order
	idx     *index.Index
}

// Options tunes frame construction.
type Options struct {
	// Columns restricts and orders the resulting columns. When empty, map
	// inputs fall back to sorted name order, since Go maps carry no order.
	Columns []string
	// Index supplies explicit row labels. Empty means a range index.
	Index []column.Value
	// DTypes pins the dtype of named columns instead of sample inference.
	DTypes map[string]column.DType
	// InferSampleSize caps how many leading non-null values inference
	// inspects per column. Zero means the column package default.
	InferSampleSize int
}

// New builds a frame from column-major data. All columns must share one
// length, and the index (when given) must match it.
func New(data map[string][]column.Value, opts Options, mem memory.Allocator) (*DataFrame, error) {
	const op = "dataframe"
	names := opts.Columns
	if len(names) == 0 {
		names = make([]string, 0, len(data))
		for name := range data {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	if err := checkDuplicates(op, names); err != nil {
		return nil, err
	}

	length := -1
	for _, name := range names {
		vals, ok := data[name]
		if !ok {
			return nil, errors.NewColumnNotFoundError(op, name)
		}
		if length == -1 {
			length = len(vals)
		} else if len(vals) != length {
			return nil, errors.NewLengthMismatchError(op, length, len(vals))
		}
	}
	if length == -1 {
		length = 0
	}

	cols := make(map[string]*column.Column, len(names))
	for _, name := range names {
		cols[name] = buildColumn(data[name], name, opts, mem)
	}

	idx, err := buildIndex(op, length, opts, mem)
	if err != nil {
		return nil, err
	}
	return &DataFrame{columns: cols, order: append([]string(nil), names...), idx: idx}, nil
}

// FromRecords builds a frame from row-major records. Keys absent from a
// record become null cells in that row.
func FromRecords(records []map[string]column.Value, opts Options, mem memory.Allocator) (*DataFrame, error) {
	names := opts.Columns
	if len(names) == 0 {
		seen := make(map[string]bool)
		for _, rec := range records {
			for name := range rec {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
		sort.Strings(names)
	}

	data := make(map[string][]column.Value, len(names))
	for _, name := range names {
		vals := make([]column.Value, len(records))
		for i, rec := range records {
			if v, ok := rec[name]; ok {
				vals[i] = v
			} else {
				vals[i] = column.Null()
			}
		}
		data[name] = vals
	}

	inner := opts
	inner.Columns = names
	return New(data, inner, mem)
}

// FromRows builds a frame from a row-major grid. Short rows are padded with
// nulls; rows wider than an explicit column list fail validation. Without an
// explicit list, columns are named column_0, column_1, and so on.
func FromRows(rows [][]column.Value, opts Options, mem memory.Allocator) (*DataFrame, error) {
	const op = "dataframe"
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	names := opts.Columns
	if len(names) == 0 {
		names = make([]string, width)
		for i := range names {
			names[i] = fmt.Sprintf("column_%d", i)
		}
	} else if width > len(names) {
		return nil, errors.NewLengthMismatchError(op, len(names), width)
	}

	data := make(map[string][]column.Value, len(names))
	for j, name := range names {
		vals := make([]column.Value, len(rows))
		for i, row := range rows {
			if j < len(row) {
				vals[i] = row[j]
			} else {
				vals[i] = column.Null()
			}
		}
		data[name] = vals
	}

	inner := opts
	inner.Columns = names
	return New(data, inner, mem)
}

// FromColumns assembles a frame from already built columns, taking ownership
// of both the columns and the index. A nil index means a range index.
func FromColumns(names []string, cols []*column.Column, idx *index.Index, mem memory.Allocator) (*DataFrame, error) {
	const op = "dataframe"
	if len(names) != len(cols) {
		return nil, errors.NewLengthMismatchError(op, len(names), len(cols))
	}
	if err := checkDuplicates(op, names); err != nil {
		return nil, err
	}

	length := 0
	if len(cols) > 0 {
		length = cols[0].Len()
	}
	byName := make(map[string]*column.Column, len(names))
	for i, name := range names {
		if cols[i].Len() != length {
			return nil, errors.NewLengthMismatchError(op, length, cols[i].Len())
		}
		byName[name] = cols[i]
	}

	if idx == nil {
		idx = index.NewRangeIndex(length, mem)
	} else if idx.Len() != length {
		return nil, errors.NewLengthMismatchError(op, length, idx.Len())
	}
	return &DataFrame{columns: byName, order: append([]string(nil), names...), idx: idx}, nil
}

func buildColumn(vals []column.Value, name string, opts Options, mem memory.Allocator) *column.Column {
	if dt, ok := opts.DTypes[name]; ok {
		return column.New(dt, vals, mem)
	}
	return column.New(column.InferValues(vals, opts.InferSampleSize), vals, mem)
}

func buildIndex(op string, length int, opts Options, mem memory.Allocator) (*index.Index, error) {
	if opts.Index == nil {
		return index.NewRangeIndex(length, mem), nil
	}
	if len(opts.Index) != length {
		return nil, errors.NewLengthMismatchError(op, length, len(opts.Index))
	}
	return index.FromValues(opts.Index, mem), nil
}

func checkDuplicates(op string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return errors.NewValidationError(op, name, "duplicate column name")
		}
		seen[name] = true
	}
	return nil
}

// Columns returns the column names in order.
func (df *DataFrame) Columns() []string {
	return append([]string(nil), df.order...)
}

// DTypes maps each column name to its dtype.
func (df *DataFrame) DTypes() map[string]column.DType {
	out := make(map[string]column.DType, len(df.order))
	for _, name := range df.order {
		out[name] = df.columns[name].DType()
	}
	return out
}

// Len returns the number of rows.
func (df *DataFrame) Len() int { return df.idx.Len() }

// Width returns the number of columns.
func (df *DataFrame) Width() int { return len(df.order) }

// Shape returns rows and columns.
func (df *DataFrame) Shape() (rows, cols int) { return df.Len(), df.Width() }

// Index returns the row index.
func (df *DataFrame) Index() *index.Index { return df.idx }

// HasColumn reports whether a column exists.
func (df *DataFrame) HasColumn(name string) bool {
	_, ok := df.columns[name]
	return ok
}

// Column returns the named column for read-only use. The column stays owned
// by the frame.
func (df *DataFrame) Column(name string) (*column.Column, bool) {
	col, ok := df.columns[name]
	return col, ok
}

// GetColumn extracts a column as a standalone series carrying a copy of the
// frame's index. The series owns fresh storage.
func (df *DataFrame) GetColumn(name string, mem memory.Allocator) (*series.Series, error) {
	col, ok := df.columns[name]
	if !ok {
		return nil, errors.NewColumnNotFoundError("getColumn", name)
	}
	return series.New(name, col.Slice(0, col.Len(), mem), df.copyIndex(mem), mem)
}

// Row returns the cells of one row in column order.
func (df *DataFrame) Row(pos int) ([]column.Value, error) {
	if pos < 0 || pos >= df.Len() {
		return nil, errors.NewOutOfBoundsError("row", pos, df.Len())
	}
	out := make([]column.Value, len(df.order))
	for i, name := range df.order {
		out[i] = df.columns[name].Value(pos)
	}
	return out, nil
}

// Records materializes the frame as one name-to-value map per row.
func (df *DataFrame) Records() []map[string]column.Value {
	recs := make([]map[string]column.Value, df.Len())
	for i := range recs {
		rec := make(map[string]column.Value, len(df.order))
		for _, name := range df.order {
			rec[name] = df.columns[name].Value(i)
		}
		recs[i] = rec
	}
	return recs
}

// Slice copies rows [lo, hi) into a new frame. The range is clamped to the
// frame's bounds.
func (df *DataFrame) Slice(lo, hi int, mem memory.Allocator) *DataFrame {
	cols := make(map[string]*column.Column, len(df.order))
	for _, name := range df.order {
		cols[name] = df.columns[name].Slice(lo, hi, mem)
	}
	return &DataFrame{
		columns: cols,
		order:   append([]string(nil), df.order...),
		idx:     df.idx.Slice(lo, hi, mem),
	}
}

// Head returns the first n rows.
func (df *DataFrame) Head(n int, mem memory.Allocator) *DataFrame {
	if n < 0 {
		n = 0
	}
	return df.Slice(0, n, mem)
}

// Tail returns the last n rows.
func (df *DataFrame) Tail(n int, mem memory.Allocator) *DataFrame {
	if n < 0 {
		n = 0
	}
	return df.Slice(df.Len()-n, df.Len(), mem)
}

// take gathers the given row positions into a new frame. Negative positions
// become null rows, which reindexing relies on.
func (df *DataFrame) take(rows []int, mem memory.Allocator) *DataFrame {
	cols := make(map[string]*column.Column, len(df.order))
	for _, name := range df.order {
		cols[name] = df.columns[name].Take(rows, mem)
	}
	return &DataFrame{
		columns: cols,
		order:   append([]string(nil), df.order...),
		idx:     df.idx.Take(rows, mem),
	}
}

// String returns a short structural summary.
func (df *DataFrame) String() string {
	if len(df.order) == 0 {
		return "DataFrame[empty]"
	}
	parts := []string{fmt.Sprintf("DataFrame[%dx%d]", df.Len(), df.Width())}
	for _, name := range df.order {
		parts = append(parts, fmt.Sprintf("  %s: %s", name, df.columns[name].DType()))
	}
	return strings.Join(parts, "\n")
}

// Release releases the Arrow buffers behind every column and the index.
func (df *DataFrame) Release() {
	for _, name := range df.order {
		df.columns[name].Release()
	}
	if df.idx != nil {
		df.idx.Release()
	}
}
