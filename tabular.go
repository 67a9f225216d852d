// Package tabular provides a typed, columnar tabular-data engine for chart
// building: data frames and series with sample-based dtype inference, date
// rounding and alignment, magnitude scaling, and y-axis grid computation.
// This package is the sole public API for the library.
//
// Cells cross the API boundary as native Go values (int64, float64, string,
// bool, time.Time, nil for null) and are stored internally as Arrow-backed
// typed columns. Every operation returns a new frame or series; inputs are
// never mutated.
package tabular

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/config"
	"github.com/chartkit/tabular/internal/dataframe"
	"github.com/chartkit/tabular/internal/errors"
	tabio "github.com/chartkit/tabular/internal/io"
	"github.com/chartkit/tabular/internal/series"
)

// DType identifies the declared value type of a column.
type DType = column.DType

// Column dtypes.
const (
	Integer = column.Integer
	Float   = column.Float
	String  = column.String
	Boolean = column.Boolean
	Date    = column.Date
)

// PivotOptions selects the reshape axes and the bucket reducer.
type PivotOptions = dataframe.PivotOptions

// ResampleOptions configures the rolling approximation of frequency
// resampling.
type ResampleOptions = dataframe.ResampleOptions

// RollingOptions configures a sliding-window view over a series.
type RollingOptions = series.RollingOptions

// CSVOptions configures CSV reading and writing.
type CSVOptions = tabio.CSVOptions

// JSONOptions configures JSON reading and writing.
type JSONOptions = tabio.JSONOptions

// JSONFormat selects the JSON layout.
type JSONFormat = tabio.JSONFormat

// JSON layouts.
const (
	JSONRecords = tabio.JSONRecords
	JSONColumns = tabio.JSONColumns
	JSONLines   = tabio.JSONLines
)

// DefaultCSVOptions returns the standard CSV configuration: comma-delimited,
// first row headers, quoted output.
func DefaultCSVOptions() CSVOptions { return tabio.DefaultCSVOptions() }

// DefaultJSONOptions returns the standard JSON configuration.
func DefaultJSONOptions() JSONOptions { return tabio.DefaultJSONOptions() }

// IsValidationError reports whether err is a validation failure: an absent
// column or label, a length mismatch, or malformed options.
func IsValidationError(err error) bool { return errors.IsValidation(err) }

// IsUnsupportedError reports whether err names an unsupported format,
// frequency, or operation.
func IsUnsupportedError(err error) bool { return errors.IsUnsupported(err) }

// IsTypeMismatchError reports whether err comes from a numeric operation on
// a non-numeric column or an unsupported input container.
func IsTypeMismatchError(err error) bool { return errors.IsTypeMismatch(err) }

// Options tunes frame construction.
type Options struct {
	// Columns restricts and orders the resulting columns. When empty, map
	// inputs fall back to sorted name order.
	Columns []string
	// Index supplies explicit row labels. Empty means a range index.
	Index []any
	// DTypes pins the dtype of named columns instead of sample inference.
	DTypes map[string]DType
	// InferSampleSize caps how many leading non-null values inference
	// inspects per column. Zero means the configured default.
	InferSampleSize int
	// Allocator backs the frame's Arrow storage. Nil means
	// memory.DefaultAllocator.
	Allocator memory.Allocator
}

func (o Options) allocator() memory.Allocator {
	if o.Allocator != nil {
		return o.Allocator
	}
	return memory.DefaultAllocator
}

func (o Options) internal() dataframe.Options {
	opts := dataframe.Options{
		Columns:         o.Columns,
		DTypes:          o.DTypes,
		InferSampleSize: o.InferSampleSize,
	}
	if opts.InferSampleSize == 0 {
		opts.InferSampleSize = config.GetGlobalConfig().InferSampleSize
	}
	if o.Index != nil {
		opts.Index = column.CoerceSlice(o.Index)
	}
	return opts
}

// DataFrame is the public handle on a frame. It wraps the internal
// dataframe.DataFrame to hide implementation details and carries its
// allocator so derived frames allocate from the same pool.
type DataFrame struct {
	df  *dataframe.DataFrame
	mem memory.Allocator
}

// Series is the public handle on a single named column with row labels.
type Series struct {
	s   *series.Series
	mem memory.Allocator
}

// GroupBy is the public handle on a grouped frame.
type GroupBy struct {
	gb  *dataframe.GroupBy
	mem memory.Allocator
}

// Rolling is the public handle on a sliding-window view of a series.
type Rolling struct {
	r   *series.Rolling
	mem memory.Allocator
}

// NewDataFrame builds a frame from any supported container: a map of column
// slices, a slice of row records, or a slice of row slices. JSON-decoded
// shapes (map[string]any holding []any columns, []any holding objects or
// row slices) work unchanged. Unsupported containers fail with a type
// mismatch error.
func NewDataFrame(data any, opts Options) (*DataFrame, error) {
	const op = "NewDataFrame"
	switch v := data.(type) {
	case nil:
		return FromColumns(nil, opts)
	case map[string][]any:
		return FromColumns(v, opts)
	case map[string]any:
		cols := make(map[string][]any, len(v))
		for name, raw := range v {
			cells, ok := raw.([]any)
			if !ok {
				return nil, errors.NewTypeMismatchError(op, name,
					fmt.Sprintf("column value must be a slice, got %T", raw))
			}
			cols[name] = cells
		}
		return FromColumns(cols, opts)
	case []map[string]any:
		return FromRecords(v, opts)
	case [][]any:
		return FromRows(v, opts)
	case []any:
		if len(v) == 0 {
			return FromRecords(nil, opts)
		}
		switch v[0].(type) {
		case map[string]any:
			records := make([]map[string]any, len(v))
			for i, el := range v {
				rec, ok := el.(map[string]any)
				if !ok {
					return nil, errors.NewTypeMismatchError(op, "",
						fmt.Sprintf("row %d: expected an object, got %T", i, el))
				}
				records[i] = rec
			}
			return FromRecords(records, opts)
		case []any:
			rows := make([][]any, len(v))
			for i, el := range v {
				row, ok := el.([]any)
				if !ok {
					return nil, errors.NewTypeMismatchError(op, "",
						fmt.Sprintf("row %d: expected a slice, got %T", i, el))
				}
				rows[i] = row
			}
			return FromRows(rows, opts)
		default:
			return nil, errors.NewTypeMismatchError(op, "",
				fmt.Sprintf("unsupported element type %T", v[0]))
		}
	default:
		return nil, errors.NewTypeMismatchError(op, "",
			fmt.Sprintf("unsupported data container %T", data))
	}
}

// FromColumns builds a frame from column-major data.
func FromColumns(columns map[string][]any, opts Options) (*DataFrame, error) {
	mem := opts.allocator()
	data := make(map[string][]column.Value, len(columns))
	for name, cells := range columns {
		data[name] = column.CoerceSlice(cells)
	}
	df, err := dataframe.New(data, opts.internal(), mem)
	if err != nil {
		return nil, err
	}
	return &DataFrame{df: df, mem: mem}, nil
}

// FromRecords builds a frame from row-major records. Column order follows
// opts.Columns when given, otherwise sorted name order; keys missing from a
// record become null cells.
func FromRecords(records []map[string]any, opts Options) (*DataFrame, error) {
	mem := opts.allocator()
	recs := make([]map[string]column.Value, len(records))
	for i, r := range records {
		rec := make(map[string]column.Value, len(r))
		for k, v := range r {
			rec[k] = column.CoerceValue(v)
		}
		recs[i] = rec
	}
	df, err := dataframe.FromRecords(recs, opts.internal(), mem)
	if err != nil {
		return nil, err
	}
	return &DataFrame{df: df, mem: mem}, nil
}

// FromRows builds a frame from row slices. Columns take their names from
// opts.Columns; without names they become column_0, column_1, and so on.
// Short rows pad with nulls.
func FromRows(rows [][]any, opts Options) (*DataFrame, error) {
	mem := opts.allocator()
	vals := make([][]column.Value, len(rows))
	for i, r := range rows {
		vals[i] = column.CoerceSlice(r)
	}
	df, err := dataframe.FromRows(vals, opts.internal(), mem)
	if err != nil {
		return nil, err
	}
	return &DataFrame{df: df, mem: mem}, nil
}

// NewSeries creates a typed series with a range index. Cells coerce to the
// engine's tagged values the same way frame construction does; nil becomes
// null. A nil allocator means memory.DefaultAllocator.
func NewSeries[T any](name string, values []T, mem memory.Allocator) *Series {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	vals := make([]column.Value, len(values))
	for i, v := range values {
		vals[i] = column.CoerceValue(v)
	}
	return &Series{s: series.FromValues(name, vals, mem), mem: mem}
}

// valueToAny maps a tagged value back to its native Go form: int64, float64,
// string, bool, time.Time, or nil for null.
func valueToAny(v column.Value) any {
	kind, ok := v.Kind()
	if !ok {
		return nil
	}
	switch kind {
	case column.Integer:
		n, _ := v.Int64()
		return n
	case column.Float:
		f, _ := v.Float64()
		return f
	case column.String:
		s, _ := v.Str()
		return s
	case column.Boolean:
		b, _ := v.Bool()
		return b
	case column.Date:
		t, _ := v.Time()
		return t
	default:
		return nil
	}
}

func valuesToAny(vals []column.Value) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = valueToAny(v)
	}
	return out
}

// DataFrame methods

func (d *DataFrame) wrap(df *dataframe.DataFrame, err error) (*DataFrame, error) {
	if err != nil {
		return nil, err
	}
	return &DataFrame{df: df, mem: d.mem}, nil
}

// Columns returns the column names in order.
func (d *DataFrame) Columns() []string { return d.df.Columns() }

// DTypes returns the dtype of every column.
func (d *DataFrame) DTypes() map[string]DType { return d.df.DTypes() }

// Len returns the number of rows.
func (d *DataFrame) Len() int { return d.df.Len() }

// Width returns the number of columns.
func (d *DataFrame) Width() int { return d.df.Width() }

// Shape returns rows and columns.
func (d *DataFrame) Shape() (rows, cols int) { return d.df.Shape() }

// HasColumn reports whether the named column exists.
func (d *DataFrame) HasColumn(name string) bool { return d.df.HasColumn(name) }

// Index returns the row labels in native form.
func (d *DataFrame) Index() []any { return valuesToAny(d.df.Index().Values()) }

// Column returns the named column as a series sharing the frame's row
// labels.
func (d *DataFrame) Column(name string) (*Series, error) {
	s, err := d.df.GetColumn(name, d.mem)
	if err != nil {
		return nil, err
	}
	return &Series{s: s, mem: d.mem}, nil
}

// Row returns the cells of one row in column order.
func (d *DataFrame) Row(pos int) ([]any, error) {
	row, err := d.df.Row(pos)
	if err != nil {
		return nil, err
	}
	return valuesToAny(row), nil
}

// Records returns the frame as row-major records with native cell values.
func (d *DataFrame) Records() []map[string]any {
	recs := d.df.Records()
	out := make([]map[string]any, len(recs))
	for i, rec := range recs {
		m := make(map[string]any, len(rec))
		for k, v := range rec {
			m[k] = valueToAny(v)
		}
		out[i] = m
	}
	return out
}

// Head returns the first n rows; n past the end clamps to the full frame.
func (d *DataFrame) Head(n int) *DataFrame {
	return &DataFrame{df: d.df.Head(n, d.mem), mem: d.mem}
}

// Tail returns the last n rows.
func (d *DataFrame) Tail(n int) *DataFrame {
	return &DataFrame{df: d.df.Tail(n, d.mem), mem: d.mem}
}

// Slice returns rows in [lo, hi). Bounds clamp to the frame.
func (d *DataFrame) Slice(lo, hi int) *DataFrame {
	return &DataFrame{df: d.df.Slice(lo, hi, d.mem), mem: d.mem}
}

// Select returns a frame with only the named columns, in the given order.
func (d *DataFrame) Select(names ...string) (*DataFrame, error) {
	return d.wrap(d.df.Select(d.mem, names...))
}

// Drop returns a frame without the named columns.
func (d *DataFrame) Drop(names ...string) (*DataFrame, error) {
	return d.wrap(d.df.Drop(d.mem, names...))
}

// Rename returns a frame with columns renamed by the old-to-new mapping.
func (d *DataFrame) Rename(mapping map[string]string) (*DataFrame, error) {
	return d.wrap(d.df.Rename(mapping, d.mem))
}

// SetIndex moves the named column into the row labels.
func (d *DataFrame) SetIndex(name string) (*DataFrame, error) {
	return d.wrap(d.df.SetIndex(name, d.mem))
}

// ResetIndex restores a range index, moving the old labels into a column.
func (d *DataFrame) ResetIndex() (*DataFrame, error) {
	return d.wrap(d.df.ResetIndex(d.mem))
}

// ConvertColumnToDate parses the named column into Date cells; unparseable
// cells become null.
func (d *DataFrame) ConvertColumnToDate(name string) (*DataFrame, error) {
	return d.wrap(d.df.ConvertColumnToDate(name, d.mem))
}

// FilterByDateRange keeps rows whose named Date column falls inside
// [start, end], both ends inclusive.
func (d *DataFrame) FilterByDateRange(name string, start, end time.Time) (*DataFrame, error) {
	return d.wrap(d.df.FilterByDateRange(name, start, end, d.mem))
}

// DropNA removes rows containing nulls: with "any" a single null cell drops
// the row, with "all" every cell in the row must be null. An empty how means
// "any".
func (d *DataFrame) DropNA(how string) (*DataFrame, error) {
	return d.wrap(d.df.DropNA(how, d.mem))
}

// Sort orders rows by one or more columns, nulls last. A single ascending
// flag applies to every key; otherwise flags pair with the keys.
func (d *DataFrame) Sort(by []string, ascending []bool) (*DataFrame, error) {
	return d.wrap(d.df.Sort(by, ascending, d.mem))
}

// Pivot reshapes the frame into a wide table: one row per distinct index
// value, one column per distinct pivot value.
func (d *DataFrame) Pivot(opts PivotOptions) (*DataFrame, error) {
	return d.wrap(d.df.Pivot(opts, d.mem))
}

// GroupBy groups rows by the values of the named column.
func (d *DataFrame) GroupBy(name string) (*GroupBy, error) {
	gb, err := d.df.GroupBy(name)
	if err != nil {
		return nil, err
	}
	return &GroupBy{gb: gb, mem: d.mem}, nil
}

// Resample approximates frequency resampling: the rule's multiplier becomes
// a trailing rolling window, so "3D" aggregates over three-row windows.
func (d *DataFrame) Resample(opts ResampleOptions) (*DataFrame, error) {
	return d.wrap(d.df.Resample(opts, d.mem))
}

// RollingApply aggregates every numeric column over a trailing window.
func (d *DataFrame) RollingApply(window int, fn string) (*DataFrame, error) {
	return d.wrap(d.df.RollingApply(window, fn, d.mem))
}

// Describe returns summary statistics (count, mean, std, min, quartiles,
// max) for every numeric column.
func (d *DataFrame) Describe() (*DataFrame, error) {
	return d.wrap(d.df.Describe(d.mem))
}

// To renders the frame in a named export format: "csv" (quoted, with a
// header row), "json" (column-major object), or "records" (array of row
// objects). Unknown formats fail with an unsupported operation error.
func (d *DataFrame) To(format string) (string, error) {
	const op = "DataFrame.To"
	var sb strings.Builder
	switch format {
	case "csv":
		if err := tabio.NewCSVWriter(&sb, tabio.DefaultCSVOptions()).Write(d.df); err != nil {
			return "", err
		}
	case "json":
		if err := tabio.NewJSONWriter(&sb, tabio.JSONOptions{Format: tabio.JSONColumns}).Write(d.df); err != nil {
			return "", err
		}
	case "records":
		if err := tabio.NewJSONWriter(&sb, tabio.JSONOptions{Format: tabio.JSONRecords}).Write(d.df); err != nil {
			return "", err
		}
	default:
		return "", errors.NewUnsupportedError(op, fmt.Sprintf("unknown export format %q", format))
	}
	return sb.String(), nil
}

// WriteCSV writes the frame as CSV with the given options.
func (d *DataFrame) WriteCSV(w io.Writer, opts CSVOptions) error {
	return tabio.NewCSVWriter(w, opts).Write(d.df)
}

// WriteJSON writes the frame as JSON with the given options.
func (d *DataFrame) WriteJSON(w io.Writer, opts JSONOptions) error {
	return tabio.NewJSONWriter(w, opts).Write(d.df)
}

// String renders a short preview of the frame.
func (d *DataFrame) String() string { return d.df.String() }

// Release frees the frame's Arrow buffers. The frame must not be used
// afterwards.
func (d *DataFrame) Release() { d.df.Release() }

// ReadCSV parses CSV into a frame. A nil allocator means
// memory.DefaultAllocator.
func ReadCSV(r io.Reader, opts CSVOptions, mem memory.Allocator) (*DataFrame, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	df, err := tabio.NewCSVReader(r, opts, mem).Read()
	if err != nil {
		return nil, err
	}
	return &DataFrame{df: df, mem: mem}, nil
}

// ReadJSON parses JSON into a frame. A nil allocator means
// memory.DefaultAllocator.
func ReadJSON(r io.Reader, opts JSONOptions, mem memory.Allocator) (*DataFrame, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	df, err := tabio.NewJSONReader(r, opts, mem).Read()
	if err != nil {
		return nil, err
	}
	return &DataFrame{df: df, mem: mem}, nil
}

// GroupBy methods

func (g *GroupBy) wrap(df *dataframe.DataFrame, err error) (*DataFrame, error) {
	if err != nil {
		return nil, err
	}
	return &DataFrame{df: df, mem: g.mem}, nil
}

// Groups returns the number of distinct groups.
func (g *GroupBy) Groups() int { return g.gb.Groups() }

// Mean averages every numeric column per group. Group keys become the
// result's row labels, sorted ascending.
func (g *GroupBy) Mean() (*DataFrame, error) { return g.wrap(g.gb.Mean(g.mem)) }

// Sum totals every numeric column per group.
func (g *GroupBy) Sum() (*DataFrame, error) { return g.wrap(g.gb.Sum(g.mem)) }

// Count counts non-null cells per column per group.
func (g *GroupBy) Count() (*DataFrame, error) { return g.wrap(g.gb.Count(g.mem)) }

// Series methods

func (s *Series) wrap(out *series.Series, err error) (*Series, error) {
	if err != nil {
		return nil, err
	}
	return &Series{s: out, mem: s.mem}, nil
}

// Name returns the series name.
func (s *Series) Name() string { return s.s.Name() }

// Len returns the number of elements.
func (s *Series) Len() int { return s.s.Len() }

// DType returns the series dtype.
func (s *Series) DType() DType { return s.s.DType() }

// Values returns every cell in native form, nulls as nil.
func (s *Series) Values() []any { return valuesToAny(s.s.Values()) }

// Index returns the row labels in native form.
func (s *Series) Index() []any { return valuesToAny(s.s.Index().Values()) }

// At returns the cell at a zero-based position.
func (s *Series) At(pos int) (any, error) {
	v, err := s.s.At(pos)
	if err != nil {
		return nil, err
	}
	return valueToAny(v), nil
}

// Loc returns the cell under the given row label.
func (s *Series) Loc(label any) (any, error) {
	v, err := s.s.Loc(column.CoerceValue(label))
	if err != nil {
		return nil, err
	}
	return valueToAny(v), nil
}

// Float64s returns the series as float64s with NaN in null slots.
// Non-numeric series fail with a type mismatch error.
func (s *Series) Float64s() ([]float64, error) { return s.s.Column().Float64s() }

// Slice returns elements in [lo, hi). Bounds clamp.
func (s *Series) Slice(lo, hi int) *Series {
	return &Series{s: s.s.Slice(lo, hi, s.mem), mem: s.mem}
}

// Head returns the first n elements; n past the end clamps.
func (s *Series) Head(n int) *Series {
	return &Series{s: s.s.Head(n, s.mem), mem: s.mem}
}

// Tail returns the last n elements.
func (s *Series) Tail(n int) *Series {
	return &Series{s: s.s.Tail(n, s.mem), mem: s.mem}
}

// IsNA reports null per element.
func (s *Series) IsNA() []bool { return s.s.IsNA() }

// NotNA reports non-null per element.
func (s *Series) NotNA() []bool { return s.s.NotNA() }

// DropNA returns the series without its null elements, labels preserved.
func (s *Series) DropNA() *Series {
	return &Series{s: s.s.DropNA(s.mem), mem: s.mem}
}

// FillOptions selects exactly one null-filling strategy: a scalar value, a
// per-label mapping, or a directional method ("ffill" or "bfill").
type FillOptions struct {
	Value   any
	ByLabel map[any]any
	Method  string
}

// FillNA replaces null elements according to the options.
func (s *Series) FillNA(opts FillOptions) (*Series, error) {
	const op = "Series.FillNA"
	set := 0
	if opts.Value != nil {
		set++
	}
	if opts.ByLabel != nil {
		set++
	}
	if opts.Method != "" {
		set++
	}
	if set != 1 {
		return nil, errors.NewValidationError(op, s.Name(),
			"exactly one of Value, ByLabel, Method must be set")
	}
	switch {
	case opts.Method != "":
		return s.wrap(s.s.FillNAMethod(opts.Method, s.mem))
	case opts.ByLabel != nil:
		fills := make(map[column.Value]column.Value, len(opts.ByLabel))
		for k, v := range opts.ByLabel {
			fills[column.CoerceValue(k)] = column.CoerceValue(v)
		}
		return &Series{s: s.s.FillNAByLabel(fills, s.mem), mem: s.mem}, nil
	default:
		return s.wrap(s.s.FillNA(column.CoerceValue(opts.Value), s.mem))
	}
}

// Count returns the number of non-null elements.
func (s *Series) Count() int { return s.s.Count() }

// Sum totals the non-null elements of a numeric series.
func (s *Series) Sum() (float64, error) { return s.s.Sum() }

// Mean averages the non-null elements.
func (s *Series) Mean() (float64, error) { return s.s.Mean() }

// Min returns the smallest non-null element.
func (s *Series) Min() (float64, error) { return s.s.Min() }

// Max returns the largest non-null element.
func (s *Series) Max() (float64, error) { return s.s.Max() }

// Std returns the sample standard deviation (n-1 divisor).
func (s *Series) Std() (float64, error) { return s.s.Std() }

// Quantile returns the linearly interpolated q-quantile, q in [0, 1].
func (s *Series) Quantile(q float64) (float64, error) { return s.s.Quantile(q) }

// Median returns the 0.5 quantile.
func (s *Series) Median() (float64, error) { return s.s.Median() }

// Unique returns the distinct non-null values in first-appearance order.
func (s *Series) Unique() *Series {
	return &Series{s: s.s.Unique(s.mem), mem: s.mem}
}

// NUnique counts the distinct non-null values.
func (s *Series) NUnique() int { return s.s.NUnique() }

// ValueCounts returns distinct values with their occurrence counts, most
// frequent first.
func (s *Series) ValueCounts() *Series {
	return &Series{s: s.s.ValueCounts(s.mem), mem: s.mem}
}

// Sort orders elements by value, nulls last.
func (s *Series) Sort(ascending bool) *Series {
	return &Series{s: s.s.Sort(ascending, s.mem), mem: s.mem}
}

// Rolling validates the options and returns a sliding-window view. Zero
// MinPeriods means the configured default.
func (s *Series) Rolling(opts RollingOptions) (*Rolling, error) {
	if opts.MinPeriods == 0 {
		opts.MinPeriods = config.GetGlobalConfig().RollingMinPeriods
	}
	r, err := s.s.Rolling(opts)
	if err != nil {
		return nil, err
	}
	return &Rolling{r: r, mem: s.mem}, nil
}

// String renders a short preview of the series.
func (s *Series) String() string { return s.s.String() }

// Release frees the series' Arrow buffers.
func (s *Series) Release() { s.s.Release() }

// Rolling methods

func (r *Rolling) wrap(out *series.Series, err error) (*Series, error) {
	if err != nil {
		return nil, err
	}
	return &Series{s: out, mem: r.mem}, nil
}

// Mean emits the window average per row.
func (r *Rolling) Mean() (*Series, error) { return r.wrap(r.r.Mean(r.mem)) }

// Sum emits the window total per row.
func (r *Rolling) Sum() (*Series, error) { return r.wrap(r.r.Sum(r.mem)) }

// Min emits the window minimum per row.
func (r *Rolling) Min() (*Series, error) { return r.wrap(r.r.Min(r.mem)) }

// Max emits the window maximum per row.
func (r *Rolling) Max() (*Series, error) { return r.wrap(r.r.Max(r.mem)) }

// Std emits the window population standard deviation per row.
func (r *Rolling) Std() (*Series, error) { return r.wrap(r.r.Std(r.mem)) }
