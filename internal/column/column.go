package column

import (
	"fmt"
	"math"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chartkit/tabular/internal/errors"
)

// timestampType is the Arrow layout for Date columns. Timestamps are stored
// as nanoseconds and normalized to UTC at construction.
var timestampType = &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"}

// Column is a dense, length-fixed sequence of values of exactly one dtype,
// backed by an Arrow array. Columns are immutable after construction; every
// transforming operation allocates a fresh array.
type Column struct {
	dtype DType
	arr   arrow.Array
}

// New builds a column of the given dtype from tagged values. Values of a
// different kind are coerced where lossless and become null otherwise; nulls
// are recorded in the validity bitmap.
func New(dtype DType, values []Value, mem memory.Allocator) *Column {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	var arr arrow.Array
	switch dtype {
	case Integer:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		for _, v := range values {
			if n, ok := Convert(v, Integer).Int64(); ok {
				builder.Append(n)
			} else {
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	case Float:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		for _, v := range values {
			if f, ok := Convert(v, Float).Float64(); ok {
				builder.Append(f)
			} else {
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	case String:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		for _, v := range values {
			if s, ok := Convert(v, String).Str(); ok {
				builder.Append(s)
			} else {
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	case Boolean:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		for _, v := range values {
			if b, ok := Convert(v, Boolean).Bool(); ok {
				builder.Append(b)
			} else {
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	case Date:
		builder := array.NewTimestampBuilder(mem, timestampType)
		defer builder.Release()
		for _, v := range values {
			if t, ok := v.Time(); ok {
				builder.Append(arrow.Timestamp(t.UnixNano()))
			} else {
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	default:
		panic(fmt.Sprintf("unsupported dtype: %v", dtype))
	}

	return &Column{dtype: dtype, arr: arr}
}

// FromInt64s builds an Integer column with no nulls.
func FromInt64s(values []int64, mem memory.Allocator) *Column {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	builder := array.NewInt64Builder(mem)
	defer builder.Release()
	builder.AppendValues(values, nil)
	return &Column{dtype: Integer, arr: builder.NewArray()}
}

// FromFloat64s builds a Float column. NaN and infinities become null.
func FromFloat64s(values []float64, mem memory.Allocator) *Column {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	builder := array.NewFloat64Builder(mem)
	defer builder.Release()
	for _, f := range values {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			builder.AppendNull()
		} else {
			builder.Append(f)
		}
	}
	return &Column{dtype: Float, arr: builder.NewArray()}
}

// FromStrings builds a String column with no nulls.
func FromStrings(values []string, mem memory.Allocator) *Column {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	builder := array.NewStringBuilder(mem)
	defer builder.Release()
	builder.AppendValues(values, nil)
	return &Column{dtype: String, arr: builder.NewArray()}
}

// FromBools builds a Boolean column with no nulls.
func FromBools(values []bool, mem memory.Allocator) *Column {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	builder := array.NewBooleanBuilder(mem)
	defer builder.Release()
	builder.AppendValues(values, nil)
	return &Column{dtype: Boolean, arr: builder.NewArray()}
}

// FromTimes builds a Date column. Zero times become null; all timestamps are
// normalized to UTC.
func FromTimes(values []time.Time, mem memory.Allocator) *Column {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	builder := array.NewTimestampBuilder(mem, timestampType)
	defer builder.Release()
	for _, t := range values {
		if t.IsZero() {
			builder.AppendNull()
		} else {
			builder.Append(arrow.Timestamp(t.UTC().UnixNano()))
		}
	}
	return &Column{dtype: Date, arr: builder.NewArray()}
}

// FromAny infers a dtype from raw values and builds the column. An explicit
// dtype bypasses inference.
func FromAny(raw []any, dtype *DType, mem memory.Allocator) *Column {
	values := CoerceSlice(raw)
	dt := InferValues(values, DefaultSampleSize)
	if dtype != nil {
		dt = *dtype
	}
	return New(dt, values, mem)
}

// DType returns the column's declared dtype.
func (c *Column) DType() DType { return c.dtype }

// Len returns the number of values, null slots included.
func (c *Column) Len() int { return c.arr.Len() }

// NullCount returns the number of null slots.
func (c *Column) NullCount() int { return c.arr.NullN() }

// IsNull reports whether the slot at i is null.
func (c *Column) IsNull(i int) bool { return c.arr.IsNull(i) }

// Value returns the tagged value at i. Out-of-range access panics the way a
// slice would; bounds-checked access lives on Series.
func (c *Column) Value(i int) Value {
	if c.arr.IsNull(i) {
		return Null()
	}
	switch arr := c.arr.(type) {
	case *array.Int64:
		return Int(arr.Value(i))
	case *array.Float64:
		return FloatVal(arr.Value(i))
	case *array.String:
		return Str(arr.Value(i))
	case *array.Boolean:
		return Bool(arr.Value(i))
	case *array.Timestamp:
		return DateVal(time.Unix(0, int64(arr.Value(i))).UTC())
	default:
		panic(fmt.Sprintf("unsupported array type: %T", arr))
	}
}

// Values materializes every slot as a tagged value.
func (c *Column) Values() []Value {
	out := make([]Value, c.Len())
	for i := range out {
		out[i] = c.Value(i)
	}
	return out
}

// Float64s renders a numeric or boolean column as float64 with NaN in null
// slots. Non-numeric dtypes return a TypeMismatch error.
func (c *Column) Float64s() ([]float64, error) {
	if !c.dtype.IsNumeric() && c.dtype != Boolean {
		return nil, errors.NewTypeMismatchError("Float64s", "", fmt.Sprintf("cannot read %s column as float64", c.dtype))
	}
	out := make([]float64, c.Len())
	for i := range out {
		if c.arr.IsNull(i) {
			out[i] = math.NaN()
			continue
		}
		switch arr := c.arr.(type) {
		case *array.Int64:
			out[i] = float64(arr.Value(i))
		case *array.Float64:
			out[i] = arr.Value(i)
		case *array.Boolean:
			if arr.Value(i) {
				out[i] = 1
			}
		}
	}
	return out, nil
}

// Times renders a Date column as time.Time plus a validity slice.
func (c *Column) Times() ([]time.Time, []bool, error) {
	arr, ok := c.arr.(*array.Timestamp)
	if !ok {
		return nil, nil, errors.NewTypeMismatchError("Times", "", fmt.Sprintf("cannot read %s column as timestamps", c.dtype))
	}
	out := make([]time.Time, arr.Len())
	valid := make([]bool, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			continue
		}
		out[i] = time.Unix(0, int64(arr.Value(i))).UTC()
		valid[i] = true
	}
	return out, valid, nil
}

// ValueString renders the slot at i for display and CSV export. Null slots
// render as the empty string.
func (c *Column) ValueString(i int) string {
	return c.Value(i).String()
}

// Take builds a new column from the given row positions. A negative position
// selects null, which is how reindexing introduces gap rows. Storage is
// freshly allocated; the source is left untouched.
func (c *Column) Take(rows []int, mem memory.Allocator) *Column {
	values := make([]Value, len(rows))
	for i, r := range rows {
		if r < 0 || r >= c.Len() {
			values[i] = Null()
		} else {
			values[i] = c.Value(r)
		}
	}
	return New(c.dtype, values, mem)
}

// Slice copies rows [lo, hi) into a new column. The range is clamped to the
// column's bounds; an inverted range yields an empty column.
func (c *Column) Slice(lo, hi int, mem memory.Allocator) *Column {
	if lo < 0 {
		lo = 0
	}
	if hi > c.Len() {
		hi = c.Len()
	}
	if lo >= hi {
		return New(c.dtype, nil, mem)
	}
	rows := make([]int, hi-lo)
	for i := range rows {
		rows[i] = lo + i
	}
	return c.Take(rows, mem)
}

// Cast rebuilds the column under a new dtype. Cells that do not coerce become
// null.
func (c *Column) Cast(target DType, mem memory.Allocator) *Column {
	if target == c.dtype {
		return New(c.dtype, c.Values(), mem)
	}
	values := c.Values()
	converted := make([]Value, len(values))
	for i, v := range values {
		converted[i] = Convert(v, target)
	}
	return New(target, converted, mem)
}

// String summarizes the column.
func (c *Column) String() string {
	return fmt.Sprintf("Column[%s] len=%d nulls=%d", c.dtype, c.Len(), c.NullCount())
}

// Array returns the underlying Arrow array, retaining a reference the caller
// must release.
func (c *Column) Array() arrow.Array {
	if c.arr != nil {
		c.arr.Retain()
		return c.arr
	}
	return nil
}

// Release releases the underlying Arrow memory.
func (c *Column) Release() {
	if c.arr != nil {
		c.arr.Release()
	}
}
