package index

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/errors"
)

// DatetimeIndex is an Index whose labels are timestamps. On top of the
// positional operations it adds frequency rounding, range generation, and
// spacing inference.
type DatetimeIndex struct {
	*Index
	freq string
}

// NewDatetimeIndex wraps a Date column as a datetime index. freq declares the
// label spacing and may be empty when unknown.
func NewDatetimeIndex(col *column.Column, freq string) (*DatetimeIndex, error) {
	if col.DType() != column.Date {
		return nil, errors.NewTypeMismatchError("NewDatetimeIndex", "",
			fmt.Sprintf("want Date labels, got %s", col.DType()))
	}
	if freq != "" {
		if _, err := ParseFreq(freq); err != nil {
			return nil, err
		}
	}
	return &DatetimeIndex{Index: NewIndex(col), freq: freq}, nil
}

// FromTimes builds a datetime index from timestamps. Zero times become null
// labels.
func FromTimes(times []time.Time, freq string, mem memory.Allocator) (*DatetimeIndex, error) {
	return NewDatetimeIndex(column.FromTimes(times, mem), freq)
}

// DateRange generates an evenly spaced datetime index stepping from start.
// Exactly one of end (inclusive, zero means unset) or periods (<= 0 means
// unset) bounds the range.
func DateRange(start, end time.Time, periods int, freq string, mem memory.Allocator) (*DatetimeIndex, error) {
	f, err := ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	if start.IsZero() {
		return nil, errors.NewValidationError("DateRange", "", "start is required")
	}
	hasEnd := !end.IsZero()
	if hasEnd == (periods > 0) {
		return nil, errors.NewValidationError("DateRange", "", "exactly one of end or periods must be given")
	}

	start = start.UTC()
	var times []time.Time
	if hasEnd {
		end = end.UTC()
		if end.Before(start) {
			return nil, errors.NewValidationError("DateRange", "", "end precedes start")
		}
		for cur := start; !cur.After(end); cur = f.Step(cur) {
			times = append(times, cur)
		}
	} else {
		times = make([]time.Time, 0, periods)
		cur := start
		for i := 0; i < periods; i++ {
			times = append(times, cur)
			cur = f.Step(cur)
		}
	}
	return FromTimes(times, f.String(), mem)
}

// Freq returns the declared frequency string, empty when none was declared.
func (dx *DatetimeIndex) Freq() string { return dx.freq }

// Times materializes the labels as UTC timestamps with a validity mask.
func (dx *DatetimeIndex) Times() ([]time.Time, []bool) {
	times, valid, _ := dx.col.Times()
	return times, valid
}

// Floor snaps every label down to the start of its containing freq unit.
// Multiplied frequencies have no fixed anchor and are unsupported.
func (dx *DatetimeIndex) Floor(freq string, mem memory.Allocator) (*DatetimeIndex, error) {
	return dx.snap("Floor", freq, FloorTime, mem)
}

// Round snaps every label to its containing freq boundary. It is anchored
// exactly like Floor: halves never round up, and the two always agree.
func (dx *DatetimeIndex) Round(freq string, mem memory.Allocator) (*DatetimeIndex, error) {
	return dx.snap("Round", freq, FloorTime, mem)
}

// Ceil snaps every label up to the next freq boundary; labels already on a
// boundary stay put.
func (dx *DatetimeIndex) Ceil(freq string, mem memory.Allocator) (*DatetimeIndex, error) {
	return dx.snap("Ceil", freq, CeilTime, mem)
}

func (dx *DatetimeIndex) snap(op, freq string, fn func(time.Time, FreqUnit) time.Time, mem memory.Allocator) (*DatetimeIndex, error) {
	f, err := ParseFreq(freq)
	if err != nil {
		return nil, err
	}
	if f.N != 1 {
		return nil, errors.NewUnsupportedError(op, fmt.Sprintf("cannot snap to multiplied frequency %q", freq))
	}
	n := dx.Len()
	values := make([]column.Value, n)
	for i := 0; i < n; i++ {
		v := dx.col.Value(i)
		if v.IsNull() {
			values[i] = column.Null()
			continue
		}
		t, _ := v.Time()
		values[i] = column.DateVal(fn(t, f.Unit))
	}
	snapped := column.New(column.Date, values, mem)
	return &DatetimeIndex{Index: NewIndex(snapped)}, nil
}

// InferredFreq derives a frequency string from the spacing of the labels. It
// returns "" when fewer than two valid labels exist or the spacing is
// irregular. Calendar spacing (same day of month and clock time, constant
// month gap) is matched before fixed-duration spacing so month starts infer M
// rather than a day count.
func (dx *DatetimeIndex) InferredFreq() string {
	times, valid := dx.Times()
	ts := make([]time.Time, 0, len(times))
	for i, t := range times {
		if valid[i] {
			ts = append(ts, t)
		}
	}
	if len(ts) < 2 {
		return ""
	}
	if label := inferCalendarFreq(ts); label != "" {
		return label
	}
	return inferClockFreq(ts)
}

func inferCalendarFreq(ts []time.Time) string {
	months := monthDelta(ts[0], ts[1])
	if months <= 0 {
		return ""
	}
	day, clock := ts[0].Day(), clockOf(ts[0])
	for i := 1; i < len(ts); i++ {
		if ts[i].Day() != day || clockOf(ts[i]) != clock {
			return ""
		}
		if i >= 2 && monthDelta(ts[i-1], ts[i]) != months {
			return ""
		}
	}
	if months%12 == 0 {
		return Frequency{N: months / 12, Unit: Year}.String()
	}
	return Frequency{N: months, Unit: Month}.String()
}

// inferClockFreq maps equal deltas onto the largest unit dividing them evenly.
func inferClockFreq(ts []time.Time) string {
	d := ts[1].Sub(ts[0])
	if d <= 0 {
		return ""
	}
	for i := 2; i < len(ts); i++ {
		if ts[i].Sub(ts[i-1]) != d {
			return ""
		}
	}
	for _, unit := range []FreqUnit{Week, Day, Hour, Minute, Second} {
		span, _ := (Frequency{N: 1, Unit: unit}).Duration()
		if d%span == 0 {
			return Frequency{N: int(d / span), Unit: unit}.String()
		}
	}
	return ""
}

// String summarizes the index.
func (dx *DatetimeIndex) String() string {
	if dx.freq == "" {
		return fmt.Sprintf("DatetimeIndex(len=%d)", dx.Len())
	}
	return fmt.Sprintf("DatetimeIndex(len=%d, freq=%s)", dx.Len(), dx.freq)
}

func monthDelta(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()-a.Month())
}

func clockOf(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}
