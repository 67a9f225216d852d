package series

import (
	"math"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/errors"
)

// RollingOptions configures a sliding-window view. Window is the span in
// rows; MinPeriods is the smallest number of finite values a window needs
// before its aggregate is emitted (default 1); Center shifts the window from
// trailing to symmetric around each row.
type RollingOptions struct {
	Window     int
	MinPeriods int
	Center     bool
}

// Rolling is a window view over a numeric series. Aggregates emit one value
// per input row; windows with too few finite values emit null.
type Rolling struct {
	s    *Series
	opts RollingOptions
}

// Rolling validates the options and returns a window view.
func (s *Series) Rolling(opts RollingOptions) (*Rolling, error) {
	if opts.Window < 1 {
		return nil, errors.NewValidationError("Series.Rolling", s.name, "window must be at least 1")
	}
	if opts.MinPeriods < 1 {
		opts.MinPeriods = 1
	}
	return &Rolling{s: s, opts: opts}, nil
}

// Mean emits the window average.
func (r *Rolling) Mean(mem memory.Allocator) (*Series, error) {
	return r.apply(func(win []float64) float64 {
		return column.SumOf(win) / float64(len(win))
	}, mem)
}

// Sum emits the window total.
func (r *Rolling) Sum(mem memory.Allocator) (*Series, error) {
	return r.apply(func(win []float64) float64 {
		return column.SumOf(win)
	}, mem)
}

// Min emits the window minimum.
func (r *Rolling) Min(mem memory.Allocator) (*Series, error) {
	return r.apply(func(win []float64) float64 {
		lo, _, _ := column.MinMaxOf(win)
		return lo
	}, mem)
}

// Max emits the window maximum.
func (r *Rolling) Max(mem memory.Allocator) (*Series, error) {
	return r.apply(func(win []float64) float64 {
		_, hi, _ := column.MinMaxOf(win)
		return hi
	}, mem)
}

// Std emits the population standard deviation (divisor n) of each window.
// This deliberately differs from Series.Std's sample form.
func (r *Rolling) Std(mem memory.Allocator) (*Series, error) {
	return r.apply(func(win []float64) float64 {
		mean := column.SumOf(win) / float64(len(win))
		var ss float64
		for _, x := range win {
			d := x - mean
			ss += d * d
		}
		return math.Sqrt(ss / float64(len(win)))
	}, mem)
}

// apply slides the window over the series. Each position takes the trailing
// rows [i-window+1, i], or [i-window/2, i+window/2] when centered, clamped to
// the series bounds; non-finite values are dropped from the window before
// aggregation. Output length always equals input length.
func (r *Rolling) apply(agg func([]float64) float64, mem memory.Allocator) (*Series, error) {
	xs, err := r.s.col.Float64s()
	if err != nil {
		return nil, err
	}

	n := len(xs)
	out := make([]float64, n)
	half := r.opts.Window / 2
	win := make([]float64, 0, r.opts.Window)
	for i := 0; i < n; i++ {
		lo, hi := i-r.opts.Window+1, i
		if r.opts.Center {
			lo, hi = i-half, i+half
		}
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}

		win = win[:0]
		for j := lo; j <= hi; j++ {
			if !math.IsNaN(xs[j]) && !math.IsInf(xs[j], 0) {
				win = append(win, xs[j])
			}
		}
		if len(win) < r.opts.MinPeriods {
			out[i] = math.NaN()
			continue
		}
		out[i] = agg(win)
	}

	return &Series{
		name: r.s.name,
		col:  column.FromFloat64s(out, mem),
		idx:  r.s.copyIndex(mem),
	}, nil
}
