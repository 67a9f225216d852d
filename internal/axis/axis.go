// Package axis computes chart-friendly y-axis parameters.
//
// NiceNumber snaps arbitrary magnitudes onto the {1,2,5,10}×10^n ladder and
// YAxisGrid derives a padded, nicely-ticked value range from raw data, ready
// to hand to a plotting layout.
package axis

import (
	"math"

	"github.com/chartkit/tabular/internal/errors"
)

// Options tunes the grid derivation. Start from DefaultOptions; a zero
// Padding or TopExtra is honored as written, a zero NumGridlines falls back
// to the default.
type Options struct {
	Padding      float64
	NumGridlines int
	TopExtra     float64
}

// DefaultOptions pads the range by 5% on each open end, targets five
// gridlines and leaves 0.2% of headroom above the top tick.
func DefaultOptions() Options {
	return Options{Padding: 0.05, NumGridlines: 5, TopExtra: 0.002}
}

// GridParams describes a linear tick layout: the axis range, the first tick
// and the tick interval.
type GridParams struct {
	Range    [2]float64
	Tick0    float64
	DTick    float64
	TickMode string
}

// NiceNumber snaps value to the nearest axis-friendly number of the form
// {1,2,5,10}×10^n. With round true it picks the closest rung, otherwise the
// smallest rung not below the value. Sign is preserved and zero comes back
// unchanged.
func NiceNumber(value float64, round bool) float64 {
	if value == 0 {
		return 0
	}
	sign := 1.0
	if value < 0 {
		sign = -1
	}
	abs := math.Abs(value)
	exp := math.Floor(math.Log10(abs))
	mantissa := abs / math.Pow(10, exp)

	var nice float64
	if round {
		switch {
		case mantissa < 1.5:
			nice = 1
		case mantissa < 3:
			nice = 2
		case mantissa < 7:
			nice = 5
		default:
			nice = 10
		}
	} else {
		switch {
		case mantissa <= 1:
			nice = 1
		case mantissa <= 2:
			nice = 2
		case mantissa <= 5:
			nice = 5
		default:
			nice = 10
		}
	}
	return sign * nice * math.Pow(10, exp)
}

// YAxisGrid derives axis range and tick parameters for the given values.
// Non-negative data anchors the axis at zero, otherwise the range is padded
// below the minimum; the tick interval is nice-snapped and the axis minimum
// floored to a multiple of it. NaN and infinite entries are ignored; with no
// finite values left the call is a validation error.
func YAxisGrid(data []float64, opts Options) (GridParams, error) {
	const op = "axis.grid"

	if opts.NumGridlines == 0 {
		opts.NumGridlines = DefaultOptions().NumGridlines
	}
	if opts.NumGridlines < 2 {
		return GridParams{}, errors.NewValidationError(op, "", "at least two gridlines required")
	}

	dataMin := math.Inf(1)
	dataMax := math.Inf(-1)
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		dataMin = math.Min(dataMin, v)
		dataMax = math.Max(dataMax, v)
	}
	if dataMin > dataMax {
		return GridParams{}, errors.NewValidationError(op, "", "no finite values to derive an axis from")
	}

	span := dataMax - dataMin
	if span == 0 {
		// All-equal input still needs a nonzero working span.
		if dataMax == 0 {
			span = 1
		} else {
			span = math.Abs(dataMax)
		}
	}

	axisMin := dataMin - opts.Padding*span
	if dataMin >= 0 {
		axisMin = 0
	}
	axisMax := dataMax + opts.Padding*span

	rawTick := (axisMax - axisMin) / float64(opts.NumGridlines-1)
	dtick := NiceNumber(rawTick, true)
	if dtick <= 0 {
		return GridParams{}, errors.NewValidationError(op, "", "degenerate tick interval")
	}

	axisMin = math.Floor(axisMin/dtick) * dtick
	if dataMin >= 0 && axisMin < 0 {
		axisMin = 0
	}

	ticks := int(math.Ceil((dataMax-axisMin)/dtick)) + 1
	if ticks < 2 {
		ticks = 2
	}
	axisMax = axisMin + dtick*float64(ticks-1)
	axisMax += opts.TopExtra * (axisMax - axisMin)

	return GridParams{
		Range:    [2]float64{axisMin, axisMax},
		Tick0:    axisMin,
		DTick:    dtick,
		TickMode: "linear",
	}, nil
}
