package tabular

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chartkit/tabular/internal/align"
	"github.com/chartkit/tabular/internal/axis"
	"github.com/chartkit/tabular/internal/config"
	"github.com/chartkit/tabular/internal/dataframe"
	"github.com/chartkit/tabular/internal/scale"
	"github.com/chartkit/tabular/internal/version"
)

// ScaleInfo pairs a magnitude divisor with its display suffix: thousands
// {1e3, "K"}, millions {1e6, "M"}, billions {1e9, "B"}, or {1, ""} below a
// thousand.
type ScaleInfo = scale.Info

// ScaleForMax returns the scale matching a maximum absolute value.
func ScaleForMax(maxAbs float64) ScaleInfo { return scale.ForMax(maxAbs) }

// CommonScale returns one scale covering every value set, chosen from the
// global maximum absolute value. Non-finite values are ignored.
func CommonScale(valueSets ...[]float64) ScaleInfo { return scale.Common(valueSets...) }

// Scale divides numeric columns by their magnitude scale so chart axes can
// label values in K, M, or B units. No columns given means every numeric
// column; naming a non-numeric column fails with a type mismatch error.
// Returns the scaled frame and the scale chosen per column.
func (d *DataFrame) Scale(cols ...string) (*DataFrame, map[string]ScaleInfo, error) {
	out, info, err := scale.Frame(d.df, d.mem, cols...)
	if err != nil {
		return nil, nil, err
	}
	return &DataFrame{df: out, mem: d.mem}, info, nil
}

// AxisOptions tunes y-axis grid computation: padding around the data,
// gridline count, and extra headroom above the top gridline.
type AxisOptions = axis.Options

// GridParams is a chart-ready y-axis description: axis range, first tick,
// tick interval, and tick mode.
type GridParams = axis.GridParams

// DefaultAxisOptions returns the configured axis parameters from the global
// configuration.
func DefaultAxisOptions() AxisOptions {
	cfg := config.GetGlobalConfig()
	return AxisOptions{
		Padding:      cfg.AxisPadding,
		NumGridlines: cfg.AxisGridlines,
		TopExtra:     cfg.AxisTopExtra,
	}
}

// NiceNumber rounds a value to a clean mantissa (1, 2, 5, or 10 times a
// power of ten). With round set, thresholds sit between the candidates;
// without it, the result never falls below the input's magnitude. Sign is
// preserved and zero passes through.
func NiceNumber(value float64, round bool) float64 { return axis.NiceNumber(value, round) }

// YAxisGrid computes a y-axis range and tick spacing covering the data:
// non-negative data anchors the axis at zero, the tick interval snaps to a
// nice number, and the top extends by a small headroom fraction. Data with
// no finite values fails with a validation error.
func YAxisGrid(data []float64, opts AxisOptions) (GridParams, error) {
	return axis.YAxisGrid(data, opts)
}

// AlignOptions tunes date rounding and alignment: optional explicit range
// bounds and the rounding frequency. An empty frequency means the
// configured default.
type AlignOptions = align.Options

// AlignReport summarizes an alignment run: whether a canonical range was
// applied, its bounds, and any diagnostics raised along the way.
type AlignReport = align.Report

// Diagnostic is one structured warning from an alignment run. Frame is the
// position of the frame concerned, or -1 for run-wide notes.
type Diagnostic = align.Diagnostic

// LevelWarning marks a recoverable problem the run worked around.
const LevelWarning = align.LevelWarning

// RoundAndAlignDates rounds every frame's row labels to a common frequency,
// drops duplicate timestamps keeping the first, sorts ascending, and
// reindexes all frames onto one canonical date range; dates a frame never
// covered become null rows. Frames whose labels cannot be read as datetimes
// pass through unaligned with a warning diagnostic.
func RoundAndAlignDates(frames []*DataFrame, opts AlignOptions) ([]*DataFrame, AlignReport, error) {
	mem := memory.DefaultAllocator
	if len(frames) > 0 && frames[0].mem != nil {
		mem = frames[0].mem
	}
	if opts.RoundFreq == "" {
		opts.RoundFreq = config.GetGlobalConfig().RoundFreq
	}
	inner := make([]*dataframe.DataFrame, len(frames))
	for i, f := range frames {
		inner[i] = f.df
	}
	aligned, report, err := align.RoundAndAlignDates(inner, opts, mem)
	if err != nil {
		return nil, report, err
	}
	out := make([]*DataFrame, len(aligned))
	for i, df := range aligned {
		out[i] = &DataFrame{df: df, mem: mem}
	}
	return out, report, nil
}

// BuildInfo describes the running build: version, commit, build date, and
// module dependencies.
type BuildInfo = version.BuildInfo

// Build returns the full build description.
func Build() BuildInfo { return version.Info() }

// Version returns the library version, with the build's short commit hash
// when known.
func Version() string { return version.Short() }
