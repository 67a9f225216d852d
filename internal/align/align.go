// Package align rounds and conforms independently sampled time series onto
// one shared date grid.
//
// Chart layers need every trace to carry the same x values. RoundAndAlignDates
// rounds each frame's index to a common frequency, then reindexes every frame
// onto one canonical date range so the outputs are gap-filled and
// length-equal. Bad data never aborts the run; it surfaces as warning
// diagnostics in the report.
package align

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chartkit/tabular/internal/dataframe"
	"github.com/chartkit/tabular/internal/index"
)

// Options controls the alignment run. Nil dates derive the range from the
// data; an empty RoundFreq defaults to daily.
type Options struct {
	StartDate *time.Time
	EndDate   *time.Time
	RoundFreq string
}

// Level grades a diagnostic.
type Level string

// LevelWarning marks a recoverable anomaly: the run continued but the caller
// should know.
const LevelWarning Level = "warning"

// Diagnostic records one anomaly encountered during alignment. Frame is the
// position in the input slice, -1 when the message concerns the run as a
// whole; Column is empty unless a single column is at fault.
type Diagnostic struct {
	Level   Level
	Frame   int
	Column  string
	Message string
}

// Report summarizes an alignment run. Aligned is false when no common range
// could be determined and the frames were returned rounded but unaligned.
type Report struct {
	Aligned     bool
	Start       time.Time
	End         time.Time
	Diagnostics []Diagnostic
}

func (r *Report) warnf(frame int, col, format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Level:   LevelWarning,
		Frame:   frame,
		Column:  col,
		Message: fmt.Sprintf(format, args...),
	})
}

// RoundAndAlignDates processes every frame independently: the index is
// converted to datetimes (a frame whose index will not convert passes through
// unmodified, with a warning), each label is rounded to the frequency, rows
// with duplicate rounded labels collapse to the first occurrence, and rows
// sort by timestamp. All processed frames are then reindexed onto one
// canonical date range spanning the explicit Start/EndDate overrides or the
// observed global bounds; labels missing from a frame become null rows. When
// no valid range can be determined the rounded frames come back unaligned.
//
// Rounding ignores a frequency multiplier (with a warning); range generation
// honors it. The returned frames are always fresh copies, whatever path each
// one took.
func RoundAndAlignDates(frames []*dataframe.DataFrame, opts Options, mem memory.Allocator) ([]*dataframe.DataFrame, Report, error) {
	freqStr := opts.RoundFreq
	if freqStr == "" {
		freqStr = "D"
	}
	freq, err := index.ParseFreq(freqStr)
	if err != nil {
		return nil, Report{}, err
	}

	var report Report
	base := index.Frequency{N: 1, Unit: freq.Unit}
	if freq.N != 1 {
		report.warnf(-1, "", "frequency %q rounds at unit granularity %s", freqStr, base)
	}

	out := make([]*dataframe.DataFrame, len(frames))
	converted := make([]bool, len(frames))

	var minT, maxT time.Time
	haveBounds := false
	for i, f := range frames {
		rf, times, ok := roundFrame(f, base, mem)
		if !ok {
			report.warnf(i, "", "index is not convertible to datetimes; frame left as is")
			out[i] = f.Slice(0, f.Len(), mem)
			continue
		}
		out[i] = rf
		converted[i] = true
		for _, t := range times {
			if !haveBounds || t.Before(minT) {
				minT = t
			}
			if !haveBounds || t.After(maxT) {
				maxT = t
			}
			haveBounds = true
		}
	}

	var start, end time.Time
	if opts.StartDate != nil {
		start = index.FloorTime(opts.StartDate.UTC(), base.Unit)
	} else if haveBounds {
		start = minT
	}
	if opts.EndDate != nil {
		end = index.FloorTime(opts.EndDate.UTC(), base.Unit)
	} else if haveBounds {
		end = maxT
	}

	if start.IsZero() || end.IsZero() || end.Before(start) {
		report.warnf(-1, "", "no valid date range; frames returned unaligned")
		return out, report, nil
	}

	grid, err := index.DateRange(start, end, 0, freq.String(), mem)
	if err != nil {
		for _, f := range out {
			f.Release()
		}
		return nil, Report{}, err
	}
	defer grid.Release()

	for i := range out {
		if !converted[i] {
			continue
		}
		aligned := out[i].Reindex(grid.Index, mem)
		out[i].Release()
		out[i] = aligned
	}

	report.Aligned = true
	report.Start, report.End = start, end
	return out, report, nil
}

// roundFrame rounds a frame's index down to the unit boundary, drops rows
// with duplicate rounded labels (first occurrence wins) and sorts rows by
// label. Conversion counts as failed when it would null out a previously
// valid label.
func roundFrame(df *dataframe.DataFrame, base index.Frequency, mem memory.Allocator) (*dataframe.DataFrame, []time.Time, bool) {
	src := df.Index().Column()
	conv := src.ToDate(mem)
	if conv.NullCount() > src.NullCount() {
		conv.Release()
		return nil, nil, false
	}

	dx, err := index.NewDatetimeIndex(conv, "")
	if err != nil {
		conv.Release()
		return nil, nil, false
	}
	rounded, err := dx.Round(base.String(), mem)
	dx.Release()
	if err != nil {
		return nil, nil, false
	}

	withIdx, err := df.WithIndex(rounded.Index, mem)
	if err != nil {
		rounded.Release()
		return nil, nil, false
	}

	dedupedIdx, keep := withIdx.Index().DropDuplicates(mem)
	dedupedIdx.Release()
	deduped := withIdx.Take(keep, mem)
	withIdx.Release()

	sortedIdx, perm := deduped.Index().Sort(true, mem)
	sortedIdx.Release()
	sorted := deduped.Take(perm, mem)
	deduped.Release()

	times, valid, _ := sorted.Index().Column().Times()
	ts := make([]time.Time, 0, len(times))
	for i, t := range times {
		if valid[i] {
			ts = append(ts, t)
		}
	}
	return sorted, ts, true
}
