// Package index provides the ordered row-label sequences that address table
// rows: the generic Index and the frequency-aware DatetimeIndex used for
// rounding, range generation, and cross-table date alignment.
package index

import (
	"fmt"
	"strconv"
	"time"

	"github.com/chartkit/tabular/internal/errors"
)

// FreqUnit is one calendar/clock unit of the frequency vocabulary.
type FreqUnit int

const (
	Second FreqUnit = iota
	Minute
	Hour
	Day
	Week
	Month
	Year
)

// Code returns the single-letter frequency code.
func (u FreqUnit) Code() string {
	switch u {
	case Second:
		return "S"
	case Minute:
		return "T"
	case Hour:
		return "H"
	case Day:
		return "D"
	case Week:
		return "W"
	case Month:
		return "M"
	case Year:
		return "Y"
	default:
		return "?"
	}
}

// Frequency is a unit with an integer multiplier, e.g. D, 15T, 2W.
type Frequency struct {
	N    int
	Unit FreqUnit
}

// ParseFreq parses a frequency string: a single-letter unit code optionally
// prefixed by a positive integer multiplier. Unknown codes are an Unsupported
// error.
func ParseFreq(s string) (Frequency, error) {
	if s == "" {
		return Frequency{}, errors.NewUnsupportedError("ParseFreq", "empty frequency string")
	}

	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	n := 1
	if digits > 0 {
		parsed, err := strconv.Atoi(s[:digits])
		if err != nil || parsed <= 0 {
			return Frequency{}, errors.NewUnsupportedError("ParseFreq", fmt.Sprintf("invalid frequency multiplier in %q", s))
		}
		n = parsed
	}

	var unit FreqUnit
	switch s[digits:] {
	case "S":
		unit = Second
	case "T":
		unit = Minute
	case "H":
		unit = Hour
	case "D":
		unit = Day
	case "W":
		unit = Week
	case "M":
		unit = Month
	case "Y":
		unit = Year
	default:
		return Frequency{}, errors.NewUnsupportedError("ParseFreq", fmt.Sprintf("unknown frequency %q", s))
	}

	return Frequency{N: n, Unit: unit}, nil
}

// String renders the frequency, omitting a multiplier of one.
func (f Frequency) String() string {
	if f.N <= 1 {
		return f.Unit.Code()
	}
	return strconv.Itoa(f.N) + f.Unit.Code()
}

// Step advances t by one frequency interval. Calendar units use AddDate so
// month arithmetic follows calendar boundaries rather than fixed durations.
func (f Frequency) Step(t time.Time) time.Time {
	n := f.N
	if n <= 0 {
		n = 1
	}
	switch f.Unit {
	case Second:
		return t.Add(time.Duration(n) * time.Second)
	case Minute:
		return t.Add(time.Duration(n) * time.Minute)
	case Hour:
		return t.Add(time.Duration(n) * time.Hour)
	case Day:
		return t.AddDate(0, 0, n)
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Month:
		return t.AddDate(0, n, 0)
	case Year:
		return t.AddDate(n, 0, 0)
	default:
		return t
	}
}

// Duration returns the fixed length of one interval for clock units. Calendar
// units (month, year) have no fixed length and report false.
func (f Frequency) Duration() (time.Duration, bool) {
	n := time.Duration(f.N)
	if n <= 0 {
		n = 1
	}
	switch f.Unit {
	case Second:
		return n * time.Second, true
	case Minute:
		return n * time.Minute, true
	case Hour:
		return n * time.Hour, true
	case Day:
		return n * 24 * time.Hour, true
	case Week:
		return n * 7 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// FloorTime snaps t to the start of its containing unit in UTC. Weeks start
// on Monday.
func FloorTime(t time.Time, unit FreqUnit) time.Time {
	t = t.UTC()
	switch unit {
	case Second:
		return t.Truncate(time.Second)
	case Minute:
		return t.Truncate(time.Minute)
	case Hour:
		return t.Truncate(time.Hour)
	case Day:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case Week:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7 // Monday-start
		return day.AddDate(0, 0, -offset)
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Year:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return t
	}
}

// CeilTime snaps t up to the next unit boundary; timestamps already on a
// boundary stay put.
func CeilTime(t time.Time, unit FreqUnit) time.Time {
	floored := FloorTime(t, unit)
	if floored.Equal(t.UTC()) {
		return floored
	}
	return Frequency{N: 1, Unit: unit}.Step(floored)
}
