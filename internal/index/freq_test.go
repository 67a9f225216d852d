package index

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartkit/tabular/internal/errors"
)

func TestParseFreq(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Frequency
		wantErr bool
	}{
		{name: "second", input: "S", want: Frequency{N: 1, Unit: Second}},
		{name: "minute", input: "T", want: Frequency{N: 1, Unit: Minute}},
		{name: "hour", input: "H", want: Frequency{N: 1, Unit: Hour}},
		{name: "day", input: "D", want: Frequency{N: 1, Unit: Day}},
		{name: "week", input: "W", want: Frequency{N: 1, Unit: Week}},
		{name: "month", input: "M", want: Frequency{N: 1, Unit: Month}},
		{name: "year", input: "Y", want: Frequency{N: 1, Unit: Year}},
		{name: "minute with multiplier", input: "15T", want: Frequency{N: 15, Unit: Minute}},
		{name: "multi day", input: "7D", want: Frequency{N: 7, Unit: Day}},
		{name: "empty", input: "", wantErr: true},
		{name: "unknown code", input: "X", wantErr: true},
		{name: "zero multiplier", input: "0D", wantErr: true},
		{name: "fractional multiplier", input: "1.5D", wantErr: true},
		{name: "bare multiplier", input: "12", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFreq(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsUnsupported(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFrequencyString(t *testing.T) {
	assert.Equal(t, "D", Frequency{N: 1, Unit: Day}.String())
	assert.Equal(t, "15T", Frequency{N: 15, Unit: Minute}.String())
	assert.Equal(t, "2W", Frequency{N: 2, Unit: Week}.String())
}

func TestFrequencyStep(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		freq string
		want time.Time
	}{
		{name: "second", freq: "S", want: base.Add(time.Second)},
		{name: "minute", freq: "T", want: base.Add(time.Minute)},
		{name: "hour", freq: "H", want: base.Add(time.Hour)},
		{name: "day", freq: "D", want: time.Date(2024, 3, 16, 10, 30, 0, 0, time.UTC)},
		{name: "two days", freq: "2D", want: time.Date(2024, 3, 17, 10, 30, 0, 0, time.UTC)},
		{name: "week", freq: "W", want: time.Date(2024, 3, 22, 10, 30, 0, 0, time.UTC)},
		{name: "month", freq: "M", want: time.Date(2024, 4, 15, 10, 30, 0, 0, time.UTC)},
		{name: "year", freq: "Y", want: time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFreq(tt.freq)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(f.Step(base)), "got %v", f.Step(base))
		})
	}
}

func TestFrequencyDuration(t *testing.T) {
	d, ok := Frequency{N: 2, Unit: Hour}.Duration()
	assert.True(t, ok)
	assert.Equal(t, 2*time.Hour, d)

	_, ok = Frequency{N: 1, Unit: Month}.Duration()
	assert.False(t, ok)

	_, ok = Frequency{N: 1, Unit: Year}.Duration()
	assert.False(t, ok)
}

func TestFloorTime(t *testing.T) {
	// 2024-01-10 is a Wednesday.
	base := time.Date(2024, 1, 10, 15, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name string
		unit FreqUnit
		want time.Time
	}{
		{name: "second", unit: Second, want: time.Date(2024, 1, 10, 15, 30, 45, 0, time.UTC)},
		{name: "minute", unit: Minute, want: time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)},
		{name: "hour", unit: Hour, want: time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)},
		{name: "day", unit: Day, want: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{name: "week lands on monday", unit: Week, want: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
		{name: "month", unit: Month, want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "year", unit: Year, want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FloorTime(base, tt.unit)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}

	// Sunday belongs to the week of the previous Monday; a Monday stays put.
	sunday := time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), FloorTime(sunday, Week))
	monday := time.Date(2024, 1, 8, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), FloorTime(monday, Week))
}

func TestCeilTime(t *testing.T) {
	mid := time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 1, 10, 16, 0, 0, 0, time.UTC), CeilTime(mid, Hour))
	assert.Equal(t, time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), CeilTime(mid, Day))
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), CeilTime(mid, Week))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), CeilTime(mid, Month))
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), CeilTime(mid, Year))

	// Timestamps already on a boundary stay put.
	boundary := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, boundary, CeilTime(boundary, Day))
	assert.Equal(t, boundary, CeilTime(boundary, Hour))
}
