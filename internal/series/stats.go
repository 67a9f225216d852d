package series

import (
	"fmt"
	"math"
	"sort"

	"github.com/chartkit/tabular/internal/column"
	"github.com/chartkit/tabular/internal/errors"
)

// validFloats pulls the numeric view of the series with nulls and other
// non-finite entries dropped. Non-numeric dtypes are a type mismatch.
func (s *Series) validFloats() ([]float64, error) {
	xs, err := s.col.Float64s()
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		out = append(out, x)
	}
	return out, nil
}

// Count returns the number of non-null entries.
func (s *Series) Count() int { return s.col.Len() - s.col.NullCount() }

// Sum adds the non-null entries; an all-null series sums to zero.
func (s *Series) Sum() (float64, error) {
	xs, err := s.validFloats()
	if err != nil {
		return 0, err
	}
	return column.SumOf(xs), nil
}

// Mean averages the non-null entries; NaN when none exist.
func (s *Series) Mean() (float64, error) {
	xs, err := s.validFloats()
	if err != nil {
		return 0, err
	}
	if len(xs) == 0 {
		return math.NaN(), nil
	}
	return column.SumOf(xs) / float64(len(xs)), nil
}

// Min returns the smallest non-null entry; NaN when none exist.
func (s *Series) Min() (float64, error) {
	xs, err := s.validFloats()
	if err != nil {
		return 0, err
	}
	lo, _, ok := column.MinMaxOf(xs)
	if !ok {
		return math.NaN(), nil
	}
	return lo, nil
}

// Max returns the largest non-null entry; NaN when none exist.
func (s *Series) Max() (float64, error) {
	xs, err := s.validFloats()
	if err != nil {
		return 0, err
	}
	_, hi, ok := column.MinMaxOf(xs)
	if !ok {
		return math.NaN(), nil
	}
	return hi, nil
}

// Std returns the sample standard deviation (divisor n-1); NaN with fewer
// than two non-null entries. Rolling windows use the population form instead,
// see Rolling.Std.
func (s *Series) Std() (float64, error) {
	xs, err := s.validFloats()
	if err != nil {
		return 0, err
	}
	if len(xs) < 2 {
		return math.NaN(), nil
	}
	mean := column.SumOf(xs) / float64(len(xs))
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1)), nil
}

// Quantile returns the linearly interpolated q-quantile over the non-null
// entries, q in [0, 1]; NaN when none exist.
func (s *Series) Quantile(q float64) (float64, error) {
	if math.IsNaN(q) || q < 0 || q > 1 {
		return 0, errors.NewValidationError("Series.Quantile", s.name, fmt.Sprintf("quantile %v outside [0, 1]", q))
	}
	xs, err := s.validFloats()
	if err != nil {
		return 0, err
	}
	if len(xs) == 0 {
		return math.NaN(), nil
	}
	sort.Float64s(xs)
	pos := q * float64(len(xs)-1)
	lo := int(math.Floor(pos))
	if lo+1 >= len(xs) {
		return xs[len(xs)-1], nil
	}
	frac := pos - float64(lo)
	return xs[lo]*(1-frac) + xs[lo+1]*frac, nil
}

// Median is the 0.5 quantile.
func (s *Series) Median() (float64, error) { return s.Quantile(0.5) }
