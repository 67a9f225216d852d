package column

import "golang.org/x/exp/constraints"

// Numeric covers the primitive types the reduction kernels operate on.
type Numeric interface {
	constraints.Integer | constraints.Float
}

// CompareOrdered orders two primitives, returning -1, 0, or 1.
func CompareOrdered[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SumOf adds up a slice.
func SumOf[T Numeric](xs []T) T {
	var total T
	for _, x := range xs {
		total += x
	}
	return total
}

// MinMaxOf scans a slice once for its extremes; ok is false on empty input.
func MinMaxOf[T constraints.Ordered](xs []T) (lo, hi T, ok bool) {
	if len(xs) == 0 {
		return lo, hi, false
	}
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi, true
}
