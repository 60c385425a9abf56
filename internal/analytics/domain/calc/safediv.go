package calc

import "math"

// SafeDiv divides n by d. It returns nil instead of NaN, ±Inf or a panic when
// the denominator is zero or either side is not finite.
func SafeDiv(n, d float64) *float64 {
	if d == 0 || !IsFinite(n) || !IsFinite(d) {
		return nil
	}
	v := n / d
	if !IsFinite(v) {
		return nil
	}
	return &v
}

// SafeDivOpt is SafeDiv for optional operands; a nil operand yields nil.
func SafeDivOpt(n, d *float64) *float64 {
	if n == nil || d == nil {
		return nil
	}
	return SafeDiv(*n, *d)
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// ValueOr dereferences v, or returns fallback when v is nil.
func ValueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// MeanOpt averages the non-nil values. All nil (or empty) yields nil.
func MeanOpt(values []*float64) *float64 {
	var sum float64
	var n int
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}
