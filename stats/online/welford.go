// Package online provides single-pass accumulators for running statistics.
package online

import "math"

// Welford accumulates mean, variance, skewness and excess kurtosis one
// value at a time using Welford's update of the central moments.
type Welford struct {
	n    int
	mean float64
	m2   float64
	m3   float64
	m4   float64
}

// Add folds x into the running moments.
func (w *Welford) Add(x float64) {
	w.n++
	ni := float64(w.n)

	delta := x - w.mean
	deltaN := delta / ni
	deltaN2 := deltaN * deltaN
	term1 := delta * deltaN * float64(w.n-1)

	// M4 must be updated before M3, and M3 before M2.
	w.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*w.m2 - 4*deltaN*w.m3
	w.m3 += term1*deltaN*(ni-2) - 3*deltaN*w.m2
	w.m2 += term1
	w.mean += deltaN
}

// AddAll folds every value of xs.
func (w *Welford) AddAll(xs []float64) {
	for _, x := range xs {
		w.Add(x)
	}
}

// Len returns the number of values seen.
func (w *Welford) Len() int { return w.n }

// Mean returns the running mean, 0 when empty.
func (w *Welford) Mean() float64 { return w.mean }

// Variance returns the population variance.
func (w *Welford) Variance() float64 {
	if w.n == 0 {
		return 0
	}

	return w.m2 / float64(w.n)
}

// SampleVariance returns the unbiased variance, 0 with fewer than two
// values.
func (w *Welford) SampleVariance() float64 {
	if w.n < 2 {
		return 0
	}

	return w.m2 / float64(w.n-1)
}

// StdDev returns the population standard deviation.
func (w *Welford) StdDev() float64 {
	return math.Sqrt(w.Variance())
}

// Skewness returns the population skewness, 0 for constant input.
func (w *Welford) Skewness() float64 {
	v := w.Variance()
	if v <= 0 {
		return 0
	}

	return (w.m3 / float64(w.n)) / (v * math.Sqrt(v))
}

// Kurtosis returns the excess kurtosis, 0 for constant input.
func (w *Welford) Kurtosis() float64 {
	v := w.Variance()
	if v <= 0 {
		return 0
	}

	return (w.m4/float64(w.n))/(v*v) - 3
}

// Reset clears the accumulator.
func (w *Welford) Reset() {
	*w = Welford{}
}
