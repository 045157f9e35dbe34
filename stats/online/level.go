package online

import "math"

// Level tracks the energy and peak of a sample stream.
type Level struct {
	n     int
	sumSq float64
	peak  float64
}

// Update folds a block of samples.
func (l *Level) Update(samples []float64) {
	for _, x := range samples {
		l.sumSq += x * x

		if a := math.Abs(x); a > l.peak {
			l.peak = a
		}
	}

	l.n += len(samples)
}

// Len returns the number of samples seen.
func (l *Level) Len() int { return l.n }

// Peak returns the largest absolute sample.
func (l *Level) Peak() float64 { return l.peak }

// Energy returns the sum of squares.
func (l *Level) Energy() float64 { return l.sumSq }

// RMS returns the root-mean-square, 0 when empty.
func (l *Level) RMS() float64 {
	if l.n == 0 {
		return 0
	}

	return math.Sqrt(l.sumSq / float64(l.n))
}

// CrestFactor returns peak / RMS, 0 when RMS is zero.
func (l *Level) CrestFactor() float64 {
	r := l.RMS()
	if r == 0 {
		return 0
	}

	return l.peak / r
}

// Reset clears the accumulator.
func (l *Level) Reset() {
	*l = Level{}
}
