package fft

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratch holds pooled buffers for one power-spectrum evaluation.
type scratch struct {
	windowed []float64
	bins     []complex128
	re, im   []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratch{} },
}

func (s *scratch) grow(n, half int) {
	if cap(s.windowed) < n {
		s.windowed = make([]float64, n)
		s.bins = make([]complex128, n)
	}

	if cap(s.re) < half {
		s.re = make([]float64, half)
		s.im = make([]float64, half)
	}

	s.windowed = s.windowed[:n]
	s.bins = s.bins[:n]
	s.re = s.re[:half]
	s.im = s.im[:half]
}

// Bins returns the number of single-sided bins for an n-point transform.
func Bins(n int) int {
	return n/2 + 1
}

// PowerSpectrum writes the single-sided power spectrum of samples into
// dst, growing it to Bins(len(samples)), and returns it.
//
// win, when non-nil, must have the length of samples and is applied first.
// Bins are normalised by n times the window energy so that they sum to the
// mean square of the input; interior bins are doubled to fold in the
// negative frequencies. Inputs of length <= 1 yield an empty spectrum.
func (c *Cache) PowerSpectrum(dst, samples, win []float64) []float64 {
	n := len(samples)
	if n <= 1 {
		return dst[:0]
	}

	half := Bins(n)
	if cap(dst) < half {
		dst = make([]float64, half)
	}

	dst = dst[:half]

	s := scratchPool.Get().(*scratch)
	defer scratchPool.Put(s)

	s.grow(n, half)

	energy := float64(n)
	if win != nil && len(win) == n {
		vecmath.MulBlock(s.windowed, samples, win)

		energy = 0
		for _, v := range win {
			energy += v * v
		}
	} else {
		copy(s.windowed, samples)
	}

	for i, v := range s.windowed {
		s.bins[i] = complex(v, 0)
	}

	c.Forward(s.bins)

	for k := range half {
		s.re[k] = real(s.bins[k])
		s.im[k] = imag(s.bins[k])
	}

	vecmath.Power(dst, s.re, s.im)

	if energy <= 0 {
		clear(dst)
		return dst
	}

	norm := 1 / (float64(n) * energy)
	for k := range dst {
		scale := norm
		if k > 0 && (n%2 == 1 || k < n/2) {
			scale *= 2
		}

		dst[k] *= scale
	}

	return dst
}

// BinFrequency returns the centre frequency of bin k.
func BinFrequency(k, n int, sampleRate float64) float64 {
	return float64(k) * sampleRate / float64(n)
}
