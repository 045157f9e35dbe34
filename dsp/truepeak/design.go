package truepeak

import (
	"math"

	"github.com/cwbudde/algo-loudness/dsp/window"
	"github.com/tphakala/simd/f64"
)

const (
	// TapsPerPhase is the length of each polyphase sub-filter.
	TapsPerPhase = 48

	// KaiserBeta shapes the prototype window.
	KaiserBeta = 5.0

	// BlockFrames bounds the frames oversampled per internal pass.
	BlockFrames = 4096
)

// Factor returns the oversampling factor for sampleRate: 4x below 96 kHz,
// 2x below 192 kHz and no oversampling above.
func Factor(sampleRate float64) int {
	switch {
	case sampleRate < 96000:
		return 4
	case sampleRate < 192000:
		return 2
	default:
		return 1
	}
}

// DesignPhases returns factor sub-filters of TapsPerPhase coefficients.
// Coefficients are stored time-reversed so that a dot product with the
// chronologically ordered delay line yields the convolution output.
//
// Panics if factor < 1.
func DesignPhases(factor int) [][]float64 {
	if factor < 1 {
		panic("truepeak: oversampling factor must be >= 1")
	}

	n := TapsPerPhase * factor
	win := window.Generate(window.TypeKaiser, n, window.WithBeta(KaiserBeta))

	// Prototype low-pass at the input Nyquist, centred on the filter.
	proto := make([]float64, n)
	centre := float64(n-1) / 2
	for i := range proto {
		x := (float64(i) - centre) / float64(factor)
		proto[i] = sinc(x) * win[i]
	}

	phases := make([][]float64, factor)
	for p := range factor {
		h := make([]float64, TapsPerPhase)
		for k := range TapsPerPhase {
			h[TapsPerPhase-1-k] = proto[k*factor+p]
		}

		if sum := f64.Sum(h); sum != 0 {
			f64.Scale(h, h, 1/sum)
		}

		phases[p] = h
	}

	return phases
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}

	px := math.Pi * x

	return math.Sin(px) / px
}
