package bark

import (
	"github.com/cwbudde/algo-loudness/dsp/fft"
	"github.com/cwbudde/algo-loudness/dsp/window"
)

// Frame holds the psychoacoustic descriptors of one analysis block.
type Frame struct {
	// Power is the mean square of the block.
	Power float64

	Bands    Bands
	Specific Bands

	// Loudness is the total loudness in sone.
	Loudness  float64
	Sharpness float64
	Masking   float64
	Harmonic  float64
	Centroid  float64
	Flatness  float64
	Flux      float64
	HFRatio   float64
	Contrast  float64
}

// Analyzer turns successive mono blocks into Frames. It keeps the previous
// band powers for the flux measure and is not safe for concurrent use.
type Analyzer struct {
	sampleRate float64

	ffts    *fft.Cache
	maps    *MappingCache
	windows *window.Cache

	spectrum []float64
	prev     Bands
	hasPrev  bool
}

// NewAnalyzer returns an Analyzer for sampleRate drawing tables from the
// given caches. Nil caches are replaced by private ones.
func NewAnalyzer(sampleRate float64, ffts *fft.Cache, maps *MappingCache, windows *window.Cache) *Analyzer {
	if ffts == nil {
		ffts = fft.NewCache()
	}

	if maps == nil {
		maps = NewMappingCache()
	}

	if windows == nil {
		windows = window.NewCache()
	}

	return &Analyzer{
		sampleRate: sampleRate,
		ffts:       ffts,
		maps:       maps,
		windows:    windows,
	}
}

// SampleRate returns the analysed sample rate.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// Analyze computes the Frame of block. The block length selects the FFT
// size; blocks shorter than two samples yield an empty frame.
func (a *Analyzer) Analyze(block []float64) Frame {
	n := len(block)
	if n < 2 {
		return Frame{}
	}

	var f Frame
	for _, v := range block {
		f.Power += v * v
	}

	f.Power /= float64(n)

	win := a.windows.Get(window.TypeHann, n)
	a.spectrum = a.ffts.PowerSpectrum(a.spectrum, block, win)
	f.Bands = a.maps.Get(n, a.sampleRate).BandPowers(a.spectrum)

	f.Specific = SpecificLoudness(&f.Bands)
	f.Loudness = TotalLoudness(&f.Specific)
	f.Sharpness = Sharpness(&f.Specific)
	f.Masking = MaskingRatio(&f.Bands)
	f.Harmonic = HarmonicComplexity(&f.Bands)
	f.Centroid = Centroid(&f.Bands)
	f.Flatness = Flatness(&f.Bands)
	f.HFRatio = HFRatio(&f.Bands)
	f.Contrast = Contrast(&f.Bands)

	if a.hasPrev {
		f.Flux = Flux(&a.prev, &f.Bands)
	}

	a.prev = f.Bands
	a.hasPrev = true

	return f
}

// Reset forgets the previous frame.
func (a *Analyzer) Reset() {
	a.prev = Bands{}
	a.hasPrev = false
}
