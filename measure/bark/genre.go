package bark

import (
	"math"

	"github.com/cwbudde/algo-loudness/dsp/core"
)

// Blend weights of the genre factor components.
const (
	genreWeightBrightness  = 0.35
	genreWeightContrast    = 0.25
	genreWeightEnergyShift = 0.20
	genreWeightVariability = 0.20

	// GenreMin and GenreMax bound the genre factor.
	GenreMin = 0.2
	GenreMax = 1.0
)

// GenreFeatures are the normalised spectral descriptors behind the genre
// factor, each in [0, 1].
type GenreFeatures struct {
	Brightness  float64
	Contrast    float64
	EnergyShift float64
	Variability float64
}

// Factor blends the descriptors into a genre factor in [GenreMin, GenreMax].
// Dense, bright, strongly modulated material approaches GenreMax.
func (g GenreFeatures) Factor() float64 {
	blend := genreWeightBrightness*g.Brightness +
		genreWeightContrast*g.Contrast +
		genreWeightEnergyShift*g.EnergyShift +
		genreWeightVariability*g.Variability

	return GenreMin + (GenreMax-GenreMin)*core.Clamp01(blend)
}

// GenreAccumulator collects genre descriptors over a sequence of frames.
// With a zero smoothing coefficient it keeps the plain mean of all frames;
// otherwise each descriptor is an exponential moving average.
type GenreAccumulator struct {
	alpha float64
	n     int

	centroid, contrast, shift, flux float64

	lastDB float64
}

// NewGenreAccumulator returns an accumulator. alpha in (0, 1] selects
// exponential smoothing, anything else the cumulative mean.
func NewGenreAccumulator(alpha float64) *GenreAccumulator {
	if alpha < 0 || alpha > 1 {
		alpha = 0
	}

	return &GenreAccumulator{alpha: alpha}
}

// Add folds one frame into the running descriptors. Silent frames are
// skipped.
func (a *GenreAccumulator) Add(f *Frame) {
	if f.Power <= core.Epsilon {
		return
	}

	db := core.SafePowerToDB(f.Power)

	shift := 0.0
	if a.n > 0 {
		shift = math.Abs(db - a.lastDB)
	}

	a.lastDB = db
	a.n++

	w := a.alpha
	if w == 0 || a.n == 1 {
		w = 1 / float64(a.n)
	}

	a.centroid += w * (f.Centroid - a.centroid)
	a.contrast += w * (f.Contrast - a.contrast)
	a.shift += w * (shift - a.shift)
	a.flux += w * (f.Flux - a.flux)
}

// Len returns the number of frames folded in.
func (a *GenreAccumulator) Len() int { return a.n }

// Features returns the normalised descriptors.
func (a *GenreAccumulator) Features() GenreFeatures {
	if a.n == 0 {
		return GenreFeatures{}
	}

	return GenreFeatures{
		Brightness:  core.Clamp01((a.centroid - 500) / 3500),
		Contrast:    a.contrast,
		EnergyShift: core.Clamp01(a.shift / 6),
		Variability: core.Clamp01(4 * a.flux),
	}
}

// Factor returns the genre factor, or the midpoint when no frame was seen.
func (a *GenreAccumulator) Factor() float64 {
	if a.n == 0 {
		return 0.5 * (GenreMin + GenreMax)
	}

	return a.Features().Factor()
}

// Reset clears the accumulator.
func (a *GenreAccumulator) Reset() {
	*a = GenreAccumulator{alpha: a.alpha}
}
