package puredynamics

import (
	"math"

	"github.com/cwbudde/algo-loudness/dsp/core"
)

// preliminaryTransients scores how often the level jumps out of its recent
// range. The window shortens for dense material.
func (s *state) preliminaryTransients() {
	m := s.model

	window := int(math.Round(5 + 10*(1-s.genre)))
	window = max(m.PrelimWindowMin, min(m.PrelimWindowMax, window))

	count := 0

	for i := 1; i < len(s.level); i++ {
		lo := max(1, i-window)
		if i-lo < 2 {
			continue
		}

		var sum, sumSq float64

		for j := lo; j < i; j++ {
			d := math.Abs(s.delta(j))
			sum += d
			sumSq += d * d
		}

		n := float64(i - lo)
		mean := sum / n
		std := math.Sqrt(math.Max(0, sumSq/n-mean*mean))

		if math.Abs(s.delta(i)) > mean+m.PrelimSigma*std+1e-9 {
			count++
		}
	}

	density := float64(count) / float64(len(s.level))
	s.prelim = core.Clamp01(density / m.PrelimDensityCap)
}

// adapt lowers the level of sustained sounds. Strength grows for sparse
// material and with spectral flatness; spectral flux slows habituation.
func (s *state) adapt() {
	m := s.model
	step := s.stepSeconds()

	strength := m.AdaptStrengthDB * (0.5 + 0.5*(1-s.genre))
	reference := s.level[0]
	stable := 0.0

	for i, b := range s.blocks {
		f := &b.Frame

		if math.Abs(s.level[i]-reference) < m.AdaptStableDB {
			stable += step
		} else {
			stable = 0
			reference = s.level[i]
		}

		tau := m.AdaptTauSeconds * (1 + m.AdaptFlatnessScale*(1-f.Flatness)) * (1 + m.AdaptFluxDamping*f.Flux)
		s.level[i] -= strength * (1 - math.Exp(-stable/tau))
	}
}

// binaural adds an offset that grows with stereo width and decorrelation.
func (s *state) binaural() {
	m := s.model

	for i, b := range s.blocks {
		spatial := core.Clamp01(0.5*(1-core.Clamp(b.Correlation, -1, 1)) + 0.5*core.Clamp01(b.Width))
		s.level[i] += m.BinauralBaseDB + m.BinauralRangeDB*spatial
	}
}
