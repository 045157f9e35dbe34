package puredynamics

import (
	"math"

	"github.com/cwbudde/algo-loudness/dsp/core"
)

// centroidScaleHz normalises centroid jumps in the transient composite.
const centroidScaleHz = 2000.0

// detectTransients scores every block with a weighted composite of onset
// cues and flags blocks that exceed an adaptive threshold. A flagged block
// opens a refractory period during which no further boosts are given.
func (s *state) detectTransients() {
	m := s.model
	w := m.CompositeWeights

	s.boost = make([]float64, len(s.level))

	sigma := m.TransientSigma + m.TransientGenreSigma*(1-s.genre) - m.TransientPrelimBias*s.prelim

	var mean, variance float64

	refractory := 0
	count := 0

	for i, b := range s.blocks {
		f := &b.Frame

		shift := 0.0
		if i > 0 {
			shift = math.Abs(f.Centroid-s.blocks[i-1].Frame.Centroid) / centroidScaleHz
		}

		c := w[0]*core.Clamp01(f.Flux) +
			w[1]*core.Clamp01(math.Max(0, s.delta(i))/6) +
			w[2]*core.Clamp01(shift) +
			w[3]*core.Clamp01(1-f.Flatness) +
			w[4]*core.Clamp01(f.Harmonic) +
			w[5]*core.Clamp01(f.Masking)

		s.boost[i] = 1

		if i == 0 {
			mean = c
			continue
		}

		std := math.Sqrt(variance)

		switch {
		case refractory > 0:
			refractory--
		case std > 1e-6 && c > mean+sigma*std:
			s.boost[i] = math.Min(m.TransientBoostCap, 1+m.TransientBoostSlope*(c-mean-sigma*std)/std)
			refractory = m.RefractoryBlocks
			count++
		}

		d := c - mean
		mean += m.TransientAlpha * d
		variance = (1 - m.TransientAlpha) * (variance + m.TransientAlpha*d*d)
	}

	s.density = float64(count) / float64(len(s.level))
}

// applyTransients raises boosted blocks by a genre- and density-dependent
// share of their boost.
func (s *state) applyTransients() {
	m := s.model

	mix := core.Clamp(m.MixBase+m.MixGenre*s.genre+m.MixDensity*s.density, m.MixMin, m.MixMax)

	for i, b := range s.boost {
		if b > 1 {
			s.level[i] += mix * m.BoostGainDB * math.Log(b)
		}
	}
}
