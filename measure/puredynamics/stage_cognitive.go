package puredynamics

import (
	"math"

	"github.com/cwbudde/algo-loudness/dsp/core"
)

// cognitive pushes each block away from the long-term level in proportion
// to how salient the contrast is on three timescales. Offline runs scale
// the effect with global harmonic, phrasing and spatial statistics.
func (s *state) cognitive() {
	m := s.model
	step := s.stepSeconds()

	var alpha [3]float64
	for k, tau := range m.CognitiveTaus {
		alpha[k] = core.EMACoefficient(step, tau)
	}

	weights := s.cognitiveWeights()
	entropy := s.entropy()
	scale := (1 - m.CognitiveEntropyMix) + m.CognitiveEntropyMix*entropy
	limit := s.cognitiveCap()

	fast, mid, slow := s.level[0], s.level[0], s.level[0]

	var rhythm, density, spectral float64

	for i, b := range s.blocks {
		l := s.level[i]
		fast += alpha[0] * (l - fast)
		mid += alpha[1] * (l - mid)
		slow += alpha[2] * (l - slow)

		onset := 0.0
		if s.boost[i] > 1 {
			onset = 1
		}

		rhythm += alpha[1] * (math.Abs(s.delta(i)) - rhythm)
		density += alpha[1] * (onset - density)
		spectral += alpha[1] * (b.Frame.Flux - spectral)

		contrast := core.Clamp01((math.Abs(fast-slow) + 0.5*math.Abs(mid-slow)) / m.CognitiveContrastDB)

		score := weights[0]*contrast +
			weights[1]*core.Clamp01(rhythm/3) +
			weights[2]*core.Clamp01(5*density) +
			weights[3]*core.Clamp01(4*spectral)

		dir := fast - slow
		if math.Abs(dir) < 1e-9 {
			continue
		}

		s.level[i] += math.Copysign(core.Clamp01(score)*scale*limit, dir)
	}
}

// cognitiveWeights tilts the base weights towards contrast for sparse
// material and towards rhythm and onset density for dense material.
func (s *state) cognitiveWeights() [4]float64 {
	w := s.model.CognitiveWeights
	g := s.genre

	w[0] *= 1.2 - 0.4*g
	w[1] *= 0.8 + 0.4*g
	w[2] *= 0.8 + 0.4*g

	total := w[0] + w[1] + w[2] + w[3]
	if total <= 0 {
		return [4]float64{1, 0, 0, 0}
	}

	for k := range w {
		w[k] /= total
	}

	return w
}

func (s *state) cognitiveCap() float64 {
	m := s.model
	if s.ctx.Mode == Streaming {
		return m.CognitiveStreamCapDB
	}

	var harmonic, spatial float64
	for _, b := range s.blocks {
		harmonic += b.Frame.Harmonic
		spatial += 0.5 * (1 - core.Clamp(b.Correlation, -1, 1))
	}

	n := float64(len(s.blocks))
	phrasing := core.Clamp01(math.Sqrt(s.variance) / 10)
	salience := core.Clamp01((harmonic/n + spatial/n + phrasing) / 3)

	return m.CognitiveMinCapDB + (m.CognitiveMaxCapDB-m.CognitiveMinCapDB)*salience
}

// entropy returns the Shannon entropy of the block levels in 1 dB bins,
// normalised to [0, 1] by the number of bins spanned.
func (s *state) entropy() float64 {
	lo, hi := s.level[0], s.level[0]
	for _, l := range s.level {
		lo = math.Min(lo, l)
		hi = math.Max(hi, l)
	}

	bins := int(hi-lo) + 1
	if bins < 2 {
		return 0
	}

	counts := make([]int, bins)
	for _, l := range s.level {
		counts[min(bins-1, int(l-lo))]++
	}

	n := float64(len(s.level))
	h := 0.0

	for _, c := range counts {
		if c > 0 {
			p := float64(c) / n
			h -= p * math.Log(p)
		}
	}

	return core.Clamp01(h / math.Log(float64(bins)))
}
