package puredynamics

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-loudness/dsp/core"
	"github.com/cwbudde/algo-loudness/stats/online"
)

// spread measures the weighted inter-quantile spread of the levels
// relative to an exponential long-term baseline. Offline runs combine the
// median of short windows with an energy-weighted mean of long windows;
// streaming runs use the newest short window only.
func (s *state) spread() (float64, bool) {
	m := s.model
	alpha := core.EMACoefficient(s.stepSeconds(), s.ctx.baselineTau())

	var (
		norm    []float64
		weights []float64
		levels  []float64
		kurt    online.Welford
	)

	baseline := s.level[0]

	for i, l := range s.level {
		baseline += alpha * (l - baseline)

		if l <= m.SpreadFloorDB {
			continue
		}

		w := 1 - 0.5*s.maskedBy(i, i-1)
		if s.ctx.Mode == Offline {
			w -= 0.5 * s.maskedBy(i, i+1)
		}

		norm = append(norm, l-baseline)
		weights = append(weights, math.Max(0.05, w))
		levels = append(levels, l)
		kurt.Add(l - baseline)
	}

	short := s.ctx.ShortWindow
	if short <= 0 {
		short = 30
	}

	if len(norm) < max(short, 2) {
		return 0, false
	}

	s.focus = 1 / (1 + math.Max(0, kurt.Kurtosis())/m.KurtosisScale)

	var combined float64

	if s.ctx.Mode == Streaming {
		n := len(norm)
		combined = s.windowSpread(norm[n-short:], weights[n-short:])
	} else {
		var spreads []float64

		for lo := 0; lo+short <= len(norm); lo += max(1, short/2) {
			spreads = append(spreads, s.windowSpread(norm[lo:lo+short], weights[lo:lo+short]))
		}

		combined = median(spreads)

		if long := s.ctx.LongWindow; long > 0 && len(norm) >= long {
			var sum, energy float64

			for lo := 0; lo+long <= len(norm); lo += max(1, long/2) {
				e := 0.0
				for _, l := range levels[lo : lo+long] {
					e += core.DBPowerToLinear(l)
				}

				sum += e * s.windowSpread(norm[lo:lo+long], weights[lo:lo+long])
				energy += e
			}

			if energy > 0 {
				combined = m.ShortWindowShare*combined + (1-m.ShortWindowShare)*sum/energy
			}
		}
	}

	value := combined * s.focus * (m.GenreSpreadBase + m.GenreSpreadSlope*s.genre)

	return math.Max(0, value), true
}

// maskedBy returns how strongly block j masks block i, in [0, 1].
func (s *state) maskedBy(i, j int) float64 {
	if j < 0 || j >= len(s.level) {
		return 0
	}

	return core.Clamp01((s.level[j] - s.level[i]) / s.model.MaskingRangeDB)
}

// windowSpread blends the weighted interquartile range with the weighted
// 5-95 % range of x.
func (s *state) windowSpread(x, w []float64) float64 {
	xs := append([]float64(nil), x...)
	ws := append([]float64(nil), w...)
	stat.SortWeighted(xs, ws)

	q := func(p float64) float64 { return stat.Quantile(p, stat.Empirical, xs, ws) }

	iqr := q(0.75) - q(0.25)
	rng := q(0.95) - q(0.05)

	return s.model.IQRWeight*iqr + (1-s.model.IQRWeight)*rng
}

func median(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	xs := slices.Clone(x)
	slices.Sort(xs)

	return stat.Quantile(0.5, stat.Empirical, xs, nil)
}
