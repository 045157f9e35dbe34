package bark

import (
	"math"
	"slices"

	"github.com/cwbudde/algo-loudness/dsp/core"
)

// hfSplitHz separates the high-frequency band group.
const hfSplitHz = 4000.0

// Centroid returns the power-weighted mean band centre frequency in Hz.
func Centroid(powers *Bands) float64 {
	total := powers.Sum()
	if total <= core.Epsilon {
		return 0
	}

	acc := 0.0
	for b, p := range powers {
		acc += p * CenterHz(b)
	}

	return acc / total
}

// Flatness returns the ratio of geometric to arithmetic mean band power,
// 1 for a flat spectrum and towards 0 for a tonal one.
func Flatness(powers *Bands) float64 {
	total := powers.Sum()
	if total <= core.Epsilon {
		return 0
	}

	logSum := 0.0
	for _, p := range powers {
		logSum += math.Log(p + core.Epsilon)
	}

	geo := math.Exp(logSum / NumBands)

	return core.Clamp01(geo / (total / NumBands))
}

// Flux returns the positive spectral change from prev to cur normalised
// by the current power, in [0, 1].
func Flux(prev, cur *Bands) float64 {
	total := cur.Sum()
	if total <= core.Epsilon {
		return 0
	}

	rise := 0.0
	for b := range cur {
		if d := cur[b] - prev[b]; d > 0 {
			rise += d
		}
	}

	return core.Clamp01(rise / total)
}

// HFRatio returns the share of power in bands centred at or above 4 kHz.
func HFRatio(powers *Bands) float64 {
	total := powers.Sum()
	if total <= core.Epsilon {
		return 0
	}

	hf := 0.0
	for b, p := range powers {
		if CenterHz(b) >= hfSplitHz {
			hf += p
		}
	}

	return hf / total
}

// Contrast returns the level difference between the loudest and the
// quietest fifth of the bands, scaled so 60 dB maps to 1.
func Contrast(powers *Bands) float64 {
	if powers.Sum() <= core.Epsilon {
		return 0
	}

	db := make([]float64, NumBands)
	for b, p := range powers {
		db[b] = core.SafePowerToDB(p)
	}

	slices.Sort(db)

	const q = NumBands / 5

	lo, hi := 0.0, 0.0
	for i := range q {
		lo += db[i]
		hi += db[NumBands-1-i]
	}

	return core.Clamp01((hi - lo) / q / 60)
}

// HarmonicComplexity counts band peaks above an adaptive threshold and
// weights the count by the share of peak power lying on harmonics of the
// lowest peak. The result is in [0, 1].
func HarmonicComplexity(powers *Bands) float64 {
	var db Bands

	maxDB := math.Inf(-1)
	mean := 0.0
	for b, p := range powers {
		db[b] = core.SafePowerToDB(p)
		maxDB = math.Max(maxDB, db[b])
		mean += db[b]
	}

	if maxDB <= core.SafePowerToDB(0)+1 {
		return 0
	}

	mean /= NumBands

	// Half-way between the mean and the maximum, but never more than
	// 40 dB below the loudest band.
	thr := math.Max(0.5*(mean+maxDB), maxDB-40)

	var peaks []int
	for b := range NumBands {
		if db[b] < thr {
			continue
		}

		left := b == 0 || db[b] >= db[b-1]
		right := b == NumBands-1 || db[b] > db[b+1]
		if left && right {
			peaks = append(peaks, b)
		}
	}

	if len(peaks) == 0 {
		return 0
	}

	f0 := CenterHz(peaks[0])

	peakPower, harmonicPower := 0.0, 0.0
	for _, b := range peaks {
		peakPower += powers[b]

		h := math.Round(CenterHz(b) / f0)
		if h >= 1 && BandOf(h*f0) == b {
			harmonicPower += powers[b]
		}
	}

	density := math.Min(1, float64(len(peaks))/8)
	fraction := core.SafeDiv(harmonicPower, peakPower)

	return core.Clamp01(density * (0.5 + 0.5*fraction))
}
