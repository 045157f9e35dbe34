package bark

import (
	"math"

	"github.com/cwbudde/algo-loudness/dsp/core"
)

// Spreading slopes of the excitation pattern in dB per Bark. Masking
// reaches further towards higher frequencies than towards lower ones.
const (
	upwardSlopeDB   = 10.0
	downwardSlopeDB = 25.0

	// maskingOffsetDB is the distance between a masker and the threshold
	// it produces in its own band.
	maskingOffsetDB = 6.0
)

// MaskingThreshold returns, per band, the power masked by all other bands.
func MaskingThreshold(powers *Bands) Bands {
	var out Bands

	for i := range NumBands {
		zi := CenterBark(i)

		acc := 0.0
		for j, p := range powers {
			if j == i || p <= 0 {
				continue
			}

			dz := zi - CenterBark(j)

			att := maskingOffsetDB
			if dz > 0 {
				att += upwardSlopeDB * dz
			} else {
				att -= downwardSlopeDB * dz
			}

			acc += p * math.Pow(10, -att/10)
		}

		out[i] = acc
	}

	return out
}

// MaskingRatio returns the share of total power in bands that rise above
// the masking threshold of their neighbours. Silence yields 0.
func MaskingRatio(powers *Bands) float64 {
	total := powers.Sum()
	if total <= core.Epsilon {
		return 0
	}

	thr := MaskingThreshold(powers)

	unmasked := 0.0
	for b, p := range powers {
		if p > thr[b] {
			unmasked += p
		}
	}

	return unmasked / total
}
