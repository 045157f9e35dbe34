package bark

import (
	"math"

	"github.com/cwbudde/algo-loudness/dsp/core"
)

const (
	// FullScaleSPL is the sound pressure level assigned to a full-scale
	// sine.
	FullScaleSPL = 96.0

	// zwickerExponent is the compressive exponent of the specific
	// loudness law.
	zwickerExponent = 0.23

	fullScaleSinePower = 0.5
)

// QuietThresholdDB returns the absolute threshold of hearing in dB SPL
// (Terhardt's fit to the ISO 389-7 curve).
func QuietThresholdDB(hz float64) float64 {
	f := math.Max(hz, 20) / 1000

	return 3.64*math.Pow(f, -0.8) -
		6.5*math.Exp(-0.6*(f-3.3)*(f-3.3)) +
		1e-3*math.Pow(f, 4)
}

// LevelSPL converts a band power to dB SPL.
func LevelSPL(power float64) float64 {
	return core.SafePowerToDB(power/fullScaleSinePower) + FullScaleSPL
}

// SpecificLoudness returns the Zwicker specific loudness in sone/Bark for
// each band:
//
//	N' = 0.08 (Etq)^0.23 ((0.5 + 0.5 E/Etq)^0.23 - 1)
//
// with E and Etq the band and threshold intensities relative to 0 dB SPL.
// Bands below threshold contribute zero.
func SpecificLoudness(powers *Bands) Bands {
	var out Bands

	for b, p := range powers {
		if p <= 0 {
			continue
		}

		etq := math.Pow(10, QuietThresholdDB(CenterHz(b))/10)
		e := math.Pow(10, LevelSPL(p)/10)

		n := 0.08 * math.Pow(etq, zwickerExponent) *
			(math.Pow(0.5+0.5*e/etq, zwickerExponent) - 1)
		if n > 0 {
			out[b] = n
		}
	}

	return out
}

// TotalLoudness integrates specific loudness over the bands, in sone.
func TotalLoudness(specific *Bands) float64 {
	return specific.Sum()
}

// SoneToPhon converts a loudness in sone to a loudness level in phon.
// Values below 1 sone follow the low-level power law.
func SoneToPhon(sone float64) float64 {
	if sone <= 0 {
		return 0
	}

	if sone >= 1 {
		return 40 + 10*math.Log2(sone)
	}

	return 40 * math.Pow(sone+0.0005, 0.35)
}

// Sharpness returns the Zwicker sharpness of a specific-loudness pattern
// in acum. Bands above 16 Bark are weighted up exponentially.
func Sharpness(specific *Bands) float64 {
	total := specific.Sum()
	if total <= core.Epsilon {
		return 0
	}

	acc := 0.0
	for b, n := range specific {
		z := CenterBark(b)

		g := 1.0
		if z > 16 {
			g = math.Exp(0.171 * (z - 16))
		}

		acc += n * g * z
	}

	return 0.11 * acc / total
}
