package core

import "math"

// Epsilon guards log and division sites against zero energy.
const Epsilon = 1e-20

// lufsOffset is the BS.1770 calibration offset applied to K-weighted mean square.
const lufsOffset = -0.691

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// Clamp01 limits value to [0, 1]. NaN maps to 0.
func Clamp01(value float64) float64 {
	if math.IsNaN(value) {
		return 0
	}

	return Clamp(value, 0, 1)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// DBPowerToLinear converts dB to linear power (10*log10 convention).
func DBPowerToLinear(db float64) float64 {
	return math.Pow(10, db/10)
}

// SafePowerToDB converts power to dB, flooring the argument at Epsilon so the
// result is always finite.
func SafePowerToDB(power float64) float64 {
	return 10 * math.Log10(math.Max(power, Epsilon))
}

// MeanSquareToLUFS converts a channel-weighted K-filtered mean square to LUFS.
// Returns -Inf when there is no energy.
func MeanSquareToLUFS(meanSquare float64) float64 {
	if meanSquare <= 0 || math.IsNaN(meanSquare) {
		return math.Inf(-1)
	}

	return lufsOffset + 10*math.Log10(meanSquare)
}

// LUFSToMeanSquare is the inverse of MeanSquareToLUFS.
func LUFSToMeanSquare(lufs float64) float64 {
	if math.IsInf(lufs, -1) {
		return 0
	}

	return math.Pow(10, (lufs-lufsOffset)/10)
}

// SafeDiv returns num/den, or 0 when |den| is below Epsilon.
func SafeDiv(num, den float64) float64 {
	if math.Abs(den) < Epsilon {
		return 0
	}

	return num / den
}

// EMACoefficient returns the one-pole smoothing coefficient for a time
// constant tau (seconds) updated every step seconds.
func EMACoefficient(step, tau float64) float64 {
	if tau <= 0 {
		return 1
	}

	return 1 - math.Exp(-step/tau)
}
