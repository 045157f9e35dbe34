package bark

import "math"

// NumBands is the number of critical bands.
const NumBands = 25

// Edges holds the band edges in Hz; band i spans [Edges[i], Edges[i+1]).
var Edges = [NumBands + 1]float64{
	20, 100, 200, 300, 400, 510, 630, 770, 920, 1080,
	1270, 1480, 1720, 2000, 2320, 2700, 3150, 3700, 4400, 5300,
	6400, 7700, 9500, 12000, 15500, 24000,
}

// Bands is one value per critical band.
type Bands [NumBands]float64

// HzToBark converts a frequency to the Traunmüller Bark scale, including
// the low- and high-frequency corrections.
func HzToBark(hz float64) float64 {
	z := 26.81*hz/(1960+hz) - 0.53

	switch {
	case z < 2:
		z += 0.15 * (2 - z)
	case z > 20.1:
		z += 0.22 * (z - 20.1)
	}

	return z
}

// CenterHz returns the geometric centre frequency of band i.
func CenterHz(i int) float64 {
	return math.Sqrt(Edges[i] * Edges[i+1])
}

// CenterBark returns the Bark midpoint of band i.
func CenterBark(i int) float64 {
	return 0.5 * (HzToBark(Edges[i]) + HzToBark(Edges[i+1]))
}

// BandOf returns the band containing hz, or -1 outside the edge table.
func BandOf(hz float64) int {
	if hz < Edges[0] || hz >= Edges[NumBands] {
		return -1
	}

	lo, hi := 0, NumBands
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if hz >= Edges[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}

	return lo
}

// Sum returns the total power over all bands.
func (b *Bands) Sum() float64 {
	s := 0.0
	for _, v := range b {
		s += v
	}

	return s
}
