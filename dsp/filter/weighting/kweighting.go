package weighting

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-loudness/dsp/filter/biquad"
)

// BS.1770 analog prototype parameters. The values are the exact ones that
// reproduce the tabulated 48 kHz coefficients of the recommendation.
const (
	shelfFreq      = 1681.974450955533
	shelfGainDB    = 3.999843853973347
	shelfQ         = 0.7071752369554196
	shelfBandBlend = 0.4996667741545416

	rlbFreq = 38.13547087602444
	rlbQ    = 0.5003270373238773
)

// Coefficients is the K-weighting pair for one sample rate.
type Coefficients struct {
	Shelf biquad.Coefficients
	RLB   biquad.Coefficients
}

// Design solves the pre-filter and RLB sections for sampleRate.
//
// Panics if sampleRate <= 0.
func Design(sampleRate float64) Coefficients {
	if sampleRate <= 0 {
		panic("weighting: sample rate must be positive")
	}

	return Coefficients{
		Shelf: highShelf(sampleRate),
		RLB:   rlbHighpass(sampleRate),
	}
}

// highShelf computes the pre-filter:
//
//	K  = tan(pi*f0/fs)
//	Vh = 10^(G/20), Vb = Vh^blend
//	a0 = 1 + K/Q + K^2
//	B  = [Vh + Vb*K/Q + K^2, 2*(K^2 - Vh), Vh - Vb*K/Q + K^2] / a0
//	A  = [2*(K^2 - 1), 1 - K/Q + K^2] / a0
func highShelf(sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * shelfFreq / sr)
	k2 := k * k
	vh := math.Pow(10, shelfGainDB/20)
	vb := math.Pow(vh, shelfBandBlend)
	a0 := 1 + k/shelfQ + k2

	return biquad.Coefficients{
		B0: (vh + vb*k/shelfQ + k2) / a0,
		B1: 2 * (k2 - vh) / a0,
		B2: (vh - vb*k/shelfQ + k2) / a0,
		A1: 2 * (k2 - 1) / a0,
		A2: (1 - k/shelfQ + k2) / a0,
	}
}

// rlbHighpass computes the revised low-frequency B-curve high-pass. The
// numerator is left unnormalised (1, -2, 1) as in BS.1770.
func rlbHighpass(sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * rlbFreq / sr)
	k2 := k * k
	a0 := 1 + k/rlbQ + k2

	return biquad.Coefficients{
		B0: 1,
		B1: -2,
		B2: 1,
		A1: 2 * (k2 - 1) / a0,
		A2: (1 - k/rlbQ + k2) / a0,
	}
}

// Cache memoises Design per sample rate. The zero value is not usable;
// use NewCache. A Cache is safe for concurrent use and may be shared by
// sessions.
type Cache struct {
	mu    sync.Mutex
	byFs  map[float64]Coefficients
	calls int
}

// NewCache returns an empty coefficient cache.
func NewCache() *Cache {
	return &Cache{byFs: make(map[float64]Coefficients)}
}

// Coefficients returns the cached design for sampleRate, solving it on
// first use.
func (c *Cache) Coefficients(sampleRate float64) Coefficients {
	c.mu.Lock()
	defer c.mu.Unlock()

	if k, ok := c.byFs[sampleRate]; ok {
		return k
	}

	k := Design(sampleRate)
	c.byFs[sampleRate] = k
	c.calls++

	return k
}

// Designs returns how many distinct sample rates have been solved.
func (c *Cache) Designs() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.calls
}
