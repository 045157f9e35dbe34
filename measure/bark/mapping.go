package bark

import (
	"math"
	"sync"
)

const (
	// KernelSigma is the width of the spreading kernel in Bark.
	KernelSigma = 0.6

	minWeight = 1e-6
)

type binWeight struct {
	band   int
	weight float64
}

// Mapping distributes the bins of one FFT size and sample rate onto the
// critical bands. Each in-range bin spreads its power with weights that
// sum to one, so band powers conserve the audible spectral energy.
type Mapping struct {
	size       int
	sampleRate float64
	first      int
	bins       [][]binWeight
}

func newMapping(size int, sampleRate float64) *Mapping {
	m := &Mapping{size: size, sampleRate: sampleRate}

	var centres [NumBands]float64
	for b := range centres {
		centres[b] = CenterBark(b)
	}

	half := size/2 + 1
	for k := range half {
		hz := float64(k) * sampleRate / float64(size)
		if hz < Edges[0] {
			m.first = k + 1
			continue
		}

		if hz > Edges[NumBands] {
			break
		}

		z := HzToBark(hz)

		row := make([]binWeight, 0, 8)
		total := 0.0
		for b, c := range centres {
			d := (z - c) / KernelSigma
			w := math.Exp(-0.5 * d * d)
			if w < minWeight {
				continue
			}

			row = append(row, binWeight{band: b, weight: w})
			total += w
		}

		for i := range row {
			row[i].weight /= total
		}

		m.bins = append(m.bins, row)
	}

	return m
}

// Size returns the FFT size the mapping was built for.
func (m *Mapping) Size() int { return m.size }

// SampleRate returns the sample rate the mapping was built for.
func (m *Mapping) SampleRate() float64 { return m.sampleRate }

// BandPowers folds a single-sided power spectrum into band powers.
// Bins outside the band table are ignored.
func (m *Mapping) BandPowers(spectrum []float64) Bands {
	var out Bands

	for i, row := range m.bins {
		k := m.first + i
		if k >= len(spectrum) {
			break
		}

		p := spectrum[k]
		if p == 0 {
			continue
		}

		for _, bw := range row {
			out[bw.band] += p * bw.weight
		}
	}

	return out
}

// AudibleRange returns the first and one-past-last bin the mapping uses.
func (m *Mapping) AudibleRange() (first, last int) {
	return m.first, m.first + len(m.bins)
}

type mappingKey struct {
	size       int
	sampleRate float64
}

// MappingCache holds one Mapping per (FFT size, sample rate).
type MappingCache struct {
	mu       sync.Mutex
	mappings map[mappingKey]*Mapping
}

// NewMappingCache returns an empty cache.
func NewMappingCache() *MappingCache {
	return &MappingCache{mappings: make(map[mappingKey]*Mapping)}
}

// Get returns the mapping for size and sampleRate, building it on first
// use.
func (c *MappingCache) Get(size int, sampleRate float64) *Mapping {
	key := mappingKey{size: size, sampleRate: sampleRate}

	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.mappings[key]; ok {
		return m
	}

	m := newMapping(size, sampleRate)
	c.mappings[key] = m

	return m
}

// Len returns the number of cached mappings.
func (c *MappingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.mappings)
}
