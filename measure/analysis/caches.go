package analysis

import (
	"github.com/cwbudde/algo-loudness/dsp/fft"
	"github.com/cwbudde/algo-loudness/dsp/filter/weighting"
	"github.com/cwbudde/algo-loudness/dsp/window"
	"github.com/cwbudde/algo-loudness/measure/bark"
)

// Caches bundles the size- and rate-keyed tables sessions draw from. All
// members are safe for concurrent use.
type Caches struct {
	Weighting *weighting.Cache
	FFT       *fft.Cache
	Bark      *bark.MappingCache
	Window    *window.Cache
}

// NewCaches returns empty caches.
func NewCaches() *Caches {
	return &Caches{
		Weighting: weighting.NewCache(),
		FFT:       fft.NewCache(),
		Bark:      bark.NewMappingCache(),
		Window:    window.NewCache(),
	}
}

func (cfg *Config) caches() *Caches {
	if cfg.Caches == nil {
		cfg.Caches = NewCaches()
	}

	return cfg.Caches
}
