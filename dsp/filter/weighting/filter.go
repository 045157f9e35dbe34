package weighting

import (
	"github.com/cwbudde/algo-loudness/dsp/core"
	"github.com/cwbudde/algo-loudness/dsp/filter/biquad"
)

// Filter holds the per-channel K-weighting state of one stream.
type Filter struct {
	sampleRate float64
	channels   int
	weights    []float64
	shelf      []biquad.Section
	rlb        []biquad.Section
}

// NewFilter returns a Filter bound to sampleRate and channels, drawing
// coefficients from cache. A nil cache designs the coefficients directly.
func NewFilter(sampleRate float64, channels int, cache *Cache) *Filter {
	if channels < 1 {
		channels = 1
	}

	var k Coefficients
	if cache != nil {
		k = cache.Coefficients(sampleRate)
	} else {
		k = Design(sampleRate)
	}

	f := &Filter{
		sampleRate: sampleRate,
		channels:   channels,
		weights:    ChannelWeights(channels),
		shelf:      make([]biquad.Section, channels),
		rlb:        make([]biquad.Section, channels),
	}

	for ch := range channels {
		f.shelf[ch].Coefficients = k.Shelf
		f.rlb[ch].Coefficients = k.RLB
	}

	// Channels beyond the weight table contribute as front channels.
	for len(f.weights) < channels {
		f.weights = append(f.weights, gainFront)
	}

	return f
}

// SampleRate returns the rate the coefficients were solved for.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// Channels returns the bound channel count.
func (f *Filter) Channels() int { return f.channels }

// Weights returns the channel weight table in use.
func (f *Filter) Weights() []float64 { return f.weights }

// Process filters the interleaved chunk and writes one weighted power per
// frame into dst, which is grown as needed and returned. Trailing samples
// that do not form a full frame are ignored. An empty chunk is a no-op.
func (f *Filter) Process(chunk, dst []float64) []float64 {
	frames := len(chunk) / f.channels
	dst = core.EnsureLen(dst, frames)

	if frames == 0 {
		return dst
	}

	clear(dst)

	for ch := range f.channels {
		w := f.weights[ch]
		shelf := &f.shelf[ch]
		rlb := &f.rlb[ch]

		// LFE still runs through the filters so its state stays aligned
		// with the stream, but adds nothing.
		for i := range frames {
			y := rlb.ProcessSample(shelf.ProcessSample(chunk[i*f.channels+ch]))
			dst[i] += w * y * y
		}
	}

	return dst
}

// Reset clears the filter state of every channel.
func (f *Filter) Reset() {
	for ch := range f.channels {
		f.shelf[ch].Reset()
		f.rlb[ch].Reset()
	}
}
