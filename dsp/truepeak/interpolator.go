package truepeak

import (
	"math"

	"github.com/tphakala/simd/f64"
)

// Interpolator oversamples an interleaved stream. Each channel keeps a
// delay line of twice the phase length; every sample is written at two
// mirrored positions so the newest TapsPerPhase samples are always one
// contiguous slice.
type Interpolator struct {
	sampleRate float64
	channels   int
	factor     int
	phases     [][]float64

	delay [][]float64
	pos   int

	scratch []float64
	peaks   []float64
}

// New returns an Interpolator for the given stream format.
func New(sampleRate float64, channels int) *Interpolator {
	if channels < 1 {
		channels = 1
	}

	factor := Factor(sampleRate)
	ip := &Interpolator{
		sampleRate: sampleRate,
		channels:   channels,
		factor:     factor,
		phases:     DesignPhases(factor),
		delay:      make([][]float64, channels),
		peaks:      make([]float64, channels),
	}

	for ch := range ip.delay {
		ip.delay[ch] = make([]float64, 2*TapsPerPhase)
	}

	return ip
}

// Factor returns the oversampling factor.
func (ip *Interpolator) Factor() int { return ip.factor }

// Channels returns the channel count the interpolator was built for.
func (ip *Interpolator) Channels() int { return ip.channels }

// Matches reports whether the interpolator was built for this format.
func (ip *Interpolator) Matches(channels int, sampleRate float64) bool {
	return ip != nil && ip.channels == channels && ip.sampleRate == sampleRate
}

// Reset clears the delay lines.
func (ip *Interpolator) Reset() {
	for _, d := range ip.delay {
		clear(d)
	}

	ip.pos = 0
}

// Upsample writes factor interleaved output frames per input frame of
// chunk into dst, growing it as needed, and returns it.
func (ip *Interpolator) Upsample(chunk, dst []float64) []float64 {
	frames := len(chunk) / ip.channels
	need := frames * ip.factor * ip.channels

	if cap(dst) < need {
		dst = make([]float64, need)
	}

	dst = dst[:need]

	stride := ip.factor * ip.channels
	for i := range frames {
		base := i * stride
		pos := ip.pos

		for ch := range ip.channels {
			d := ip.delay[ch]
			x := chunk[i*ip.channels+ch]
			d[pos] = x
			d[pos+TapsPerPhase] = x

			hist := d[pos+1 : pos+1+TapsPerPhase]
			for p, h := range ip.phases {
				dst[base+p*ip.channels+ch] = f64.DotProduct(h, hist)
			}
		}

		ip.pos = pos + 1
		if ip.pos == TapsPerPhase {
			ip.pos = 0
		}
	}

	return dst
}

// Process oversamples chunk in BlockFrames pieces and raises peaks[ch]
// to the largest absolute original or interpolated value per channel.
// peaks must hold at least Channels() entries.
func (ip *Interpolator) Process(chunk, peaks []float64) {
	frames := len(chunk) / ip.channels

	for start := 0; start < frames; start += BlockFrames {
		end := min(start+BlockFrames, frames)
		block := chunk[start*ip.channels : end*ip.channels]

		for i, v := range block {
			ch := i % ip.channels
			peaks[ch] = math.Max(peaks[ch], math.Abs(v))
		}

		ip.scratch = ip.Upsample(block, ip.scratch)
		for i, v := range ip.scratch {
			ch := i % ip.channels
			peaks[ch] = math.Max(peaks[ch], math.Abs(v))
		}
	}
}

// SamplePeak returns the largest absolute sample of chunk.
func SamplePeak(chunk []float64) float64 {
	peak := 0.0
	for _, v := range chunk {
		peak = math.Max(peak, math.Abs(v))
	}

	return peak
}

// Peak returns the linear true peak of chunk across all channels. When ip
// is nil or was built for another format the plain sample peak is
// returned instead.
func Peak(ip *Interpolator, chunk []float64, channels int, sampleRate float64) float64 {
	if !ip.Matches(channels, sampleRate) {
		return SamplePeak(chunk)
	}

	clear(ip.peaks)
	ip.Process(chunk, ip.peaks)

	peak := 0.0
	for _, p := range ip.peaks {
		peak = math.Max(peak, p)
	}

	return peak
}
