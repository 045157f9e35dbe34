package analysis

import (
	"math"
	"time"
)

// Format is the fixed layout of a stream.
type Format struct {
	SampleRate float64 `json:"sample_rate"`
	Channels   int     `json:"channels"`
}

// Frames returns the number of frames in d, at least 1.
func (f Format) Frames(d time.Duration) int {
	return max(1, int(math.Round(d.Seconds()*f.SampleRate)))
}

// Chunk is a block of interleaved samples in nominal [-1, 1].
type Chunk struct {
	Samples []float64
	Format
}

// Frames returns the number of complete frames in the chunk.
func (c Chunk) Frames() int {
	if c.Channels < 1 {
		return 0
	}

	return len(c.Samples) / c.Channels
}

// whole returns the samples of the complete frames.
func (c Chunk) whole() []float64 {
	return c.Samples[:c.Frames()*c.Channels]
}

// stereoImage returns the correlation and side-energy share of the first
// two channels of an interleaved block. Mono and silent blocks report a
// fully correlated, zero-width image.
func stereoImage(block []float64, channels int) (correlation, width float64) {
	if channels < 2 {
		return 1, 0
	}

	var ll, rr, lr, mid, side float64

	for i := 0; i+1 < len(block); i += channels {
		l, r := block[i], block[i+1]
		ll += l * l
		rr += r * r
		lr += l * r

		m, s := 0.5*(l+r), 0.5*(l-r)
		mid += m * m
		side += s * s
	}

	if ll <= 0 || rr <= 0 {
		return 1, 0
	}

	correlation = lr / math.Sqrt(ll*rr)
	width = side / (mid + side)

	return correlation, width
}

// mixdown averages the channels of an interleaved block into dst.
func mixdown(block []float64, channels int, dst []float64) []float64 {
	frames := len(block) / channels
	dst = dst[:0]

	scale := 1 / float64(channels)

	for i := range frames {
		sum := 0.0
		for _, v := range block[i*channels : (i+1)*channels] {
			sum += v
		}

		dst = append(dst, sum*scale)
	}

	return dst
}
