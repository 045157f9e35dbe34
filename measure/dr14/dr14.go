// Package dr14 estimates the DR14 dynamic range of a stream.
//
// Audio is cut into 3 s blocks (thirty 100 ms steps). Per channel, the
// RMS of the loudest fifth of the blocks is compared with the second
// largest block peak:
//
//	DR = dB(peak2) - (dB(rmsTop20) + 3.0103)
//
// The correction aligns the plain RMS with the sine-referenced RMS of the
// original meter, so a pure sine reads 0. The reported value averages the
// first two channels and is floored at zero.
package dr14

import (
	"math"
	"slices"

	"github.com/cwbudde/algo-loudness/dsp/buffer"
	"github.com/cwbudde/algo-loudness/dsp/core"
)

const (
	// BlockSteps is the number of 100 ms steps per block.
	BlockSteps = 30

	// MinBlocks is the least number of blocks with a defined value.
	MinBlocks = 2

	topFraction      = 0.2
	sineCorrectionDB = 3.0103
)

type block struct {
	meanSquare []float64
	peak       []float64
}

// Estimator accumulates block statistics for a fixed channel count.
//
// With a zero window it keeps every block since the last Reset; a
// positive window keeps that many most recent blocks.
type Estimator struct {
	channels int
	window   int

	all     []block
	bounded *buffer.Ring[block]

	sumSq  []float64
	peak   []float64
	frames int
	steps  int
	total  int

	rms   []float64
	peaks []float64
}

// NewEstimator returns an Estimator for channels interleaved channels.
func NewEstimator(channels, window int) *Estimator {
	channels = max(channels, 1)

	e := &Estimator{
		channels: channels,
		window:   max(window, 0),
		sumSq:    make([]float64, channels),
		peak:     make([]float64, channels),
	}

	if e.window > 0 {
		e.bounded = buffer.NewRing[block](e.window)
	}

	return e
}

// Channels returns the channel count.
func (e *Estimator) Channels() int { return e.channels }

// Blocks returns the number of completed blocks held.
func (e *Estimator) Blocks() int {
	if e.bounded != nil {
		return e.bounded.Len()
	}

	return len(e.all)
}

// AddStep folds one step of interleaved samples. Every BlockSteps calls
// complete a block.
func (e *Estimator) AddStep(step []float64) {
	frames := len(step) / e.channels
	if frames == 0 {
		return
	}

	for i := range frames {
		for ch := range e.channels {
			x := step[i*e.channels+ch]
			e.sumSq[ch] += x * x

			if a := math.Abs(x); a > e.peak[ch] {
				e.peak[ch] = a
			}
		}
	}

	e.frames += frames
	e.steps++
	e.total++

	if e.steps == BlockSteps {
		e.push(e.current())
		e.clearCurrent()
	}
}

func (e *Estimator) current() block {
	b := block{
		meanSquare: make([]float64, e.channels),
		peak:       slices.Clone(e.peak),
	}

	for ch := range e.channels {
		b.meanSquare[ch] = e.sumSq[ch] / float64(e.frames)
	}

	return b
}

func (e *Estimator) clearCurrent() {
	clear(e.sumSq)
	clear(e.peak)
	e.frames = 0
	e.steps = 0
}

func (e *Estimator) push(b block) {
	if e.bounded != nil {
		e.bounded.Push(b)
		return
	}

	e.all = append(e.all, b)
}

// Value returns the DR14 estimate. A partially filled trailing block
// counts as a block. Less than 3 s of audio or fewer than MinBlocks
// blocks yield Computed(0).
func (e *Estimator) Value() core.Metric {
	var blocks []block
	if e.bounded != nil {
		blocks = e.bounded.Values()
	} else {
		blocks = e.all
	}

	if e.frames > 0 {
		blocks = append(slices.Clip(blocks), e.current())
	}

	if e.total < BlockSteps || len(blocks) < MinBlocks {
		return core.Computed(0)
	}

	used := min(e.channels, 2)

	sum := 0.0
	for ch := range used {
		sum += e.channelDR(blocks, ch)
	}

	return core.Computed(math.Max(0, sum/float64(used)))
}

func (e *Estimator) channelDR(blocks []block, ch int) float64 {
	e.rms = e.rms[:0]
	e.peaks = e.peaks[:0]

	for _, b := range blocks {
		e.rms = append(e.rms, b.meanSquare[ch])
		e.peaks = append(e.peaks, b.peak[ch])
	}

	slices.Sort(e.rms)
	slices.Sort(e.peaks)

	n := len(e.rms)
	top := max(1, int(math.Round(topFraction*float64(n))))

	acc := 0.0
	for _, ms := range e.rms[n-top:] {
		acc += ms
	}

	rms := math.Sqrt(acc / float64(top))
	peak2 := e.peaks[n-2]

	if rms <= core.Epsilon || peak2 <= core.Epsilon {
		return 0
	}

	return core.LinearToDB(peak2) - (core.LinearToDB(rms) + sineCorrectionDB)
}

// Reset clears all blocks.
func (e *Estimator) Reset() {
	e.all = e.all[:0]
	if e.bounded != nil {
		e.bounded.Reset()
	}

	e.clearCurrent()
	e.total = 0
}
