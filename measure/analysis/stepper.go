package analysis

import (
	"math"

	"github.com/cwbudde/algo-loudness/dsp/core"
	"github.com/cwbudde/algo-loudness/dsp/truepeak"
	"github.com/cwbudde/algo-loudness/measure/bark"
	"github.com/cwbudde/algo-loudness/measure/dr14"
	"github.com/cwbudde/algo-loudness/measure/loudness"
	"github.com/cwbudde/algo-loudness/measure/puredynamics"
	"github.com/cwbudde/algo-loudness/stats/online"
)

// stepper owns the sequential DSP state of one stream. It segments the
// input into the loudness meter's 100 ms steps and turns every completed
// step into a Pure Dynamics block.
type stepper struct {
	format Format

	meter  *loudness.Meter
	interp *truepeak.Interpolator
	bark   *bark.Analyzer
	dr     *dr14.Estimator

	level online.Level
	peak  float64

	stepFrames int
	step       []float64
	mono       []float64

	onBlock func(puredynamics.Block)
}

// newStepper builds the stage chain for format. window bounds loudness
// integration in steps and drBlocks the DR14 history; zero means the whole
// stream.
func newStepper(format Format, cfg *Config, window, drBlocks int, onBlock func(puredynamics.Block)) *stepper {
	c := cfg.caches()

	meter := loudness.NewMeter(
		loudness.WithSampleRate(format.SampleRate),
		loudness.WithChannels(format.Channels),
		loudness.WithWindow(window),
		loudness.WithCoefficientCache(c.Weighting),
	)

	s := &stepper{
		format:     format,
		meter:      meter,
		bark:       bark.NewAnalyzer(format.SampleRate, c.FFT, c.Bark, c.Window),
		dr:         dr14.NewEstimator(format.Channels, drBlocks),
		stepFrames: meter.StepFrames(),
		onBlock:    onBlock,
	}

	if cfg.TruePeak {
		s.interp = truepeak.New(format.SampleRate, format.Channels)
	}

	s.step = make([]float64, 0, s.stepFrames*format.Channels)

	return s
}

// process runs one chunk of whole frames through every stage.
func (s *stepper) process(samples []float64) {
	s.level.Update(samples)

	s.peak = math.Max(s.peak, truepeak.Peak(s.interp, samples, s.format.Channels, s.format.SampleRate))

	steps := s.meter.ProcessChunk(samples)
	next := 0
	stepLen := s.stepFrames * s.format.Channels

	for off := 0; off < len(samples); {
		take := min(stepLen-len(s.step), len(samples)-off)
		s.step = append(s.step, samples[off:off+take]...)
		off += take

		if len(s.step) < stepLen {
			break
		}

		ms := 0.0
		if next < len(steps) {
			ms = steps[next]
			next++
		}

		s.finishStep(ms)
		s.step = s.step[:0]
	}
}

func (s *stepper) finishStep(meanSquare float64) {
	s.dr.AddStep(s.step)

	s.mono = mixdown(s.step, s.format.Channels, s.mono)
	frame := s.bark.Analyze(s.mono)
	corr, width := stereoImage(s.step, s.format.Channels)

	if s.onBlock != nil {
		s.onBlock(puredynamics.Block{
			Loudness:    core.MeanSquareToLUFS(meanSquare),
			Frame:       frame,
			Correlation: corr,
			Width:       width,
		})
	}
}

// truePeak returns the largest interpolated or sample magnitude seen since
// the last resetLevels, in dBFS.
func (s *stepper) truePeak() core.Metric {
	return core.FromDB(core.LinearToDB(math.Max(s.level.Peak(), s.peak)))
}

func (s *stepper) samplePeak() core.Metric {
	return core.FromDB(core.LinearToDB(s.level.Peak()))
}

func (s *stepper) rms() core.Metric {
	return core.FromDB(core.LinearToDB(s.level.RMS()))
}

// crestFactor returns the peak-to-RMS ratio in dB.
func (s *stepper) crestFactor() core.Metric {
	return s.samplePeak().Sub(s.rms())
}

// resetLevels clears the peak and RMS accumulators only.
func (s *stepper) resetLevels() {
	s.level.Reset()
	s.peak = 0
}

func (s *stepper) reset() {
	s.meter.Reset()
	s.bark.Reset()
	s.dr.Reset()
	s.resetLevels()

	if s.interp != nil {
		s.interp.Reset()
	}

	s.step = s.step[:0]
}
