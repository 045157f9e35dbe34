package loudness

import (
	"github.com/cwbudde/algo-loudness/dsp/core"
	"github.com/cwbudde/algo-loudness/dsp/filter/weighting"
)

// Meter implements EBU R128 / ITU-R BS.1770 loudness metering over
// interleaved chunks of arbitrary length.
type Meter struct {
	cfg        MeterConfig
	filter     *weighting.Filter
	integrator *Integrator

	stepFrames int
	acc        float64
	accFrames  int

	power []float64
	steps []float64
}

// NewMeter creates a new loudness meter with the given options.
func NewMeter(opts ...MeterOption) *Meter {
	cfg := ApplyMeterOptions(opts...)

	return &Meter{
		cfg:        cfg,
		filter:     weighting.NewFilter(cfg.SampleRate, cfg.Channels, cfg.Coefficients),
		integrator: NewIntegrator(cfg.Window),
		stepFrames: cfg.Frames(StepSeconds),
	}
}

// Config returns the meter configuration.
func (m *Meter) Config() MeterConfig { return m.cfg }

// StepFrames returns the frames per 100 ms step.
func (m *Meter) StepFrames() int { return m.stepFrames }

// Integrator exposes the underlying integrator.
func (m *Meter) Integrator() *Integrator { return m.integrator }

// ProcessChunk filters an interleaved chunk and integrates every completed
// step. It returns the weighted mean squares of the steps completed by
// this chunk; the slice is reused by the next call.
func (m *Meter) ProcessChunk(chunk []float64) []float64 {
	m.steps = m.steps[:0]
	m.power = m.filter.Process(chunk, m.power)

	for _, p := range m.power {
		m.acc += p
		m.accFrames++

		if m.accFrames == m.stepFrames {
			ms := m.acc / float64(m.stepFrames)
			m.integrator.AddStep(ms)
			m.steps = append(m.steps, ms)
			m.acc = 0
			m.accFrames = 0
		}
	}

	return m.steps
}

// Momentary returns the current momentary loudness.
func (m *Meter) Momentary() core.Metric { return m.integrator.Momentary() }

// ShortTerm returns the current short-term loudness.
func (m *Meter) ShortTerm() core.Metric { return m.integrator.ShortTerm() }

// Integrated returns the gated integrated loudness.
func (m *Meter) Integrated() core.Metric { return m.integrator.Integrated() }

// LoudnessRange returns the loudness range.
func (m *Meter) LoudnessRange() core.Metric { return m.integrator.LoudnessRange() }

// Reset clears filter and integration state.
func (m *Meter) Reset() {
	m.filter.Reset()
	m.integrator.Reset()
	m.acc = 0
	m.accFrames = 0
}
