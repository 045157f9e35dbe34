package analysis

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-loudness/dsp/buffer"
	"github.com/cwbudde/algo-loudness/dsp/core"
	"github.com/cwbudde/algo-loudness/measure/dr14"
	"github.com/cwbudde/algo-loudness/measure/loudness"
	"github.com/cwbudde/algo-loudness/measure/puredynamics"
)

// RealtimeSession analyses a live stream over a bounded history and
// publishes Metrics after every chunk. A format change rebuilds all DSP
// state. Process and Reset must be called from one goroutine; Metrics and
// Waveform may be read from any.
type RealtimeSession struct {
	cfg Config
	log logrus.FieldLogger

	format  Format
	st      *stepper
	tracker *puredynamics.Tracker
	pending []puredynamics.Block

	metrics  *Metrics
	waveform *buffer.Capture

	pointFrames int
	pointPeak   float64
	pointFill   int
	points      []float64
}

// NewRealtimeSession returns an idle session. DSP state is built from the
// first chunk's format.
func NewRealtimeSession(opts ...Option) *RealtimeSession {
	return newRealtimeSession(ApplyOptions(opts...))
}

func newRealtimeSession(cfg Config) *RealtimeSession {
	return &RealtimeSession{
		cfg:      cfg,
		log:      cfg.Logger,
		metrics:  NewMetrics(),
		waveform: buffer.NewCapture(2*MaxSamplePoints + 1),
	}
}

// Metrics returns the published values.
func (r *RealtimeSession) Metrics() *Metrics { return r.metrics }

// Waveform returns the capture block holding the peak points of the latest
// chunk.
func (r *RealtimeSession) Waveform() *buffer.Capture { return r.waveform }

// Format returns the current stream format, zero before the first chunk.
func (r *RealtimeSession) Format() Format { return r.format }

// Process analyses one chunk and publishes a snapshot.
func (r *RealtimeSession) Process(chunk Chunk) error {
	if err := validateFormat(chunk.Format); err != nil {
		return err
	}

	if chunk.Frames() == 0 {
		return ErrEmptyChunk
	}

	if r.st == nil || chunk.Format != r.format {
		if r.st != nil {
			r.log.WithFields(logrus.Fields{
				"sample_rate": chunk.SampleRate,
				"channels":    chunk.Channels,
			}).Info("stream format changed, reinitialising")
		}

		r.init(chunk.Format)
	}

	samples := chunk.whole()

	r.st.resetLevels()
	r.st.process(samples)

	meter := r.st.meter
	integrated := meter.Integrated()
	pd := r.tracker.Update(integrated, r.pending...)
	r.pending = r.pending[:0]

	truePeak := r.st.truePeak()

	var values [numFields]core.Metric
	values[FieldMomentary] = meter.Momentary()
	values[FieldShortTerm] = meter.ShortTerm()
	values[FieldIntegrated] = integrated
	values[FieldLoudnessRange] = meter.LoudnessRange()
	values[FieldRMS] = r.st.rms()
	values[FieldSamplePeak] = r.st.samplePeak()
	values[FieldTruePeak] = truePeak
	values[FieldPSR] = truePeak.Sub(meter.ShortTerm())
	values[FieldPLR] = truePeak.Sub(integrated)
	values[FieldCrestFactor] = r.st.crestFactor()
	values[FieldDR14] = r.st.dr.Value()
	values[FieldPureDynamics] = pd

	r.metrics.publish(&values)
	r.capturePoints(samples)

	return nil
}

// Reset clears all history while keeping the current format.
func (r *RealtimeSession) Reset() {
	if r.st != nil {
		r.st.reset()
		r.tracker.Reset()
	}

	r.pending = r.pending[:0]
	r.pointPeak = 0
	r.pointFill = 0
	r.metrics.clear()
}

func (r *RealtimeSession) init(format Format) {
	steps := historySteps(r.cfg.History)

	r.format = format
	r.st = newStepper(format, &r.cfg, steps, max(dr14.MinBlocks, steps/dr14.BlockSteps), func(b puredynamics.Block) {
		r.pending = append(r.pending, b)
	})

	pdCtx := puredynamics.StreamingContext(core.Unavailable())
	pdCtx.History = steps
	pdCtx.Model = r.cfg.Model
	r.tracker = puredynamics.NewTracker(pdCtx, 0)

	r.pending = r.pending[:0]
	r.pointFrames = max(1, int(math.Round(format.SampleRate/float64(max(1, r.cfg.SamplePointsPerSecond)))))
	r.pointPeak = 0
	r.pointFill = 0
	r.metrics.clear()
}

// capturePoints decimates samples into per-point peak magnitudes across
// channels and publishes the points completed by this chunk.
func (r *RealtimeSession) capturePoints(samples []float64) {
	ch := r.format.Channels
	r.points = r.points[:0]

	for i := 0; i+ch <= len(samples); i += ch {
		for _, v := range samples[i : i+ch] {
			r.pointPeak = math.Max(r.pointPeak, math.Abs(v))
		}

		r.pointFill++
		if r.pointFill == r.pointFrames {
			r.points = append(r.points, r.pointPeak)
			r.pointPeak = 0
			r.pointFill = 0
		}
	}

	if len(r.points) > 0 {
		r.waveform.Publish(r.points)
	}
}

func historySteps(history time.Duration) int {
	return max(loudness.ShortTermSteps, int(math.Round(history.Seconds()/loudness.StepSeconds)))
}
