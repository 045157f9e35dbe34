package analysis

import (
	"fmt"

	"github.com/cwbudde/algo-loudness/measure/puredynamics"
)

// TrackSession analyses one complete track. Chunks must arrive in order and
// share one format. It is not safe for concurrent use.
type TrackSession struct {
	cfg    Config
	meta   Metadata
	format Format

	st     *stepper
	blocks []puredynamics.Block
	frames int64

	closed bool
	result Result
}

// NewTrackSession returns a session for a track of the given format.
func NewTrackSession(format Format, meta Metadata, opts ...Option) (*TrackSession, error) {
	return newTrackSession(format, meta, ApplyOptions(opts...))
}

func newTrackSession(format Format, meta Metadata, cfg Config) (*TrackSession, error) {
	if err := validateFormat(format); err != nil {
		return nil, err
	}

	t := &TrackSession{
		cfg:    cfg,
		meta:   meta,
		format: format,
	}

	t.st = newStepper(format, &t.cfg, 0, 0, func(b puredynamics.Block) {
		t.blocks = append(t.blocks, b)
	})

	return t, nil
}

// Format returns the session format.
func (t *TrackSession) Format() Format { return t.format }

// Frames returns the number of frames processed.
func (t *TrackSession) Frames() int64 { return t.frames }

// Process analyses one chunk. Trailing samples of an incomplete frame are
// ignored.
func (t *TrackSession) Process(chunk Chunk) error {
	if t.closed {
		return ErrClosed
	}

	if chunk.Format != t.format {
		return fmt.Errorf("%w: %g Hz/%d ch, session is %g Hz/%d ch",
			ErrFormatChanged, chunk.SampleRate, chunk.Channels, t.format.SampleRate, t.format.Channels)
	}

	if chunk.Frames() == 0 {
		return ErrEmptyChunk
	}

	t.st.process(chunk.whole())
	t.frames += int64(chunk.Frames())

	return nil
}

// Finalize computes the track result and closes the session. Further calls
// return the same result.
func (t *TrackSession) Finalize() Result {
	if t.closed {
		return t.result
	}

	t.closed = true

	meter := t.st.meter
	integrator := meter.Integrator()
	integrated := meter.Integrated()
	truePeak := t.st.truePeak()

	pdCtx := puredynamics.OfflineContext(integrated)
	pdCtx.Model = t.cfg.Model
	pd := puredynamics.Compute(pdCtx, t.blocks)

	t.result = Result{
		Metadata: t.meta,
		Format:   t.format,
		Frames:   t.frames,
		Duration: float64(t.frames) / t.format.SampleRate,

		Momentary:     integrator.MaxMomentary(),
		ShortTerm:     integrator.MaxShortTerm(),
		Integrated:    integrated,
		LoudnessRange: meter.LoudnessRange(),

		RMS:         t.st.rms(),
		SamplePeak:  t.st.samplePeak(),
		TruePeak:    truePeak,
		PSR:         truePeak.Sub(integrator.MaxShortTerm()),
		PLR:         truePeak.Sub(integrated),
		CrestFactor: t.st.crestFactor(),

		DR14:         t.st.dr.Value(),
		PureDynamics: pd.Value,
		Genre:        pd.Genre,
		ModelVersion: puredynamics.ModelVersion,
	}

	t.blocks = nil

	return t.result
}
