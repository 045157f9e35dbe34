package puredynamics

import (
	"github.com/cwbudde/algo-loudness/dsp/buffer"
	"github.com/cwbudde/algo-loudness/dsp/core"
	"github.com/cwbudde/algo-loudness/measure/bark"
)

// DefaultTrackerTau is the smoothing time constant of a Tracker in seconds.
const DefaultTrackerTau = 3.0

// genreAlpha smooths the streaming genre factor per block.
const genreAlpha = 0.05

// Tracker evaluates the score over a bounded history of live blocks and
// smooths successive results with an exponential moving average. Until
// the history holds enough active blocks the value stays at its previous
// level, 0 initially.
type Tracker struct {
	ctx     Context
	tau     float64
	history *buffer.Ring[Block]
	genre   *bark.GenreAccumulator
	scratch []Block

	value float64
	last  Result
}

// NewTracker returns a Tracker evaluating in streaming mode with the
// history, windows and model of ctx. A non-positive tau selects
// DefaultTrackerTau.
func NewTracker(ctx Context, tau float64) *Tracker {
	ctx.Mode = Streaming
	if ctx.StepSeconds <= 0 {
		ctx.StepSeconds = 0.1
	}

	if ctx.History <= 0 {
		ctx.History = StreamingContext(core.Unavailable()).History
	}

	if tau <= 0 {
		tau = DefaultTrackerTau
	}

	return &Tracker{
		ctx:     ctx,
		tau:     tau,
		history: buffer.NewRing[Block](ctx.History),
		genre:   bark.NewGenreAccumulator(genreAlpha),
	}
}

// Update appends blocks to the history, re-evaluates the score against the
// given integrated loudness and returns the smoothed value.
func (t *Tracker) Update(integrated core.Metric, blocks ...Block) core.Metric {
	if len(blocks) == 0 {
		return t.Value()
	}

	for i := range blocks {
		t.history.Push(blocks[i])
		t.genre.Add(&blocks[i].Frame)
	}

	ctx := t.ctx
	ctx.Integrated = integrated
	ctx.Genre = t.genre.Factor()

	t.scratch = t.history.AppendTo(t.scratch[:0])
	t.last = Compute(ctx, t.scratch)

	if t.last.Defined {
		raw := t.last.Value.Or(0)
		alpha := core.EMACoefficient(float64(len(blocks))*ctx.StepSeconds, t.tau)
		t.value += alpha * (raw - t.value)
	}

	return t.Value()
}

// Value returns the smoothed score.
func (t *Tracker) Value() core.Metric { return core.Computed(t.value) }

// Last returns the unsmoothed result of the latest evaluation.
func (t *Tracker) Last() Result { return t.last }

// Len returns the number of blocks in the history.
func (t *Tracker) Len() int { return t.history.Len() }

// Reset clears the history and the smoothed value.
func (t *Tracker) Reset() {
	t.history.Reset()
	t.genre.Reset()
	t.scratch = t.scratch[:0]
	t.value = 0
	t.last = Result{}
}
