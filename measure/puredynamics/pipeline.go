package puredynamics

import (
	"github.com/cwbudde/algo-loudness/dsp/core"
)

// Result is the outcome of one evaluation.
type Result struct {
	// Value is the score in dB. It is Computed(0) with too little signal.
	Value core.Metric

	// Defined reports whether enough active blocks were available and the
	// spread stage found enough windows.
	Defined bool

	// Genre is the genre factor the run used.
	Genre float64

	// Active is the number of blocks that passed the silence gate.
	Active int

	// Transients counts blocks that received a transient boost.
	Transients int

	// Focus is the kurtosis-derived attention weight of the spread stage.
	Focus float64
}

// state carries the per-block series through the stages. Slices are
// indexed by active block, in time order.
type state struct {
	ctx   *Context
	model *Model

	genre    float64
	variance float64

	blocks []*Block
	level  []float64

	prelim  float64
	boost   []float64
	density float64
	focus   float64
}

// Compute runs the pipeline over blocks. Only the newest ctx.History blocks
// are considered when History is positive.
func Compute(ctx Context, blocks []Block) Result {
	if ctx.StepSeconds <= 0 {
		ctx.StepSeconds = 0.1
	}

	if ctx.History > 0 && len(blocks) > ctx.History {
		blocks = blocks[len(blocks)-ctx.History:]
	}

	s := &state{ctx: &ctx, model: ctx.model()}

	if !s.init(blocks) {
		return Result{Value: core.Computed(0), Genre: s.genre, Active: len(s.blocks)}
	}

	s.correctLoudness()

	if ctx.Mode == Offline {
		s.preliminaryTransients()
	}

	s.adapt()
	s.binaural()
	s.detectTransients()
	s.cognitive()
	s.applyTransients()

	spread, ok := s.spread()
	if !ok {
		spread = 0
	}

	transients := 0

	for _, b := range s.boost {
		if b > 1 {
			transients++
		}
	}

	return Result{
		Value:      core.Computed(spread),
		Defined:    ok,
		Genre:      s.genre,
		Active:     len(s.blocks),
		Transients: transients,
		Focus:      s.focus,
	}
}

func (s *state) stepSeconds() float64 { return s.ctx.StepSeconds }

// delta returns level[i] - level[i-1], zero for the first block.
func (s *state) delta(i int) float64 {
	if i == 0 {
		return 0
	}

	return s.level[i] - s.level[i-1]
}
