package puredynamics

import (
	"github.com/cwbudde/algo-loudness/dsp/core"
	"github.com/cwbudde/algo-loudness/measure/bark"
)

// Mode selects whole-track or streaming evaluation.
type Mode int

const (
	// Offline evaluates a complete track with global statistics.
	Offline Mode = iota
	// Streaming evaluates a bounded, growing history.
	Streaming
)

func (m Mode) String() string {
	if m == Streaming {
		return "streaming"
	}

	return "offline"
}

// Block is one 100 ms analysis step.
type Block struct {
	// Loudness is the K-weighted loudness of the step in LUFS; -Inf for
	// silence.
	Loudness float64

	Frame bark.Frame

	// Correlation is the inter-channel correlation in [-1, 1], 1 for mono.
	Correlation float64

	// Width is the side-to-total energy share in [0, 1], 0 for mono.
	Width float64
}

// Context parameterises one evaluation.
type Context struct {
	Mode Mode

	// StepSeconds is the block duration.
	StepSeconds float64

	// Integrated is the integrated loudness the silence gate hangs off.
	Integrated core.Metric

	// Genre overrides the genre factor when positive; otherwise it is
	// derived from the blocks.
	Genre float64

	// MinBlocks is the least number of active blocks with a defined score.
	MinBlocks int

	// ShortWindow and LongWindow are the spread windows in blocks. A zero
	// LongWindow disables the long-window pass.
	ShortWindow int
	LongWindow  int

	// History bounds the blocks considered, newest last. Zero keeps all.
	History int

	// Model supplies the constants; nil selects DefaultModel.
	Model *Model
}

// OfflineContext returns the whole-track context.
func OfflineContext(integrated core.Metric) Context {
	return Context{
		Mode:        Offline,
		StepSeconds: 0.1,
		Integrated:  integrated,
		MinBlocks:   30,
		ShortWindow: 30,
		LongWindow:  100,
	}
}

// StreamingContext returns the live context with a 60 s history.
func StreamingContext(integrated core.Metric) Context {
	return Context{
		Mode:        Streaming,
		StepSeconds: 0.1,
		Integrated:  integrated,
		MinBlocks:   30,
		ShortWindow: 30,
		History:     600,
	}
}

func (c *Context) model() *Model {
	if c.Model != nil {
		return c.Model
	}

	return &DefaultModel
}

func (c *Context) baselineTau() float64 {
	if c.Mode == Streaming {
		return c.model().StreamingBaselineTau
	}

	return c.model().OfflineBaselineTau
}
