package loudness

import (
	"math"

	"github.com/cwbudde/algo-loudness/dsp/buffer"
	"github.com/cwbudde/algo-loudness/dsp/core"
)

const (
	// StepSeconds is the integration step.
	StepSeconds = 0.1

	// MomentarySteps spans the 400 ms momentary window.
	MomentarySteps = 4

	// ShortTermSteps spans the 3 s short-term window.
	ShortTermSteps = 30
)

// Integrator turns 100 ms weighted mean squares into the LUFS family.
//
// With a zero window every gating block since the last Reset counts
// towards integrated loudness and range. A positive window bounds the
// look-back to that many steps; blocks leaving the window are removed
// from the histograms again.
type Integrator struct {
	window int

	momentary *buffer.SumRing
	shortTerm *buffer.SumRing

	gating    Histogram
	shortHist Histogram

	// Block loudness still inside a bounded window, oldest first.
	gatingLog *buffer.Ring[float64]
	shortLog  *buffer.Ring[float64]

	steps        int
	maxMomentary float64
	maxShortTerm float64
}

// NewIntegrator returns an Integrator. window is the look-back in steps;
// zero or less selects whole-track integration.
func NewIntegrator(window int) *Integrator {
	it := &Integrator{
		window:    max(window, 0),
		momentary: buffer.NewSumRing(MomentarySteps),
		shortTerm: buffer.NewSumRing(ShortTermSteps),
	}

	if it.window > 0 {
		it.gatingLog = buffer.NewRing[float64](max(it.window-MomentarySteps+1, 1))
		it.shortLog = buffer.NewRing[float64](max(it.window-ShortTermSteps+1, 1))
	}

	it.Reset()

	return it
}

// Window returns the look-back in steps, 0 for whole-track integration.
func (it *Integrator) Window() int { return it.window }

// Steps returns the number of steps added since Reset.
func (it *Integrator) Steps() int { return it.steps }

// AddStep adds the channel-weighted K-filtered mean square of one step.
func (it *Integrator) AddStep(meanSquare float64) {
	if meanSquare < 0 || math.IsNaN(meanSquare) {
		meanSquare = 0
	}

	it.steps++
	it.momentary.Push(meanSquare)
	it.shortTerm.Push(meanSquare)

	mom := it.windowLUFS(it.momentary)
	short := it.windowLUFS(it.shortTerm)

	it.maxMomentary = math.Max(it.maxMomentary, mom)
	it.maxShortTerm = math.Max(it.maxShortTerm, short)

	if it.momentary.Full() {
		it.record(&it.gating, it.gatingLog, mom)
	}

	if it.shortTerm.Full() {
		it.record(&it.shortHist, it.shortLog, short)
	}
}

func (it *Integrator) record(h *Histogram, log *buffer.Ring[float64], lufs float64) {
	h.Add(lufs)

	if log == nil {
		return
	}

	if old, evicted := log.Push(lufs); evicted {
		h.Remove(old)
	}
}

// windowLUFS treats missing steps of a partially filled window as silence.
func (it *Integrator) windowLUFS(r *buffer.SumRing) float64 {
	return core.MeanSquareToLUFS(r.Sum() / float64(r.Cap()))
}

// Momentary returns the loudness of the last 400 ms.
func (it *Integrator) Momentary() core.Metric {
	if it.steps == 0 {
		return core.Unavailable()
	}

	return core.FromDB(it.windowLUFS(it.momentary))
}

// ShortTerm returns the loudness of the last 3 s.
func (it *Integrator) ShortTerm() core.Metric {
	if it.steps == 0 {
		return core.Unavailable()
	}

	return core.FromDB(it.windowLUFS(it.shortTerm))
}

// MaxMomentary returns the largest momentary loudness seen.
func (it *Integrator) MaxMomentary() core.Metric {
	return core.FromDB(it.maxMomentary)
}

// MaxShortTerm returns the largest short-term loudness seen.
func (it *Integrator) MaxShortTerm() core.Metric {
	return core.FromDB(it.maxShortTerm)
}

// Integrated returns the gated integrated loudness.
func (it *Integrator) Integrated() core.Metric {
	return it.gating.Integrated()
}

// LoudnessRange returns the loudness range in LU.
func (it *Integrator) LoudnessRange() core.Metric {
	return it.shortHist.Range()
}

// Reset clears all state.
func (it *Integrator) Reset() {
	it.momentary.Reset()
	it.shortTerm.Reset()
	it.gating.Reset()
	it.shortHist.Reset()

	if it.gatingLog != nil {
		it.gatingLog.Reset()
		it.shortLog.Reset()
	}

	it.steps = 0
	it.maxMomentary = math.Inf(-1)
	it.maxShortTerm = math.Inf(-1)
}
