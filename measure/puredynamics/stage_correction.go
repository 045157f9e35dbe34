package puredynamics

import (
	"math"

	"github.com/cwbudde/algo-loudness/dsp/core"
	"github.com/cwbudde/algo-loudness/measure/bark"
)

// correctLoudness adds the Fastl pleasantness and EBU-anchored corrections
// to every block. Offline runs also blend in the loudness re-derived from
// the specific-loudness pattern.
func (s *state) correctLoudness() {
	m := s.model

	for i, b := range s.blocks {
		f := &b.Frame
		l := s.level[i]

		correction := s.fastl(i) + s.ebu(l, f.HFRatio)

		if s.ctx.Mode == Offline && f.Loudness > 0 {
			derived := bark.SoneToPhon(f.Loudness) - bark.FullScaleSPL + fullScaleSineLUFS
			l = (1-m.SpecificBlend)*l + m.SpecificBlend*derived
		}

		s.level[i] = l + correction
	}
}

// fullScaleSineLUFS is the K-weighted loudness of a full-scale 1 kHz sine.
const fullScaleSineLUFS = -3.01

// fastl maps the Zwicker-Fastl sensory pleasantness of block i to a level
// correction in dB.
func (s *state) fastl(i int) float64 {
	m := s.model
	f := &s.blocks[i].Frame

	roughness := m.RoughnessPerFlux * f.Flux
	fluctuation := m.FluctuationPerDB * math.Abs(s.delta(i))
	sharpness := f.Sharpness / m.SharpnessReference
	tonality := core.Clamp01(1 - f.Flatness)

	pleasantness := math.Exp(-0.7*roughness) *
		math.Exp(-1.08*sharpness) *
		(1.24 - math.Exp(-2.43*tonality)) *
		math.Exp(-math.Pow(0.023*f.Loudness, 2)) *
		math.Exp(-0.5*fluctuation)

	return core.Clamp(m.FastlGainDB*(pleasantness-m.FastlReference), -m.FastlClampDB, m.FastlClampDB)
}

// ebu returns the deviation-driven correction around the EBU target level,
// blended with a high-frequency emphasis term.
func (s *state) ebu(level, hfRatio float64) float64 {
	m := s.model

	dev := level - m.EBUTargetLUFS
	anchored := core.Clamp(m.EBULinear*dev+m.EBUNonlinear*dev*math.Abs(dev), -m.EBUClampDB, m.EBUClampDB)
	hf := m.HFGainDB * (hfRatio - m.HFReference)

	return (1-m.HFBlend)*anchored + m.HFBlend*hf
}
