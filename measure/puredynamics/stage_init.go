package puredynamics

import (
	"math"

	"github.com/cwbudde/algo-loudness/measure/bark"
	"github.com/cwbudde/algo-loudness/stats/online"
)

// init resolves the genre factor, gates silence against the integrated
// loudness and records the loudness variance of the surviving blocks. It
// reports false when fewer than MinBlocks survive.
func (s *state) init(blocks []Block) bool {
	m := s.model

	s.genre = s.ctx.Genre
	if s.genre <= 0 {
		acc := bark.NewGenreAccumulator(0)
		for i := range blocks {
			if !math.IsInf(blocks[i].Loudness, -1) {
				acc.Add(&blocks[i].Frame)
			}
		}

		s.genre = acc.Factor()
	}

	s.genre = math.Max(bark.GenreMin, math.Min(bark.GenreMax, s.genre))

	threshold := m.SilenceFloorLUFS
	if integrated, ok := s.ctx.Integrated.Value(); ok {
		gate := integrated - (m.SilenceOffsetDB + m.SilenceGenreRangeDB*(1-s.genre))
		threshold = math.Max(threshold, gate)
	}

	var w online.Welford

	for i := range blocks {
		l := blocks[i].Loudness
		if math.IsNaN(l) || math.IsInf(l, 0) || l <= threshold {
			continue
		}

		s.blocks = append(s.blocks, &blocks[i])
		s.level = append(s.level, l)
		w.Add(l)
	}

	s.variance = w.Variance()

	minBlocks := max(s.ctx.MinBlocks, 2)

	return len(s.blocks) >= minBlocks
}
