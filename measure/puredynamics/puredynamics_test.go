package puredynamics

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-loudness/dsp/core"
	"github.com/cwbudde/algo-loudness/measure/bark"
)

func block(lufs float64) Block {
	return Block{
		Loudness: lufs,
		Frame: bark.Frame{
			Power:     core.LUFSToMeanSquare(lufs),
			Sharpness: 1.2,
			Centroid:  1500,
			Flatness:  0.4,
			Flux:      0.02,
			HFRatio:   0.15,
			Contrast:  0.4,
			Harmonic:  0.3,
			Masking:   0.6,
		},
		Correlation: 0.8,
		Width:       0.2,
	}
}

func steady(n int, lufs float64) []Block {
	out := make([]Block, n)
	for i := range out {
		out[i] = block(lufs)
	}

	return out
}

// alternating switches between two levels every section blocks.
func alternating(n, section int, loud, quiet float64) []Block {
	out := make([]Block, n)
	for i := range out {
		if (i/section)%2 == 0 {
			out[i] = block(loud)
		} else {
			out[i] = block(quiet)
		}
	}

	return out
}

func integrated(blocks []Block) core.Metric {
	sum := 0.0
	for _, b := range blocks {
		sum += core.LUFSToMeanSquare(b.Loudness)
	}

	return core.Computed(core.MeanSquareToLUFS(sum / float64(len(blocks))))
}

func TestComputeSilenceIsZero(t *testing.T) {
	blocks := steady(200, math.Inf(-1))

	r := Compute(OfflineContext(core.Unavailable()), blocks)

	v, ok := r.Value.Value()
	require.True(t, ok)
	assert.Zero(t, v)
	assert.False(t, r.Defined)
	assert.Zero(t, r.Active)
}

func TestComputeTooFewBlocksIsZero(t *testing.T) {
	blocks := steady(10, -20)

	r := Compute(OfflineContext(core.Computed(-20)), blocks)

	assert.Equal(t, 0.0, r.Value.Or(-1))
	assert.False(t, r.Defined)
	assert.Equal(t, 10, r.Active)
}

func TestComputeSilenceGateFollowsIntegrated(t *testing.T) {
	blocks := append(steady(100, -20), steady(100, -60)...)

	r := Compute(OfflineContext(integrated(blocks)), blocks)

	assert.True(t, r.Defined)
	assert.Equal(t, 100, r.Active)
}

func TestComputeDynamicExceedsSteady(t *testing.T) {
	flat := steady(600, -20)
	dynamic := alternating(600, 20, -14, -34)

	flatScore := Compute(OfflineContext(integrated(flat)), flat).Value.Or(-1)
	dynamicScore := Compute(OfflineContext(integrated(dynamic)), dynamic).Value.Or(-1)

	assert.GreaterOrEqual(t, flatScore, 0.0)
	assert.Less(t, flatScore, 3.0)
	assert.Greater(t, dynamicScore, 8.0)
}

func TestComputeRandomMaterialIsFinite(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	blocks := make([]Block, 900)
	for i := range blocks {
		b := block(-40 + 30*rng.Float64())
		b.Frame.Flux = rng.Float64()
		b.Frame.Flatness = rng.Float64()
		b.Frame.Centroid = 200 + 8000*rng.Float64()
		b.Frame.Harmonic = rng.Float64()
		b.Frame.Masking = rng.Float64()
		b.Frame.Loudness = 20 * rng.Float64()
		b.Correlation = 2*rng.Float64() - 1
		b.Width = rng.Float64()
		blocks[i] = b
	}

	for _, ctx := range []Context{
		OfflineContext(integrated(blocks)),
		StreamingContext(integrated(blocks)),
	} {
		r := Compute(ctx, blocks)

		v, ok := r.Value.Value()
		require.True(t, ok, ctx.Mode.String())
		assert.True(t, r.Defined, ctx.Mode.String())
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), ctx.Mode.String())
		assert.GreaterOrEqual(t, v, 0.0, ctx.Mode.String())
		assert.Greater(t, r.Focus, 0.0)
		assert.LessOrEqual(t, r.Focus, 1.0)
	}
}

func TestComputeHistoryKeepsNewestBlocks(t *testing.T) {
	tail := alternating(100, 10, -18, -28)
	blocks := append(alternating(500, 7, -5, -45), tail...)

	ctx := StreamingContext(core.Computed(-20))
	ctx.History = len(tail)

	assert.Equal(t, Compute(ctx, tail), Compute(ctx, blocks))
}

func TestComputeGenreOverride(t *testing.T) {
	blocks := alternating(300, 20, -14, -30)

	ctx := OfflineContext(integrated(blocks))
	ctx.Genre = 0.7

	assert.InDelta(t, 0.7, Compute(ctx, blocks).Genre, 1e-12)

	ctx.Genre = 5
	assert.InDelta(t, bark.GenreMax, Compute(ctx, blocks).Genre, 1e-12)
}

func TestComputeCustomModel(t *testing.T) {
	blocks := alternating(600, 20, -14, -34)

	model := DefaultModel
	model.GenreSpreadBase = 0
	model.GenreSpreadSlope = 0

	ctx := OfflineContext(integrated(blocks))
	ctx.Model = &model

	r := Compute(ctx, blocks)
	assert.True(t, r.Defined)
	assert.Zero(t, r.Value.Or(-1))
}

func TestComputeUndefinedSpreadIsZero(t *testing.T) {
	blocks := alternating(600, 20, -14, -34)

	model := DefaultModel
	model.SpreadFloorDB = 1000

	ctx := OfflineContext(integrated(blocks))
	ctx.Model = &model

	r := Compute(ctx, blocks)
	assert.False(t, r.Defined)
	assert.Equal(t, 600, r.Active)
	assert.Zero(t, r.Value.Or(-1))
}

func TestTrackerHoldsValueWhenUndefined(t *testing.T) {
	model := DefaultModel

	ctx := StreamingContext(core.Unavailable())
	ctx.Model = &model

	tr := NewTracker(ctx, 0)

	pattern := alternating(40, 20, -14, -30)
	level := integrated(pattern)

	for k := range 400 {
		lo := (2 * k) % len(pattern)
		tr.Update(level, pattern[lo:lo+2]...)
	}

	require.True(t, tr.Last().Defined)
	held := tr.Value().Or(-1)
	require.Greater(t, held, 0.0)

	model.SpreadFloorDB = 1000

	v := tr.Update(level, pattern[:2]...)
	assert.False(t, tr.Last().Defined)
	assert.Equal(t, held, v.Or(-1))
}

func TestTrackerConvergesOnPeriodicInput(t *testing.T) {
	tr := NewTracker(StreamingContext(core.Unavailable()), 0)

	assert.Zero(t, tr.Update(core.Computed(-20), steady(5, -20)...).Or(-1))
	assert.False(t, tr.Last().Defined)

	pattern := alternating(40, 20, -14, -30)
	level := integrated(pattern)

	var values []float64

	for k := range 900 {
		lo := (2 * k) % len(pattern)
		v := tr.Update(level, pattern[lo:lo+2]...)
		values = append(values, v.Or(-1))
	}

	assert.Equal(t, 600, tr.Len())

	n := len(values)
	assert.Greater(t, values[n-1], 1.0)
	assert.InDelta(t, values[n-1], values[n-21], 1e-6)

	tr.Reset()
	assert.Zero(t, tr.Len())
	assert.Zero(t, tr.Value().Or(-1))
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "offline", Offline.String())
	assert.Equal(t, "streaming", Streaming.String())
	assert.NotEmpty(t, ModelVersion)
}
