package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-loudness/internal/testutil"
)

func feed(t *testing.T, r *RealtimeSession, samples []float64, format Format, chunkFrames int) {
	t.Helper()

	step := chunkFrames * format.Channels
	for off := 0; off+step <= len(samples); off += step {
		require.NoError(t, r.Process(Chunk{Samples: samples[off : off+step], Format: format}))
	}
}

func TestRealtimeStartsUnavailable(t *testing.T) {
	r := NewRealtimeSession()

	snap := r.Metrics().Snapshot()
	assert.Zero(t, snap.Sequence)

	for _, f := range Fields() {
		assert.False(t, snap.Value(f).Available(), f.String())
	}
}

func TestRealtimePublishesAfterEveryChunk(t *testing.T) {
	format := Format{SampleRate: 48000, Channels: 1}
	r := NewRealtimeSession(WithSamplePointsPerSecond(100))

	feed(t, r, testutil.Tone(997, 48000, 0, 5*48000), format, 9600)

	snap := r.Metrics().Snapshot()
	assert.Equal(t, uint64(25), snap.Sequence)
	assert.InDelta(t, -3.01, snap.Value(FieldMomentary).Or(-100), 0.1)
	assert.InDelta(t, -3.01, snap.Value(FieldShortTerm).Or(-100), 0.1)
	assert.InDelta(t, -3.01, snap.Value(FieldIntegrated).Or(-100), 0.1)
	assert.InDelta(t, 0.0, snap.Value(FieldSamplePeak).Or(-100), 0.1)
	assert.GreaterOrEqual(t, snap.Value(FieldTruePeak).Or(-100), snap.Value(FieldSamplePeak).Or(-100))
	assert.InDelta(t, 3.01, snap.Value(FieldCrestFactor).Or(-100), 0.1)
	assert.True(t, snap.Value(FieldDR14).Available())
	assert.True(t, snap.Value(FieldPureDynamics).Available())

	points, seq := r.Waveform().Latest()
	assert.Equal(t, uint64(25), seq)
	require.Len(t, points, 20)

	for _, p := range points {
		assert.InDelta(t, 1.0, p, 0.01)
	}
}

func TestRealtimeFormatChangeReinitialises(t *testing.T) {
	logger, hook := quietLogger()
	r := NewRealtimeSession(WithLogger(logger))

	feed(t, r, testutil.Tone(1000, 48000, 0, 48000), Format{SampleRate: 48000, Channels: 1}, 4800)
	assert.Nil(t, hook.LastEntry())

	quiet := testutil.Tone(1000, 44100, -20, 2*44100)
	feed(t, r, testutil.Interleave(quiet, quiet), Format{SampleRate: 44100, Channels: 2}, 4410)

	assert.Equal(t, Format{SampleRate: 44100, Channels: 2}, r.Format())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.InDelta(t, -20.0, r.Metrics().Load(FieldSamplePeak).Or(0), 0.1)
	assert.Less(t, r.Metrics().Load(FieldIntegrated).Or(0), -15.0)
}

func TestRealtimeResetClearsMetrics(t *testing.T) {
	format := Format{SampleRate: 48000, Channels: 1}
	r := NewRealtimeSession()

	feed(t, r, testutil.Tone(1000, 48000, -6, 48000), format, 4800)
	require.True(t, r.Metrics().Load(FieldIntegrated).Available())

	r.Reset()
	assert.False(t, r.Metrics().Load(FieldIntegrated).Available())

	feed(t, r, testutil.Tone(1000, 48000, -6, 9600), format, 4800)
	assert.InDelta(t, -6.0, r.Metrics().Load(FieldSamplePeak).Or(0), 0.1)
}

func TestRealtimeRejectsBadChunks(t *testing.T) {
	r := NewRealtimeSession()

	require.ErrorIs(t, r.Process(Chunk{Samples: make([]float64, 10), Format: Format{SampleRate: 48000}}), ErrInvalidFormat)
	require.ErrorIs(t, r.Process(Chunk{Format: Format{SampleRate: 48000, Channels: 2}}), ErrEmptyChunk)
}

func TestRealtimeSteadyStateConverges(t *testing.T) {
	format := Format{SampleRate: 16000, Channels: 1}
	r := NewRealtimeSession(WithTruePeak(false), WithHistory(20*time.Second))

	signal := testutil.Tone(1000, 16000, -12, 60*16000)
	step := 3200

	var dr, pd []float64

	for off := 0; off+step <= len(signal); off += step {
		require.NoError(t, r.Process(Chunk{Samples: signal[off : off+step], Format: format}))
		dr = append(dr, r.Metrics().Load(FieldDR14).Or(math.NaN()))
		pd = append(pd, r.Metrics().Load(FieldPureDynamics).Or(math.NaN()))
	}

	n := len(dr)
	assert.InDelta(t, dr[n-1], dr[n-2], 1e-9)
	assert.InDelta(t, pd[n-1], pd[n-2], 0.05)
	assert.InDelta(t, -12-3.01, r.Metrics().Load(FieldIntegrated).Or(0), 0.1)
}
