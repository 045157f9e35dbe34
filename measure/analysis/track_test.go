package analysis

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-loudness/internal/testutil"
	"github.com/cwbudde/algo-loudness/measure/puredynamics"
)

func runTrack(t *testing.T, samples []float64, format Format, chunkFrames int, opts ...Option) Result {
	t.Helper()

	session, err := NewTrackSession(format, Metadata{Path: "a/b.wav", Title: "b"}, opts...)
	require.NoError(t, err)

	step := chunkFrames * format.Channels
	for off := 0; off < len(samples); off += step {
		end := min(off+step, len(samples))
		require.NoError(t, session.Process(Chunk{Samples: samples[off:end], Format: format}))
	}

	return session.Finalize()
}

func TestTrackSilence(t *testing.T) {
	format := Format{SampleRate: 48000, Channels: 2}
	res := runTrack(t, make([]float64, 10*48000*2), format, 9600)

	assert.False(t, res.Momentary.Available())
	assert.False(t, res.ShortTerm.Available())
	assert.False(t, res.Integrated.Available())
	assert.False(t, res.LoudnessRange.Available())
	assert.False(t, res.TruePeak.Available())
	assert.False(t, res.SamplePeak.Available())
	assert.False(t, res.RMS.Available())
	assert.False(t, res.PSR.Available())

	dr, ok := res.DR14.Value()
	require.True(t, ok)
	assert.Zero(t, dr)

	pd, ok := res.PureDynamics.Value()
	require.True(t, ok)
	assert.Zero(t, pd)

	assert.Equal(t, int64(480000), res.Frames)
	assert.InDelta(t, 10.0, res.Duration, 1e-12)
}

func TestTrackFullScaleSine(t *testing.T) {
	format := Format{SampleRate: 48000, Channels: 1}
	res := runTrack(t, testutil.Tone(997, 48000, 0, 5*48000), format, 9600)

	assert.InDelta(t, 0.0, res.SamplePeak.Or(-100), 0.1)
	assert.GreaterOrEqual(t, res.TruePeak.Or(-100), res.SamplePeak.Or(-100))
	assert.InDelta(t, -3.01, res.Integrated.Or(-100), 0.1)
	assert.InDelta(t, -3.01, res.Momentary.Or(-100), 0.1)
	assert.InDelta(t, -3.01, res.ShortTerm.Or(-100), 0.1)
	assert.InDelta(t, -3.01, res.RMS.Or(-100), 0.05)
	assert.InDelta(t, 3.01, res.CrestFactor.Or(-100), 0.1)
	assert.InDelta(t, 3.01, res.PLR.Or(-100), 0.15)
	assert.InDelta(t, 0.0, res.LoudnessRange.Or(-100), 0.2)
	assert.Equal(t, puredynamics.ModelVersion, res.ModelVersion)
	assert.Equal(t, "a/b.wav", res.Path)
	assert.Equal(t, 1, res.Channels)
}

func TestTrackIndependentOfChunking(t *testing.T) {
	format := Format{SampleRate: 48000, Channels: 2}

	left := testutil.Concat(
		testutil.DeterministicNoise(1, 0.5, 96000),
		testutil.DeterministicNoise(2, 0.05, 96000),
		testutil.DeterministicNoise(3, 0.5, 96000),
		testutil.DeterministicNoise(4, 0.05, 96000),
	)
	right := testutil.Concat(
		testutil.DeterministicNoise(5, 0.4, 192000),
		testutil.DeterministicNoise(6, 0.04, 192000),
	)
	samples := testutil.Interleave(left, right)

	a := runTrack(t, samples, format, 9600)
	b := runTrack(t, samples, format, 1234)

	assert.InDelta(t, a.Integrated.Or(0), b.Integrated.Or(1), 1e-9)
	assert.InDelta(t, a.LoudnessRange.Or(0), b.LoudnessRange.Or(1), 1e-9)
	assert.InDelta(t, a.ShortTerm.Or(0), b.ShortTerm.Or(1), 1e-9)
	assert.InDelta(t, a.DR14.Or(0), b.DR14.Or(1), 1e-9)
	assert.InDelta(t, a.PureDynamics.Or(0), b.PureDynamics.Or(1), 1e-9)
	assert.Equal(t, a.Frames, b.Frames)
}

func TestTrackDynamicMaterial(t *testing.T) {
	format := Format{SampleRate: 48000, Channels: 1}

	var parts [][]float64
	for i := range 5 {
		amp := 0.5
		if i%2 == 1 {
			amp = 0.15
		}

		parts = append(parts, testutil.DeterministicNoise(int64(i), amp, 4*48000))
	}

	res := runTrack(t, testutil.Concat(parts...), format, 9600)

	assert.Greater(t, res.PureDynamics.Or(0), 1.0)
	assert.Greater(t, res.LoudnessRange.Or(0), 5.0)
	assert.True(t, res.DR14.Available())
	assert.GreaterOrEqual(t, res.DR14.Or(-1), 0.0)
}

func TestTrackSessionErrors(t *testing.T) {
	format := Format{SampleRate: 48000, Channels: 2}

	_, err := NewTrackSession(Format{SampleRate: 48000, Channels: 0}, Metadata{})
	require.ErrorIs(t, err, ErrInvalidFormat)

	_, err = NewTrackSession(Format{SampleRate: 0, Channels: 2}, Metadata{})
	require.ErrorIs(t, err, ErrInvalidFormat)

	session, err := NewTrackSession(format, Metadata{})
	require.NoError(t, err)

	err = session.Process(Chunk{Samples: make([]float64, 960), Format: Format{SampleRate: 44100, Channels: 2}})
	require.ErrorIs(t, err, ErrFormatChanged)

	require.ErrorIs(t, session.Process(Chunk{Samples: []float64{0.1}, Format: format}), ErrEmptyChunk)

	require.NoError(t, session.Process(Chunk{Samples: make([]float64, 960), Format: format}))
	assert.Equal(t, int64(480), session.Frames())

	first := session.Finalize()
	second := session.Finalize()
	assert.Equal(t, first, second)

	err = session.Process(Chunk{Samples: make([]float64, 960), Format: format})
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestResultJSONUsesNullForUnavailable(t *testing.T) {
	format := Format{SampleRate: 48000, Channels: 1}
	res := runTrack(t, make([]float64, 48000), format, 4800)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Nil(t, decoded["integrated_lufs"])
	assert.InDelta(t, 0.0, decoded["dr14"], 0)
	assert.Equal(t, "a/b.wav", decoded["path"])
	assert.InDelta(t, 48000.0, decoded["sample_rate"], 0)
}

func TestTrackTruePeakAndSamplePeakFallback(t *testing.T) {
	format := Format{SampleRate: 48000, Channels: 1}

	// fs/4 at 45 degrees never samples its crest.
	sig := make([]float64, 2*48000)
	for i := range sig {
		sig[i] = math.Sin(math.Pi/2*float64(i) + math.Pi/4)
	}

	on := runTrack(t, sig, format, 9600)
	assert.InDelta(t, -3.01, on.SamplePeak.Or(0), 0.01)
	assert.InDelta(t, 0, on.TruePeak.Or(-100), 0.5)

	off := runTrack(t, sig, format, 9600, WithTruePeak(false))
	assert.Equal(t, off.SamplePeak, off.TruePeak)
}
