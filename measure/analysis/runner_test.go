package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-loudness/internal/testutil"
)

var errMissing = errors.New("missing")

func catalogue(t *testing.T) (Opener, map[string]*memSource) {
	t.Helper()

	format := Format{SampleRate: 48000, Channels: 1}
	sources := map[string]*memSource{
		"album1/loud.wav":  newMemSource(testutil.Tone(997, 48000, -3, 4*48000), format, Metadata{Path: "album1/loud.wav"}),
		"album1/quiet.wav": newMemSource(testutil.Tone(997, 48000, -23, 4*48000), format, Metadata{Path: "album1/quiet.wav"}),
		"album2/tone.wav":  newMemSource(testutil.Tone(440, 48000, -10, 4*48000), format, Metadata{Path: "album2/tone.wav", Album: "Second"}),
		"broken.wav":       newMemSource(nil, format, Metadata{Path: "broken.wav"}),
	}
	sources["broken.wav"].readErr = errors.New("corrupt frame")

	open := func(path string) (Source, error) {
		src, ok := sources[path]
		if !ok {
			return nil, errMissing
		}

		return src, nil
	}

	return open, sources
}

func TestRunnerKeepsOrderAndSkipsFailures(t *testing.T) {
	logger, hook := quietLogger()
	open, sources := catalogue(t)

	r := NewRunner(open, WithWorkers(3), WithLogger(logger))

	paths := []string{"album1/loud.wav", "nope.wav", "album1/quiet.wav", "broken.wav", "album2/tone.wav"}
	results, err := r.Run(context.Background(), paths)

	require.Error(t, err)
	require.ErrorIs(t, err, errMissing)
	assert.Contains(t, err.Error(), "nope.wav")
	assert.Contains(t, err.Error(), "broken.wav: read chunk 0: corrupt frame")

	require.Len(t, results, 3)
	assert.Equal(t, "album1/loud.wav", results[0].Path)
	assert.Equal(t, "album1/quiet.wav", results[1].Path)
	assert.Equal(t, "album2/tone.wav", results[2].Path)

	assert.InDelta(t, -6.01, results[0].Integrated.Or(0), 0.1)
	assert.InDelta(t, -26.01, results[1].Integrated.Or(0), 0.1)

	for _, s := range sources {
		if s.meta.Path != "nope.wav" {
			assert.True(t, s.closed, s.meta.Path)
		}
	}

	errorsLogged := 0
	for _, e := range hook.AllEntries() {
		if e.Level.String() == "error" {
			errorsLogged++
		}
	}

	assert.Equal(t, 2, errorsLogged)
}

func TestRunnerCancelled(t *testing.T) {
	open, _ := catalogue(t)
	logger, _ := quietLogger()
	r := NewRunner(open, WithWorkers(1), WithLogger(logger))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := r.Run(ctx, []string{"album1/loud.wav", "album1/quiet.wav"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestRunnerMatchesTrackSession(t *testing.T) {
	open, _ := catalogue(t)
	r := NewRunner(open, WithChunkDuration(50_000_000))

	src, err := open("album2/tone.wav")
	require.NoError(t, err)

	viaRunner, err := r.Analyze(context.Background(), src)
	require.NoError(t, err)

	direct := runTrack(t, testutil.Tone(440, 48000, -10, 4*48000), Format{SampleRate: 48000, Channels: 1}, 9600)

	assert.InDelta(t, direct.Integrated.Or(0), viaRunner.Integrated.Or(1), 1e-9)
	assert.InDelta(t, direct.DR14.Or(0), viaRunner.DR14.Or(1), 1e-9)
	assert.InDelta(t, direct.PureDynamics.Or(0), viaRunner.PureDynamics.Or(1), 1e-9)
}

func TestAlbums(t *testing.T) {
	results := []Result{
		{Metadata: Metadata{Path: "x/1.wav"}, Integrated: computed(-10), DR14: computed(8), PureDynamics: computed(4)},
		{Metadata: Metadata{Path: "y/1.wav", Album: "Y"}, Integrated: computed(-20), DR14: computed(4), PureDynamics: computed(1)},
		{Metadata: Metadata{Path: "x/2.wav"}, DR14: computed(10), PureDynamics: computed(6)},
	}

	albums := Albums(results)
	require.Len(t, albums, 2)

	assert.Equal(t, "x", albums[0].Key)
	assert.Equal(t, 2, albums[0].Tracks)
	assert.InDelta(t, -10.0, albums[0].Integrated.Or(0), 1e-12)
	assert.InDelta(t, 9.0, albums[0].DR14.Or(0), 1e-12)
	assert.InDelta(t, 5.0, albums[0].PureDynamics.Or(0), 1e-12)

	assert.Equal(t, "Y", albums[1].Key)
	assert.Equal(t, 1, albums[1].Tracks)

	assert.Empty(t, Albums(nil))
	assert.Equal(t, "", AlbumKey(&Result{}))
}
