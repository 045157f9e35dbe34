package dr14

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-loudness/internal/testutil"
)

const fs = 44100.0

func feed(e *Estimator, sig []float64, channels int) {
	step := int(fs/10) * channels
	for start := 0; start < len(sig); start += step {
		e.AddStep(sig[start:min(start+step, len(sig))])
	}
}

func TestSilenceAndShortInput(t *testing.T) {
	e := NewEstimator(2, 0)
	feed(e, make([]float64, 2*int(fs*10)), 2)

	if v, ok := e.Value().Value(); !ok || v != 0 {
		t.Fatalf("silence DR = %v, %v; want Computed(0)", v, ok)
	}

	short := NewEstimator(1, 0)
	feed(short, testutil.DeterministicSine(1000, fs, 0.5, int(fs*2)), 1)

	if v := short.Value().Or(-1); v != 0 {
		t.Fatalf("2 s DR = %v, want 0", v)
	}
}

func TestSineReadsZero(t *testing.T) {
	e := NewEstimator(1, 0)
	feed(e, testutil.DeterministicSine(1000, fs, 0.8, int(fs*12)), 1)

	if e.Blocks() != 4 {
		t.Fatalf("Blocks() = %d, want 4", e.Blocks())
	}

	if v := e.Value().Or(-1); v > 0.05 {
		t.Fatalf("sine DR = %v, want about 0", v)
	}
}

func loudQuietProgramme() []float64 {
	blockLen := int(fs * 3)

	var parts [][]float64
	for b := range 10 {
		amp := 0.05
		if b == 2 || b == 7 {
			amp = 0.5
		}

		part := testutil.DeterministicSine(440, fs, amp, blockLen)
		if amp == 0.5 {
			part[blockLen/2] = 1
		}

		parts = append(parts, part)
	}

	return testutil.Concat(parts...)
}

func TestLoudPeaksOverQuietBed(t *testing.T) {
	e := NewEstimator(1, 0)
	feed(e, loudQuietProgramme(), 1)

	// Top 20 % are the two loud blocks (-9.03 dB RMS), the second peak is
	// a full-scale spike: 0 - (-9.03 + 3.01).
	if v := e.Value().Or(0); math.Abs(v-6.02) > 0.05 {
		t.Fatalf("DR = %v, want 6.02", v)
	}
}

func TestStereoAverage(t *testing.T) {
	left := loudQuietProgramme()
	right := testutil.DeterministicSine(440, fs, 0.5, len(left))

	e := NewEstimator(2, 0)
	feed(e, testutil.Interleave(left, right), 2)

	if v := e.Value().Or(0); math.Abs(v-3.01) > 0.05 {
		t.Fatalf("stereo DR = %v, want mean of 6.02 and 0", v)
	}
}

func TestBoundedWindowConverges(t *testing.T) {
	e := NewEstimator(1, 3)

	feed(e, loudQuietProgramme(), 1)
	feed(e, testutil.DeterministicSine(440, fs, 0.5, int(fs*12)), 1)

	if e.Blocks() != 3 {
		t.Fatalf("Blocks() = %d, want 3", e.Blocks())
	}

	if v := e.Value().Or(-1); v > 0.05 {
		t.Fatalf("bounded DR = %v, want the old loud peaks forgotten", v)
	}

	e.Reset()
	if e.Blocks() != 0 || e.Value().Or(-1) != 0 {
		t.Fatal("Reset kept blocks")
	}
}
