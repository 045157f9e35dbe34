package biquad

import (
	"math"
	"testing"
)

var lowpass1k = Coefficients{
	// RBJ lowpass, 1 kHz, Q=0.7071 at 48 kHz.
	B0: 0.003916126660547368,
	B1: 0.007832253321094736,
	B2: 0.003916126660547368,
	A1: -1.8153396116625289,
	A2: 0.8310041183047183,
}

func TestProcessBlockMatchesProcessSample(t *testing.T) {
	for _, n := range []int{1, 2, 7, 64} {
		in := make([]float64, n)
		for i := range in {
			in[i] = math.Sin(0.3*float64(i)) + 0.1*float64(i%3)
		}

		ref := NewSection(lowpass1k)
		want := make([]float64, n)
		for i, x := range in {
			want[i] = ref.ProcessSample(x)
		}

		blk := NewSection(lowpass1k)
		got := append([]float64(nil), in...)
		blk.ProcessBlock(got)

		for i := range want {
			if math.Abs(got[i]-want[i]) > 1e-15 {
				t.Fatalf("n=%d: sample %d = %v, want %v", n, i, got[i], want[i])
			}
		}

		if blk.State() != ref.State() {
			t.Fatalf("n=%d: state %v, want %v", n, blk.State(), ref.State())
		}
	}
}

func TestResetAndState(t *testing.T) {
	s := NewSection(lowpass1k)
	s.ProcessSample(1)

	saved := s.State()
	if saved == [2]float64{} {
		t.Fatal("state should be non-zero after input")
	}

	s.Reset()
	if s.State() != [2]float64{} {
		t.Fatal("Reset did not clear state")
	}

	s.SetState(saved)
	if s.State() != saved {
		t.Fatal("SetState did not restore state")
	}
}

func TestMagnitudeClosedFormMatchesComplex(t *testing.T) {
	for _, f := range []float64{20, 500, 1000, 5000, 20000} {
		h := lowpass1k.Response(f, 48000)
		want := real(h)*real(h) + imag(h)*imag(h)
		got := lowpass1k.MagnitudeSquared(f, 48000)
		// The closed form cancels terms, so compare relatively.
		if math.Abs(got-want) > 1e-9*math.Abs(want) {
			t.Fatalf("f=%v: MagnitudeSquared = %v, want %v", f, got, want)
		}
	}
}

func TestStable(t *testing.T) {
	if !lowpass1k.Stable() {
		t.Fatal("lowpass should be stable")
	}

	unstable := Coefficients{B0: 1, A1: -2.1, A2: 1.2}
	if unstable.Stable() {
		t.Fatal("pole outside unit circle reported stable")
	}
}

func TestChainCascade(t *testing.T) {
	c := NewChain(lowpass1k, lowpass1k)
	if c.NumSections() != 2 {
		t.Fatalf("NumSections() = %d", c.NumSections())
	}

	dbSingle := lowpass1k.MagnitudeDB(3000, 48000)
	dbChain := c.MagnitudeDB(3000, 48000)
	if math.Abs(dbChain-2*dbSingle) > 1e-9 {
		t.Fatalf("cascade magnitude %v, want %v", dbChain, 2*dbSingle)
	}

	buf := []float64{1, 0, 0, 0}
	c.ProcessBlock(buf)

	c.Reset()
	first := c.ProcessSample(1)
	if first != buf[0] {
		t.Fatalf("ProcessSample after Reset = %v, want %v", first, buf[0])
	}
}
