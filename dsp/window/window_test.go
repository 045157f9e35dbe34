package window

import (
	"math"
	"testing"
)

func TestGenerateFinite(t *testing.T) {
	types := []Type{
		TypeRectangular,
		TypeHann,
		TypeHamming,
		TypeBlackman,
		TypeBlackmanHarris,
		TypeFlatTop,
		TypeKaiser,
	}

	for _, typ := range types {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}
			}

			// Symmetric windows mirror around the centre.
			for i := range w {
				if math.Abs(w[i]-w[len(w)-1-i]) > 1e-12 {
					t.Fatalf("asymmetric at %d: %v vs %v", i, w[i], w[len(w)-1-i])
				}
			}
		})
	}
}

func TestGenerateEmpty(t *testing.T) {
	if Generate(TypeHann, 0) != nil {
		t.Fatal("zero length should yield nil")
	}

	if w := Generate(TypeHann, 1); len(w) != 1 || w[0] != 1 {
		t.Fatalf("single-sample Hann = %v, want [1]", w)
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	a := Generate(TypeHann, 16)
	b := Generate(TypeHann, 16, WithPeriodic())

	same := true
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			same = false
			break
		}
	}

	if same {
		t.Fatal("periodic and symmetric windows should differ")
	}

	// Periodic Hann peaks at N/2.
	if math.Abs(b[8]-1) > 1e-12 {
		t.Fatalf("periodic Hann centre = %v, want 1", b[8])
	}
}

func TestKaiser(t *testing.T) {
	w := Generate(TypeKaiser, 33, WithBeta(5))

	if math.Abs(w[16]-1) > 1e-9 {
		t.Fatalf("centre = %v, want 1", w[16])
	}

	edge := 1 / BesselI0(5)
	if math.Abs(w[0]-edge) > 1e-9 {
		t.Fatalf("edge = %v, want %v", w[0], edge)
	}
}

func TestBesselI0(t *testing.T) {
	tests := []struct {
		x, want float64
	}{
		{0, 1},
		{1, 1.2660658777520082},
		{5, 27.239871823604442},
	}

	for _, tt := range tests {
		got := BesselI0(tt.x)
		if math.Abs(got-tt.want)/tt.want > 1e-6 {
			t.Fatalf("BesselI0(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestEnergyMatchesHannPower(t *testing.T) {
	w := Generate(TypeHann, 1024, WithPeriodic())

	if e := Energy(w); math.Abs(e-384) > 1e-9 {
		t.Fatalf("Energy = %v, want 384 (3N/8)", e)
	}

	if e := Energy(nil); e != 0 {
		t.Fatalf("Energy(nil) = %v, want 0", e)
	}
}

func TestCacheSharesWindows(t *testing.T) {
	c := NewCache()

	a := c.Get(TypeHann, 256)
	b := c.Get(TypeHann, 256)
	if &a[0] != &b[0] {
		t.Fatal("cache returned distinct slices for the same key")
	}

	d := c.Get(TypeBlackman, 256)
	if &a[0] == &d[0] {
		t.Fatal("cache mixed window types")
	}
}
