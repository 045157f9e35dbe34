package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{-23, -14, -9}, []float64{-23, -14.5, -9})
	if err != nil {
		t.Fatalf("MaxAbsDiff: %v", err)
	}

	if math.Abs(d-0.5) > 1e-12 {
		t.Fatalf("MaxAbsDiff = %v, want 0.5", d)
	}

	if _, err := MaxAbsDiff([]float64{1}, nil); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestNearDB(t *testing.T) {
	inf := math.Inf(-1)

	tests := []struct {
		got, want, tol float64
		ok             bool
	}{
		{-23.0, -23.04, 0.05, true},
		{-23.0, -23.2, 0.05, false},
		{inf, inf, 0, true},
		{inf, -70, 100, false},
		{-70, inf, 100, false},
		{math.NaN(), -23, 1, false},
	}

	for _, tt := range tests {
		if got := nearDB(tt.got, tt.want, tt.tol); got != tt.ok {
			t.Errorf("nearDB(%v, %v, %v) = %v, want %v", tt.got, tt.want, tt.tol, got, tt.ok)
		}
	}
}

func TestRequireHelpersPass(t *testing.T) {
	RequireDBNear(t, "integrated", -23.01, -23, 0.05)
	RequireDBNear(t, "silence", math.Inf(-1), math.Inf(-1), 0)
	RequireSliceNearlyEqual(t, []float64{math.Inf(-1), -3.01}, []float64{math.Inf(-1), -3.0}, 0.02)
}
