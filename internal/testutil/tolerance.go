package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any pair differs by more than eps. Equal infinities match.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if !nearDB(got[i], want[i], eps) {
			t.Fatalf("index %d: got %v, want %v (eps %v)", i, got[i], want[i], eps)
		}
	}
}

// RequireDBNear fails t unless got is within tol dB of want. -Inf only
// matches -Inf.
func RequireDBNear(t *testing.T, name string, got, want, tol float64) {
	t.Helper()

	if !nearDB(got, want, tol) {
		t.Fatalf("%s = %.3f dB, want %.3f ±%.3f", name, got, want, tol)
	}
}

// MaxAbsDiff returns the largest absolute difference of two equally long
// slices.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}

	worst := 0.0
	for i := range a {
		worst = max(worst, math.Abs(a[i]-b[i]))
	}

	return worst, nil
}

func nearDB(got, want, tol float64) bool {
	if math.IsNaN(got) || math.IsNaN(want) {
		return false
	}

	if math.IsInf(got, 0) || math.IsInf(want, 0) {
		return got == want
	}

	return math.Abs(got-want) <= tol
}
