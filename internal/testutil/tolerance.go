package testutil

import (
	"math"
	"testing"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-vbap/dsp/geom"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireVecNearlyEqual fails t if got is farther than eps from want.
func RequireVecNearlyEqual(t *testing.T, got, want geom.Vec3, eps float64) {
	t.Helper()
	if d := got.Sub(want).Len(); d > eps {
		t.Fatalf("got %+v, want %+v (distance %v > eps %v)", got, want, d, eps)
	}
}

// Energy returns the sum of squares of x.
func Energy(x []float64) float64 {
	return vecmath.DotProduct(x, x)
}
