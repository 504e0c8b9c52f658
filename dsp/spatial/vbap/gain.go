package vbap

import (
	"math"

	"github.com/cwbudde/algo-vbap/dsp/core"
	"github.com/cwbudde/algo-vbap/dsp/geom"
)

const minPowerSum = 1e-20

// query reduces dir to the unit vector a region of dimension dim solves
// against. The zero vector is returned for directions with no usable
// component.
func query(dir geom.Vec3, dim int) geom.Vec3 {
	if dim == 2 {
		dir = dir.Horizontal()
	}

	return dir.Unit()
}

// RawGains solves basis · g = dir. Entries may be negative when dir lies
// outside the region. ok is false for a singular basis.
func (r Region) RawGains(dir geom.Vec3) (g [3]float64, ok bool) {
	return r.basis.Solve(dir)
}

// Gains returns power-normalized gains for dir, or ok == false with all
// zeros when dir lies outside the region by more than tolerance, has zero
// length or the basis is singular.
func (r Region) Gains(dir geom.Vec3, targetPower, tolerance float64) ([3]float64, bool) {
	q := query(dir, r.Dim)
	if q.IsZero() {
		return [3]float64{}, false
	}

	return r.solve(q, targetPower, tolerance)
}

// solve expects a unit query of the region's dimension.
func (r *Region) solve(q geom.Vec3, targetPower, tolerance float64) ([3]float64, bool) {
	g, ok := r.basis.Solve(q)
	if !ok {
		return [3]float64{}, false
	}

	for m := 0; m < r.Dim; m++ {
		if g[m] < -tolerance || math.IsNaN(g[m]) {
			return [3]float64{}, false
		}

		if g[m] < 0 {
			g[m] = 0
		}
	}

	if !normalizePower(&g, r.Dim, targetPower) {
		return [3]float64{}, false
	}

	return g, true
}

// normalizePower scales the first n gains so their squares sum to target.
// A near-zero or non-finite power sum clears g and reports false.
func normalizePower(g *[3]float64, n int, target float64) bool {
	var sum float64
	for m := 0; m < n; m++ {
		sum += g[m] * g[m]
	}

	if sum < minPowerSum || !core.IsFinite(sum) {
		*g = [3]float64{}
		return false
	}

	scale := math.Sqrt(target / sum)
	for m := 0; m < n; m++ {
		g[m] = core.FlushDenormals(g[m] * scale)
	}

	return true
}
