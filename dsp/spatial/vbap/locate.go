package vbap

import (
	"math"

	"github.com/cwbudde/algo-vbap/dsp/geom"
)

// Locate returns the first region, in build order, whose raw gains for dir
// are all non-negative within the configured tolerance, together with its
// power-normalized gains. ok is false when no region covers dir.
//
// Directions on a boundary shared by two regions resolve to the earlier
// one; both yield identical gains there.
func (t *Topology) Locate(dir geom.Vec3) (idx int, gains [3]float64, ok bool) {
	q := query(dir, t.dim())
	if q.IsZero() {
		return -1, gains, false
	}

	for i := range t.regions {
		g, found := t.regions[i].solve(q, t.cfg.TargetPower, t.cfg.Tolerance)
		if found {
			return i, g, true
		}
	}

	return -1, gains, false
}

// Nearest is the relaxed lookup used for uncovered directions. It picks
// the region whose smallest normalized raw gain is largest, clamps
// negative gains to zero and renormalizes. ok is false when even the best
// region has no positive gain.
func (t *Topology) Nearest(dir geom.Vec3) (idx int, gains [3]float64, ok bool) {
	q := query(dir, t.dim())
	if q.IsZero() {
		return -1, gains, false
	}

	best, bestScore := -1, math.Inf(-1)

	for i := range t.regions {
		r := &t.regions[i]

		g, valid := r.basis.Solve(q)
		if !valid {
			continue
		}

		var norm float64
		for m := 0; m < r.Dim; m++ {
			norm += g[m] * g[m]
		}

		if norm < minPowerSum {
			continue
		}

		norm = math.Sqrt(norm)
		score := math.Inf(1)

		for m := 0; m < r.Dim; m++ {
			score = math.Min(score, g[m]/norm)
		}

		if score > bestScore {
			best, bestScore, gains = i, score, g
		}
	}

	if best < 0 {
		return -1, [3]float64{}, false
	}

	for m := range gains {
		if gains[m] < 0 {
			gains[m] = 0
		}
	}

	if !normalizePower(&gains, t.regions[best].Dim, t.cfg.TargetPower) {
		return -1, gains, false
	}

	return best, gains, true
}

// Covers reports whether some region contains dir.
func (t *Topology) Covers(dir geom.Vec3) bool {
	_, _, ok := t.Locate(dir)
	return ok
}

func (t *Topology) dim() int {
	if t.cfg.Mode == Mode3D {
		return 3
	}

	return 2
}
