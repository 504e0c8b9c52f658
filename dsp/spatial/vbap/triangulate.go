package vbap

import (
	"math"

	"github.com/cwbudde/algo-vbap/dsp/geom"
	"github.com/cwbudde/algo-vbap/dsp/spatial/speaker"
)

const (
	// sameElevationEps compares the z components of unit directions.
	sameElevationEps = 1e-9
	// insideEps admits speakers on a candidate's boundary as enclosed.
	insideEps = 1e-9
	// arcEndEps is the angular distance from an arc endpoint inside which
	// an intersection counts as touching, not crossing.
	arcEndEps = 1e-6
	arcSumEps = 1e-9
	// parallelEps bounds |n1 × n2| for arcs on the same great circle.
	parallelEps = 1e-9
)

// buildTriples triangulates the sphere in two steps: an ordered list of
// admissible candidates, then greedy acceptance of every candidate that
// crosses no previously accepted triangle.
func buildTriples(layout speaker.Layout, dirs []geom.Vec3, cfg Config) ([]Region, []int) {
	kept, dropped := distinctDirections(dirs, cfg.MinSeparation)
	if len(kept) < 3 {
		return nil, dropped
	}

	candidates := tripleCandidates(layout, dirs, kept, cfg)

	return acceptNonCrossing(candidates), dropped
}

// distinctDirections returns the layout indices whose direction is at
// least minSep away from every earlier kept direction.
func distinctDirections(dirs []geom.Vec3, minSep float64) (kept, dropped []int) {
	for i, d := range dirs {
		dup := -1

		for _, k := range kept {
			if d.Angle(dirs[k]) < minSep {
				dup = k
				break
			}
		}

		if dup >= 0 {
			Logger().Debug("vbap: dropping coincident speaker", "speaker", i, "duplicate_of", dup)
			dropped = append(dropped, i)

			continue
		}

		kept = append(kept, i)
	}

	return kept, dropped
}

// tripleCandidates lists, in ascending combinatorial order over kept, every
// triple that is non-degenerate, passes the elevation filter and encloses
// no other speaker.
func tripleCandidates(layout speaker.Layout, dirs []geom.Vec3, kept []int, cfg Config) []Region {
	var out []Region

	n := len(kept)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			for c := b + 1; c < n; c++ {
				i, j, k := kept[a], kept[b], kept[c]

				if !cfg.KeepSameElevation && sameElevation(dirs[i], dirs[j], dirs[k]) {
					continue
				}

				r := newRegion(layout, dirs, i, j, k)
				if !r.basis.Valid() || volumeRatio(r) <= cfg.MinVolumeRatio {
					continue
				}

				if other := enclosedSpeaker(r, dirs, kept); other >= 0 {
					Logger().Debug("vbap: rejecting triangle enclosing a speaker",
						"speakers", []int{i, j, k}, "enclosed", other)

					continue
				}

				out = append(out, r)
			}
		}
	}

	return out
}

func sameElevation(a, b, c geom.Vec3) bool {
	return math.Abs(a.Z-b.Z) < sameElevationEps && math.Abs(b.Z-c.Z) < sameElevationEps
}

// volumeRatio returns |det| divided by the chord perimeter.
func volumeRatio(r Region) float64 {
	a, b, c := r.dirs[0], r.dirs[1], r.dirs[2]

	perimeter := a.Sub(b).Len() + b.Sub(c).Len() + c.Sub(a).Len()
	if perimeter == 0 {
		return 0
	}

	return math.Abs(r.basis.Det()) / perimeter
}

// enclosedSpeaker returns the first kept non-member speaker inside or on
// the boundary of r, or -1.
func enclosedSpeaker(r Region, dirs []geom.Vec3, kept []int) int {
	for _, idx := range kept {
		if r.Contains(idx) {
			continue
		}

		g, _ := r.basis.Solve(dirs[idx])
		if g[0] >= -insideEps && g[1] >= -insideEps && g[2] >= -insideEps {
			return idx
		}
	}

	return -1
}

func acceptNonCrossing(candidates []Region) []Region {
	var accepted []Region

	for _, c := range candidates {
		if crossesAny(c, accepted) {
			Logger().Debug("vbap: rejecting crossing triangle", "speakers", c.Members())
			continue
		}

		accepted = append(accepted, c)
	}

	return accepted
}

// crossesAny reports whether an edge of c crosses an edge of any region in
// accepted. Edges sharing a speaker never cross.
func crossesAny(c Region, accepted []Region) bool {
	for i := range accepted {
		t := &accepted[i]

		for e := 0; e < 3; e++ {
			ca, cb := e, (e+1)%3

			for f := 0; f < 3; f++ {
				ta, tb := f, (f+1)%3

				if c.Speakers[ca] == t.Speakers[ta] || c.Speakers[ca] == t.Speakers[tb] ||
					c.Speakers[cb] == t.Speakers[ta] || c.Speakers[cb] == t.Speakers[tb] {
					continue
				}

				if arcsCross(c.dirs[ca], c.dirs[cb], t.dirs[ta], t.dirs[tb]) {
					return true
				}
			}
		}
	}

	return false
}

// arcsCross reports whether the minor great-circle arcs ab and cd meet at
// a point interior to both. The two great circles meet at ±(a×b)×(c×d).
func arcsCross(a, b, c, d geom.Vec3) bool {
	p := a.Cross(b).Cross(c.Cross(d))
	if p.Len() < parallelEps {
		return false
	}

	p = p.Unit()

	for _, q := range [2]geom.Vec3{p, p.Scale(-1)} {
		if onArcInterior(q, a, b) && onArcInterior(q, c, d) {
			return true
		}
	}

	return false
}

func onArcInterior(q, a, b geom.Vec3) bool {
	aq := a.Angle(q)
	qb := q.Angle(b)

	if aq <= arcEndEps || qb <= arcEndEps {
		return false
	}

	return math.Abs(aq+qb-a.Angle(b)) <= arcSumEps
}
