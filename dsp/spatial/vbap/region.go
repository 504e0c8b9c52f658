package vbap

import (
	"fmt"

	"github.com/cwbudde/algo-vbap/dsp/geom"
	"github.com/cwbudde/algo-vbap/dsp/spatial/speaker"
)

// Region is a speaker pair (2D) or triple (3D) whose direction vectors
// span a sector of the circle or sphere. Regions are immutable once built.
type Region struct {
	// Speakers holds layout indices; only the first Dim entries are used.
	Speakers [3]int
	// Channels holds the output channels of Speakers.
	Channels [3]int
	// Dim is 2 for a pair and 3 for a triple.
	Dim int
	// Manual marks regions injected with MakeTriple or MakePair.
	Manual bool

	dirs  [3]geom.Vec3
	trims [3]float64
	basis geom.Basis
}

// newRegion builds a region over the given layout indices. In 2D the
// directions are projected onto the horizontal plane first.
func newRegion(layout speaker.Layout, dirs []geom.Vec3, members ...int) Region {
	r := Region{Dim: len(members)}

	for m, idx := range members {
		d := dirs[idx]
		if r.Dim == 2 {
			d = d.Horizontal().Unit()
		}

		r.Speakers[m] = idx
		r.Channels[m] = layout[idx].Channel
		r.dirs[m] = d
		r.trims[m] = layout[idx].Trim()
	}

	if r.Dim == 2 {
		r.basis = geom.NewBasis2(r.dirs[0], r.dirs[1])
	} else {
		r.basis = geom.NewBasis3(r.dirs[0], r.dirs[1], r.dirs[2])
	}

	return r
}

// newManualRegion validates caller-supplied indices and builds a region
// marked Manual.
func newManualRegion(layout speaker.Layout, mode Mode, members []int) (Region, error) {
	want := 2
	if mode == Mode3D {
		want = 3
	}

	if len(members) != want {
		return Region{}, fmt.Errorf("%w: %s mode needs %d speakers, got %d",
			ErrInvalidManualRegion, mode, want, len(members))
	}

	for i, idx := range members {
		if idx < 0 || idx >= len(layout) {
			return Region{}, fmt.Errorf("%w: speaker index %d out of range [0, %d)",
				ErrInvalidManualRegion, idx, len(layout))
		}

		for _, prev := range members[:i] {
			if prev == idx {
				return Region{}, fmt.Errorf("%w: speaker %d listed twice", ErrInvalidManualRegion, idx)
			}
		}
	}

	r := newRegion(layout, layout.Directions(), members...)
	if !r.basis.Valid() {
		return Region{}, fmt.Errorf("%w: speakers %v", ErrSingularBasis, members)
	}

	r.Manual = true

	return r, nil
}

// Members returns the layout indices of the region's speakers.
func (r Region) Members() []int {
	out := make([]int, r.Dim)
	copy(out, r.Speakers[:r.Dim])

	return out
}

// Direction returns the unit direction of the m-th member as used by the
// basis (horizontal in 2D).
func (r Region) Direction(m int) geom.Vec3 { return r.dirs[m] }

// Basis returns the cached basis.
func (r Region) Basis() geom.Basis { return r.basis }

// Valid reports whether the basis is invertible.
func (r Region) Valid() bool { return r.basis.Valid() }

// Contains reports whether layout index idx is a member.
func (r Region) Contains(idx int) bool {
	for m := 0; m < r.Dim; m++ {
		if r.Speakers[m] == idx {
			return true
		}
	}

	return false
}

func (r Region) sameMembers(o Region) bool {
	if r.Dim != o.Dim {
		return false
	}

	for m := 0; m < r.Dim; m++ {
		if !o.Contains(r.Speakers[m]) {
			return false
		}
	}

	return true
}
