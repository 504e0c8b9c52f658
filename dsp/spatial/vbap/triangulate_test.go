package vbap

import (
	"testing"

	"github.com/cwbudde/algo-vbap/dsp/geom"
	"github.com/cwbudde/algo-vbap/dsp/spatial/speaker"
)

func TestArcsCross(t *testing.T) {
	x := geom.Vec3{X: 1}
	y := geom.Vec3{Y: 1}
	z := geom.Vec3{Z: 1}
	nx := geom.Vec3{X: -1}

	tests := []struct {
		name       string
		a, b, c, d geom.Vec3
		want       bool
	}{
		{
			name: "perpendicular through midpoint",
			a:    geom.Vec3{X: 1, Y: -1}.Unit(), b: geom.Vec3{X: 1, Y: 1}.Unit(),
			c: geom.Vec3{X: 1, Z: -1}.Unit(), d: geom.Vec3{X: 1, Z: 1}.Unit(),
			want: true,
		},
		{
			name: "disjoint",
			a:    x, b: y,
			c: geom.Vec3{X: -1, Z: 1}.Unit(), d: geom.Vec3{Y: -1, Z: 1}.Unit(),
		},
		{
			name: "touching at endpoint",
			a:    x, b: y,
			c: geom.Vec3{X: 1, Y: 1}.Unit(), d: z,
		},
		{
			name: "same great circle",
			a:    x, b: y,
			c: geom.Vec3{X: 1, Y: 1}.Unit(), d: geom.Vec3{X: -1, Y: 1}.Unit(),
		},
		{
			name: "antipodal intersection only",
			a:    geom.Vec3{X: 1, Y: -1}.Unit(), b: geom.Vec3{X: 1, Y: 1}.Unit(),
			c: geom.Vec3{X: -1, Z: -1}.Unit(), d: geom.Vec3{X: -1, Z: 1}.Unit(),
		},
		{
			name: "crossing behind",
			a:    geom.Vec3{X: -1, Y: -1}.Unit(), b: geom.Vec3{X: -1, Y: 1}.Unit(),
			c: geom.Vec3{X: -1, Z: -1}.Unit(), d: geom.Vec3{X: -1, Z: 1}.Unit(),
			want: true,
		},
		{
			name: "t-junction",
			a:    geom.Vec3{X: 1, Y: -1}.Unit(), b: geom.Vec3{X: 1, Y: 1}.Unit(),
			c: x, d: z,
		},
		{
			name: "long arcs",
			a:    geom.Vec3{X: 1, Y: -0.1}.Unit(), b: nx.Add(geom.Vec3{Y: -0.1}).Unit(),
			c: geom.Vec3{Y: -1, Z: -1}.Unit(), d: geom.Vec3{Y: -1, Z: 1}.Unit(),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := arcsCross(tt.a, tt.b, tt.c, tt.d); got != tt.want {
				t.Fatalf("arcsCross() = %v, want %v", got, tt.want)
			}

			if got := arcsCross(tt.c, tt.d, tt.a, tt.b); got != tt.want {
				t.Fatalf("arcsCross() swapped = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTripleCandidatesSameElevation(t *testing.T) {
	layout := speaker.Concat(speaker.Ring(4, 45, 30, 0), speaker.Layout{speaker.New(4, 0, -90)})
	dirs := layout.Directions()
	kept := []int{0, 1, 2, 3, 4}

	for _, r := range tripleCandidates(layout, dirs, kept, DefaultConfig()) {
		if !r.Contains(4) {
			t.Fatalf("candidate %v lies on one elevation ring", r.Members())
		}
	}

	found := false

	cfg := config(WithKeepSameElevation(true))
	for _, r := range tripleCandidates(layout, dirs, kept, cfg) {
		found = found || !r.Contains(4)
	}

	if !found {
		t.Fatal("same-elevation candidates missing with KeepSameElevation")
	}
}

func TestEnclosedSpeaker(t *testing.T) {
	// A wide triangle around the front with a speaker straight ahead.
	layout := speaker.Layout{
		speaker.New(0, 60, -30),
		speaker.New(1, -60, -30),
		speaker.New(2, 0, 60),
		speaker.New(3, 0, 0),
	}
	dirs := layout.Directions()

	r := newRegion(layout, dirs, 0, 1, 2)
	if got := enclosedSpeaker(r, dirs, []int{0, 1, 2, 3}); got != 3 {
		t.Fatalf("enclosedSpeaker() = %d, want 3", got)
	}

	for _, c := range tripleCandidates(layout, dirs, []int{0, 1, 2, 3}, DefaultConfig()) {
		if c.Contains(0) && c.Contains(1) && c.Contains(2) {
			t.Fatalf("candidate %v encloses speaker 3", c.Members())
		}
	}
}

func TestVolumeRatio(t *testing.T) {
	layout := speaker.Octahedron()
	dirs := layout.Directions()

	face := newRegion(layout, dirs, 0, 2, 4)
	if v := volumeRatio(face); v < 0.2 {
		t.Fatalf("volumeRatio(face) = %g, want about 1/(3*sqrt 2)", v)
	}

	flat := speaker.Layout{speaker.New(0, 0, 0), speaker.New(1, 1, 0), speaker.New(2, 0.5, 0.0001)}
	r := newRegion(flat, flat.Directions(), 0, 1, 2)

	if v := volumeRatio(r); v > defaultMinVolumeRatio {
		t.Fatalf("volumeRatio(sliver) = %g, want below %g", v, defaultMinVolumeRatio)
	}
}
