package vbap

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-vbap/dsp/geom"
	"github.com/cwbudde/algo-vbap/dsp/spatial/speaker"
)

func powerSum(g [3]float64) float64 {
	return g[0]*g[0] + g[1]*g[1] + g[2]*g[2]
}

func TestRegionGainsAtSpeaker(t *testing.T) {
	layout := speaker.Octahedron()
	r := newRegion(layout, layout.Directions(), 0, 2, 4)

	for m := 0; m < 3; m++ {
		g, ok := r.Gains(r.Direction(m), 1, 1e-6)
		if !ok {
			t.Fatalf("Gains(speaker %d) not covered", m)
		}

		for k := 0; k < 3; k++ {
			want := 0.0
			if k == m {
				want = 1
			}

			if math.Abs(g[k]-want) > 1e-9 {
				t.Fatalf("Gains(speaker %d)[%d] = %g, want %g", m, k, g[k], want)
			}
		}
	}
}

func TestRegionGainsPower(t *testing.T) {
	layout := speaker.Octahedron()
	r := newRegion(layout, layout.Directions(), 0, 2, 4)

	dirs := []geom.Vec3{
		{X: 1, Y: 1, Z: 1},
		{X: 0.2, Y: 0.7, Z: 0.1},
		{X: 3, Y: 0.01, Z: 0.5},
	}

	for _, power := range []float64{1, 0.5, 2} {
		for _, d := range dirs {
			g, ok := r.Gains(d, power, 1e-6)
			if !ok {
				t.Fatalf("Gains(%+v) not covered", d)
			}

			for k, v := range g {
				if v < 0 {
					t.Fatalf("Gains(%+v)[%d] = %g, want >= 0", d, k, v)
				}
			}

			if got := powerSum(g); math.Abs(got-power) > 1e-12 {
				t.Fatalf("power sum = %g, want %g", got, power)
			}
		}
	}
}

func TestRegionGainsOutside(t *testing.T) {
	layout := speaker.Octahedron()
	r := newRegion(layout, layout.Directions(), 0, 2, 4)

	g, ok := r.Gains(geom.Vec3{X: -1, Y: 1, Z: 1}, 1, 1e-6)
	if ok {
		t.Fatalf("Gains() outside region = %v, want not covered", g)
	}

	if g != ([3]float64{}) {
		t.Fatalf("Gains() outside region = %v, want zeros", g)
	}

	raw, ok := r.RawGains(geom.Vec3{X: -1, Y: 1, Z: 1}.Unit())
	if !ok || raw[0] >= 0 {
		t.Fatalf("RawGains() = %v, %v; want negative front gain", raw, ok)
	}
}

func TestRegionGainsZeroDirection(t *testing.T) {
	layout := speaker.Quad()
	r := newRegion(layout, layout.Directions(), 0, 1)

	if g, ok := r.Gains(geom.Vec3{}, 1, 1e-6); ok || g != ([3]float64{}) {
		t.Fatalf("Gains(zero) = %v, %v; want zeros, false", g, ok)
	}

	// A purely vertical query has no horizontal component in 2D.
	if g, ok := r.Gains(geom.Vec3{Z: 1}, 1, 1e-6); ok || g != ([3]float64{}) {
		t.Fatalf("Gains(zenith) = %v, %v; want zeros, false", g, ok)
	}
}

func TestRegionGains2DProjectsElevation(t *testing.T) {
	layout := speaker.Layout{speaker.New(0, 45, 30), speaker.New(1, -45, 0)}
	r := newRegion(layout, layout.Directions(), 0, 1)

	g, ok := r.Gains(geom.FromAzEl(0, 1), 1, 1e-6)
	if !ok {
		t.Fatal("Gains() not covered")
	}

	want := 1 / math.Sqrt2
	if math.Abs(g[0]-want) > 1e-12 || math.Abs(g[1]-want) > 1e-12 {
		t.Fatalf("Gains() = %v, want [%g %g]", g, want, want)
	}

	if g[2] != 0 {
		t.Fatalf("Gains()[2] = %g, want 0 for a pair", g[2])
	}
}

func TestRegionGainsTolerance(t *testing.T) {
	layout := speaker.Quad()
	r := newRegion(layout, layout.Directions(), 0, 1)

	// Just outside speaker 0 at 45°.
	dir := geom.FromAzEl(math.Pi/4+1e-8, 0)

	g, ok := r.Gains(dir, 1, 1e-6)
	if !ok {
		t.Fatal("Gains() within tolerance not covered")
	}

	if g[1] != 0 {
		t.Fatalf("Gains()[1] = %g, want clamped to 0", g[1])
	}

	if _, ok := r.Gains(dir, 1, 0); ok {
		t.Fatal("Gains() with zero tolerance covered a point outside the pair")
	}
}

func TestNormalizePowerRejectsZero(t *testing.T) {
	g := [3]float64{1e-12, 0, 0}
	if normalizePower(&g, 3, 1) {
		t.Fatal("normalizePower() accepted near-zero gains")
	}

	if g != ([3]float64{}) {
		t.Fatalf("g = %v, want zeros", g)
	}

	g = [3]float64{math.Inf(1), 1, 0}
	if normalizePower(&g, 3, 1) {
		t.Fatal("normalizePower() accepted infinite gains")
	}
}

func TestNewManualRegion(t *testing.T) {
	layout := speaker.Octahedron()

	tests := []struct {
		name    string
		mode    Mode
		members []int
		wantErr error
	}{
		{name: "ok 3D", mode: Mode3D, members: []int{0, 2, 4}},
		{name: "ok 2D", mode: Mode2D, members: []int{0, 2}},
		{name: "wrong count", mode: Mode3D, members: []int{0, 2}, wantErr: ErrInvalidManualRegion},
		{name: "out of range", mode: Mode3D, members: []int{0, 2, 6}, wantErr: ErrInvalidManualRegion},
		{name: "negative", mode: Mode2D, members: []int{-1, 2}, wantErr: ErrInvalidManualRegion},
		{name: "repeated", mode: Mode3D, members: []int{0, 2, 2}, wantErr: ErrInvalidManualRegion},
		{name: "antipodal triple", mode: Mode3D, members: []int{0, 1, 2}, wantErr: ErrSingularBasis},
		{name: "antipodal pair", mode: Mode2D, members: []int{0, 1}, wantErr: ErrSingularBasis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := newManualRegion(layout, tt.mode, tt.members)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("newManualRegion() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("newManualRegion() error = %v", err)
			}

			if !r.Manual || !r.Valid() || r.Dim != len(tt.members) {
				t.Fatalf("region = %+v, want valid manual region of dim %d", r, len(tt.members))
			}
		})
	}
}

func TestRegionMembers(t *testing.T) {
	layout := speaker.Surround50()
	r := newRegion(layout, layout.Directions(), 2, 0)

	got := r.Members()
	if len(got) != 2 || got[0] != 2 || got[1] != 0 {
		t.Fatalf("Members() = %v, want [2 0]", got)
	}

	if r.Channels[0] != 2 || r.Channels[1] != 0 {
		t.Fatalf("Channels = %v, want [2 0 ...]", r.Channels)
	}

	if !r.Contains(0) || r.Contains(1) {
		t.Fatal("Contains() mismatch")
	}
}
