package speaker

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-vbap/dsp/geom"
	"github.com/cwbudde/algo-vbap/internal/testutil"
)

func TestDirection(t *testing.T) {
	tests := []struct {
		name string
		s    Speaker
		want geom.Vec3
	}{
		{name: "front", s: New(0, 0, 0), want: geom.Vec3{X: 1}},
		{name: "left", s: New(0, 90, 0), want: geom.Vec3{Y: 1}},
		{name: "right", s: New(0, -90, 0), want: geom.Vec3{Y: -1}},
		{name: "zenith", s: New(0, 0, 90), want: geom.Vec3{Z: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.RequireVecNearlyEqual(t, tt.s.Direction(), tt.want, 1e-12)
		})
	}
}

func TestFromDirectionRoundTrip(t *testing.T) {
	dir := geom.Vec3{X: -1, Y: 2, Z: 0.5}
	s := FromDirection(4, dir)

	if s.Channel != 4 {
		t.Fatalf("Channel = %d, want 4", s.Channel)
	}

	if math.Abs(s.Radius-dir.Len()) > 1e-12 {
		t.Fatalf("Radius = %g, want %g", s.Radius, dir.Len())
	}

	testutil.RequireVecNearlyEqual(t, s.Direction(), dir.Unit(), 1e-12)
}

func TestTrim(t *testing.T) {
	s := New(0, 0, 0)
	if s.Trim() != 1 {
		t.Fatalf("default Trim() = %g, want 1", s.Trim())
	}

	s.TrimDB = -20
	if math.Abs(s.Trim()-0.1) > 1e-12 {
		t.Fatalf("Trim() at -20 dB = %g, want 0.1", s.Trim())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		layout  Layout
		wantErr bool
	}{
		{name: "ok", layout: Surround50()},
		{name: "empty", layout: nil},
		{name: "negative channel", layout: Layout{New(-1, 0, 0)}, wantErr: true},
		{name: "duplicate channel", layout: Layout{New(0, 0, 0), New(0, 90, 0)}, wantErr: true},
		{name: "nan azimuth", layout: Layout{New(0, math.NaN(), 0)}, wantErr: true},
		{name: "elevation out of range", layout: Layout{New(0, 0, 91)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLayout) {
					t.Fatalf("Validate() error = %v, want ErrInvalidLayout", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
		})
	}
}

func TestLayoutHelpers(t *testing.T) {
	l := Layout{New(3, 0, 0), New(1, 90, 0)}

	if got := l.NumChannels(); got != 4 {
		t.Fatalf("NumChannels() = %d, want 4", got)
	}

	if got := l.IndexOfChannel(1); got != 1 {
		t.Fatalf("IndexOfChannel(1) = %d, want 1", got)
	}

	if got := l.IndexOfChannel(2); got != -1 {
		t.Fatalf("IndexOfChannel(2) = %d, want -1", got)
	}

	c := l.Clone()
	c[0].Azimuth = 45
	if l[0].Azimuth != 0 {
		t.Fatal("Clone() shares storage with the original")
	}
}

func TestRing(t *testing.T) {
	l := Ring(8, 0, 10, 2)
	if len(l) != 8 {
		t.Fatalf("len = %d, want 8", len(l))
	}

	for i, s := range l {
		if s.Channel != 2+i {
			t.Fatalf("speaker %d channel = %d, want %d", i, s.Channel, 2+i)
		}

		if s.Azimuth <= -180 || s.Azimuth > 180 {
			t.Fatalf("speaker %d azimuth %g outside (-180, 180]", i, s.Azimuth)
		}

		if s.Elevation != 10 {
			t.Fatalf("speaker %d elevation = %g, want 10", i, s.Elevation)
		}
	}

	if Ring(0, 0, 0, 0) != nil {
		t.Fatal("Ring(0) should be nil")
	}
}

func TestPresets(t *testing.T) {
	want := map[string]int{
		"stereo":     2,
		"quad":       4,
		"5.0":        5,
		"7.0":        7,
		"7.0.4":      11,
		"octagon":    8,
		"octahedron": 6,
		"cube":       8,
	}

	names := PresetNames()
	if len(names) != len(want) {
		t.Fatalf("PresetNames() = %v", names)
	}

	for _, name := range names {
		l, ok := Preset(name)
		if !ok {
			t.Fatalf("Preset(%q) not found", name)
		}

		if len(l) != want[name] {
			t.Fatalf("Preset(%q) has %d speakers, want %d", name, len(l), want[name])
		}

		if err := l.Validate(); err != nil {
			t.Fatalf("Preset(%q) invalid: %v", name, err)
		}
	}

	if _, ok := Preset("nope"); ok {
		t.Fatal("unknown preset reported found")
	}
}

func TestCubeRingsShareElevation(t *testing.T) {
	l := Cube()
	for i := 1; i < 4; i++ {
		if l[i].Elevation != l[0].Elevation {
			t.Fatalf("upper ring elevation %g != %g", l[i].Elevation, l[0].Elevation)
		}

		if l[4+i].Elevation != l[4].Elevation {
			t.Fatalf("lower ring elevation %g != %g", l[4+i].Elevation, l[4].Elevation)
		}
	}
}
