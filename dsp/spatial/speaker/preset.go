package speaker

import (
	"sort"

	"github.com/cwbudde/algo-vbap/dsp/geom"
)

// Ring returns n speakers equally spaced in azimuth at a fixed elevation.
// The first speaker sits at offset degrees and channels are numbered from
// firstChannel in counter-clockwise order.
func Ring(n int, offset, elevation float64, firstChannel int) Layout {
	if n <= 0 {
		return nil
	}

	l := make(Layout, n)
	step := 360.0 / float64(n)

	for i := range l {
		az := offset + float64(i)*step
		for az > 180 {
			az -= 360
		}

		l[i] = New(firstChannel+i, az, elevation)
	}

	return l
}

// Concat joins layouts in order. Channels are kept as given.
func Concat(layouts ...Layout) Layout {
	var out Layout
	for _, l := range layouts {
		out = append(out, l...)
	}

	return out
}

// Stereo returns a ±30° pair (L, R).
func Stereo() Layout {
	return Layout{New(0, 30, 0), New(1, -30, 0)}
}

// Quad returns four speakers at ±45° and ±135° (FL, FR, RL, RR).
func Quad() Layout {
	return Layout{New(0, 45, 0), New(1, -45, 0), New(2, 135, 0), New(3, -135, 0)}
}

// Surround50 returns the ITU-R BS.775 5.0 layout (L, R, C, Ls, Rs).
func Surround50() Layout {
	return Layout{
		New(0, 30, 0),
		New(1, -30, 0),
		New(2, 0, 0),
		New(3, 110, 0),
		New(4, -110, 0),
	}
}

// Surround70 returns a 7.0 layout (L, R, C, Lss, Rss, Lrs, Rrs).
func Surround70() Layout {
	return Layout{
		New(0, 30, 0),
		New(1, -30, 0),
		New(2, 0, 0),
		New(3, 90, 0),
		New(4, -90, 0),
		New(5, 150, 0),
		New(6, -150, 0),
	}
}

// Surround704 returns 7.0 plus four height speakers at 45° elevation.
func Surround704() Layout {
	return Concat(Surround70(), Layout{
		New(7, 45, 45),
		New(8, -45, 45),
		New(9, 135, 45),
		New(10, -135, 45),
	})
}

// Octahedron returns six speakers on the ±X, ±Y and ±Z axes.
func Octahedron() Layout {
	dirs := []geom.Vec3{
		{X: 1}, {X: -1},
		{Y: 1}, {Y: -1},
		{Z: 1}, {Z: -1},
	}

	return fromDirections(dirs)
}

// Cube returns eight speakers on the corners of a cube: a ring of four at
// +35.26° elevation followed by a ring of four below.
func Cube() Layout {
	dirs := []geom.Vec3{
		{X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1}, {X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1},
		{X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1},
	}

	return fromDirections(dirs)
}

func fromDirections(dirs []geom.Vec3) Layout {
	l := make(Layout, len(dirs))
	for i, d := range dirs {
		l[i] = FromDirection(i, d.Unit())
	}

	return l
}

var presets = map[string]func() Layout{
	"stereo":     Stereo,
	"quad":       Quad,
	"5.0":        Surround50,
	"7.0":        Surround70,
	"7.0.4":      Surround704,
	"octagon":    func() Layout { return Ring(8, 0, 0, 0) },
	"octahedron": Octahedron,
	"cube":       Cube,
}

// Preset returns a named layout.
func Preset(name string) (Layout, bool) {
	fn, ok := presets[name]
	if !ok {
		return nil, false
	}

	return fn(), true
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
