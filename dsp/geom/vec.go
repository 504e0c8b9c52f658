package geom

import (
	"math"

	"github.com/cwbudde/algo-vbap/dsp/core"
)

// Vec3 is a direction or position in listener-centered coordinates:
// X points to the front, Y to the left and Z up.
type Vec3 struct {
	X, Y, Z float64
}

// FromAzEl returns the unit vector for an azimuth and elevation in radians.
// Azimuth is measured counter-clockwise from the front (positive = left),
// elevation upward from the horizontal plane.
func FromAzEl(az, el float64) Vec3 {
	cosEl := math.Cos(el)

	return Vec3{
		X: cosEl * math.Cos(az),
		Y: cosEl * math.Sin(az),
		Z: math.Sin(el),
	}
}

// AzEl returns azimuth in [0, 2π) and elevation in [-π/2, π/2] for v.
// The zero vector yields (0, 0).
func (v Vec3) AzEl() (az, el float64) {
	l := v.Len()
	if l == 0 {
		return 0, 0
	}

	az = core.WrapAngle(math.Atan2(v.Y, v.X))
	el = math.Asin(core.Clamp(v.Z/l, -1, 1))

	return az, el
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns v × o.
func (v Vec3) Cross(o Vec3) Vec3 { return fromMgl(v.mgl().Cross(o.mgl())) }

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return v.mgl().Len() }

// Unit returns v scaled to unit length, or the zero vector if v is
// shorter than eps.
func (v Vec3) Unit() Vec3 {
	l := v.Len()
	if l < eps {
		return Vec3{}
	}

	return v.Scale(1 / l)
}

// Horizontal returns the projection of v onto the horizontal plane.
func (v Vec3) Horizontal() Vec3 { return Vec3{X: v.X, Y: v.Y} }

// Angle returns the angle between v and o in radians.
// atan2 keeps precision for nearly parallel vectors where acos does not.
func (v Vec3) Angle(o Vec3) float64 {
	return math.Atan2(v.Cross(o).Len(), v.Dot(o))
}

// IsZero reports whether v is shorter than eps.
func (v Vec3) IsZero() bool { return v.Len() < eps }

// IsFinite reports whether all components are finite.
func (v Vec3) IsFinite() bool {
	return core.IsFinite(v.X) && core.IsFinite(v.Y) && core.IsFinite(v.Z)
}
