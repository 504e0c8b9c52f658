package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-12

// Mat3 is a 3×3 matrix backed by an mgl64.Mat3 (column-major). It is a
// value type so that solves on the render path never touch the heap.
type Mat3 struct {
	m mgl64.Mat3
}

// Columns builds a matrix whose columns are a, b and c.
func Columns(a, b, c Vec3) Mat3 {
	return Mat3{m: mgl64.Mat3FromCols(a.mgl(), b.mgl(), c.mgl())}
}

// MulVec returns m × v.
func (m Mat3) MulVec(v Vec3) Vec3 { return fromMgl(m.m.Mul3x1(v.mgl())) }

func (m Mat3) Det() float64 { return m.m.Det() }

// Inverse returns the inverse of m. ok is false when |det| <= eps, in
// which case the zero matrix is returned.
func (m Mat3) Inverse() (inv Mat3, ok bool) {
	d := m.m.Det()
	if math.Abs(d) <= eps || math.IsNaN(d) {
		return Mat3{}, false
	}

	return Mat3{m: m.m.Inv()}, true
}

func (v Vec3) mgl() mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

func fromMgl(v mgl64.Vec3) Vec3 { return Vec3{X: v[0], Y: v[1], Z: v[2]} }
