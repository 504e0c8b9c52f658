package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Basis is a square 2×2 or 3×3 matrix whose columns are speaker direction
// vectors, cached together with its inverse.
//
// A 2-dimensional basis uses only the X and Y components of its columns.
// A singular basis is kept but marked invalid; Solve on it reports false
// instead of producing non-finite values.
type Basis struct {
	dim   int
	cols  [3]Vec3
	inv2  mgl64.Mat2
	inv   Mat3
	det   float64
	valid bool
}

// NewBasis2 builds a 2-dimensional basis from the horizontal components of
// a and b.
func NewBasis2(a, b Vec3) Basis {
	bs := Basis{dim: 2, cols: [3]Vec3{a.Horizontal(), b.Horizontal()}}
	m := mgl64.Mat2FromCols(mgl64.Vec2{a.X, a.Y}, mgl64.Vec2{b.X, b.Y})
	bs.det = m.Det()

	if math.Abs(bs.det) > eps && !math.IsNaN(bs.det) {
		bs.inv2 = m.Inv()
		bs.valid = true
	}

	return bs
}

// NewBasis3 builds a 3-dimensional basis with columns a, b and c.
func NewBasis3(a, b, c Vec3) Basis {
	m := Columns(a, b, c)
	bs := Basis{dim: 3, cols: [3]Vec3{a, b, c}, det: m.Det()}
	bs.inv, bs.valid = m.Inverse()

	return bs
}

// Dim returns 2 or 3, or 0 for the zero Basis.
func (b Basis) Dim() int { return b.dim }

// Valid reports whether the basis is invertible.
func (b Basis) Valid() bool { return b.valid }

// Det returns the determinant of the basis matrix.
func (b Basis) Det() float64 { return b.det }

// Column returns the i-th column vector.
func (b Basis) Column(i int) Vec3 { return b.cols[i] }

// Solve returns x such that B·x = v. Only the first Dim entries of x are
// meaningful; the rest are zero. ok is false for an invalid basis.
func (b Basis) Solve(v Vec3) (x [3]float64, ok bool) {
	if !b.valid {
		return x, false
	}

	if b.dim == 2 {
		r := b.inv2.Mul2x1(mgl64.Vec2{v.X, v.Y})
		x[0], x[1] = r[0], r[1]

		return x, true
	}

	r := b.inv.MulVec(v)
	x[0], x[1], x[2] = r.X, r.Y, r.Z

	return x, true
}
