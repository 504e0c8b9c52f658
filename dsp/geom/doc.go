// Package geom provides the small fixed-size vector and matrix types used
// by the spatial panners: a 3-component vector, a 3×3 matrix and a
// 2×2/3×3 Basis with a cached inverse and an explicit validity flag.
//
// The matrix arithmetic is done by github.com/go-gl/mathgl/mgl64, whose
// types are fixed-size arrays. All types are values; nothing here
// allocates.
package geom
