package geom

import "math"

// FibonacciSphere returns n nearly uniformly distributed unit vectors on
// the sphere, ordered from the top down. The sequence is deterministic.
func FibonacciSphere(n int) []Vec3 {
	out := make([]Vec3, n)
	golden := math.Pi * (3 - math.Sqrt(5))

	for i := range out {
		z := 1 - (2*float64(i)+1)/float64(n)
		r := math.Sqrt(1 - z*z)
		phi := golden * float64(i)
		out[i] = Vec3{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
	}

	return out
}
