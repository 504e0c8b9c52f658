package testutil

import (
	"math"

	"github.com/cwbudde/algo-vbap/dsp/geom"
)

// CircleDirections returns n horizontal unit vectors at equal azimuth
// steps, starting at offset radians.
func CircleDirections(n int, offset float64) []geom.Vec3 {
	out := make([]geom.Vec3, n)
	for i := range out {
		out[i] = geom.FromAzEl(offset+2*math.Pi*float64(i)/float64(n), 0)
	}
	return out
}
