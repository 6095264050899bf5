// Package lambert solves Lambert's problem in the ecliptic plane: given two
// position vectors and a time of flight, find the two velocity vectors
// connecting them on a Keplerian arc (spec.md §4.7). It is grounded on the
// teacher's universal-variable solver (tools.go's Lambert), adapted from 3D
// mat64 vectors with multi-revolution support to the 2D Vector2 single-arc
// case this simulator needs, with the Stumpff functions broken out into
// their own file as the teacher does with its other small numeric helpers.
package lambert

import "math"

// stumpffC evaluates the Stumpff function C(z), using a Taylor expansion
// near z=0 to avoid the cancellation spec.md §4.7 warns about.
func stumpffC(z float64) float64 {
	if math.Abs(z) < 1e-4 {
		return 1.0/2.0 - z/24.0 + z*z/720.0
	}
	if z > 0 {
		sz := math.Sqrt(z)
		return (1 - math.Cos(sz)) / z
	}
	sz := math.Sqrt(-z)
	return (1 - math.Cosh(sz)) / z
}

// stumpffS evaluates the Stumpff function S(z), with the same near-zero
// Taylor expansion as stumpffC.
func stumpffS(z float64) float64 {
	if math.Abs(z) < 1e-4 {
		return 1.0/6.0 - z/120.0 + z*z/5040.0
	}
	if z > 0 {
		sz := math.Sqrt(z)
		return (sz - math.Sin(sz)) / math.Pow(sz, 3)
	}
	sz := math.Sqrt(-z)
	return (math.Sinh(sz) - sz) / math.Pow(sz, 3)
}
