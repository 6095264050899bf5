package deflect

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/deoeph-sim/deoeph"
)

// Dispersion models an interceptor's targeting error at arrival: real
// guidance cannot put the impactor exactly where aimed, so its achieved
// velocity-change direction and magnitude carry independent Gaussian noise.
// Grounded on the teacher's station.go, whose Station carries
// RangeNoise/RangeRateNoise *distmv.Normal for simulated ranging error —
// the same one-sigma-per-channel noise model, retargeted from ground-
// station measurement error to launch-guidance error.
type Dispersion struct {
	angleNoise     *distmv.Normal // radians, applied to the impact direction
	magnitudeNoise *distmv.Normal // fractional, applied to |DeltaV|
}

// NewDispersion builds a Dispersion with the given one-sigma angular error
// (radians) and one-sigma fractional magnitude error, seeded from seed.
func NewDispersion(sigmaAngle, sigmaMagnitudeFrac float64, seed int64) *Dispersion {
	src := rand.New(rand.NewSource(seed))

	angleNoise, ok := distmv.NewNormal([]float64{0}, mat.NewSymDense(1, []float64{sigmaAngle * sigmaAngle}), src)
	if !ok {
		panic("deflect: degenerate angular dispersion covariance")
	}
	magNoise, ok := distmv.NewNormal([]float64{0}, mat.NewSymDense(1, []float64{sigmaMagnitudeFrac * sigmaMagnitudeFrac}), src)
	if !ok {
		panic("deflect: degenerate magnitude dispersion covariance")
	}
	return &Dispersion{angleNoise: angleNoise, magnitudeNoise: magNoise}
}

// Apply perturbs dir/mag by one draw from the dispersion model.
func (d *Dispersion) Apply(dir deoeph.Vector2, mag float64) (deoeph.Vector2, float64) {
	if d == nil {
		return dir, mag
	}
	dTheta := d.angleNoise.Rand(nil)[0]
	dFrac := d.magnitudeNoise.Rand(nil)[0]

	sin, cos := math.Sincos(dTheta)
	rotated := deoeph.Vector2{
		X: dir.X*cos - dir.Y*sin,
		Y: dir.X*sin + dir.Y*cos,
	}
	return rotated, mag * (1 + dFrac)
}
