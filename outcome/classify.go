// Package outcome classifies a predicted (or completed) trajectory into one
// of four gameplay outcomes, from the asteroid's instantaneous heliocentric
// state and the prediction/collision results that accompany it (spec.md
// §4.8). It is grounded on the teacher's orbit.go — Energyξ, HNorm and
// Elements compute exactly this specific-energy/angular-momentum/elements
// triad, generalized here from the teacher's 3D Orbit type to this
// simulator's 2D Vector2 state.
package outcome

import (
	"math"

	"github.com/deoeph-sim/deoeph"
	"github.com/deoeph-sim/deoeph/integrate"
)

// Kind identifies which of the four classifications applies.
type Kind int

const (
	InProgress Kind = iota
	Collision
	Escape
	StableOrbit
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Collision:
		return "Collision"
	case Escape:
		return "Escape"
	case StableOrbit:
		return "StableOrbit"
	default:
		return "InProgress"
	}
}

// Result is the tagged classification outcome; only the fields relevant to
// Kind are populated.
type Result struct {
	Kind Kind

	// Collision
	Body          deoeph.CelestialBodyID
	TimeToImpact  float64
	ImpactVelocity float64

	// Escape
	VInfinity float64
	Direction deoeph.Vector2

	// StableOrbit
	SemiMajorAxis float64
	Eccentricity  float64
	Period        float64
	Perihelion    float64
	Aphelion      float64
}

// Input bundles the prediction results spec.md §4.8 classifies from: the
// asteroid's current heliocentric (pos, vel), the elapsed span since launch
// or the last deflection, and whatever the prediction/live integrator found.
type Input struct {
	Pos, Vel     deoeph.Vector2
	ElapsedSince float64

	PredictionOutcome integrate.PredictionOutcome
	CollisionBody     deoeph.CelestialBodyID
	ImpactVelocity    float64
	CollisionTime     float64
}

// minDefinedDistance is the radius below which (pos, vel) is considered
// physically undefined (spec.md §4.8).
const minDefinedDistance = 1e6

// Classify implements the ordered classification of spec.md §4.8: collision
// first, then escape (E > 0), then stable orbit (E < 0 and the asteroid has
// completed a meaningful fraction of its period), else in-progress. Returns
// false if pos is too close to the origin to be physically meaningful.
func Classify(in Input) (Result, bool) {
	r := in.Pos.Length()
	if r < minDefinedDistance {
		return Result{}, false
	}

	if in.PredictionOutcome == integrate.PredictionCollision {
		return Result{
			Kind:           Collision,
			Body:           in.CollisionBody,
			TimeToImpact:   in.CollisionTime,
			ImpactVelocity: in.ImpactVelocity,
		}, true
	}

	v := in.Vel.Length()
	energy := v*v/2 - deoeph.GMSun/r
	h := math.Abs(in.Pos.Cross(in.Vel))

	if energy > 0 {
		vInf := math.Sqrt(2 * energy)
		dir := deoeph.Vector2{}
		if v > 1e-9 {
			dir = in.Vel.Scale(1 / v)
		}
		return Result{Kind: Escape, VInfinity: vInf, Direction: dir}, true
	}

	a := -deoeph.GMSun / (2 * energy)
	e := math.Sqrt(math.Max(0, 1+2*energy*h*h/(deoeph.GMSun*deoeph.GMSun)))
	period := 2 * math.Pi * math.Sqrt(a*a*a/deoeph.GMSun)

	minElapsed := math.Min(0.1*period, 30*deoeph.SecondsPerDay)
	if in.ElapsedSince >= minElapsed {
		return Result{
			Kind:          StableOrbit,
			SemiMajorAxis: a,
			Eccentricity:  e,
			Period:        period,
			Perihelion:    a * (1 - e),
			Aphelion:      a * (1 + e),
		}, true
	}

	return Result{Kind: InProgress}, true
}
