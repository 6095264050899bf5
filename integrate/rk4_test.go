package integrate

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/deoeph-sim/deoeph"
)

// twoBodyDeriv is a DerivFunc for pure two-body gravity around the Sun,
// used to check the RK4 core against a known-conserved quantity.
func twoBodyDeriv(_ float64, pos, _ deoeph.Vector2) deoeph.Vector2 {
	r := pos.Length()
	return pos.Scale(-deoeph.GMSun / (r * r * r))
}

func TestRK4StepConservesCircularOrbitRadius(t *testing.T) {
	r0 := deoeph.AU
	v0 := math.Sqrt(deoeph.GMSun / r0)
	s := state4{pos: deoeph.Vector2{X: r0, Y: 0}, vel: deoeph.Vector2{X: 0, Y: v0}}

	dt := 3600.0
	for i := 0; i < 100; i++ {
		s = rk4Step(s, dt, twoBodyDeriv)
	}

	r := s.pos.Length()
	if !floats.EqualWithinRel(r, r0, 1e-6) {
		t.Fatalf("circular orbit radius drifted: start %e, after 100 steps %e", r0, r)
	}
}

func TestAdaptiveRK4StepRespectsTolerance(t *testing.T) {
	r0 := deoeph.AU
	v0 := math.Sqrt(deoeph.GMSun / r0)
	s := state4{pos: deoeph.Vector2{X: r0, Y: 0}, vel: deoeph.Vector2{X: 0, Y: v0}}

	next, dtUsed, dtNext := adaptiveRK4Step(s, deoeph.SecondsPerDay, 1, 10*deoeph.SecondsPerDay, 1e-9, twoBodyDeriv)

	if dtUsed <= 0 {
		t.Fatalf("dtUsed = %v, want > 0", dtUsed)
	}
	if dtNext < 1 || dtNext > 10*deoeph.SecondsPerDay {
		t.Fatalf("dtNext = %v, want within [minDt, maxDt]", dtNext)
	}
	if next.pos.Length() <= 0 {
		t.Fatal("adaptiveRK4Step produced a degenerate position")
	}
}

func TestAdaptiveRK4StepShrinksOnTightTolerance(t *testing.T) {
	r0 := deoeph.AU
	v0 := math.Sqrt(deoeph.GMSun / r0)
	s := state4{pos: deoeph.Vector2{X: r0, Y: 0}, vel: deoeph.Vector2{X: 0, Y: v0}}

	_, dtUsed, _ := adaptiveRK4Step(s, 30*deoeph.SecondsPerDay, 1, 30*deoeph.SecondsPerDay, 1e-12, twoBodyDeriv)
	if dtUsed >= 30*deoeph.SecondsPerDay {
		t.Fatalf("dtUsed = %v, want shrunk below the requested 30-day step under a tight tolerance", dtUsed)
	}
}
