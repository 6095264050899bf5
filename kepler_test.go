package deoeph

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestKeplerOrbitCircularPeriod(t *testing.T) {
	earth := BodyRegistry[Earth]
	period := earth.Orbit.Period(GMSun)
	wantDays := 365.25
	gotDays := period / SecondsPerDay
	if !floats.EqualWithinAbs(gotDays, wantDays, 2) {
		t.Fatalf("Earth orbital period = %.2f days, want ≈%.2f", gotDays, wantDays)
	}
}

func TestKeplerOrbitEnergyConservation(t *testing.T) {
	earth := BodyRegistry[Earth]
	// Specific orbital energy ξ = v²/2 - μ/r must stay constant (to
	// numerical precision) at any two points along the same orbit. μ is the
	// one the orbit's MeanMotion encodes (n²a³), which PositionVelocity uses.
	mu := earth.Orbit.MeanMotion * earth.Orbit.MeanMotion * math.Pow(earth.Orbit.SemiMajorAxis, 3)
	energyAt := func(tSeconds float64) float64 {
		pos, vel := earth.Orbit.PositionVelocity(tSeconds)
		return 0.5*vel.LengthSquared() - mu/pos.Length()
	}
	e0 := energyAt(0)
	e1 := energyAt(123456789)
	if !floats.EqualWithinRel(e0, e1, 1e-8) {
		t.Fatalf("specific energy drifted: ξ(0)=%v ξ(t)=%v", e0, e1)
	}
}

func TestKeplerOrbitKeplerEquationResidual(t *testing.T) {
	// For a range of mean anomalies and eccentricities, the returned
	// eccentric anomaly must satisfy E - e·sin(E) - M = 0 to 1e-8.
	for _, e := range []float64{0.0167, 0.25, 0.6, 0.9} {
		o := NewKeplerOrbitFromDegrees(AU, e, 0, 0, 1)
		for _, tDays := range []float64{0, 10, 100, 183, 364} {
			tSeconds := tDays * SecondsPerDay
			M := o.meanAnomaly(tSeconds)
			E := eccentricAnomaly(M, e)
			residual := E - e*math.Sin(E) - M
			if !floats.EqualWithinAbs(residual, 0, 1e-8) {
				t.Fatalf("e=%v t=%vd: |E - e·sin(E) - M| = %e, want <= 1e-8", e, tDays, residual)
			}
		}
	}
}

func TestKeplerOrbitMeanAnomalyWrapsToPositive(t *testing.T) {
	o := NewKeplerOrbitFromDegrees(AU, 0.1, 0, -10, 5000)
	M := o.meanAnomaly(0)
	if M < 0 || M >= 2*math.Pi {
		t.Fatalf("meanAnomaly(0) = %v, want in [0, 2π)", M)
	}
}
