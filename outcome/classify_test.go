package outcome

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/deoeph-sim/deoeph"
	"github.com/deoeph-sim/deoeph/integrate"
)

func TestClassifyCollision(t *testing.T) {
	in := Input{
		Pos:               deoeph.Vector2{X: deoeph.AU, Y: 0},
		Vel:               deoeph.Vector2{X: 0, Y: 30000},
		PredictionOutcome: integrate.PredictionCollision,
		CollisionBody:     deoeph.Earth,
		ImpactVelocity:    11000,
		CollisionTime:     12345,
	}
	res, ok := Classify(in)
	if !ok {
		t.Fatal("Classify returned false")
	}
	if res.Kind != Collision {
		t.Fatalf("Kind = %v, want Collision", res.Kind)
	}
	if res.Body != deoeph.Earth || res.ImpactVelocity != 11000 {
		t.Fatalf("unexpected collision fields: %+v", res)
	}
}

func TestClassifyEscape(t *testing.T) {
	// Well above circular velocity at 1 AU => positive specific energy.
	circularV := math.Sqrt(deoeph.GMSun / deoeph.AU)
	in := Input{
		Pos: deoeph.Vector2{X: deoeph.AU, Y: 0},
		Vel: deoeph.Vector2{X: 0, Y: circularV * 2},
	}
	res, ok := Classify(in)
	if !ok {
		t.Fatal("Classify returned false")
	}
	if res.Kind != Escape {
		t.Fatalf("Kind = %v, want Escape", res.Kind)
	}
	if res.VInfinity <= 0 {
		t.Fatalf("VInfinity = %v, want > 0", res.VInfinity)
	}
}

func TestClassifyStableOrbit(t *testing.T) {
	circularV := math.Sqrt(deoeph.GMSun / deoeph.AU)
	in := Input{
		Pos:          deoeph.Vector2{X: deoeph.AU, Y: 0},
		Vel:          deoeph.Vector2{X: 0, Y: circularV},
		ElapsedSince: 40 * deoeph.SecondsPerDay,
	}
	res, ok := Classify(in)
	if !ok {
		t.Fatal("Classify returned false")
	}
	if res.Kind != StableOrbit {
		t.Fatalf("Kind = %v, want StableOrbit", res.Kind)
	}
	if !floats.EqualWithinRel(res.SemiMajorAxis, deoeph.AU, 0.01) {
		t.Errorf("SemiMajorAxis = %v, want ~ %v", res.SemiMajorAxis, deoeph.AU)
	}
	if res.Eccentricity > 0.01 {
		t.Errorf("Eccentricity = %v, want ~0 for a circular orbit", res.Eccentricity)
	}
}

func TestClassifyInProgressBeforeMinElapsed(t *testing.T) {
	circularV := math.Sqrt(deoeph.GMSun / deoeph.AU)
	in := Input{
		Pos:          deoeph.Vector2{X: deoeph.AU, Y: 0},
		Vel:          deoeph.Vector2{X: 0, Y: circularV},
		ElapsedSince: 1 * deoeph.SecondsPerDay,
	}
	res, ok := Classify(in)
	if !ok {
		t.Fatal("Classify returned false")
	}
	if res.Kind != InProgress {
		t.Fatalf("Kind = %v, want InProgress", res.Kind)
	}
}

func TestClassifyUndefinedNearOrigin(t *testing.T) {
	in := Input{Pos: deoeph.Vector2{X: 100, Y: 0}, Vel: deoeph.Vector2{X: 1, Y: 1}}
	if _, ok := Classify(in); ok {
		t.Fatal("Classify should return false for |pos| < 1e6 m")
	}
}
