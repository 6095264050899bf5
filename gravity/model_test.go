package gravity

import (
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/deoeph-sim/deoeph"
	"github.com/deoeph-sim/deoeph/ephemeris"
)

func sunOnlySources() [9]ephemeris.SourceFull {
	var sources [9]ephemeris.SourceFull
	sources[0] = ephemeris.SourceFull{ID: deoeph.Sun, Pos: deoeph.Vector2{}, GM: deoeph.GMSun, CollisionRadius: 1.4e9}
	return sources
}

func TestAccelerationMatchesSimpleAccumulation(t *testing.T) {
	sources := sunOnlySources()
	sources[1] = ephemeris.SourceFull{ID: deoeph.Earth, Pos: deoeph.Vector2{X: deoeph.AU, Y: 0}, GM: deoeph.BodyRegistry[deoeph.Earth].GM(), CollisionRadius: 1e8}

	pos := deoeph.Vector2{X: 0.5 * deoeph.AU, Y: 0.1 * deoeph.AU}
	got := Acceleration(pos, sources, deoeph.SingularityThresholdSq)

	var want deoeph.Vector2
	for _, src := range sources {
		if src.GM <= 0 {
			continue
		}
		delta := src.Pos.Sub(pos)
		r := delta.Length()
		if r*r <= deoeph.SingularityThresholdSq {
			continue
		}
		want = want.Add(delta.Scale(src.GM / (r * r * r)))
	}

	if !floats.EqualWithinAbs(got.X, want.X, 1e-9) || !floats.EqualWithinAbs(got.Y, want.Y, 1e-9) {
		t.Fatalf("Acceleration = %+v, want %+v (simple accumulation)", got, want)
	}
}

func TestComputeAndAccelerationAgree(t *testing.T) {
	sources := sunOnlySources()
	pos := deoeph.Vector2{X: deoeph.AU, Y: 0}

	res := Compute(pos, sources, deoeph.SingularityThresholdSq)
	acc := Acceleration(pos, sources, deoeph.SingularityThresholdSq)

	if res.Acceleration != acc {
		t.Fatalf("Compute().Acceleration = %+v, want %+v to match Acceleration()", res.Acceleration, acc)
	}
}

func TestComputeDetectsCollision(t *testing.T) {
	sources := sunOnlySources()
	sources[0].CollisionRadius = 2 * deoeph.BodyRegistry[deoeph.Sun].Radius

	res := Compute(deoeph.Vector2{X: deoeph.BodyRegistry[deoeph.Sun].Radius, Y: 0}, sources, deoeph.SingularityThresholdSq)
	if res.Collision == nil || *res.Collision != deoeph.Sun {
		t.Fatalf("Compute inside Sun's danger zone: Collision = %v, want &Sun", res.Collision)
	}
}

func TestComputeSingularityThresholdClampsAcceleration(t *testing.T) {
	sources := sunOnlySources()
	// Exactly at the Sun: below the singularity threshold, contribution
	// must be clamped to zero rather than diverging.
	res := Compute(deoeph.Vector2{}, sources, deoeph.SingularityThresholdSq)
	if res.Acceleration != (deoeph.Vector2{}) {
		t.Fatalf("Acceleration inside the singularity threshold = %+v, want zero", res.Acceleration)
	}
}

func TestComputeDominantBodyNilMeansSun(t *testing.T) {
	sources := sunOnlySources()
	res := Compute(deoeph.Vector2{X: deoeph.AU, Y: 0}, sources, deoeph.SingularityThresholdSq)
	if res.DominantBody != nil {
		t.Fatalf("DominantBody = %v, want nil (Sun dominates, the zero-value sentinel)", *res.DominantBody)
	}
}

func TestComputeDominantBodySwitchesNearPlanet(t *testing.T) {
	sources := sunOnlySources()
	earthData := deoeph.BodyRegistry[deoeph.Earth]
	sources[1] = ephemeris.SourceFull{ID: deoeph.Earth, Pos: deoeph.Vector2{X: deoeph.AU, Y: 0}, GM: earthData.GM(), CollisionRadius: earthData.Radius * 50}

	// Very close to Earth, Earth's gravity should dominate the Sun's.
	near := deoeph.Vector2{X: deoeph.AU - earthData.Radius*10, Y: 0}
	res := Compute(near, sources, deoeph.SingularityThresholdSq)
	if res.DominantBody == nil || *res.DominantBody != deoeph.Earth {
		t.Fatalf("DominantBody near Earth = %v, want &Earth", res.DominantBody)
	}
}
