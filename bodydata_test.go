package deoeph

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestBodyRegistryHasAll18Bodies(t *testing.T) {
	for _, id := range allBodyIDs {
		if _, ok := BodyRegistry[id]; !ok {
			t.Fatalf("BodyRegistry missing entry for %s", id)
		}
	}
}

func TestBodyRegistryPeriodCheck(t *testing.T) {
	// T² / a³ = 4π² / GM_sun for every planet (Kepler's third law).
	for _, id := range Planets {
		data := BodyRegistry[id]
		a := data.Orbit.SemiMajorAxis
		period := data.Orbit.Period(GMSun)
		lhs := period * period / (a * a * a)
		rhs := 4 * math.Pi * math.Pi / GMSun
		if !floats.EqualWithinRel(lhs, rhs, 1e-9) {
			t.Fatalf("%s: T²/a³ = %e, want %e", id, lhs, rhs)
		}
	}
}

func TestHillSphereOrdering(t *testing.T) {
	// Jupiter, being far more massive and farther out, has a much larger
	// Hill sphere than Mercury.
	jupiter := BodyRegistry[Jupiter]
	mercury := BodyRegistry[Mercury]
	if jupiter.HillSphere <= mercury.HillSphere {
		t.Fatalf("Jupiter Hill sphere (%e) should exceed Mercury's (%e)", jupiter.HillSphere, mercury.HillSphere)
	}
}

func TestParseCelestialBodyIDRoundTrip(t *testing.T) {
	for _, id := range allBodyIDs {
		got, ok := ParseCelestialBodyID(id.String())
		if !ok || got != id {
			t.Fatalf("ParseCelestialBodyID(%q) = (%v, %v), want (%v, true)", id.String(), got, ok, id)
		}
	}
	if _, ok := ParseCelestialBodyID("Pluto"); ok {
		t.Fatal("ParseCelestialBodyID(\"Pluto\") should fail: not a tracked body")
	}
}

func TestMoonParentage(t *testing.T) {
	parent, ok := Moon.Parent()
	if !ok || parent != Earth {
		t.Fatalf("Moon.Parent() = (%v, %v), want (Earth, true)", parent, ok)
	}
	if _, ok := Earth.Parent(); ok {
		t.Fatal("Earth.Parent() should report false: Earth is heliocentric")
	}
	if !Titan.IsMoon() {
		t.Fatal("Titan.IsMoon() should be true")
	}
}
