// Package gravity computes N-body gravitational acceleration, the
// dominant-body at a point, and collisions, all from a single ephemeris
// pass (spec.md §4.4). The live and prediction integrators both go through
// this package so they share one singularity threshold and one collision
// rule (spec.md §9's "unified query" invariant).
package gravity

import (
	"math"

	"github.com/deoeph-sim/deoeph"
	"github.com/deoeph-sim/deoeph/ephemeris"
)

// Result bundles the three things a single gravity-source pass produces:
// acceleration, the dominant gravitating body (nil if the Sun dominates),
// and any collision detected at this position and time.
type Result struct {
	Acceleration deoeph.Vector2
	DominantBody *deoeph.CelestialBodyID
	Collision    *deoeph.CelestialBodyID
}

// Compute runs the unified per-timestep pass of spec.md §4.4 over a
// pre-fetched array of gravity sources: accumulate acceleration, track the
// highest-magnitude contributor as dominant, and report the first body
// whose danger zone contains pos. singularityThresholdSq MUST be the same
// value used everywhere else in the simulation (spec.md §4.4 critical
// invariant); pass deoeph.SingularityThresholdSq unless a config override
// is in effect.
func Compute(pos deoeph.Vector2, sources [9]ephemeris.SourceFull, singularityThresholdSq float64) Result {
	var acc deoeph.Vector2
	maxAccMag := 0.0
	dominant := deoeph.Sun
	var collision *deoeph.CelestialBodyID

	for _, src := range sources {
		delta := src.Pos.Sub(pos)
		rSq := delta.LengthSquared()
		r := math.Sqrt(rSq)

		if src.CollisionRadius > 0 && r < src.CollisionRadius && collision == nil {
			id := src.ID
			collision = &id
		}

		if src.GM > 0 && rSq > singularityThresholdSq {
			acc = acc.Add(delta.Scale(src.GM / (rSq * r)))
			mag := src.GM / rSq
			if mag > maxAccMag {
				maxAccMag = mag
				dominant = src.ID
			}
		}
	}

	res := Result{Acceleration: acc, Collision: collision}
	if dominant != deoeph.Sun {
		d := dominant
		res.DominantBody = &d
	}
	return res
}

// Acceleration computes only the gravitational acceleration at pos from a
// pre-fetched source array, without the dominant-body/collision bookkeeping
// of Compute. It MUST use the same singularity threshold as Compute for any
// given call site, or live and predicted trajectories will diverge near
// close approaches (spec.md §4.4).
func Acceleration(pos deoeph.Vector2, sources [9]ephemeris.SourceFull, singularityThresholdSq float64) deoeph.Vector2 {
	var acc deoeph.Vector2
	for _, src := range sources {
		if src.GM <= 0 {
			continue
		}
		delta := src.Pos.Sub(pos)
		rSq := delta.LengthSquared()
		if rSq > singularityThresholdSq {
			r := math.Sqrt(rSq)
			acc = acc.Add(delta.Scale(src.GM / (rSq * r)))
		}
	}
	return acc
}
