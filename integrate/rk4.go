// Package integrate holds the two adaptive integrators that drive the
// simulation: Live (C6, wall-clock-synchronized fixed ticks) and Predict
// (C7, budget-bounded trajectory display). Both are built on the same
// 4-wide-state RK4 core, adapted from the teacher's generic
// src/integrator.Integrable/RK4 (GetState/SetState/Stop/Func) into a
// fixed-shape (pos, vel) stepper with adaptive step-doubling error control,
// since this simulator always integrates exactly one 2D position/velocity
// pair per cell rather than an arbitrary state vector.
package integrate

import (
	"math"

	"github.com/deoeph-sim/deoeph"
)

// state4 packs a (pos, vel) pair as the 4-component vector the RK4 stages
// operate on.
type state4 struct {
	pos, vel deoeph.Vector2
}

func (s state4) add(o state4) state4 {
	return state4{s.pos.Add(o.pos), s.vel.Add(o.vel)}
}

func (s state4) scale(k float64) state4 {
	return state4{s.pos.Scale(k), s.vel.Scale(k)}
}

func (s state4) norm() float64 {
	return math.Hypot(s.pos.Length(), s.vel.Length())
}

// DerivFunc returns the time-derivative of (pos, vel) — i.e. (vel, acc) —
// at relative time dt past the integration's reference time.
type DerivFunc func(relT float64, pos, vel deoeph.Vector2) (accel deoeph.Vector2)

func derivState(relT float64, s state4, f DerivFunc) state4 {
	return state4{pos: s.vel, vel: f(relT, s.pos, s.vel)}
}

// rk4Step advances state s over [0, dt] with classical 4th-order
// Runge-Kutta, evaluating f at relative times 0, dt/2, dt/2, dt (the "inner-
// stage offsets" of spec.md §4.5).
func rk4Step(s state4, dt float64, f DerivFunc) state4 {
	k1 := derivState(0, s, f)
	k2 := derivState(dt/2, s.add(k1.scale(dt/2)), f)
	k3 := derivState(dt/2, s.add(k2.scale(dt/2)), f)
	k4 := derivState(dt, s.add(k3.scale(dt)), f)

	sum := k1.add(k2.scale(2)).add(k3.scale(2)).add(k4)
	return s.add(sum.scale(dt / 6))
}

// adaptiveRK4Step takes one adaptive RK4 step via Richardson step-doubling:
// a full step of size dt is compared against two half-steps, giving an
// O(dt^5) local error estimate at O(dt^4) per-stage cost. It returns the
// more accurate (two-half-steps) result, the step size actually used, and
// the step size recommended for next time, clamped to [minDt, maxDt].
//
// If the estimated error exceeds eps·max(|pos|, 1), dt is halved and retried (bounded by
// maxRejections) rather than accepting an out-of-tolerance step.
func adaptiveRK4Step(s state4, dt, minDt, maxDt, eps float64, f DerivFunc) (next state4, dtUsed, dtNext float64) {
	const maxRejections = 12
	for attempt := 0; attempt < maxRejections; attempt++ {
		full := rk4Step(s, dt, f)
		half1 := rk4Step(s, dt/2, f)
		half2 := rk4Step(half1, dt/2, func(relT float64, pos, vel deoeph.Vector2) deoeph.Vector2 {
			return f(dt/2+relT, pos, vel)
		})

		errEstimate := half2.pos.Sub(full.pos).Length()
		tolerance := eps * math.Max(half2.pos.Length(), 1)

		if errEstimate <= tolerance || dt <= minDt {
			// Standard RK4 step-doubling safety factor, clamped so a single
			// lucky step can't blow up the next one.
			factor := 1.5
			if errEstimate > 0 {
				factor = math.Pow(tolerance/errEstimate, 0.2) * 0.9
				factor = math.Max(0.2, math.Min(factor, 5))
			}
			dtNext = clamp(dt*factor, minDt, maxDt)
			return half2, dt, dtNext
		}
		dt = math.Max(dt/2, minDt)
	}
	// Exhausted rejections: accept the smallest step tried rather than
	// stalling the whole integration.
	full := rk4Step(s, dt, f)
	return full, dt, math.Max(dt, minDt)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
