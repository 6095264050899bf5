package integrate

import (
	"math"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/deoeph-sim/deoeph"
	"github.com/deoeph-sim/deoeph/ephemeris"
	"github.com/deoeph-sim/deoeph/gravity"
)

// Cell is the per-asteroid integration state retained between ticks
// (spec.md §4.5): the live integrator's working (pos, vel, acc) plus the
// adaptive step size and the step size actually completed last time.
type Cell struct {
	Pos, Vel, Acc deoeph.Vector2
	Dt            float64
	DtLastDone    float64
}

// NewCell seeds a Cell from an asteroid's current state and a starting step
// size (typically a few minutes to hours of sim time).
func NewCell(pos, vel deoeph.Vector2, initialDt float64) *Cell {
	return &Cell{Pos: pos, Vel: vel, Dt: initialDt, DtLastDone: initialDt}
}

// EphemerisSource is the subset of ephemeris.Service the integrators need:
// a single per-timestep gravity-source fetch and a velocity lookup (used
// only by the live integrator's proximity cap, to get a body's relative
// velocity for the closing-speed estimate).
type EphemerisSource interface {
	GravitySourcesFull(t float64) [9]ephemeris.SourceFull
	VelocityByID(id deoeph.CelestialBodyID, t float64) (deoeph.Vector2, bool)
}

// ThrustFunc returns the additional acceleration a continuous-thrust
// deflector contributes to an asteroid at (pos, vel, mass, t) — the live
// integrator sums this into its gravity acceleration each stage (spec.md
// §4.5).
type ThrustFunc func(pos, vel deoeph.Vector2, mass, t float64) deoeph.Vector2

// LiveIntegrator advances a single asteroid's Cell across a wall-clock
// frame, in wall-clock-synchronized fixed ticks (spec.md §4.5). It shares
// its singularity threshold with the prediction integrator (spec.md §4.4).
type LiveIntegrator struct {
	Eph                     EphemerisSource
	SingularityThresholdSq  float64
	MinDt                   float64
	Logger                  kitlog.Logger
}

// TickResult reports what happened during one Tick call.
type TickResult struct {
	Collided       bool
	CollisionBody  deoeph.CelestialBodyID
	CollisionPos   deoeph.Vector2
	CollisionVel   deoeph.Vector2
	CollisionTime  float64
}

// Tick advances cell/state by wallSeconds of real time at the given
// sim-days-per-real-second scale, starting at startTime (seconds since
// J2000). On collision it stops early, leaves state as of the last
// successful step, and reports the hit; callers must then discard the cell
// (spec.md §4.11).
func (li *LiveIntegrator) Tick(cell *Cell, state *deoeph.BodyState, startTime, wallSeconds, scale float64, thrust ThrustFunc) TickResult {
	logger := li.Logger
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}

	targetDt := wallSeconds * scale * deoeph.SecondsPerDay
	elapsed := 0.0

	accel := func(simT float64) DerivFunc {
		return func(relT float64, pos, vel deoeph.Vector2) deoeph.Vector2 {
			t := simT + relT
			sources := li.Eph.GravitySourcesFull(t)
			a := gravity.Acceleration(pos, sources, li.SingularityThresholdSq)
			if thrust != nil {
				a = a.Add(thrust(pos, vel, state.Mass, t))
			}
			return a
		}
	}

	for elapsed < targetDt {
		simT := startTime + elapsed

		dtCap := li.proximityCap(cell, simT)
		dt := math.Min(cell.Dt, targetDt-elapsed)
		if dtCap < dt {
			dt = dtCap
		}
		if dt < li.MinDt {
			dt = li.MinDt
		}

		s := state4{pos: cell.Pos, vel: cell.Vel}
		next, dtUsed, dtNext := adaptiveRK4Step(s, dt, li.MinDt, cell.Dt*4, 1e-6, accel(simT))

		cell.Pos, cell.Vel = next.pos, next.vel
		cell.Acc = accel(simT)(0, cell.Pos, cell.Vel)
		cell.Dt = dtNext
		cell.DtLastDone = dtUsed
		elapsed += dtUsed

		simTAfter := startTime + elapsed
		sourcesAfter := li.Eph.GravitySourcesFull(simTAfter)
		result := gravity.Compute(cell.Pos, sourcesAfter, li.SingularityThresholdSq)
		if result.Collision != nil {
			state.Pos, state.Vel = cell.Pos, cell.Vel
			return TickResult{
				Collided:      true,
				CollisionBody: *result.Collision,
				CollisionPos:  cell.Pos,
				CollisionVel:  cell.Vel,
				CollisionTime: simTAfter,
			}
		}

		if dtUsed < 1e-10 {
			level.Warn(logger).Log("component", "integrate", "msg", "singular step, aborting tick", "dt", dtUsed)
			break
		}
	}

	state.Pos, state.Vel = cell.Pos, cell.Vel
	return TickResult{}
}

// proximityCap implements spec.md §4.5's close-approach safety: if the
// closest celestial body is within 3x its collision radius, cap dt so the
// asteroid cannot tunnel through the danger zone in one step.
func (li *LiveIntegrator) proximityCap(cell *Cell, simT float64) float64 {
	sources := li.Eph.GravitySourcesFull(simT)

	bestDist := math.Inf(1)
	var bestSource ephemeris.SourceFull
	found := false
	for _, src := range sources {
		if src.CollisionRadius <= 0 {
			continue
		}
		d := src.Pos.Sub(cell.Pos).Length()
		if d < bestDist {
			bestDist = d
			bestSource = src
			found = true
		}
	}
	if !found || bestDist >= 3*bestSource.CollisionRadius {
		return cell.Dt
	}

	bodyVel, _ := li.Eph.VelocityByID(bestSource.ID, simT)
	vRel := cell.Vel.Sub(bodyVel).Length()
	if vRel < 1e-6 {
		return cell.Dt
	}
	cap := 0.5 * (bestDist - bestSource.CollisionRadius) / vRel
	if cap < li.MinDt {
		cap = li.MinDt
	}
	if cap > cell.Dt {
		cap = cell.Dt
	}
	return cap
}
