package integrate

import (
	"math"
	"time"

	"github.com/deoeph-sim/deoeph"
	"github.com/deoeph-sim/deoeph/gravity"
)

// Point is one stored sample of a predicted trajectory: position, sim time,
// and the gravitationally dominant body at that instant (nil means the Sun),
// so the renderer can color segments by dominance (spec.md §4.6).
type Point struct {
	Pos      deoeph.Vector2
	SimT     float64
	Dominant *deoeph.CelestialBodyID
}

// PredictionOutcome is why a prediction run stopped extending.
type PredictionOutcome int

const (
	PredictionNone PredictionOutcome = iota
	PredictionCollision
	PredictionEscape
	PredictionCrash
)

// PredictionCache is the incremental-extension state of spec.md §4.6: once
// an entity/config combination has been predicted up to some sim time, later
// calls resume from here instead of restarting from scratch.
type PredictionCache struct {
	InitialPos, InitialVel deoeph.Vector2
	ConfigHash             uint64

	Pos, Vel, Acc deoeph.Vector2
	Dt            float64
	SimT          float64
	StartSimT     float64
	StepCount     int

	Points []Point

	Terminal       bool
	Outcome        PredictionOutcome
	CollisionBody  deoeph.CelestialBodyID
	ImpactVelocity float64
}

func (c *PredictionCache) matches(pos, vel deoeph.Vector2, configHash uint64) bool {
	return c != nil && c.InitialPos == pos && c.InitialVel == vel && c.ConfigHash == configHash
}

// ExtendOptions bundles the per-call parameters that vary with caller state
// (mass, active deflectors, UI zoom/drag) so Extend's signature stays
// manageable.
type ExtendOptions struct {
	Mass           float64
	ConfigHash     uint64
	SimTNow        float64
	Thrust         ThrustFunc
	MinStepsBudget int
	MaxStepsBudget int
	TargetMicros   float64
	PointInterval  int
	// FastPath requests the interactive-drag profile: a harder step cap and
	// a coarser minimum step size, so the preview stays responsive while the
	// user is dragging (spec.md §4.6).
	FastPath bool
}

// Predictor runs the Velocity-Verlet prediction integrator of spec.md §4.6.
// It owns the CPU-budget EWMA, which must persist across calls to track
// real measured cost.
type Predictor struct {
	Eph                    EphemerisSource
	SingularityThresholdSq float64
	MinDt, MaxDt, Eps      float64
	InitialDt              float64
	HorizonSeconds         float64

	stepCostEWMA float64 // microseconds/step; 0 until first measurement
}

const (
	predictionEscapeDistance = 100 * deoeph.AU
	predictionCrashDistance  = 1e9 // meters
	fastPathStepCap          = 1000
	fastPathMinDtFactor      = 10
)

// Extend resumes cache (or starts a fresh one, if cache is nil or the
// entity's initial state/config no longer matches) and runs up to a
// CPU-budgeted number of Velocity-Verlet steps, appending trajectory points
// and stopping early on collision, escape, or crash. A matching cache that is
// already terminal is only pruned and returned, with no new steps.
func (p *Predictor) Extend(cache *PredictionCache, pos, vel deoeph.Vector2, opts ExtendOptions) *PredictionCache {
	if !cache.matches(pos, vel, opts.ConfigHash) {
		cache = &PredictionCache{
			InitialPos: pos, InitialVel: vel, ConfigHash: opts.ConfigHash,
			Pos: pos, Vel: vel,
			SimT: opts.SimTNow, StartSimT: opts.SimTNow,
			Dt: p.InitialDt,
		}
		cache.Acc = p.accel(cache.SimT, cache.Pos, cache.Vel, opts.Mass, opts.Thrust)
	}
	if cache.Terminal {
		p.prune(cache, opts.SimTNow)
		return cache
	}

	minDt := p.MinDt
	budgetMax := opts.MaxStepsBudget
	if opts.FastPath {
		minDt *= fastPathMinDtFactor
		if budgetMax > fastPathStepCap {
			budgetMax = fastPathStepCap
		}
	}
	budget := p.budgetSteps(opts.MinStepsBudget, budgetMax, opts.TargetMicros)

	pointInterval := opts.PointInterval
	if pointInterval < 1 {
		pointInterval = 1
	}

	start := time.Now()
	stepsRun := 0

	for stepsRun < budget {
		if cache.SimT-cache.StartSimT >= p.HorizonSeconds {
			break
		}

		dt := clamp(cache.Dt, minDt, p.MaxDt)
		acc := cache.Acc
		posNew := cache.Pos.Add(cache.Vel.Scale(dt)).Add(acc.Scale(0.5 * dt * dt))
		tNew := cache.SimT + dt

		sources := p.Eph.GravitySourcesFull(tNew)
		grav := gravity.Compute(posNew, sources, p.SingularityThresholdSq)
		accNew := grav.Acceleration
		velMid := cache.Vel.Add(acc.Scale(dt))
		if opts.Thrust != nil {
			accNew = accNew.Add(opts.Thrust(posNew, velMid, opts.Mass, tNew))
		}
		velNew := cache.Vel.Add(acc.Add(accNew).Scale(0.5 * dt))

		cache.Pos, cache.Vel, cache.Acc = posNew, velNew, accNew
		cache.Dt = adaptiveVerletStep(acc, accNew, dt, minDt, p.MaxDt, p.Eps)
		cache.SimT = tNew
		cache.StepCount++
		stepsRun++

		rSq := posNew.LengthSquared()
		switch {
		case grav.Collision != nil:
			cache.Terminal = true
			cache.Outcome = PredictionCollision
			cache.CollisionBody = *grav.Collision
			cache.ImpactVelocity = velNew.Length()
			p.storePoint(cache, grav.DominantBody)
			stepsRun = budget // stop the loop
		case rSq > predictionEscapeDistance*predictionEscapeDistance:
			cache.Terminal = true
			cache.Outcome = PredictionEscape
			p.storePoint(cache, grav.DominantBody)
			stepsRun = budget
		case rSq < predictionCrashDistance*predictionCrashDistance:
			cache.Terminal = true
			cache.Outcome = PredictionCrash
			p.storePoint(cache, grav.DominantBody)
			stepsRun = budget
		case cache.StepCount%pointInterval == 0:
			p.storePoint(cache, grav.DominantBody)
		}
	}

	if stepsRun > 0 {
		elapsedMicros := float64(time.Since(start).Microseconds())
		costPerStep := elapsedMicros / float64(stepsRun)
		if p.stepCostEWMA <= 0 {
			p.stepCostEWMA = costPerStep
		} else {
			p.stepCostEWMA = 0.2*costPerStep + 0.8*p.stepCostEWMA
		}
	}

	p.prune(cache, opts.SimTNow)
	return cache
}

func (p *Predictor) accel(simT float64, pos, vel deoeph.Vector2, mass float64, thrust ThrustFunc) deoeph.Vector2 {
	sources := p.Eph.GravitySourcesFull(simT)
	a := gravity.Acceleration(pos, sources, p.SingularityThresholdSq)
	if thrust != nil {
		a = a.Add(thrust(pos, vel, mass, simT))
	}
	return a
}

// budgetSteps implements spec.md §4.6's CPU-budget adaptation: next budget =
// clamp(target_us/cost, [min, max]). Before any measurement exists, it
// assumes the conservative minimum budget will cost exactly the target.
func (p *Predictor) budgetSteps(minSteps, maxSteps int, targetMicros float64) int {
	if maxSteps < minSteps {
		maxSteps = minSteps
	}
	cost := p.stepCostEWMA
	if cost <= 0 {
		return minSteps
	}
	budget := int(targetMicros / cost)
	if budget < minSteps {
		budget = minSteps
	}
	if budget > maxSteps {
		budget = maxSteps
	}
	return budget
}

// adaptiveVerletStep scales dt toward a target local error eps by comparing
// |acc_new - acc|*dt^2 against eps*|acc_new| (spec.md §4.6).
func adaptiveVerletStep(acc, accNew deoeph.Vector2, dt, minDt, maxDt, eps float64) float64 {
	errEstimate := accNew.Sub(acc).Length() * dt * dt
	tolerance := eps * math.Max(accNew.Length(), 1e-12)
	if errEstimate <= 0 {
		return clamp(dt*1.5, minDt, maxDt)
	}
	factor := math.Sqrt(tolerance / errEstimate)
	factor = clamp(factor, 0.2, 5)
	return clamp(dt*factor, minDt, maxDt)
}

func (p *Predictor) storePoint(cache *PredictionCache, dominant *deoeph.CelestialBodyID) {
	cache.Points = append(cache.Points, Point{Pos: cache.Pos, SimT: cache.SimT, Dominant: dominant})
}

// prune drops points older than simTNow - 1 day, per spec.md §4.6.
func (p *Predictor) prune(cache *PredictionCache, simTNow float64) {
	cutoff := simTNow - deoeph.SecondsPerDay
	i := 0
	for i < len(cache.Points) && cache.Points[i].SimT < cutoff {
		i++
	}
	if i > 0 {
		cache.Points = cache.Points[i:]
	}
}
