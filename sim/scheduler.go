// Package sim wires every physics package into the frame-driven scheduler
// of spec.md §5: a FixedUpdate phase (live integrator + collision detector)
// and an Update phase (prediction integrator, budget-adapted and cadence-
// gated). It is grounded on the teacher's mission.go, whose Mission struct
// splits "the blocking physics loop" (Propagate, driven by ode.NewRK4(...).
// Solve()) from "the status/telemetry loop" (LogStatus, driven by a
// time.Ticker) — generalized here from a single spacecraft's one-shot
// propagation to many asteroids ticking every frame.
package sim

import (
	"hash/fnv"
	"math"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/deoeph-sim/deoeph"
	"github.com/deoeph-sim/deoeph/collision"
	"github.com/deoeph-sim/deoeph/config"
	"github.com/deoeph-sim/deoeph/deflect"
	"github.com/deoeph-sim/deoeph/ephemeris"
	"github.com/deoeph-sim/deoeph/gravity"
	"github.com/deoeph-sim/deoeph/integrate"
)

// Asteroid is one tracked body under active simulation.
type Asteroid struct {
	Name      string
	Mass      float64
	State     deoeph.BodyState
	Cell      *integrate.Cell
	Prediction *integrate.PredictionCache
	Collided  bool
	CreatedAt float64 // sim time of spawn or last deflection, for outcome's elapsed-since
}

// Scheduler is the outer driver described in spec.md §5. It owns every
// asteroid, every in-flight interceptor and active deflector, and the
// shared ephemeris/gravity/integrator/collision machinery they all read
// from and write into.
type Scheduler struct {
	Eph    *ephemeris.Service
	Live   *integrate.LiveIntegrator
	Pred   *integrate.Predictor
	Detect *collision.Detector
	Config config.Config
	Logger kitlog.Logger

	Clock deoeph.SimulationTime

	Asteroids    map[string]*Asteroid
	Interceptors []*deflect.Interceptor
	Deflectors   []*deflect.Deflector

	Selected string

	frameCounter int
}

// NewScheduler builds a Scheduler from an already-loaded ephemeris Service
// and a loaded Config.
func NewScheduler(eph *ephemeris.Service, cfg config.Config, logger kitlog.Logger) *Scheduler {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Scheduler{
		Eph: eph,
		Live: &integrate.LiveIntegrator{
			Eph:                    eph,
			SingularityThresholdSq: cfg.SingularityThresholdSq,
			MinDt:                  1e-3,
			Logger:                 logger,
		},
		Pred: &integrate.Predictor{
			Eph:                    eph,
			SingularityThresholdSq: cfg.SingularityThresholdSq,
			MinDt:                  1,
			MaxDt:                  6 * deoeph.SecondsPerDay,
			Eps:                    1e-6,
			InitialDt:              deoeph.SecondsPerDay,
			HorizonSeconds:         cfg.PredictionMaxTimeSeconds,
		},
		Detect: collision.NewDetector(logger),
		Config: cfg,
		Logger: logger,
		Clock:  deoeph.NewSimulationTime(0),
		Asteroids: make(map[string]*Asteroid),
	}
}

// AddAsteroid registers a new tracked asteroid at the current sim time.
func (s *Scheduler) AddAsteroid(name string, pos, vel deoeph.Vector2, mass float64) *Asteroid {
	a := &Asteroid{
		Name:      name,
		Mass:      mass,
		State:     deoeph.BodyState{Pos: pos, Vel: vel, Mass: mass},
		CreatedAt: s.Clock.Current,
	}
	s.Asteroids[name] = a
	return a
}

// LaunchInterceptor enqueues an impulsive interceptor, capturing Earth's
// current position as the launch point (spec.md §4.9).
func (s *Scheduler) LaunchInterceptor(target string, payload deflect.InterceptorPayload, direction *deoeph.Vector2, flightTime float64) *deflect.Interceptor {
	earthPos, _ := s.Eph.PositionByID(deoeph.Earth, s.Clock.Current)
	ic := deflect.NewInterceptor(target, payload, direction, flightTime, s.Clock.Current, earthPos)
	s.Interceptors = append(s.Interceptors, ic)
	return ic
}

// DeployDeflector enqueues a continuous-thrust deflector arriving at
// arrivalTime (spec.md §4.10).
func (s *Scheduler) DeployDeflector(target string, payload deflect.ContinuousPayload, dir deflect.ThrustDirection, custom deoeph.Vector2, arrivalTime float64) *deflect.Deflector {
	d := deflect.NewDeflector(target, payload, dir, custom, arrivalTime)
	s.Deflectors = append(s.Deflectors, d)
	return d
}

// thrustFor returns a ThrustFunc summing every Operating deflector and
// interceptor-free continuous contribution targeting name (spec.md §4.5's
// "continuous-thrust payloads targeting this entity").
func (s *Scheduler) thrustFor(name string) integrate.ThrustFunc {
	return func(pos, vel deoeph.Vector2, mass, t float64) deoeph.Vector2 {
		return deflect.Aggregate(s.Deflectors, name, pos, vel, mass, t)
	}
}

// thrustConfigHash summarizes every deflector targeting name, so a changed
// deflector roster or lifecycle state busts a cache keyed on it (spec.md
// §4.6's deflector_config_hash cache key). It does not need to be collision-
// free, only to change whenever thrustFor(name)'s output would.
func (s *Scheduler) thrustConfigHash(name string) uint64 {
	h := fnv.New64a()
	for _, d := range s.Deflectors {
		if d.Target != name {
			continue
		}
		h.Write([]byte{byte(d.State)})
	}
	return h.Sum64()
}

// FixedUpdate runs one physics tick: advance every live asteroid, apply any
// interceptor arrivals and deflector progress, and run collision detection
// inline (spec.md §5's FixedUpdate phase).
func (s *Scheduler) FixedUpdate(wallSeconds float64) {
	s.Detect.Reset()
	startTime := s.Clock.Current
	elapsed := s.Clock.Advance(wallSeconds)
	if elapsed == 0 {
		return // paused
	}

	for name, a := range s.Asteroids {
		if a.Collided {
			continue
		}
		if a.Cell == nil {
			a.Cell = integrate.NewCell(a.State.Pos, a.State.Vel, deoeph.SecondsPerDay/4)
		}

		result := s.Live.Tick(a.Cell, &a.State, startTime, wallSeconds, s.Clock.Scale, s.thrustFor(name))
		for _, d := range s.Deflectors {
			if d.Target != name {
				continue
			}
			d.Accumulate(a.State.Pos, a.State.Vel, a.Mass, s.Clock.Current, elapsed)
		}

		if result.Collided {
			a.Collided = true
			a.Cell = nil
			s.Detect.Report(name, result.CollisionBody, result.CollisionPos, result.CollisionVel, result.CollisionTime)
			if sel, cleared := s.Detect.ClearSelection(s.Selected); cleared {
				s.Selected = sel
			}
		}
	}

	s.applyInterceptors()
	s.applyDeflectorTransitions()

	if s.Detect.ShouldPause() {
		s.Clock.Paused = true
	}
}

// applyInterceptors checks every in-flight interceptor for arrival, applies
// its delta-v or emits a split, and discards the target's live cell and
// prediction cache so both recompute from the new state (spec.md §4.9).
func (s *Scheduler) applyInterceptors() {
	still := s.Interceptors[:0]
	for _, ic := range s.Interceptors {
		a, ok := s.Asteroids[ic.Target]
		if !ok || a.Collided {
			continue // target already gone; drop silently
		}
		applied, res := ic.Tick(s.Clock.Current, a.State.Pos, a.State.Vel, a.Mass)
		if !applied {
			still = append(still, ic)
			continue
		}
		if res.Split != nil {
			s.applySplit(*res.Split)
			delete(s.Asteroids, ic.Target)
			continue
		}
		a.State.Vel = a.State.Vel.Add(res.DeltaV)
		a.Cell = nil
		a.Prediction = nil
		a.CreatedAt = s.Clock.Current
	}
	s.Interceptors = still
}

// applySplit replaces the original asteroid with two fragments (spec.md
// §4.9.1).
func (s *Scheduler) applySplit(ev deflect.SplitEvent) {
	f1, f2 := deflect.Split(ev)
	s.AddAsteroid(ev.Target+"-a", f1.Pos, f1.Vel, f1.MassKg)
	s.AddAsteroid(ev.Target+"-b", f2.Pos, f2.Vel, f2.MassKg)
	level.Info(s.Logger).Log("component", "sim", "msg", "asteroid split", "target", ev.Target)
}

// applyDeflectorTransitions advances every continuous deflector's state
// machine, discarding the target's integrator cell whenever a transition
// requires it (spec.md §4.10).
func (s *Scheduler) applyDeflectorTransitions() {
	for _, d := range s.Deflectors {
		a, ok := s.Asteroids[d.Target]
		targetGone := !ok || a.Collided
		invalidate := d.Advance(s.Clock.Current, targetGone)
		if invalidate && ok {
			a.Cell = nil
			a.Prediction = nil
		}
	}
}

// Update runs the Update-phase prediction refresh for the currently
// selected asteroid, gated by the configured refresh cadence unless dirty
// is set (spec.md §5's Update phase / §4.6's incremental extension).
func (s *Scheduler) Update(zoom float64, dragging, dirty bool) {
	s.frameCounter++
	if s.Selected == "" {
		return
	}
	a, ok := s.Asteroids[s.Selected]
	if !ok || a.Collided {
		return
	}
	if !dirty && s.frameCounter%s.Config.PredictionUpdateIntervalFrames != 0 {
		return
	}

	base := float64(s.Config.PredictionPointInterval)
	if dragging {
		base = 4
	}
	pointInterval := int(base * math.Sqrt(zoom))
	if pointInterval < 1 {
		pointInterval = 1
	}

	minSteps, maxSteps := s.Config.PredictionMinStepsBudget, s.Config.PredictionMaxStepsBudget
	if dragging {
		maxSteps = 1000
	}

	a.Prediction = s.Pred.Extend(a.Prediction, a.State.Pos, a.State.Vel, integrate.ExtendOptions{
		Mass:           a.Mass,
		ConfigHash:     s.thrustConfigHash(s.Selected),
		SimTNow:        s.Clock.Current,
		Thrust:         s.thrustFor(s.Selected),
		MinStepsBudget: minSteps,
		MaxStepsBudget: maxSteps,
		TargetMicros:   s.Config.PredictionBudgetTargetMicros,
		PointInterval:  pointInterval,
		FastPath:       dragging,
	})
}

// GravitySourcesFull is a convenience pass-through so callers (renderer,
// cmd/simulate) can query the same unified gravity sources the integrators
// use, without reaching into Eph directly.
func (s *Scheduler) GravitySourcesFull(t float64) [9]ephemeris.SourceFull {
	return s.Eph.GravitySourcesFull(t)
}

// Acceleration exposes the unified gravity model for external callers
// (e.g. a renderer drawing a field overlay).
func (s *Scheduler) Acceleration(pos deoeph.Vector2, t float64) deoeph.Vector2 {
	sources := s.Eph.GravitySourcesFull(t)
	return gravity.Acceleration(pos, sources, s.Config.SingularityThresholdSq)
}
