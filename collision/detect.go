// Package collision turns a raw collision hit from the live integrator
// (spec.md §4.11) into the bookkeeping the rest of the simulation needs:
// an event record, a one-frame "don't re-integrate this" guard, automatic
// selection-clearing, and a pause request. It is grounded on the teacher's
// mission.go, which pauses the propagation loop and logs status via
// go-kit/log on terminal conditions (crash, out-of-fuel); here the terminal
// condition is a physical collision rather than a mission-end state.
package collision

import (
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/deoeph-sim/deoeph"
)

// Event records one asteroid-body impact (spec.md §4.11).
type Event struct {
	AsteroidName string
	BodyHit      deoeph.CelestialBodyID
	ImpactPos    deoeph.Vector2
	ImpactVel    deoeph.Vector2
	Time         float64
}

// Detector accumulates collision events within a single tick and decides
// whether the simulation should pause. It is reset once per tick by the
// scheduler (spec.md §5's FixedUpdate phase).
type Detector struct {
	logger kitlog.Logger
	events []Event
	paused bool
}

// NewDetector builds an empty Detector.
func NewDetector(logger kitlog.Logger) *Detector {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Detector{logger: logger}
}

// Report records a collision. Multiple collisions within one tick are all
// recorded, but the simulation pauses on the first (spec.md §4.11).
func (d *Detector) Report(asteroidName string, bodyHit deoeph.CelestialBodyID, pos, vel deoeph.Vector2, t float64) Event {
	ev := Event{AsteroidName: asteroidName, BodyHit: bodyHit, ImpactPos: pos, ImpactVel: vel, Time: t}
	firstThisTick := len(d.events) == 0
	d.events = append(d.events, ev)
	if firstThisTick {
		d.paused = true
	}
	level.Info(d.logger).Log(
		"component", "collision",
		"asteroid", asteroidName,
		"body", bodyHit.String(),
		"time", t,
		"msg", "collision detected",
	)
	return ev
}

// Events returns every collision reported since the last Reset.
func (d *Detector) Events() []Event {
	return d.events
}

// ShouldPause reports whether any collision was reported since the last
// Reset, per spec.md §4.11's "simulation pauses on the first" rule.
func (d *Detector) ShouldPause() bool {
	return d.paused
}

// ClearSelection returns the empty string and true if selected matches an
// asteroid that collided this tick, so the caller can clear its selection
// state (spec.md §4.11); otherwise it returns selected unchanged.
func (d *Detector) ClearSelection(selected string) (string, bool) {
	if selected == "" {
		return selected, false
	}
	for _, ev := range d.events {
		if ev.AsteroidName == selected {
			return "", true
		}
	}
	return selected, false
}

// Reset clears accumulated events and the pause flag, ready for the next
// tick.
func (d *Detector) Reset() {
	d.events = nil
	d.paused = false
}
