// Package ephemeris provides the binary-table ephemeris format (Table) and
// the Service that blends it with analytic Kepler orbits to answer position,
// velocity, gravity-source and collision queries (spec.md §4.3/§4.4).
package ephemeris

import (
	"sync"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/deoeph-sim/deoeph"
)

// offset is a continuity-patch (Δpos, Δvel) applied to Kepler output past a
// table's end, so planet motion stays C⁰/C¹ continuous across the
// table/Kepler boundary (spec.md §4.3).
type offset struct {
	dPos, dVel deoeph.Vector2
}

// Service is the registry of celestial bodies and their (optional) tables.
// It is immutable after construction except for its continuity-offset
// cache, which is write-once per body and guarded by a reader/writer lock
// so concurrent readers never block each other (spec.md §5).
type Service struct {
	tables map[deoeph.CelestialBodyID]*Table
	logger kitlog.Logger

	offsetMu sync.RWMutex
	offsets  map[deoeph.CelestialBodyID]offset

	loggedOnce   map[deoeph.CelestialBodyID]bool
	loggedOnceMu sync.Mutex

	collisionMultiplier    float64
	sunCollisionMultiplier float64
}

// NewService builds a Service with no tables loaded; LoadTable attaches
// tables to it. collisionMultiplier/sunCollisionMultiplier are the gameplay
// danger-zone scales from config.Config (defaults 50 and 2).
func NewService(logger kitlog.Logger, collisionMultiplier, sunCollisionMultiplier float64) *Service {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Service{
		tables:                 make(map[deoeph.CelestialBodyID]*Table),
		logger:                 logger,
		offsets:                make(map[deoeph.CelestialBodyID]offset),
		loggedOnce:             make(map[deoeph.CelestialBodyID]bool),
		collisionMultiplier:    collisionMultiplier,
		sunCollisionMultiplier: sunCollisionMultiplier,
	}
}

// LoadTable attaches a decoded table to a body. A body-ID mismatch between
// the caller's id and the table's own BodyID is a hard error (spec.md §6).
func (s *Service) LoadTable(id deoeph.CelestialBodyID, t *Table) error {
	want, ok := id.TableID()
	if !ok || t.BodyID != want {
		return deoeph.ErrBodyIDMismatch
	}
	s.tables[id] = t
	return nil
}

func (s *Service) logOnce(id deoeph.CelestialBodyID, msg string) {
	s.loggedOnceMu.Lock()
	defer s.loggedOnceMu.Unlock()
	if s.loggedOnce[id] {
		return
	}
	s.loggedOnce[id] = true
	level.Warn(s.logger).Log("component", "ephemeris", "body", id.String(), "msg", msg)
}

// kepler returns the raw (unpatched) Kepler position/velocity for a body at
// time t: heliocentric for planets, parent-relative + parent heliocentric
// for moons.
func (s *Service) kepler(id deoeph.CelestialBodyID, t float64) (deoeph.Vector2, deoeph.Vector2) {
	data := deoeph.BodyRegistry[id]
	if data.Orbit == nil {
		return deoeph.Vector2{}, deoeph.Vector2{}
	}
	pos, vel := data.Orbit.PositionVelocity(t)
	if parent, ok := id.Parent(); ok {
		// A moon's heliocentric position is its parent's heliocentric
		// position plus its parent-relative local position (spec.md §3).
		parentPos, parentVel := s.PositionVelocity(parent, t)
		pos = pos.Add(parentPos)
		vel = vel.Add(parentVel)
	}
	return pos, vel
}

// continuityOffset returns the cached (Δpos, Δvel) patch for a planet's
// table, computing and caching it on first use: offset = table(end) -
// kepler(end). Moons never use this (spec.md §4.3): a moon's heliocentric
// position depends on its parent's *current* position, not the parent's
// position at the moon's own table end, so a fixed offset would not stay
// continuous.
func (s *Service) continuityOffset(id deoeph.CelestialBodyID, tbl *Table) offset {
	s.offsetMu.RLock()
	if o, ok := s.offsets[id]; ok {
		s.offsetMu.RUnlock()
		return o
	}
	s.offsetMu.RUnlock()

	s.offsetMu.Lock()
	defer s.offsetMu.Unlock()
	if o, ok := s.offsets[id]; ok {
		return o
	}
	end := tbl.End()
	tablePos, tableVel, err := tbl.Sample(end)
	if err != nil {
		// Should not happen: end is by construction in range.
		return offset{}
	}
	keplerPos, keplerVel := s.kepler(id, end)
	o := offset{dPos: tablePos.Sub(keplerPos), dVel: tableVel.Sub(keplerVel)}
	s.offsets[id] = o
	return o
}

// PositionVelocity implements the sampling strategy of spec.md §4.3:
// table-preferred, Kepler fallback with continuity patch for planets past
// their table's end, pure Kepler for moons and for any time before a
// table's start.
func (s *Service) PositionVelocity(id deoeph.CelestialBodyID, t float64) (deoeph.Vector2, deoeph.Vector2) {
	if id == deoeph.Sun {
		return deoeph.Vector2{}, deoeph.Vector2{}
	}

	tbl, hasTable := s.tables[id]
	if hasTable {
		if tbl.InRange(t) {
			pos, vel, err := tbl.Sample(t)
			if err == nil {
				return pos, vel
			}
			s.logOnce(id, "table sample failed, falling back to kepler")
		} else if t > tbl.End() && !id.IsMoon() {
			pos, vel := s.kepler(id, t)
			o := s.continuityOffset(id, tbl)
			return pos.Add(o.dPos), vel.Add(o.dVel)
		}
	}
	return s.kepler(id, t)
}

// PositionByID returns a body's position at time t, or false if the body is
// unknown to this service.
func (s *Service) PositionByID(id deoeph.CelestialBodyID, t float64) (deoeph.Vector2, bool) {
	if _, known := deoeph.BodyRegistry[id]; !known && id != deoeph.Sun {
		return deoeph.Vector2{}, false
	}
	pos, _ := s.PositionVelocity(id, t)
	return pos, true
}

// VelocityByID returns a body's velocity at time t, or false if the body is
// unknown to this service.
func (s *Service) VelocityByID(id deoeph.CelestialBodyID, t float64) (deoeph.Vector2, bool) {
	if _, known := deoeph.BodyRegistry[id]; !known && id != deoeph.Sun {
		return deoeph.Vector2{}, false
	}
	_, vel := s.PositionVelocity(id, t)
	return vel, true
}

// SourceFull is the per-query bundle of (id, pos, GM, collision radius)
// returned for each of the 9 gravitating bodies (spec.md §3/§9): building
// these from a single ephemeris pass is the "unified query" that keeps
// gravity and collision checks evaluated from one timestamp.
type SourceFull struct {
	ID              deoeph.CelestialBodyID
	Pos             deoeph.Vector2
	GM              float64
	CollisionRadius float64
}

// GravitySourcesFull returns exactly 9 gravity sources (Sun + 8 planets;
// moons do not gravitate asteroids in this model) for time t, built in a
// single pass (spec.md §4.4). If a body's position lookup fails, its GM and
// collision radius are both set to 0 (excluded this tick) and the failure
// is logged once per body per run (spec.md §7 PositionLookupFailed).
func (s *Service) GravitySourcesFull(t float64) [9]SourceFull {
	var out [9]SourceFull

	sunData := deoeph.BodyRegistry[deoeph.Sun]
	out[0] = SourceFull{
		ID:              deoeph.Sun,
		Pos:             deoeph.Vector2{},
		GM:              sunData.GM(),
		CollisionRadius: sunData.Radius * s.sunCollisionMultiplier,
	}

	for i, id := range deoeph.Planets {
		data, ok := deoeph.BodyRegistry[id]
		if !ok {
			s.logOnce(id, "position lookup failed: unknown body")
			out[i+1] = SourceFull{ID: id}
			continue
		}
		pos, _ := s.PositionVelocity(id, t)
		out[i+1] = SourceFull{
			ID:              id,
			Pos:             pos,
			GM:              data.GM(),
			CollisionRadius: data.Radius * s.collisionMultiplier,
		}
	}
	return out
}

// CheckCollision returns the first body, in GravitySourcesFull order (Sun,
// then planets), whose collision boundary contains pos at time t, and
// whether one was found.
// Moons never collide (decorative only, spec.md §4.3).
func (s *Service) CheckCollision(pos deoeph.Vector2, t float64) (deoeph.CelestialBodyID, bool) {
	sources := s.GravitySourcesFull(t)
	for _, src := range sources {
		if src.CollisionRadius <= 0 {
			continue
		}
		if src.Pos.Sub(pos).Length() < src.CollisionRadius {
			return src.ID, true
		}
	}
	return 0, false
}
