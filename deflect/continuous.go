package deflect

import (
	"math"

	"github.com/deoeph-sim/deoeph"
)

// PayloadKind tags which continuous-thrust device a Deflector carries.
type PayloadKind uint8

const (
	IonBeamKind PayloadKind = iota + 1
	LaserAblationKind
	SolarSailKind
	GravityTractorKind
)

// ContinuousPayload computes the thrust acceleration magnitude (m/s^2) a
// device produces on its target, given the target's mass and heliocentric
// distance. Distance is ignored by devices that don't depend on it.
type ContinuousPayload interface {
	Kind() PayloadKind
	Magnitude(massKg, distanceAU float64) float64
}

// IonBeam is a constant-thrust electric-propulsion deflector, adapted from
// the teacher's EPThruster (thrusters.go): instead of looking thrust up from
// a voltage/power table, it is parameterized directly by thrust and Isp, the
// way thrusters.go's GenericEP lets a caller supply arbitrary values.
type IonBeam struct {
	ThrustN    float64
	IspS       float64
	FuelMassKg float64
}

func (p *IonBeam) Kind() PayloadKind { return IonBeamKind }

func (p *IonBeam) Magnitude(massKg, _ float64) float64 {
	return p.ThrustN / massKg
}

// GravityTractor hovers near the asteroid and tugs it by mutual gravity.
type GravityTractor struct {
	SpacecraftMassKg float64
	HoverDistanceM   float64
	MissionDuration  float64
}

func (p *GravityTractor) Kind() PayloadKind { return GravityTractorKind }

func (p *GravityTractor) Magnitude(_, _ float64) float64 {
	return deoeph.G * p.SpacecraftMassKg / (p.HoverDistanceM * p.HoverDistanceM)
}

// LaserAblation vaporizes surface material to produce thrust; its output
// falls off with the square of distance from the Sun and saturates inside
// 1 AU (spec.md §4.10).
type LaserAblation struct {
	PowerKw         float64
	MissionDuration float64
}

func (p *LaserAblation) Kind() PayloadKind { return LaserAblationKind }

func (p *LaserAblation) Magnitude(massKg, distanceAU float64) float64 {
	falloff := 1.0
	if distanceAU > 0 {
		falloff = math.Min(1, 1/(distanceAU*distanceAU))
	}
	thrustN := (p.PowerKw / 100) * 115 * falloff
	return thrustN / massKg
}

// solarPressureAt1AU is the gameplay-inflated (100x physical 9.08e-6 N/m^2)
// solar radiation pressure constant at 1 AU (spec.md §4.10).
const solarPressureAt1AU = 9.08e-4

// SolarSail pushes the asteroid with reflected sunlight.
type SolarSail struct {
	AreaM2          float64
	MissionDuration float64
}

func (p *SolarSail) Kind() PayloadKind { return SolarSailKind }

func (p *SolarSail) Magnitude(massKg, distanceAU float64) float64 {
	d := math.Max(distanceAU, 1e-6)
	thrustN := solarPressureAt1AU * p.AreaM2 * (1 / (d * d))
	return thrustN / massKg
}

// State is a Deflector's position in the mission state machine of
// spec.md §4.10.
type State uint8

const (
	EnRoute State = iota + 1
	Operating
	FuelDepleted
	Complete
	Cancelled
)

func (s State) String() string {
	switch s {
	case EnRoute:
		return "en-route"
	case Operating:
		return "operating"
	case FuelDepleted:
		return "fuel-depleted"
	case Complete:
		return "complete"
	case Cancelled:
		return "cancelled"
	}
	panic("cannot stringify unknown deflector state")
}

// Terminal reports whether s takes no further action.
func (s State) Terminal() bool {
	return s == FuelDepleted || s == Complete || s == Cancelled
}

const g0 = 9.80665 // standard gravity, m/s^2, for Isp->mdot conversion

// Deflector is one continuous-thrust mission tracked against a single
// target asteroid.
type Deflector struct {
	Target    string
	Payload   ContinuousPayload
	Direction ThrustDirection
	Custom    deoeph.Vector2

	State          State
	ArrivalTime    float64
	StartedAt      float64
	FuelConsumedKg float64
	AccumulatedDv  float64
}

// NewDeflector creates a Deflector in the EnRoute state.
func NewDeflector(target string, payload ContinuousPayload, dir ThrustDirection, custom deoeph.Vector2, arrivalTime float64) *Deflector {
	return &Deflector{
		Target:      target,
		Payload:     payload,
		Direction:   dir,
		Custom:      custom,
		State:       EnRoute,
		ArrivalTime: arrivalTime,
	}
}

// Advance runs the state machine for one check (spec.md §4.10). targetGone
// signals the target entity no longer exists. It returns true if a
// transition occurred that requires invalidating the target's integrator
// cell and prediction cache (entering Operating, or being cancelled).
func (d *Deflector) Advance(simT float64, targetGone bool) (invalidate bool) {
	if d.State.Terminal() {
		return false
	}

	if targetGone {
		d.State = Cancelled
		return true
	}

	switch d.State {
	case EnRoute:
		if simT >= d.ArrivalTime {
			d.State = Operating
			d.StartedAt = simT
			d.FuelConsumedKg = 0
			d.AccumulatedDv = 0
			return true
		}
	case Operating:
		switch d.Payload.Kind() {
		case IonBeamKind:
			ib := d.Payload.(*IonBeam)
			if d.FuelConsumedKg >= ib.FuelMassKg {
				d.State = FuelDepleted
			}
		case LaserAblationKind:
			if simT-d.StartedAt >= d.Payload.(*LaserAblation).MissionDuration {
				d.State = Complete
			}
		case SolarSailKind:
			if simT-d.StartedAt >= d.Payload.(*SolarSail).MissionDuration {
				d.State = Complete
			}
		case GravityTractorKind:
			if simT-d.StartedAt >= d.Payload.(*GravityTractor).MissionDuration {
				d.State = Complete
			}
		}
	}
	return false
}

// Accel returns this deflector's contribution to the target's acceleration
// at (pos, vel, mass, simT); zero unless it is Operating.
func (d *Deflector) Accel(pos, vel deoeph.Vector2, massKg, simT float64) deoeph.Vector2 {
	if d.State != Operating {
		return deoeph.Vector2{}
	}
	distanceAU := pos.Length() / deoeph.AU
	mag := d.Payload.Magnitude(massKg, distanceAU)
	dir := Resolve(d.Direction, pos, vel, d.Custom)
	return dir.Scale(mag)
}

// Accumulate updates fuel consumption and total delta-v after a live tick
// of length dt has actually integrated this deflector's contribution
// (spec.md §4.10). No-op unless Operating.
func (d *Deflector) Accumulate(pos, vel deoeph.Vector2, massKg, simT, dt float64) {
	if d.State != Operating {
		return
	}
	a := d.Accel(pos, vel, massKg, simT)
	d.AccumulatedDv += a.Length() * dt

	if ib, ok := d.Payload.(*IonBeam); ok {
		d.FuelConsumedKg += (ib.ThrustN / (ib.IspS * g0)) * dt
	}
}

// Aggregate sums the acceleration contribution of every Operating deflector
// targeting the same entity (spec.md §4.10's "total thrust acceleration").
func Aggregate(deflectors []*Deflector, target string, pos, vel deoeph.Vector2, massKg, simT float64) deoeph.Vector2 {
	var total deoeph.Vector2
	for _, d := range deflectors {
		if d.Target != target {
			continue
		}
		total = total.Add(d.Accel(pos, vel, massKg, simT))
	}
	return total
}
