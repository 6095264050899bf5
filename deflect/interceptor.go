package deflect

import "github.com/deoeph-sim/deoeph"

// InterceptorPayloadKind tags the three impulsive payload types of
// spec.md §4.9.
type InterceptorPayloadKind uint8

const (
	Kinetic InterceptorPayloadKind = iota + 1
	Nuclear
	NuclearSplit
)

// InterceptorPayload parameterizes one impulsive strike.
type InterceptorPayload struct {
	Kind InterceptorPayloadKind

	// Kinetic
	Beta           float64 // momentum-enhancement factor
	ImpactorMassKg float64
	VRelOverride   float64 // 0 means default to |v_asteroid|

	// Nuclear / NuclearSplit
	YieldKt    float64
	SplitRatio float64 // NuclearSplit only
}

// InterceptorState is the interceptor entity's lifecycle (spec.md §4.9).
type InterceptorState uint8

const (
	InFlight InterceptorState = iota + 1
	Arrived
)

const defaultFlightTime = 90 * deoeph.SecondsPerDay

// Interceptor is one launched payload in transit to an asteroid.
type Interceptor struct {
	Target      string
	Payload     InterceptorPayload
	Direction   *deoeph.Vector2 // nil means default to -v̂ of the target at impact
	LaunchPos   deoeph.Vector2
	LaunchTime  float64
	ArrivalTime float64
	State       InterceptorState

	// Dispersion models guidance error on the achieved delta-v; nil means a
	// perfect (noiseless) intercept.
	Dispersion *Dispersion
}

// NewInterceptor launches an interceptor at launchTime from earthPos
// (spec.md §4.9: "capture current Earth position as launch point"). A
// non-positive flightTime falls back to the 90-day default.
func NewInterceptor(target string, payload InterceptorPayload, direction *deoeph.Vector2, flightTime, launchTime float64, earthPos deoeph.Vector2) *Interceptor {
	if flightTime <= 0 {
		flightTime = defaultFlightTime
	}
	return &Interceptor{
		Target:      target,
		Payload:     payload,
		Direction:   direction,
		LaunchPos:   earthPos,
		LaunchTime:  launchTime,
		ArrivalTime: launchTime + flightTime,
		State:       InFlight,
	}
}

// ApplyResult is what an interceptor's arrival produces: either a velocity
// change to add directly to the target (Kinetic/Nuclear), or a split event
// for the splitting subsystem to consume (NuclearSplit).
type ApplyResult struct {
	DeltaV deoeph.Vector2
	Split  *SplitEvent
}

// Tick checks for arrival and, on hit, computes the payload's effect and
// transitions the interceptor to Arrived (the caller then destroys the
// entity, per spec.md §4.9). Returns applied=false if still en route or
// already arrived.
func (ic *Interceptor) Tick(simT float64, targetPos, targetVel deoeph.Vector2, targetMassKg float64) (applied bool, result ApplyResult) {
	if ic.State != InFlight || simT < ic.ArrivalTime {
		return false, ApplyResult{}
	}
	ic.State = Arrived

	dir := resolveImpactDirection(ic.Direction, targetVel)

	switch ic.Payload.Kind {
	case Kinetic:
		vRel := ic.Payload.VRelOverride
		if vRel <= 0 {
			vRel = targetVel.Length()
		}
		dvMag := ic.Payload.Beta * ic.Payload.ImpactorMassKg * vRel / targetMassKg
		dir, dvMag = ic.Dispersion.Apply(dir, dvMag)
		return true, ApplyResult{DeltaV: dir.Scale(dvMag)}

	case Nuclear:
		// Reference: 100 kt against 3e10 kg yields 2 cm/s.
		dvMag := 0.02 * (ic.Payload.YieldKt / 100) * (3e10 / targetMassKg)
		dir, dvMag = ic.Dispersion.Apply(dir, dvMag)
		return true, ApplyResult{DeltaV: dir.Scale(dvMag)}

	case NuclearSplit:
		ev := &SplitEvent{
			Target:     ic.Target,
			Position:   targetPos,
			Velocity:   targetVel,
			MassKg:     targetMassKg,
			YieldKt:    ic.Payload.YieldKt,
			SplitRatio: ic.Payload.SplitRatio,
			Direction:  dir,
		}
		return true, ApplyResult{Split: ev}
	}
	panic("cannot apply unknown interceptor payload kind")
}

func resolveImpactDirection(explicit *deoeph.Vector2, targetVel deoeph.Vector2) deoeph.Vector2 {
	if explicit != nil {
		if explicit.Length() > zeroVectorGuard {
			return explicit.Normalize()
		}
		return deoeph.Vector2{}
	}
	if targetVel.Length() > zeroVectorGuard {
		return targetVel.Normalize().Scale(-1)
	}
	return deoeph.Vector2{}
}
