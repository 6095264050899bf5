package deflect

import (
	"math"

	"github.com/deoeph-sim/deoeph"
)

// SplitEvent carries the data a NuclearSplit interceptor hands off to the
// splitting subsystem (spec.md §4.9.1).
type SplitEvent struct {
	Target     string
	Position   deoeph.Vector2
	Velocity   deoeph.Vector2
	MassKg     float64
	YieldKt    float64
	SplitRatio float64 // fraction of mass kept by fragment 1
	Direction  deoeph.Vector2
}

// Fragment is one of the two bodies produced by a split.
type Fragment struct {
	Pos, Vel deoeph.Vector2
	MassKg   float64
}

// fragmentOffsetM is how far each fragment is displaced along the
// separation axis to avoid spawning at a coincident position (spec.md
// §4.9.1).
const fragmentOffsetM = 1000

// separationSpeedScale tunes how fast fragments fly apart for a given
// yield and mass; spec.md §4.9.1 leaves the exact v_sep formula open
// ("f(yield, mass)"), so this scales with yield^0.5 (energy release) and
// inversely with mass^(1/3) (surface-area-like spread), the same shape as
// a blast-fragmentation model.
const separationSpeedScale = 50.0

func separationSpeed(yieldKt, massKg float64) float64 {
	return separationSpeedScale * math.Sqrt(math.Max(yieldKt, 0)) / math.Cbrt(math.Max(massKg, 1))
}

// Split implements spec.md §4.9.1: the separation axis is perpendicular to
// the deflection direction, masses split by ev.SplitRatio, and momentum is
// conserved between the two fragments.
func Split(ev SplitEvent) (Fragment, Fragment) {
	r := ev.SplitRatio
	if r <= 0 || r >= 1 {
		r = 0.5
	}

	sepAxis := ev.Direction.Rotate90()
	if sepAxis.Length() < zeroVectorGuard {
		sepAxis = deoeph.Vector2{X: 1, Y: 0}
	} else {
		sepAxis = sepAxis.Normalize()
	}

	vSep := separationSpeed(ev.YieldKt, ev.MassKg)

	m1 := ev.MassKg * r
	m2 := ev.MassKg * (1 - r)

	v1 := ev.Velocity.Add(sepAxis.Scale(vSep * (m2 / ev.MassKg)))
	v2 := ev.Velocity.Sub(sepAxis.Scale(vSep * (m1 / ev.MassKg)))

	p1 := ev.Position.Add(sepAxis.Scale(fragmentOffsetM))
	p2 := ev.Position.Sub(sepAxis.Scale(fragmentOffsetM))

	return Fragment{Pos: p1, Vel: v1, MassKg: m1}, Fragment{Pos: p2, Vel: v2, MassKg: m2}
}
