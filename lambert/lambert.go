package lambert

import (
	"errors"
	"math"

	"github.com/deoeph-sim/deoeph"
)

// Branch selects which of the two geometric arcs connecting r1 and r2
// (spec.md §4.7) to solve for.
type Branch int

const (
	Short Branch = iota
	Long
)

var (
	// ErrDegenerateTransfer is returned for a near-180-degree transfer
	// angle, where the plane of the transfer orbit is undefined.
	ErrDegenerateTransfer = errors.New("lambert: degenerate transfer angle")
	// ErrSingularGeometry is returned when the universal-variable solver
	// converges to g ≈ 0, making velocity recovery singular.
	ErrSingularGeometry = errors.New("lambert: singular f/g recovery")
)

const (
	maxIterations = 50
	convergeFrac  = 1e-8
	degenerateEps = 1e-9
)

// Solution is the outcome of a converged Lambert solve.
type Solution struct {
	V1, V2        deoeph.Vector2
	SemiMajorAxis float64
}

// Solve implements the universal-variable Lambert solver of spec.md §4.7:
// bisection on the universal anomaly ψ, using the Stumpff functions C/S to
// stay numerically stable across elliptic and hyperbolic transfer arcs.
func Solve(r1, r2 deoeph.Vector2, tof, gm float64, branch Branch) (Solution, error) {
	rI := r1.Length()
	rF := r2.Length()
	cosDv := r1.Dot(r2) / (rI * rF)
	cosDv = math.Max(-1, math.Min(1, cosDv))

	if math.Abs(1+cosDv) < degenerateEps {
		return Solution{}, ErrDegenerateTransfer
	}

	// The 2D cross product's sign tells us whether r2 lies counterclockwise
	// or clockwise from r1; combined with the requested branch this fixes
	// the sign of A (spec.md §4.7).
	crossZ := r1.Cross(r2)
	dm := 1.0
	if crossZ < 0 {
		dm = -1.0
	}
	if branch == Long {
		dm = -dm
	}

	a := dm * math.Sqrt(rI*rF*(1+cosDv))

	chord := r2.Sub(r1).Length()
	s := (rI + rF + chord) / 2

	parabolicSign := 1.0
	if dm < 0 {
		parabolicSign = -1.0
	}
	tParabolic := math.Sqrt(2/gm) / 3 * (math.Pow(s, 1.5) - parabolicSign*math.Pow(s-chord, 1.5))

	var psiLow, psiHigh float64
	if tof < tParabolic {
		psiLow, psiHigh = -4*math.Pi*math.Pi, 0
	} else {
		psiLow, psiHigh = 0, 4*math.Pi*math.Pi
	}
	psi := (psiLow + psiHigh) / 2

	var y, c2, c3 float64
	for iter := 0; iter < maxIterations; iter++ {
		c2 = stumpffC(psi)
		c3 = stumpffS(psi)

		if math.Abs(c2) < 1e-12 {
			// C ~= 0: nudge the bound in the branch's direction and retry.
			if branch == Short {
				psiHigh = psi
			} else {
				psiLow = psi
			}
			psi = (psiLow + psiHigh) / 2
			continue
		}

		y = rI + rF + a*(psi*c3-1)/math.Sqrt(c2)
		if a > 0 && y < 0 {
			if branch == Short {
				psiHigh = psi
			} else {
				psiLow = psi
			}
			psi = (psiLow + psiHigh) / 2
			continue
		}

		chi := math.Sqrt(y / c2)
		tofCalc := (chi*chi*chi*c3 + a*math.Sqrt(y)) / math.Sqrt(gm)

		if math.Abs(tof-tofCalc) < convergeFrac*tof {
			f := 1 - y/rI
			gDot := 1 - y/rF
			g := a * math.Sqrt(y/gm)
			if math.Abs(g) < 1e-12 {
				return Solution{}, ErrSingularGeometry
			}

			v1 := r2.Sub(r1.Scale(f)).Scale(1 / g)
			v2 := r2.Scale(gDot).Sub(r1).Scale(1 / g)

			v1Sq := v1.LengthSquared()
			semiMajor := 1 / (2/rI - v1Sq/gm)

			return Solution{V1: v1, V2: v2, SemiMajorAxis: semiMajor}, nil
		}

		if tofCalc <= tof {
			psiLow = psi
		} else {
			psiHigh = psi
		}
		psi = (psiLow + psiHigh) / 2
	}

	return Solution{}, deoeph.ErrLambertNonConvergence
}

// SolveAuto tries both branches and returns the one with the smaller |v1|,
// per spec.md §4.7's solve_auto.
func SolveAuto(r1, r2 deoeph.Vector2, tof, gm float64) (Solution, error) {
	shortSol, shortErr := Solve(r1, r2, tof, gm, Short)
	longSol, longErr := Solve(r1, r2, tof, gm, Long)

	if shortErr != nil && longErr != nil {
		return Solution{}, shortErr
	}
	if shortErr != nil {
		return longSol, nil
	}
	if longErr != nil {
		return shortSol, nil
	}
	if shortSol.V1.Length() <= longSol.V1.Length() {
		return shortSol, nil
	}
	return longSol, nil
}
