package deoeph

import "math"

// GravityAssistTurnAngle returns the hyperbolic turn angle of a flyby with
// excess velocity vInf around a body with periapsis radius rP, per the
// standard patched-conic gravity-assist formula. Adapted from the teacher's
// GATurnAngle (assists.go): ρ = acos(1 / (1 + vInf²·rP/μ)), turn = π - 2ρ.
func GravityAssistTurnAngle(vInf, rP float64, body CelestialBodyData) float64 {
	rho := math.Acos(1 / (1 + vInf*vInf*rP/body.GM()))
	return math.Pi - 2*rho
}
