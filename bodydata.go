package deoeph

import "math"

// sunMass is the Sun's mass in kg, used for Hill-sphere computations and as
// the Sun's registry Mass.
const sunMass = 1.989e30

// CelestialBodyData is the static data describing a celestial body, loaded
// once at startup. Orbit is nil only for the Sun. VisualScale is carried
// purely as a render hint for external collaborators (spec.md §9 Open
// Questions: physics and render data are kept in separate fields from the
// start, rather than entangled the way the source acknowledges it once was).
type CelestialBodyData struct {
	ID          CelestialBodyID
	Mass        float64 // kg
	Radius      float64 // meters
	Orbit       *KeplerOrbit
	VisualScale float32
	HillSphere  float64 // meters; 0 for the Sun (unbounded SOI)
}

// hillSphere computes a × (m / (3·mParent))^(1/3).
func hillSphere(semiMajorAxis, mass, parentMass float64) float64 {
	return semiMajorAxis * math.Cbrt(mass/(3*parentMass))
}

func orbitDeg(aAU, e, argPeriapsisDeg, meanAnomalyDeg, meanMotionDegPerDay float64) *KeplerOrbit {
	o := NewKeplerOrbitFromDegrees(aAU*AU, e, argPeriapsisDeg, meanAnomalyDeg, meanMotionDegPerDay)
	return &o
}

// BodyRegistry holds the static CelestialBodyData for all 18 tracked bodies,
// loaded once at startup (spec.md §3 CelestialBodyData).
var BodyRegistry = buildBodyRegistry()

func buildBodyRegistry() map[CelestialBodyID]CelestialBodyData {
	reg := make(map[CelestialBodyID]CelestialBodyData, 18)

	reg[Sun] = CelestialBodyData{ID: Sun, Mass: sunMass, Radius: 6.963e8, VisualScale: 20}

	type planetDef struct {
		id                                 CelestialBodyID
		aAU, e, argPeriapsis, meanAnomaly, meanMotion float64
		mass, radius, visualScale          float64
	}
	// Orbital elements and physical data per original_source/src/ephemeris/data.rs
	// (J2000, simplified to the ecliptic plane), which supplements spec.md's
	// silence on concrete body parameters.
	planets := []planetDef{
		{Mercury, 0.387, 0.2056, 29.12, 174.79, 4.0923, 3.302e23, 2.440e6, 200},
		{Venus, 0.723, 0.0068, 54.85, 50.42, 1.6021, 4.869e24, 6.052e6, 150},
		{Earth, 1.000, 0.0167, 102.94, 357.53, 0.9856, 5.972e24, 6.371e6, 150},
		{Mars, 1.524, 0.0934, 286.50, 19.41, 0.5240, 6.417e23, 3.390e6, 180},
		{Jupiter, 5.203, 0.0484, 273.87, 20.02, 0.0831, 1.898e27, 6.991e7, 50},
		{Saturn, 9.537, 0.0542, 339.39, 317.02, 0.0335, 5.683e26, 5.823e7, 55},
		{Uranus, 19.19, 0.0472, 96.99, 142.24, 0.0117, 8.681e25, 2.536e7, 80},
		{Neptune, 30.07, 0.0086, 273.19, 256.23, 0.0060, 1.024e26, 2.462e7, 80},
	}
	for _, p := range planets {
		a := p.aAU * AU
		reg[p.id] = CelestialBodyData{
			ID:          p.id,
			Mass:        p.mass,
			Radius:      p.radius,
			Orbit:       orbitDeg(p.aAU, p.e, p.argPeriapsis, p.meanAnomaly, p.meanMotion),
			VisualScale: float32(p.visualScale),
			HillSphere:  hillSphere(a, p.mass, sunMass),
		}
	}

	type moonDef struct {
		id                                             CelestialBodyID
		aM, e, argPeriapsis, meanAnomaly, meanMotion float64
		mass, radius, visualScale                     float64
	}
	moons := []moonDef{
		{Moon, 3.844e8, 0.0549, 318.15, 134.96, 13.1764, 7.342e22, 1.737e6, 250},
		{Phobos, 9.376e6, 0.0151, 150.06, 91.05, 1128.84, 1.0659e16, 1.127e4, 500},
		{Deimos, 2.346e7, 0.00033, 290.50, 325.00, 285.16, 1.4762e15, 6.2e3, 600},
		{Io, 4.218e8, 0.0041, 84.13, 342.02, 203.49, 8.932e22, 1.822e6, 300},
		{Europa, 6.711e8, 0.0094, 88.97, 171.02, 101.37, 4.800e22, 1.561e6, 300},
		{Ganymede, 1.070e9, 0.0011, 192.42, 317.54, 50.32, 1.482e23, 2.634e6, 280},
		{Callisto, 1.883e9, 0.0074, 52.64, 181.41, 21.57, 1.076e23, 2.410e6, 280},
		{Titan, 1.222e9, 0.0288, 180.53, 163.31, 22.58, 1.345e23, 2.575e6, 280},
		{Enceladus, 2.380e8, 0.0047, 342.51, 199.69, 262.73, 1.08e20, 2.521e5, 400},
	}
	for _, m := range moons {
		parent, _ := m.id.Parent()
		parentMass := reg[parent].Mass
		o := NewKeplerOrbitFromDegrees(m.aM, m.e, m.argPeriapsis, m.meanAnomaly, m.meanMotion)
		reg[m.id] = CelestialBodyData{
			ID:          m.id,
			Mass:        m.mass,
			Radius:      m.radius,
			Orbit:       &o,
			VisualScale: float32(m.visualScale),
			HillSphere:  hillSphere(m.aM, m.mass, parentMass),
		}
	}

	return reg
}

// GM returns the body's standard gravitational parameter (G × mass).
func (d CelestialBodyData) GM() float64 {
	return G * d.Mass
}
