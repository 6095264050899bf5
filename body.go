package deoeph

// CelestialBodyID identifies a celestial body tracked by the ephemeris: the
// Sun, the 8 planets, and 9 moons (spec.md §3).
type CelestialBodyID uint8

// Body identifiers. Numeric values are internal only and differ from the
// binary ephemeris table format's body IDs; TableID and tableBodyID map
// between the two. The Sun has no table and no table-format ID.
const (
	Sun CelestialBodyID = iota
	Mercury
	Venus
	Earth
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Moon
	Phobos
	Deimos
	Io
	Europa
	Ganymede
	Callisto
	Titan
	Enceladus
)

// tableBodyID maps a CelestialBodyID to its numeric ID in the binary
// ephemeris table format (spec.md §6). The Sun is never tabulated.
var tableBodyID = map[CelestialBodyID]uint32{
	Mercury: 1, Venus: 2, Earth: 3, Mars: 4, Jupiter: 5, Saturn: 6, Uranus: 7,
	Neptune: 8, Moon: 9, Io: 10, Europa: 11, Ganymede: 12, Callisto: 13,
	Titan: 14, Enceladus: 15, Phobos: 16, Deimos: 17,
}

// TableID returns the numeric body ID used in the binary ephemeris format,
// and whether this body has one (the Sun does not).
func (b CelestialBodyID) TableID() (id uint32, ok bool) {
	id, ok = tableBodyID[b]
	return
}

// Planets lists the 8 planets, in ephemeris order.
var Planets = [8]CelestialBodyID{Mercury, Venus, Earth, Mars, Jupiter, Saturn, Uranus, Neptune}

// Moons lists the 9 moons.
var Moons = [9]CelestialBodyID{Moon, Phobos, Deimos, Io, Europa, Ganymede, Callisto, Titan, Enceladus}

// Parent returns the body this one orbits directly: a planet for a moon, or
// false for the Sun and planets (which are heliocentric).
func (b CelestialBodyID) Parent() (CelestialBodyID, bool) {
	switch b {
	case Moon:
		return Earth, true
	case Phobos, Deimos:
		return Mars, true
	case Io, Europa, Ganymede, Callisto:
		return Jupiter, true
	case Titan, Enceladus:
		return Saturn, true
	default:
		return 0, false
	}
}

// IsMoon reports whether b is one of the 9 moons.
func (b CelestialBodyID) IsMoon() bool {
	_, ok := b.Parent()
	return ok
}

// String implements fmt.Stringer.
func (b CelestialBodyID) String() string {
	switch b {
	case Sun:
		return "Sun"
	case Mercury:
		return "Mercury"
	case Venus:
		return "Venus"
	case Earth:
		return "Earth"
	case Mars:
		return "Mars"
	case Jupiter:
		return "Jupiter"
	case Saturn:
		return "Saturn"
	case Uranus:
		return "Uranus"
	case Neptune:
		return "Neptune"
	case Moon:
		return "Moon"
	case Phobos:
		return "Phobos"
	case Deimos:
		return "Deimos"
	case Io:
		return "Io"
	case Europa:
		return "Europa"
	case Ganymede:
		return "Ganymede"
	case Callisto:
		return "Callisto"
	case Titan:
		return "Titan"
	case Enceladus:
		return "Enceladus"
	default:
		return "UnknownBody"
	}
}

// allBodyIDs lists every CelestialBodyID, used only by ParseCelestialBodyID.
var allBodyIDs = [...]CelestialBodyID{
	Sun, Mercury, Venus, Earth, Mars, Jupiter, Saturn, Uranus, Neptune,
	Moon, Phobos, Deimos, Io, Europa, Ganymede, Callisto, Titan, Enceladus,
}

// ParseCelestialBodyID looks up a body by its String() name, for CLI and
// config inputs that name bodies as text (spec.md §6).
func ParseCelestialBodyID(name string) (CelestialBodyID, bool) {
	for _, id := range allBodyIDs {
		if id.String() == name {
			return id, true
		}
	}
	return 0, false
}

// BodyState is the live physical state of a simulated asteroid: position in
// meters from the solar-system barycenter, velocity in m/s, and mass in kg.
// It is owned exclusively by the live integrator that advances it; every
// other reader must treat it as a read-only snapshot (spec.md §3).
type BodyState struct {
	Pos  Vector2
	Vel  Vector2
	Mass float64
}
