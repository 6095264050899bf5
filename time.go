package deoeph

// SimulationTime tracks the simulation clock: the current time in seconds
// since J2000, a sim-days-per-real-second scale factor, pause state, and
// the initial time for reset (spec.md §3).
type SimulationTime struct {
	Current float64
	Scale   float64
	Paused  bool
	Initial float64
}

// NewSimulationTime returns a SimulationTime starting at initial (seconds
// since J2000), at 1x scale, unpaused.
func NewSimulationTime(initial float64) SimulationTime {
	return SimulationTime{Current: initial, Scale: 1, Initial: initial}
}

// Reset restores Current to Initial and pauses the clock.
func (s *SimulationTime) Reset() {
	s.Current = s.Initial
	s.Paused = true
}

// Advance moves the clock forward by a wall-clock duration wallSeconds,
// returning the sim-seconds elapsed (0 if paused). scale is interpreted as
// sim-days per real-second (spec.md §4.5).
func (s *SimulationTime) Advance(wallSeconds float64) float64 {
	if s.Paused {
		return 0
	}
	elapsed := wallSeconds * s.Scale * SecondsPerDay
	s.Current += elapsed
	return elapsed
}
