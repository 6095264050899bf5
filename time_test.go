package deoeph

import "testing"

func TestSimulationTimeAdvance(t *testing.T) {
	s := NewSimulationTime(1000)
	s.Scale = 2 // 2 sim-days per real-second
	elapsed := s.Advance(1)
	want := 2 * SecondsPerDay
	if elapsed != want {
		t.Fatalf("Advance(1) = %v, want %v", elapsed, want)
	}
	if s.Current != 1000+want {
		t.Fatalf("Current = %v, want %v", s.Current, 1000+want)
	}
}

func TestSimulationTimePausedAdvanceIsNoop(t *testing.T) {
	s := NewSimulationTime(0)
	s.Paused = true
	if elapsed := s.Advance(10); elapsed != 0 {
		t.Fatalf("Advance while paused = %v, want 0", elapsed)
	}
	if s.Current != 0 {
		t.Fatalf("Current moved while paused: %v", s.Current)
	}
}

func TestSimulationTimeReset(t *testing.T) {
	s := NewSimulationTime(42)
	s.Advance(5)
	s.Paused = false
	s.Reset()
	if s.Current != 42 {
		t.Fatalf("Reset: Current = %v, want 42", s.Current)
	}
	if !s.Paused {
		t.Fatal("Reset should pause the clock")
	}
}

func TestUnixToJ2000Seconds(t *testing.T) {
	if got := UnixToJ2000Seconds(J2000UnixSeconds); got != 0 {
		t.Fatalf("UnixToJ2000Seconds(epoch) = %v, want 0", got)
	}
	if got := UnixToJ2000Seconds(J2000UnixSeconds + 86400); got != 86400 {
		t.Fatalf("UnixToJ2000Seconds(epoch+1d) = %v, want 86400", got)
	}
}
