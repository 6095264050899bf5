package ephemeris

import (
	"bytes"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/deoeph-sim/deoeph"
)

func sampleTable() *Table {
	samples := make([]State2, 25)
	for i := range samples {
		tm := float64(i) * 3600
		samples[i] = State2{
			Pos: deoeph.Vector2{X: deoeph.AU * math.Cos(tm / 1e6), Y: deoeph.AU * math.Sin(tm / 1e6)},
			Vel: deoeph.Vector2{X: -1000 * math.Sin(tm / 1e6), Y: 1000 * math.Cos(tm / 1e6)},
		}
	}
	return &Table{BodyID: 3, StepSeconds: 3600, StartT0: 0, Samples: samples}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tbl := sampleTable()
	var buf bytes.Buffer
	if err := Encode(&buf, 3, tbl); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf, 3)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.BodyID != tbl.BodyID || got.StepSeconds != tbl.StepSeconds || got.StartT0 != tbl.StartT0 {
		t.Fatalf("Decode header mismatch: got %+v", got)
	}
	if len(got.Samples) != len(tbl.Samples) {
		t.Fatalf("Decode sample count = %d, want %d", len(got.Samples), len(tbl.Samples))
	}
	for i := range tbl.Samples {
		if got.Samples[i] != tbl.Samples[i] {
			t.Fatalf("sample %d mismatch: got %+v, want %+v", i, got.Samples[i], tbl.Samples[i])
		}
	}
}

func TestDecodeBodyIDMismatch(t *testing.T) {
	tbl := sampleTable()
	var buf bytes.Buffer
	if err := Encode(&buf, 3, tbl); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := Decode(&buf, 4); err == nil {
		t.Fatal("Decode with wrong wantBodyID should fail")
	}
}

func TestDecodeBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("not-a-deoeph-table-file-at-all-padding-padding")
	if _, err := Decode(buf, 3); err != deoeph.ErrBadMagic {
		t.Fatalf("Decode with bad magic = %v, want ErrBadMagic", err)
	}
}

func TestSampleOutOfRange(t *testing.T) {
	tbl := sampleTable()
	if _, _, err := tbl.Sample(tbl.End() + 1); err != deoeph.ErrOutOfRange {
		t.Fatalf("Sample past End() = %v, want ErrOutOfRange", err)
	}
	if _, _, err := tbl.Sample(tbl.StartT0 - 1); err != deoeph.ErrOutOfRange {
		t.Fatalf("Sample before StartT0 = %v, want ErrOutOfRange", err)
	}
}

func TestSampleInterpolatesBetweenKnownPoints(t *testing.T) {
	tbl := sampleTable()
	pos, _, err := tbl.Sample(tbl.StepSeconds * 0.5)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	// The midpoint sample should land strictly between the two bracketing
	// knots' X coordinates (the spline is smooth and roughly monotonic
	// over one short step here).
	lo, hi := tbl.Samples[0].Pos.X, tbl.Samples[1].Pos.X
	if lo > hi {
		lo, hi = hi, lo
	}
	const slack = 1e6 // meters, Hermite overshoot tolerance
	if pos.X < lo-slack || pos.X > hi+slack {
		t.Fatalf("midpoint X = %v, want within [%v, %v]", pos.X, lo-slack, hi+slack)
	}
}

func TestSampleContinuousAtKnotBoundary(t *testing.T) {
	tbl := sampleTable()
	knotTime := tbl.StepSeconds * 5
	pos, vel, err := tbl.Sample(knotTime)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	want := tbl.Samples[5]
	if !floats.EqualWithinAbs(pos.X, want.Pos.X, 1e-6) || !floats.EqualWithinAbs(vel.X, want.Vel.X, 1e-6) {
		t.Fatalf("Sample at exact knot = (%+v, %+v), want (%+v, %+v)", pos, vel, want.Pos, want.Vel)
	}
}

func TestEncodeRejectsEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, 3, &Table{BodyID: 3, StepSeconds: 3600})
	if err != deoeph.ErrEmptyTable {
		t.Fatalf("Encode(empty) = %v, want ErrEmptyTable", err)
	}
}
