package ephemeris

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/deoeph-sim/deoeph"
)

// magic is the 8-byte file header identifying a deoeph ephemeris table,
// spec.md §4.2: "D E O E P H 1 \0".
var magic = [8]byte{'D', 'E', 'O', 'E', 'P', 'H', '1', 0}

const (
	formatVersion = 1
	headerSize    = 40
	sampleSize    = 32 // x, y, vx, vy as f64
)

// State2 is a single (position, velocity) sample in an ephemeris table.
type State2 struct {
	Pos deoeph.Vector2
	Vel deoeph.Vector2
}

// Table is a read-only, binary-format ephemeris table for one body: evenly
// spaced (pos, vel) samples interpolated with cubic Hermite splines
// (spec.md §4.2). Tables are immutable after Load; Sample never mutates.
type Table struct {
	BodyID      uint32
	StepSeconds float64
	StartT0     float64
	Samples     []State2
}

// End returns the last time covered by this table's window.
func (t *Table) End() float64 {
	return t.StartT0 + t.StepSeconds*float64(len(t.Samples)-1)
}

// InRange reports whether tm falls within [StartT0, End()].
func (t *Table) InRange(tm float64) bool {
	return tm >= t.StartT0 && tm <= t.End()
}

// Encode writes the table in the binary format documented in spec.md §4.2.
func Encode(w io.Writer, bodyID uint32, t *Table) error {
	if len(t.Samples) == 0 {
		return deoeph.ErrEmptyTable
	}
	if t.StepSeconds <= 0 || math.IsNaN(t.StepSeconds) || math.IsInf(t.StepSeconds, 0) {
		return deoeph.ErrInvalidStepSize
	}

	buf := &bytes.Buffer{}
	buf.Write(magic[:])
	_ = binary.Write(buf, binary.LittleEndian, uint32(formatVersion))
	_ = binary.Write(buf, binary.LittleEndian, bodyID)
	_ = binary.Write(buf, binary.LittleEndian, t.StepSeconds)
	_ = binary.Write(buf, binary.LittleEndian, t.StartT0)
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(t.Samples)))
	_ = binary.Write(buf, binary.LittleEndian, uint32(0)) // reserved
	for _, s := range t.Samples {
		_ = binary.Write(buf, binary.LittleEndian, s.Pos.X)
		_ = binary.Write(buf, binary.LittleEndian, s.Pos.Y)
		_ = binary.Write(buf, binary.LittleEndian, s.Vel.X)
		_ = binary.Write(buf, binary.LittleEndian, s.Vel.Y)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Decode reads a binary ephemeris table and validates it against
// wantBodyID. A mismatch between the file's body ID and the caller's
// expectation is a hard error (spec.md §6): corrupt or swapped table files
// must never be silently attributed to the wrong body.
func Decode(r io.Reader, wantBodyID uint32) (*Table, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("deoeph/ephemeris: reading header: %w", err)
	}
	if !bytes.Equal(header[0:8], magic[:]) {
		return nil, deoeph.ErrBadMagic
	}
	version := binary.LittleEndian.Uint32(header[8:12])
	if version != formatVersion {
		return nil, deoeph.ErrUnsupportedVersion
	}
	bodyID := binary.LittleEndian.Uint32(header[12:16])
	if bodyID != wantBodyID {
		return nil, fmt.Errorf("%w: file has body %d, expected %d", deoeph.ErrBodyIDMismatch, bodyID, wantBodyID)
	}
	stepSeconds := math.Float64frombits(binary.LittleEndian.Uint64(header[16:24]))
	startT0 := math.Float64frombits(binary.LittleEndian.Uint64(header[24:32]))
	n := binary.LittleEndian.Uint32(header[32:36])

	if stepSeconds <= 0 || math.IsNaN(stepSeconds) || math.IsInf(stepSeconds, 0) {
		return nil, deoeph.ErrInvalidStepSize
	}
	if n == 0 {
		return nil, deoeph.ErrEmptyTable
	}

	samples := make([]State2, n)
	row := make([]byte, sampleSize)
	for i := range samples {
		if _, err := io.ReadFull(r, row); err != nil {
			return nil, fmt.Errorf("deoeph/ephemeris: reading sample %d: %w", i, err)
		}
		samples[i] = State2{
			Pos: deoeph.Vector2{
				X: math.Float64frombits(binary.LittleEndian.Uint64(row[0:8])),
				Y: math.Float64frombits(binary.LittleEndian.Uint64(row[8:16])),
			},
			Vel: deoeph.Vector2{
				X: math.Float64frombits(binary.LittleEndian.Uint64(row[16:24])),
				Y: math.Float64frombits(binary.LittleEndian.Uint64(row[24:32])),
			},
		}
	}

	return &Table{BodyID: bodyID, StepSeconds: stepSeconds, StartT0: startT0, Samples: samples}, nil
}

// Sample interpolates (pos, vel) at time tm using cubic Hermite splines
// over the two samples bracketing tm (spec.md §4.2). Fails with
// ErrOutOfRange if tm is outside the table's coverage window.
func (t *Table) Sample(tm float64) (deoeph.Vector2, deoeph.Vector2, error) {
	if !t.InRange(tm) {
		return deoeph.Vector2{}, deoeph.Vector2{}, deoeph.ErrOutOfRange
	}
	u := (tm - t.StartT0) / t.StepSeconds
	i := int(math.Floor(u))
	if i >= len(t.Samples)-1 {
		i = len(t.Samples) - 2
	}
	if i < 0 {
		i = 0
	}
	s := u - float64(i)

	p0, p1 := t.Samples[i], t.Samples[i+1]
	step := t.StepSeconds

	// Hermite tangents m = v·step.
	m0 := p0.Vel.Scale(step)
	m1 := p1.Vel.Scale(step)

	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	pos := p0.Pos.Scale(h00).Add(m0.Scale(h10)).Add(p1.Pos.Scale(h01)).Add(m1.Scale(h11))

	// Velocity is the time-derivative of position: divide the s-derivative
	// of the Hermite basis by step (chain rule, since s = (t-t0)/step).
	h00d := 6*s2 - 6*s
	h10d := 3*s2 - 4*s + 1
	h01d := -6*s2 + 6*s
	h11d := 3*s2 - 2*s

	velScaled := p0.Pos.Scale(h00d).Add(m0.Scale(h10d)).Add(p1.Pos.Scale(h01d)).Add(m1.Scale(h11d))
	vel := velScaled.Scale(1 / step)

	return pos, vel, nil
}
