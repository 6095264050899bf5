// Command gentable samples a CelestialBodyData's KeplerOrbit at a fixed
// step and writes the binary ephemeris table format of spec.md §4.2/§6
// (ephemeris.Encode), the generalized analogue of the teacher's
// cmd/planet/main.go (which also dumps an analytic orbit to a flat file for
// later consumption, just in CSV rather than the packed binary format
// these tables use downstream).
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/deoeph-sim/deoeph"
	"github.com/deoeph-sim/deoeph/ephemeris"
)

var (
	bodyName    string
	startDays   float64
	spanDays    float64
	stepSeconds float64
	outPath     string
)

func main() {
	root := &cobra.Command{
		Use:   "gentable",
		Short: "Sample a celestial body's Kepler orbit into a binary ephemeris table",
		RunE:  run,
	}
	root.Flags().StringVar(&bodyName, "body", "", "body name, e.g. Earth, Mars (required)")
	root.Flags().Float64Var(&startDays, "start", 0, "table start time, days since J2000")
	root.Flags().Float64Var(&spanDays, "span", 365.25, "table coverage span, days")
	root.Flags().Float64Var(&stepSeconds, "step", 3600, "sample spacing, seconds")
	root.Flags().StringVar(&outPath, "out", "", "output file path (required)")
	_ = root.MarkFlagRequired("body")
	_ = root.MarkFlagRequired("out")

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	id, ok := deoeph.ParseCelestialBodyID(bodyName)
	if !ok {
		return fmt.Errorf("gentable: unknown body %q", bodyName)
	}
	data, ok := deoeph.BodyRegistry[id]
	if !ok || data.Orbit == nil {
		return fmt.Errorf("gentable: %s has no analytic orbit to sample (the Sun is origin-fixed)", id)
	}
	tableID, ok := id.TableID()
	if !ok {
		return fmt.Errorf("gentable: %s has no binary table slot", id)
	}
	if id.IsMoon() {
		return fmt.Errorf("gentable: %s is a moon; its orbit is parent-relative and ephemeris.Service reads every table as heliocentric", id)
	}

	startT0 := startDays * deoeph.SecondsPerDay
	n := int(spanDays*deoeph.SecondsPerDay/stepSeconds) + 1
	if n < 2 {
		return fmt.Errorf("gentable: span/step too small to produce at least 2 samples")
	}

	samples := make([]ephemeris.State2, n)
	for i := 0; i < n; i++ {
		t := startT0 + float64(i)*stepSeconds
		pos, vel := data.Orbit.PositionVelocity(t)
		samples[i] = ephemeris.State2{Pos: pos, Vel: vel}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("gentable: creating %s: %w", outPath, err)
	}
	defer f.Close()

	tbl := &ephemeris.Table{BodyID: tableID, StepSeconds: stepSeconds, StartT0: startT0, Samples: samples}
	if err := ephemeris.Encode(f, tableID, tbl); err != nil {
		return fmt.Errorf("gentable: encoding table: %w", err)
	}
	fmt.Printf("wrote %d samples for %s to %s (t ∈ [%.0f, %.0f] s)\n", n, id, outPath, startT0, tbl.End())
	return nil
}
