// Command simulate loads ephemeris tables (if any), spawns one asteroid,
// runs N ticks of the live integrator through a sim.Scheduler, and prints a
// JSON trajectory summary. It is the generalized analogue of the teacher's
// cmd/mission/main.go: a viper-configured scenario drives a headless
// propagation instead of a GUI frame loop, extended here with
// github.com/spf13/cobra for its flag/argument surface.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deoeph-sim/deoeph"
	"github.com/deoeph-sim/deoeph/config"
	"github.com/deoeph-sim/deoeph/ephemeris"
	"github.com/deoeph-sim/deoeph/outcome"
	"github.com/deoeph-sim/deoeph/sim"
)

var (
	tableDir   string
	posXAU     float64
	posYAU     float64
	velX       float64
	velY       float64
	massKg     float64
	ticks      int
	tickWall   float64
	scenario   string
)

func main() {
	root := &cobra.Command{
		Use:   "simulate",
		Short: "Run a headless asteroid trajectory and print a JSON summary",
		RunE:  run,
	}
	root.Flags().StringVar(&tableDir, "tables", "", "directory of .tbl ephemeris tables (optional)")
	root.Flags().Float64Var(&posXAU, "pos-x-au", 1.0, "initial position X, AU")
	root.Flags().Float64Var(&posYAU, "pos-y-au", 0.0, "initial position Y, AU")
	root.Flags().Float64Var(&velX, "vel-x", 0.0, "initial velocity X, m/s")
	root.Flags().Float64Var(&velY, "vel-y", 29785, "initial velocity Y, m/s")
	root.Flags().Float64Var(&massKg, "mass", 1e10, "asteroid mass, kg")
	root.Flags().IntVar(&ticks, "ticks", 1000, "number of FixedUpdate ticks to run")
	root.Flags().Float64Var(&tickWall, "tick-wall-seconds", 1.0, "wall-clock seconds per tick")
	root.Flags().StringVar(&scenario, "scenario", "", "optional TOML scenario/config file (viper-loaded)")

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

// trajectoryPoint is one sampled state in the JSON trajectory summary.
type trajectoryPoint struct {
	SimTime float64 `json:"sim_time"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Vx      float64 `json:"vx"`
	Vy      float64 `json:"vy"`
}

// summary is the top-level JSON object printed to stdout.
type summary struct {
	Ticks      int               `json:"ticks"`
	FinalTime  float64           `json:"final_sim_time"`
	Collided   bool              `json:"collided"`
	Outcome    string            `json:"outcome"`
	Trajectory []trajectoryPoint `json:"trajectory"`
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if scenario != "" {
		viper.SetConfigFile(scenario)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("simulate: reading scenario %s: %w", scenario, err)
		}
		if v := viper.GetFloat64("collision.multiplier"); v > 0 {
			cfg.CollisionMultiplier = v
		}
	}

	logger := deoeph.NewLogger("simulate")
	eph := ephemeris.NewService(logger, cfg.CollisionMultiplier, cfg.SunCollisionMultiplier)
	if tableDir != "" {
		if err := loadTables(eph, tableDir); err != nil {
			return err
		}
	}

	sched := sim.NewScheduler(eph, cfg, logger)
	name := "target"
	a := sched.AddAsteroid(name,
		deoeph.Vector2{X: posXAU * deoeph.AU, Y: posYAU * deoeph.AU},
		deoeph.Vector2{X: velX, Y: velY},
		massKg)
	sched.Selected = name

	out := summary{Trajectory: make([]trajectoryPoint, 0, ticks)}
	for i := 0; i < ticks; i++ {
		sched.FixedUpdate(tickWall)
		if i%10 == 0 || a.Collided {
			out.Trajectory = append(out.Trajectory, trajectoryPoint{
				SimTime: sched.Clock.Current,
				X:       a.State.Pos.X,
				Y:       a.State.Pos.Y,
				Vx:      a.State.Vel.X,
				Vy:      a.State.Vel.Y,
			})
		}
		if a.Collided {
			break
		}
	}

	out.Ticks = len(out.Trajectory)
	out.FinalTime = sched.Clock.Current
	out.Collided = a.Collided

	events := sched.Detect.Events()
	if res, ok := outcome.Classify(outcome.Input{
		Pos:          a.State.Pos,
		Vel:          a.State.Vel,
		ElapsedSince: sched.Clock.Current - a.CreatedAt,
	}); ok {
		out.Outcome = res.Kind.String()
	}
	if len(events) > 0 {
		out.Outcome = outcome.Collision.String()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// loadTables reads every *.tbl file in dir, inferring each body from its
// filename (e.g. "earth.tbl"), matching the teacher's convention of naming
// output files after the body they describe (cmd/planet/main.go).
func loadTables(eph *ephemeris.Service, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("simulate: reading table dir %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".tbl" {
			continue
		}
		name := e.Name()[:len(e.Name())-len(filepath.Ext(e.Name()))]
		id, ok := deoeph.ParseCelestialBodyID(capitalize(name))
		if !ok {
			continue
		}
		tableID, ok := id.TableID()
		if !ok {
			continue
		}
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("simulate: opening %s: %w", e.Name(), err)
		}
		tbl, err := ephemeris.Decode(f, tableID)
		f.Close()
		if err != nil {
			return fmt.Errorf("simulate: decoding %s: %w", e.Name(), err)
		}
		if err := eph.LoadTable(id, tbl); err != nil {
			return fmt.Errorf("simulate: loading table for %s: %w", id, err)
		}
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
