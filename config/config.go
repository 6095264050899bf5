// Package config loads the simulator's gameplay and performance knobs
// (spec.md §6) via Viper, the way the teacher's root config.go loads its
// SPICE/Meeus settings: a package-level lazy singleton backed by a TOML
// file, overridable by environment variables.
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/viper"
)

// Config holds every tunable named in spec.md §6.
type Config struct {
	// CollisionMultiplier scales a planet's physical radius into its
	// danger-zone collision radius. Default 50.
	CollisionMultiplier float64
	// SunCollisionMultiplier scales the Sun's physical radius into its
	// danger-zone collision radius. Default 2.
	SunCollisionMultiplier float64
	// SingularityThresholdSq is the squared distance below which gravity is
	// clamped to zero. MUST stay shared by the live and prediction
	// integrators; default (1000 m)².
	SingularityThresholdSq float64

	// PredictionMaxTimeSeconds bounds how far the prediction integrator
	// will look ahead before giving up. Default 15 years.
	PredictionMaxTimeSeconds float64
	// PredictionMaxSteps bounds a single prediction run. Default 200000.
	PredictionMaxSteps int
	// PredictionUpdateIntervalFrames is how many Update-phase frames elapse
	// between prediction refreshes when not dirty. Default 10.
	PredictionUpdateIntervalFrames int
	// PredictionPointInterval is the base k in "store every k-th step"; it
	// grows with √zoom at the call site. Default 20.
	PredictionPointInterval int
	// PredictionBudgetTargetMicros is the target wall-clock budget for one
	// prediction call. Default 5000.
	PredictionBudgetTargetMicros float64
	// PredictionMinStepsBudget/PredictionMaxStepsBudget clamp the CPU-budget
	// adaptation in spec.md §4.6. Defaults 1000/20000.
	PredictionMinStepsBudget int
	PredictionMaxStepsBudget int
}

// Default returns the spec-mandated defaults (spec.md §6), used whenever no
// config file or environment override is present.
func Default() Config {
	return Config{
		CollisionMultiplier:             50,
		SunCollisionMultiplier:          2,
		SingularityThresholdSq:          1e6,
		PredictionMaxTimeSeconds:        15 * 365.25 * 86400,
		PredictionMaxSteps:              200000,
		PredictionUpdateIntervalFrames:  10,
		PredictionPointInterval:         20,
		PredictionBudgetTargetMicros:    5000,
		PredictionMinStepsBudget:        1000,
		PredictionMaxStepsBudget:        20000,
	}
}

var (
	mu       sync.Mutex
	loaded   bool
	cfg      Config
)

// Load reads DEOEPH_CONFIG/conf.toml (if present) and environment overrides
// into a Config, falling back to Default() for anything unset. Unlike the
// teacher's smdConfig(), a missing config file is not fatal: these are
// gameplay/performance knobs, not mission-critical data paths, so spec.md
// §7's "recovered from silently" propagation policy applies here too.
func Load() Config {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cfg
	}
	cfg = Default()

	v := viper.New()
	v.SetConfigName("conf")
	v.SetConfigType("toml")
	if dir := os.Getenv("DEOEPH_CONFIG"); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix("DEOEPH")
	v.AutomaticEnv()

	v.SetDefault("collision.multiplier", cfg.CollisionMultiplier)
	v.SetDefault("collision.sun_multiplier", cfg.SunCollisionMultiplier)
	v.SetDefault("gravity.singularity_threshold_sq", cfg.SingularityThresholdSq)
	v.SetDefault("prediction.max_time_seconds", cfg.PredictionMaxTimeSeconds)
	v.SetDefault("prediction.max_steps", cfg.PredictionMaxSteps)
	v.SetDefault("prediction.update_interval_frames", cfg.PredictionUpdateIntervalFrames)
	v.SetDefault("prediction.point_interval", cfg.PredictionPointInterval)
	v.SetDefault("prediction.budget_target_micros", cfg.PredictionBudgetTargetMicros)
	v.SetDefault("prediction.min_steps_budget", cfg.PredictionMinStepsBudget)
	v.SetDefault("prediction.max_steps_budget", cfg.PredictionMaxStepsBudget)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintf(os.Stderr, "[deoeph:config] could not read conf.toml: %s, using defaults\n", err)
		}
	}

	cfg = Config{
		CollisionMultiplier:             v.GetFloat64("collision.multiplier"),
		SunCollisionMultiplier:          v.GetFloat64("collision.sun_multiplier"),
		SingularityThresholdSq:          v.GetFloat64("gravity.singularity_threshold_sq"),
		PredictionMaxTimeSeconds:        v.GetFloat64("prediction.max_time_seconds"),
		PredictionMaxSteps:              v.GetInt("prediction.max_steps"),
		PredictionUpdateIntervalFrames:  v.GetInt("prediction.update_interval_frames"),
		PredictionPointInterval:         v.GetInt("prediction.point_interval"),
		PredictionBudgetTargetMicros:    v.GetFloat64("prediction.budget_target_micros"),
		PredictionMinStepsBudget:        v.GetInt("prediction.min_steps_budget"),
		PredictionMaxStepsBudget:        v.GetInt("prediction.max_steps_budget"),
	}
	loaded = true
	return cfg
}
