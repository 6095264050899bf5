package integrate

import (
	"math"
	"testing"

	"github.com/deoeph-sim/deoeph"
)

func newTestPredictor() *Predictor {
	return &Predictor{
		Eph:                    fakeEphemeris{},
		SingularityThresholdSq: deoeph.SingularityThresholdSq,
		MinDt:                  1,
		MaxDt:                  6 * deoeph.SecondsPerDay,
		Eps:                    1e-6,
		InitialDt:              deoeph.SecondsPerDay,
		HorizonSeconds:         15 * 365.25 * deoeph.SecondsPerDay,
	}
}

func TestExtendStartsFreshOnFirstCall(t *testing.T) {
	p := newTestPredictor()
	pos := deoeph.Vector2{X: deoeph.AU, Y: 0}
	vel := deoeph.Vector2{X: 0, Y: math.Sqrt(deoeph.GMSun / deoeph.AU)}

	cache := p.Extend(nil, pos, vel, ExtendOptions{
		Mass: 1e9, MinStepsBudget: 50, MaxStepsBudget: 50, PointInterval: 1,
	})

	if cache == nil {
		t.Fatal("Extend(nil, ...) should return a non-nil cache")
	}
	if cache.StepCount == 0 {
		t.Fatal("Extend should have run at least one step")
	}
	if len(cache.Points) == 0 {
		t.Fatal("Extend should have stored at least one point")
	}
}

func TestExtendResumesMatchingCache(t *testing.T) {
	p := newTestPredictor()
	pos := deoeph.Vector2{X: deoeph.AU, Y: 0}
	vel := deoeph.Vector2{X: 0, Y: math.Sqrt(deoeph.GMSun / deoeph.AU)}

	opts := ExtendOptions{Mass: 1e9, MinStepsBudget: 20, MaxStepsBudget: 20, PointInterval: 1}
	cache := p.Extend(nil, pos, vel, opts)
	firstSteps := cache.StepCount

	cache = p.Extend(cache, pos, vel, opts)
	if cache.StepCount != firstSteps*2 {
		t.Fatalf("resumed Extend: StepCount = %d, want %d (20 + 20)", cache.StepCount, firstSteps*2)
	}
}

func TestExtendRestartsOnMismatchedInitialState(t *testing.T) {
	p := newTestPredictor()
	pos := deoeph.Vector2{X: deoeph.AU, Y: 0}
	vel := deoeph.Vector2{X: 0, Y: math.Sqrt(deoeph.GMSun / deoeph.AU)}
	opts := ExtendOptions{Mass: 1e9, MinStepsBudget: 20, MaxStepsBudget: 20, PointInterval: 1}

	cache := p.Extend(nil, pos, vel, opts)

	differentPos := deoeph.Vector2{X: 2 * deoeph.AU, Y: 0}
	cache2 := p.Extend(cache, differentPos, vel, opts)
	if cache2.InitialPos != differentPos {
		t.Fatal("Extend with a different initial position should restart, not resume")
	}
	if cache2.StepCount != 20 {
		t.Fatalf("restarted cache StepCount = %d, want 20 (fresh run, not 20+20)", cache2.StepCount)
	}
}

func TestExtendDetectsCollision(t *testing.T) {
	earthPos := deoeph.Vector2{X: deoeph.AU, Y: 0}
	earthData := deoeph.BodyRegistry[deoeph.Earth]
	eph := fakeEphemeris{planetPos: earthPos, planetGM: earthData.GM(), planetRadius: earthData.Radius * 50}
	p := &Predictor{
		Eph: eph, SingularityThresholdSq: deoeph.SingularityThresholdSq,
		MinDt: 1, MaxDt: deoeph.SecondsPerDay, Eps: 1e-6, InitialDt: 60,
		HorizonSeconds: 365 * deoeph.SecondsPerDay,
	}

	startPos := earthPos.Add(deoeph.Vector2{X: eph.planetRadius * 0.5, Y: 0})
	cache := p.Extend(nil, startPos, deoeph.Vector2{}, ExtendOptions{
		Mass: 1e6, MinStepsBudget: 100, MaxStepsBudget: 100, PointInterval: 1,
	})

	if !cache.Terminal || cache.Outcome != PredictionCollision {
		t.Fatalf("Extend starting inside Earth's danger zone: Terminal=%v Outcome=%v, want (true, PredictionCollision)", cache.Terminal, cache.Outcome)
	}
	if cache.CollisionBody != deoeph.Earth {
		t.Fatalf("CollisionBody = %v, want Earth", cache.CollisionBody)
	}
}

func TestExtendTerminalCacheIsNoopButPrunes(t *testing.T) {
	p := newTestPredictor()
	cache := &PredictionCache{
		InitialPos: deoeph.Vector2{X: deoeph.AU, Y: 0},
		Terminal:   true,
		Outcome:    PredictionEscape,
		Points: []Point{
			{SimT: 0},
			{SimT: 100 * deoeph.SecondsPerDay},
		},
	}
	got := p.Extend(cache, cache.InitialPos, deoeph.Vector2{}, ExtendOptions{SimTNow: 100 * deoeph.SecondsPerDay})
	if len(got.Points) != 1 {
		t.Fatalf("prune on a terminal cache should drop points older than simTNow-1day: got %d points, want 1", len(got.Points))
	}
}

func TestBudgetStepsClampsToRange(t *testing.T) {
	p := &Predictor{}
	if got := p.budgetSteps(1000, 20000, 5000); got != 1000 {
		t.Fatalf("budgetSteps with no cost measurement yet = %d, want min (1000)", got)
	}
	p.stepCostEWMA = 1 // 1 microsecond/step
	if got := p.budgetSteps(1000, 20000, 5000); got != 5000 {
		t.Fatalf("budgetSteps(target=5000, cost=1) = %d, want 5000", got)
	}
	p.stepCostEWMA = 100
	if got := p.budgetSteps(1000, 20000, 5000); got != 1000 {
		t.Fatalf("budgetSteps should clamp to minSteps when target/cost is below it: got %d, want 1000", got)
	}
}
