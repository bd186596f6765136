package tune

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/mariogeiger/gradcmp-optim/internal/experiment"
	"github.com/mariogeiger/gradcmp-optim/internal/metrics"
	"github.com/mariogeiger/gradcmp-optim/internal/objective"
)

func TestNewGridSearch_Validation(t *testing.T) {
	if _, err := NewGridSearch([]string{"tau", "dt"}, [][]float64{{1}}); err == nil {
		t.Error("expected error for mismatched names and ranges")
	}
	if _, err := NewGridSearch([]string{"dt"}, [][]float64{{}}); err == nil {
		t.Error("expected error for empty range")
	}
	if _, err := NewGridSearch([]string{"dt"}, [][]float64{{0.1, 0.2}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGridSearch_Size(t *testing.T) {
	g, err := NewGridSearch([]string{"tau", "dt"}, [][]float64{{-1, 0, 1}, {0.1, 0.2}})
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 6 {
		t.Errorf("expected 6 grid points, got %d", g.Size())
	}
}

func TestGridSearch_EnumeratesAllCombinations(t *testing.T) {
	g, err := NewGridSearch([]string{"tau", "dt"}, [][]float64{{-1, 0, 1}, {0.1, 0.2}})
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[[2]float64]bool)
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		seen[[2]float64{params["tau"], params["dt"]}] = true
		return nil, errors.New("skip")
	}

	_, _, err = g.Search(context.Background(), build, "final_loss")
	if !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult when every point fails, got %v", err)
	}
	if len(seen) != 6 {
		t.Errorf("expected 6 distinct combinations, got %d", len(seen))
	}
}

func TestGridSearch_FindsBestStepSize(t *testing.T) {
	// On the sphere with tau 0 the update contracts the position by (1-dt)
	// per accepted step, so over a fixed call count the largest surviving
	// step size wins. dt 1.0 lands exactly on the minimum and dies with a
	// degenerate gradient on the next call; the search must skip it.
	g, err := NewGridSearch([]string{"dt"}, [][]float64{{1.0, 0.02, 0.002}})
	if err != nil {
		t.Fatal(err)
	}

	base := experiment.Config{
		Objective: "sphere",
		Dim:       2,
		Tau:       0,
		Dt:        0.01,
		LowBound:  1e-6,
		HighBound: 1e-2,
		Steps:     150,
	}
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg, err := Apply(base, params)
		if err != nil {
			return nil, err
		}
		exp, err := experiment.New(cfg, &objective.Quadratic{Cond: 1})
		if err != nil {
			return nil, err
		}
		exp.AddMetric(metrics.NewFinalLoss())
		return exp, nil
	}

	bestParams, best, err := g.Search(context.Background(), build, "final_loss")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if bestParams["dt"] != 0.02 {
		t.Errorf("expected best dt 0.02, got %v", bestParams)
	}
	if best <= 0 || best > 0.1 {
		t.Errorf("final loss out of range: %g", best)
	}
}

func TestGridSearch_MissingMetricSkipped(t *testing.T) {
	g, err := NewGridSearch([]string{"dt"}, [][]float64{{0.01}})
	if err != nil {
		t.Fatal(err)
	}

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg, err := Apply(experiment.Config{
			Objective: "sphere", Dim: 2, Tau: 0, Dt: 0.01,
			LowBound: 1e-6, HighBound: 1e-2, Steps: 10,
		}, params)
		if err != nil {
			return nil, err
		}
		// No metrics attached, so the requested name never appears.
		return experiment.New(cfg, &objective.Quadratic{Cond: 1})
	}

	_, _, err = g.Search(context.Background(), build, "final_loss")
	if !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestApply(t *testing.T) {
	base := experiment.Config{Objective: "sphere", Dim: 2, Dt: 1}
	cfg, err := Apply(base, map[string]float64{
		"tau": -2, "dt": 0.5, "low_bound": 1e-5, "high_bound": 1e-4,
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tau != -2 || cfg.Dt != 0.5 || cfg.LowBound != 1e-5 || cfg.HighBound != 1e-4 {
		t.Errorf("assignment not applied: %+v", cfg)
	}
	if cfg.Objective != "sphere" || cfg.Dim != 2 {
		t.Errorf("untouched fields changed: %+v", cfg)
	}
	if base.Tau != 0 || base.Dt != 1 {
		t.Errorf("base config mutated: %+v", base)
	}
}

func TestApply_UnknownName(t *testing.T) {
	_, err := Apply(experiment.Config{}, map[string]float64{"momentum": 0.9})
	if err == nil {
		t.Error("expected error for unknown hyperparameter")
	}
}

func TestLinSpace(t *testing.T) {
	got := LinSpace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("value %d: expected %g, got %g", i, want[i], got[i])
		}
	}

	if single := LinSpace(2, 5, 1); len(single) != 1 || single[0] != 2 {
		t.Errorf("expected [2], got %v", single)
	}
}

func TestLogSpace(t *testing.T) {
	got := LogSpace(1e-3, 1e-1, 3)
	want := []float64{1e-3, 1e-2, 1e-1}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12*want[i] {
			t.Errorf("value %d: expected %g, got %g", i, want[i], got[i])
		}
	}
}
