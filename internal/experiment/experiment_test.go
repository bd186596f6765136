package experiment

import (
	"context"
	"testing"

	"github.com/mariogeiger/gradcmp-optim/internal/objective"
	"github.com/mariogeiger/gradcmp-optim/internal/trace"
)

func TestExperiment_SphereConverges(t *testing.T) {
	cfg := Config{
		Objective: "sphere",
		Dim:       2,
		Tau:       0,
		Dt:        0.01,
		LowBound:  1e-3,
		HighBound: 1e-2,
		Steps:     400,
		Seed:      1,
	}
	exp, err := New(cfg, &objective.Quadratic{Cond: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.FinalLoss >= 1e-6 {
		t.Errorf("final loss = %v, want < 1e-6", res.FinalLoss)
	}
	if res.Calls != 400 || len(res.Trace) != 400 {
		t.Errorf("calls = %d, trace length = %d, want 400", res.Calls, len(res.Trace))
	}
	if res.Accepted < 350 {
		t.Errorf("accepted steps = %d, want nearly all of 400", res.Accepted)
	}
}

func TestExperiment_TraceWellFormed(t *testing.T) {
	cfg := Config{
		Objective: "rosenbrock",
		Dim:       2,
		Tau:       -2,
		Dt:        1e-3,
		LowBound:  1e-4,
		HighBound: 1e-3,
		Steps:     100,
		Seed:      7,
	}
	exp, err := New(cfg, objective.NewRosenbrock())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	prevT := 0.0
	for i, rec := range res.Trace {
		if rec.Call != i {
			t.Fatalf("record %d has call index %d", i, rec.Call)
		}
		if rec.Dt <= 0 {
			t.Errorf("record %d: dt = %v", i, rec.Dt)
		}
		if rec.T < prevT {
			t.Errorf("record %d: clock went backwards (%v -> %v)", i, prevT, rec.T)
		}
		prevT = rec.T
		if len(rec.Position) != 2 {
			t.Errorf("record %d: position has %d elements", i, len(rec.Position))
		}
		if rec.GradNorm < 0 {
			t.Errorf("record %d: negative gradient norm", i)
		}
	}
}

func TestExperiment_SeedReproducible(t *testing.T) {
	cfg := Config{
		Objective: "quadratic",
		Dim:       4,
		Tau:       1,
		Dt:        0.005,
		LowBound:  1e-4,
		HighBound: 1e-3,
		Steps:     80,
		Seed:      42,
		Jitter:    0.3,
	}

	var finals []float64
	for i := 0; i < 2; i++ {
		exp, err := New(cfg, objective.NewQuadratic())
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		res, err := exp.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		finals = append(finals, res.FinalLoss)
	}

	if finals[0] != finals[1] {
		t.Errorf("same seed produced different runs: %v vs %v", finals[0], finals[1])
	}
}

func TestExperiment_Reset(t *testing.T) {
	cfg := Config{
		Objective: "sphere",
		Dim:       2,
		Tau:       0,
		Dt:        0.01,
		LowBound:  1e-3,
		HighBound: 1e-2,
		Steps:     20,
		Seed:      3,
	}
	exp, err := New(cfg, &objective.Quadratic{Cond: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := exp.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if exp.Group().StepCount() == 0 {
		t.Fatal("setup: no steps accepted")
	}

	if err := exp.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if exp.Group().StepCount() != 0 || exp.Group().Time() != 0 {
		t.Errorf("group not reset: step=%d t=%v", exp.Group().StepCount(), exp.Group().Time())
	}

	rec, err := exp.Step()
	if err != nil {
		t.Fatalf("Step after Reset: %v", err)
	}
	if rec.Call != 0 {
		t.Errorf("call index after reset = %d, want 0", rec.Call)
	}
}

func TestExperiment_MetricsCollected(t *testing.T) {
	cfg := Config{
		Objective: "sphere",
		Dim:       2,
		Tau:       0,
		Dt:        0.01,
		LowBound:  1e-3,
		HighBound: 1e-2,
		Steps:     50,
		Seed:      1,
	}
	exp, err := New(cfg, &objective.Quadratic{Cond: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, m := range NewRegistry().DefaultMetrics() {
		exp.AddMetric(m)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	rate, ok := res.Metrics["acceptance"]
	if !ok {
		t.Fatal("acceptance metric missing")
	}
	if rate <= 0 || rate > 1 {
		t.Errorf("acceptance = %v, want in (0, 1]", rate)
	}
	if _, ok := res.Metrics["final_loss"]; !ok {
		t.Error("final_loss metric missing")
	}
}

type collectObserver struct {
	recs []trace.Record
}

func (c *collectObserver) OnStep(rec trace.Record) {
	c.recs = append(c.recs, rec)
}

func TestExperiment_ObserverFanOut(t *testing.T) {
	cfg := Config{
		Objective: "sphere",
		Dim:       2,
		Tau:       0,
		Dt:        0.01,
		LowBound:  1e-3,
		HighBound: 1e-2,
		Steps:     30,
		Seed:      5,
	}
	exp, err := New(cfg, &objective.Quadratic{Cond: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	obs := &collectObserver{}
	exp.AddObserver(obs)

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(obs.recs) != 30 {
		t.Fatalf("observer saw %d records, want 30", len(obs.recs))
	}
	for i, rec := range obs.recs {
		if rec.Call != i {
			t.Fatalf("observer record %d has call index %d", i, rec.Call)
		}
	}
	last := obs.recs[len(obs.recs)-1]
	if last.Loss != res.Trace.Final().Loss {
		t.Errorf("observer final loss = %v, trace final = %v", last.Loss, res.Trace.Final().Loss)
	}
}

func TestRegistry_Objectives(t *testing.T) {
	reg := NewRegistry()

	for _, name := range []string{"quadratic", "sphere", "rosenbrock", "rastrigin"} {
		obj, err := reg.GetObjective(name)
		if err != nil || obj == nil {
			t.Errorf("GetObjective(%q) = %v, %v", name, obj, err)
		}
	}

	if _, err := reg.GetObjective("ackley"); err == nil {
		t.Error("expected error for unknown objective")
	}

	names := reg.ListObjectives()
	if len(names) != 4 {
		t.Fatalf("ListObjectives returned %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}

func TestEnsemble_IndependentRuns(t *testing.T) {
	cfg := Config{
		Objective: "sphere",
		Dim:       3,
		Tau:       0,
		Dt:        0.01,
		LowBound:  1e-3,
		HighBound: 1e-2,
		Steps:     50,
		Jitter:    0.5,
	}
	ens := NewEnsemble(cfg, 4, 10)

	results, err := ens.Run(context.Background(), &objective.Quadratic{Cond: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results", len(results))
	}
	for i, res := range results {
		if res == nil || len(res.Trace) != 50 {
			t.Errorf("result %d incomplete", i)
		}
	}
	if results[0].FinalLoss == results[1].FinalLoss {
		t.Error("different seeds produced identical runs")
	}
}
