package experiment

import (
	"fmt"
	"sort"

	"github.com/mariogeiger/gradcmp-optim/internal/metrics"
	"github.com/mariogeiger/gradcmp-optim/internal/objective"
	"github.com/mariogeiger/gradcmp-optim/internal/trace"
)

type Registry struct {
	objectives map[string]func() objective.Objective
}

func NewRegistry() *Registry {
	r := &Registry{
		objectives: make(map[string]func() objective.Objective),
	}

	r.objectives["quadratic"] = func() objective.Objective { return objective.NewQuadratic() }
	r.objectives["sphere"] = func() objective.Objective { return &objective.Quadratic{Cond: 1} }
	r.objectives["rosenbrock"] = func() objective.Objective { return objective.NewRosenbrock() }
	r.objectives["rastrigin"] = func() objective.Objective { return objective.NewRastrigin() }

	return r
}

func (r *Registry) GetObjective(name string) (objective.Objective, error) {
	fn, ok := r.objectives[name]
	if !ok {
		return nil, fmt.Errorf("unknown objective: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListObjectives() []string {
	names := make([]string, 0, len(r.objectives))
	for name := range r.objectives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh metric set; callers attach one set per run.
func (r *Registry) DefaultMetrics() []trace.Metric {
	return []trace.Metric{
		metrics.NewAcceptance(),
		metrics.NewBounded(1e3),
		metrics.NewFinalLoss(),
		metrics.NewLossDecades(),
		metrics.NewMeanGradNorm(),
		metrics.NewStepSpan(),
	}
}
