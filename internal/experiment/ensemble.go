package experiment

import (
	"context"
	"sync"

	"github.com/mariogeiger/gradcmp-optim/internal/objective"
)

// Ensemble runs the same configuration numRuns times in parallel with
// consecutive seeds. With a nonzero Jitter every run starts from its own
// perturbation of the base point; objectives are stateless and shared.
type Ensemble struct {
	cfg       Config
	numRuns   int
	seedStart int64
}

func NewEnsemble(cfg Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, obj objective.Objective) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := e.cfg
			cfg.Seed = e.seedStart + int64(idx)

			exp, err := New(cfg, obj)
			if err != nil {
				errs[idx] = err
				return
			}
			for _, m := range reg.DefaultMetrics() {
				exp.AddMetric(m)
			}
			results[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
