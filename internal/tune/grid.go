// Package tune searches optimizer hyperparameters by exhaustive grid
// evaluation. Each grid point builds a fresh experiment, runs it, and reads
// one result metric; the point with the smallest value wins.
package tune

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mariogeiger/gradcmp-optim/internal/experiment"
)

// ErrNoResult reports that every grid point failed to build or run.
var ErrNoResult = errors.New("tune: no grid point produced a result")

type GridSearch struct {
	names  []string
	ranges [][]float64
}

func NewGridSearch(names []string, ranges [][]float64) (*GridSearch, error) {
	if len(names) != len(ranges) {
		return nil, fmt.Errorf("tune: %d names for %d ranges", len(names), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("tune: empty range for %s", names[i])
		}
	}
	return &GridSearch{names: names, ranges: ranges}, nil
}

// Size returns the number of grid points Search will evaluate.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search evaluates every combination of the configured ranges. The build
// callback turns one assignment into a runnable experiment; metricName
// selects which result metric to minimize. Points whose build or run fails
// are skipped; if none succeeds, Search returns ErrNoResult.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, error) {

	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, &best, &bestParams)

	if bestParams == nil {
		return nil, 0, ErrNoResult
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) {
	if depth == len(g.names) {
		exp, err := build(current)
		if err != nil {
			return
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	name := g.names[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[name] = val

		g.searchRecursive(ctx, depth+1, next, build, metricName, best, bestParams)
	}
}

// Apply copies a hyperparameter assignment onto a run configuration.
// Recognized names are tau, dt, low_bound and high_bound.
func Apply(cfg experiment.Config, params map[string]float64) (experiment.Config, error) {
	for name, val := range params {
		switch name {
		case "tau":
			cfg.Tau = val
		case "dt":
			cfg.Dt = val
		case "low_bound":
			cfg.LowBound = val
		case "high_bound":
			cfg.HighBound = val
		default:
			return cfg, fmt.Errorf("unknown hyperparameter: %s", name)
		}
	}
	return cfg, nil
}

// LinSpace returns n values evenly spaced between lo and hi inclusive.
func LinSpace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// LogSpace returns n values log-uniformly spaced between lo and hi
// inclusive. Both endpoints must be positive.
func LogSpace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	return floats.LogSpan(make([]float64, n), lo, hi)
}
