package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/mariogeiger/gradcmp-optim/internal/trace"
)

// ConvergenceRate estimates the exponential decay rate of the loss by
// least-squares fitting log(loss) against committed time.
//
// Algorithm:
//  1. Keep accepted records with positive loss; those lie on the committed
//     trajectory at their recorded time.
//  2. Fit log L = a - r*t.
//  3. Return r. Positive means the loss shrinks like exp(-r*t).
func ConvergenceRate(tr trace.Trace) float64 {
	xs := make([]float64, 0, len(tr))
	ys := make([]float64, 0, len(tr))
	for _, rec := range tr {
		if !rec.Accepted || rec.Loss <= 0 {
			continue
		}
		xs = append(xs, rec.T)
		ys = append(ys, math.Log(rec.Loss))
	}

	if len(xs) < 2 || xs[0] == xs[len(xs)-1] {
		return 0
	}

	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return -beta
}

// PlateauLength counts the trailing records that never improved the running
// best loss by more than frac relative. Every evaluation counts, rejected
// ones included; a long plateau means the run stopped finding better points.
func PlateauLength(tr trace.Trace, frac float64) int {
	if len(tr) == 0 {
		return 0
	}

	best := tr[0].Loss
	last := 0
	for i, rec := range tr {
		if rec.Loss < best-frac*math.Abs(best) {
			best = rec.Loss
			last = i
		}
	}
	return len(tr) - 1 - last
}
