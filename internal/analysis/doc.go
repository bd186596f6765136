// Package analysis extracts summary statistics from optimization traces.
//
// The package characterizes how a finished run behaved:
//
//   - [ConvergenceRate]: exponential loss decay rate via a log-linear fit
//   - [PlateauLength]: trailing calls without significant improvement
//
// # Convergence
//
// A positive rate means the loss still shrinks along the committed path:
//
//	rate := analysis.ConvergenceRate(result.Trace)
//	if rate <= 0 {
//	    // The run stalled or diverged
//	}
package analysis
