// Package objective provides differentiable benchmark landscapes for the
// integrator to descend.
//
// Each objective reports values and analytic gradients at arbitrary
// dimension:
//
//   - [Quadratic]: convex bowl with tunable conditioning
//   - [Rosenbrock]: curved narrow valley
//   - [Rastrigin]: highly multimodal egg carton
//
// Gradients are written into caller-owned buffers so the evaluation loop
// allocates nothing.
package objective
