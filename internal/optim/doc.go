// Package optim implements momentum gradient descent as a continuous-time
// dynamical system with an adaptive step size.
//
// The dynamics integrated are
//
//	dv/dt = -f(t, dt) * (v + g)
//	dx/dt = v
//
// where g is the gradient of the objective and f is a decay rate set by the
// momentum time scale Tau: 1/Tau for Tau > 0 (exponential memory), -Tau/t
// for Tau < 0 (power-law memory), and memoryless v = -g for Tau == 0.
//
// The step size adapts from the drift between the gradient at the last
// committed point and the gradient the caller computes at the proposed
// point. Small drift accepts the step and may grow dt; large drift rejects
// it and shrinks dt tenfold, re-proposing from the committed point. The key
// types are:
//
//   - [Param]: one parameter vector with its caller-written gradient
//   - [Config]: per-group hyperparameters (Tau, Dt, acceptance bounds)
//   - [Group]: params sharing one step size, clock and acceptance state
//   - [Integrator]: drives Reset and Step over one or more groups
//
// # Example
//
//	p := &optim.Param{Value: x, Grad: make([]float64, len(x))}
//	group, _ := optim.NewGroup(optim.Config{Tau: 1, Dt: 0.1, LowBound: 1e-4, HighBound: 1e-3}, p)
//	it := optim.New(group)
//	for i := 0; i < steps; i++ {
//		err := it.Step(func() { obj.Grad(p.Value, p.Grad) })
//		...
//	}
//
// Velocities are updated from the gradient at the committed point, not the
// freshly evaluated one, so they lag positions by one accepted step. That
// asymmetry is part of the method.
//
// # Thread Safety
//
// Integrator instances are NOT thread-safe. Concurrent optimization runs
// should use independent integrators, as the experiment Ensemble does.
package optim
