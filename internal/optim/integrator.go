package optim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Integrator advances parameter groups through the momentum dynamics,
// adapting each group's step size from the gradient drift between committed
// points.
type Integrator struct {
	groups []*Group
	state  map[*Param]*paramState
}

// paramState is the committed snapshot for one parameter plus the pending
// velocity proposal. Entries exist only for params that had a gradient when
// their group was last (re)initialized.
type paramState struct {
	grad []float64 // gradient at the committed position
	pos  []float64 // committed position
	vel  []float64 // committed velocity
	next []float64 // proposed velocity, promoted by the next accept
}

// New creates an integrator over the given groups.
func New(groups ...*Group) *Integrator {
	return &Integrator{
		groups: groups,
		state:  make(map[*Param]*paramState),
	}
}

// Groups returns the integrator's groups in processing order.
func (it *Integrator) Groups() []*Group { return it.groups }

// Reset reinitializes every group from the current parameter values and
// gradients: clocks and step counters return to zero, step sizes to their
// configured initial values, committed velocities to zero. Params without a
// gradient get no state entry and are invisible to the integrator until the
// next reset. Resetting twice in a row is the same as resetting once.
//
// Shapes are validated across all groups before anything is touched.
func (it *Integrator) Reset() error {
	for i, g := range it.groups {
		if err := it.checkShapes(g); err != nil {
			return &StepError{Group: i, Step: g.step, Time: g.t, Wrapped: err}
		}
	}
	for _, g := range it.groups {
		it.resetGroup(g)
	}
	return nil
}

func (it *Integrator) resetGroup(g *Group) {
	g.dt = g.cfg.Dt
	g.t = 0
	g.step = 0
	g.accepted = true
	g.initialized = true
	for _, p := range g.params {
		delete(it.state, p)
		if p.Grad == nil {
			continue
		}
		it.state[p] = &paramState{
			grad: clone(p.Grad),
			pos:  clone(p.Value),
			vel:  make([]float64, len(p.Value)),
			next: make([]float64, len(p.Value)),
		}
	}
}

// Step performs one advance. eval, if non-nil, runs exactly once before any
// group is processed; it is the caller's hook to evaluate the objective at
// the current positions and fill in the gradients. It is never re-invoked on
// rejection: the retry happens on the caller's next Step, against the
// re-proposed positions.
//
// Per group, in order: an uninitialized group initializes (as in Reset) and
// skips the acceptance test. Otherwise the gradient drift decides between
// accept (clock and counter advance, pending velocities promote, dt grows
// 1.1x when the drift is under LowBound) and reject (dt shrinks 10x,
// committed state untouched). Either way new positions are proposed from the
// committed state with the updated dt. Rejection is not an error.
func (it *Integrator) Step(eval func()) error {
	if eval != nil {
		eval()
	}
	for i, g := range it.groups {
		if err := it.stepGroup(g); err != nil {
			return &StepError{Group: i, Step: g.step, Time: g.t, Wrapped: err}
		}
	}
	return nil
}

func (it *Integrator) stepGroup(g *Group) error {
	if err := it.checkShapes(g); err != nil {
		return err
	}
	if !g.initialized {
		it.resetGroup(g)
	} else if err := it.control(g); err != nil {
		return err
	}
	it.propose(g)
	return nil
}

// control runs the acceptance test against the committed gradients and
// updates dt, the clock and the committed state. The reductions run in
// parameter order so results are reproducible run to run.
func (it *Integrator) control(g *Group) error {
	var a2, b2, ab float64
	for _, p := range g.params {
		st, ok := it.active(p)
		if !ok {
			continue
		}
		a2 += floats.Dot(st.grad, st.grad)
		b2 += floats.Dot(p.Grad, p.Grad)
		ab += floats.Dot(st.grad, p.Grad)
	}
	if a2*b2 == 0 {
		return ErrDegenerateGradient
	}
	relnorm := (a2 + b2 - 2*ab) / math.Sqrt(a2*b2)

	// NaN compares false, so a non-finite relnorm (gradient overflow at
	// the proposed point) takes the reject branch and the committed state
	// stays finite.
	if relnorm < g.cfg.HighBound {
		g.t += g.dt
		g.step++
		g.accepted = true
		for _, p := range g.params {
			st, ok := it.active(p)
			if !ok {
				continue
			}
			copy(st.grad, p.Grad)
			copy(st.pos, p.Value)
			st.vel, st.next = st.next, st.vel
		}
		if relnorm < g.cfg.LowBound {
			g.dt *= 1.1
		}
		return nil
	}

	g.dt /= 10
	g.accepted = false
	return nil
}

// propose writes new positions from the committed state. The velocity
// recurrence reads the committed gradient, which lags the one the acceptance
// test just saw by one accepted step.
func (it *Integrator) propose(g *Group) {
	x := decay(g.cfg.Tau, g.t, g.dt)
	for _, p := range g.params {
		st, ok := it.active(p)
		if !ok {
			continue
		}
		floats.ScaleTo(st.next, x, st.vel)
		floats.AddScaled(st.next, x-1, st.grad)
		floats.AddScaledTo(p.Value, st.pos, g.dt, st.next)
	}
}

// decay is the velocity retention factor for a step of length dt taken at
// time t. At t = 0 the power law gives zero retention, so the first proposal
// under tau < 0 is plain descent.
func decay(tau, t, dt float64) float64 {
	switch {
	case tau > 0:
		return math.Exp(-dt / tau)
	case tau < 0:
		return math.Pow(t/(t+dt), -tau)
	default:
		return 0
	}
}

// active returns the state entry for p when p participates in this round,
// meaning it has both a gradient and a snapshot from initialization.
func (it *Integrator) active(p *Param) (*paramState, bool) {
	if p.Grad == nil {
		return nil, false
	}
	st, ok := it.state[p]
	return st, ok
}

func (it *Integrator) checkShapes(g *Group) error {
	for i, p := range g.params {
		if p.Grad == nil {
			continue
		}
		if len(p.Grad) != len(p.Value) {
			return fmt.Errorf("%w: param %d: value has %d elements, gradient %d",
				ErrShapeMismatch, i, len(p.Value), len(p.Grad))
		}
		if st, ok := it.state[p]; ok && len(st.grad) != len(p.Grad) {
			return fmt.Errorf("%w: param %d: resized from %d to %d elements since initialization",
				ErrShapeMismatch, i, len(st.grad), len(p.Grad))
		}
	}
	return nil
}

func clone(v []float64) []float64 {
	c := make([]float64, len(v))
	copy(c, v)
	return c
}
