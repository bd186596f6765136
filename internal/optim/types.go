package optim

import "fmt"

// Param is a single optimizable parameter vector. Value is the current
// position and is rewritten in place by every proposal. Grad is owned by the
// caller, who fills it during the evaluation hook; a nil Grad means the
// parameter has no gradient this round and is left untouched.
type Param struct {
	Name  string
	Value []float64
	Grad  []float64
}

// Config holds the hyperparameters shared by a parameter group.
type Config struct {
	// Tau is the momentum time scale. Positive values give exponential
	// velocity memory exp(-dt/Tau), negative values power-law memory
	// (t/(t+dt))^(-Tau), and zero disables memory entirely (v = -g).
	Tau float64

	// Dt is the initial step size. The integrator adapts it from there.
	Dt float64

	// LowBound and HighBound bracket the acceptance test on the relative
	// gradient drift: below LowBound the step size grows, at or above
	// HighBound the step is rejected and the step size shrinks.
	LowBound  float64
	HighBound float64
}

// DefaultConfig returns the stock hyperparameters. Tau is zero (no momentum)
// and is the knob most callers will want to set.
func DefaultConfig() Config {
	return Config{
		Tau:       0,
		Dt:        1,
		LowBound:  1e-4,
		HighBound: 1e-3,
	}
}

func (c Config) validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: initial step size must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.LowBound <= 0 || c.HighBound <= 0 {
		return fmt.Errorf("%w: acceptance bounds must be positive, got low=%g high=%g",
			ErrInvalidConfig, c.LowBound, c.HighBound)
	}
	if c.LowBound >= c.HighBound {
		return fmt.Errorf("%w: low bound %g must be below high bound %g",
			ErrInvalidConfig, c.LowBound, c.HighBound)
	}
	return nil
}

// Group is a set of parameters integrated with a shared step size. Each
// group keeps its own clock, step counter and acceptance state, so groups
// under one Integrator adapt independently.
type Group struct {
	params []*Param
	cfg    Config

	dt          float64
	t           float64
	step        int
	accepted    bool
	initialized bool
}

// NewGroup builds a group over the given params. The configuration is
// validated here, not on first use.
func NewGroup(cfg Config, params ...*Param) (*Group, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Group{
		params: params,
		cfg:    cfg,
		dt:     cfg.Dt,
	}, nil
}

// StepCount returns the number of accepted steps since the last reset.
// Rejected steps do not count.
func (g *Group) StepCount() int { return g.step }

// Time returns the accumulated integration time. It advances by dt only on
// accepted steps.
func (g *Group) Time() float64 { return g.t }

// StepSize returns the current step size.
func (g *Group) StepSize() float64 { return g.dt }

// Accepted reports the outcome of the most recent step. Initialization
// counts as accepted; before any step it reports false.
func (g *Group) Accepted() bool { return g.accepted }

// Params returns the group's parameters in their reduction order.
func (g *Group) Params() []*Param { return g.params }

// Config returns the hyperparameters the group was built with.
func (g *Group) Config() Config { return g.cfg }
