package optim

import (
	"errors"
	"fmt"
)

// Domain errors for integrator operations.
var (
	// ErrDegenerateGradient indicates the acceptance test had nothing to
	// compare: the committed and current gradients both have zero norm.
	ErrDegenerateGradient = errors.New("optim: degenerate gradient (zero norm on both sides of comparison)")

	// ErrInvalidConfig indicates group hyperparameters that violate
	// dt > 0 or 0 < low bound < high bound.
	ErrInvalidConfig = errors.New("optim: invalid group configuration")

	// ErrShapeMismatch indicates a gradient whose length disagrees with
	// its parameter.
	ErrShapeMismatch = errors.New("optim: gradient/parameter shape mismatch")
)

// StepError wraps an error with the group it occurred in. Groups after the
// failing one are left unprocessed; committed state of the failing group is
// unchanged.
type StepError struct {
	Group   int
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("group %d, step %d (t=%.4f): %s", e.Group, e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
