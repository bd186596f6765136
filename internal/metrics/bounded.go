package metrics

import (
	"math"

	"github.com/mariogeiger/gradcmp-optim/internal/trace"
)

// Bounded tracks the fraction of evaluations whose iterate stayed inside a
// box of the given radius. Values below one signal that the step size
// controller let the trajectory escape.
type Bounded struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewBounded(radius float64) *Bounded {
	return &Bounded{
		name:   "bounded",
		radius: radius,
	}
}

func (b *Bounded) Name() string {
	return b.name
}

func (b *Bounded) Observe(rec trace.Record) {
	b.samples++
	for _, val := range rec.Position {
		if math.Abs(val) > b.radius {
			b.violations++
			break
		}
	}
}

func (b *Bounded) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Bounded) Reset() {
	b.violations = 0
	b.samples = 0
}
