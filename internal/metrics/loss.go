package metrics

import (
	"math"

	"github.com/mariogeiger/gradcmp-optim/internal/trace"
)

type FinalLoss struct {
	name string
	last float64
}

func NewFinalLoss() *FinalLoss {
	return &FinalLoss{name: "final_loss"}
}

func (f *FinalLoss) Name() string { return f.name }

func (f *FinalLoss) Observe(rec trace.Record) {
	f.last = rec.Loss
}

func (f *FinalLoss) Value() float64 {
	return f.last
}

func (f *FinalLoss) Reset() {
	f.last = 0
}

// LossDecades measures how many orders of magnitude the loss dropped over a
// run. Zero when either endpoint is not positive.
type LossDecades struct {
	name    string
	first   float64
	last    float64
	samples int
}

func NewLossDecades() *LossDecades {
	return &LossDecades{name: "loss_decades"}
}

func (l *LossDecades) Name() string { return l.name }

func (l *LossDecades) Observe(rec trace.Record) {
	if l.samples == 0 {
		l.first = rec.Loss
	}
	l.last = rec.Loss
	l.samples++
}

func (l *LossDecades) Value() float64 {
	if l.samples == 0 || l.first <= 0 || l.last <= 0 {
		return 0
	}
	return math.Log10(l.first / l.last)
}

func (l *LossDecades) Reset() {
	l.first = 0
	l.last = 0
	l.samples = 0
}
