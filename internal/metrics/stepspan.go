package metrics

import "github.com/mariogeiger/gradcmp-optim/internal/trace"

// MeanGradNorm averages the gradient norm over a run.
type MeanGradNorm struct {
	name    string
	total   float64
	samples int
}

func NewMeanGradNorm() *MeanGradNorm {
	return &MeanGradNorm{name: "mean_grad_norm"}
}

func (m *MeanGradNorm) Name() string { return m.name }

func (m *MeanGradNorm) Observe(rec trace.Record) {
	m.total += rec.GradNorm
	m.samples++
}

func (m *MeanGradNorm) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanGradNorm) Reset() {
	m.total = 0
	m.samples = 0
}

// StepSpan is the ratio between the largest and smallest step size seen,
// a measure of how hard the controller had to adapt.
type StepSpan struct {
	name    string
	minDt   float64
	maxDt   float64
	samples int
}

func NewStepSpan() *StepSpan {
	return &StepSpan{name: "step_span"}
}

func (s *StepSpan) Name() string { return s.name }

func (s *StepSpan) Observe(rec trace.Record) {
	if s.samples == 0 || rec.Dt < s.minDt {
		s.minDt = rec.Dt
	}
	if s.samples == 0 || rec.Dt > s.maxDt {
		s.maxDt = rec.Dt
	}
	s.samples++
}

func (s *StepSpan) Value() float64 {
	if s.samples == 0 || s.minDt == 0 {
		return 0
	}
	return s.maxDt / s.minDt
}

func (s *StepSpan) Reset() {
	s.minDt = 0
	s.maxDt = 0
	s.samples = 0
}
