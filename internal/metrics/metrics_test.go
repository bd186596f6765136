package metrics

import (
	"math"
	"testing"

	"github.com/mariogeiger/gradcmp-optim/internal/trace"
)

func TestAcceptanceRate(t *testing.T) {
	m := NewAcceptance()

	m.Observe(trace.Record{Accepted: true})
	m.Observe(trace.Record{Accepted: false})
	m.Observe(trace.Record{Accepted: true})
	m.Observe(trace.Record{Accepted: true})

	if v := m.Value(); v != 0.75 {
		t.Errorf("acceptance = %v, want 0.75", v)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestLossDecades(t *testing.T) {
	m := NewLossDecades()

	m.Observe(trace.Record{Loss: 100})
	m.Observe(trace.Record{Loss: 5})
	m.Observe(trace.Record{Loss: 0.1})

	if v := m.Value(); math.Abs(v-3) > 1e-12 {
		t.Errorf("decades = %v, want 3", v)
	}
}

func TestLossDecades_NonPositive(t *testing.T) {
	m := NewLossDecades()
	m.Observe(trace.Record{Loss: 10})
	m.Observe(trace.Record{Loss: 0})
	if v := m.Value(); v != 0 {
		t.Errorf("decades with zero endpoint = %v, want 0", v)
	}
}

func TestFinalLoss(t *testing.T) {
	m := NewFinalLoss()
	m.Observe(trace.Record{Loss: 9})
	m.Observe(trace.Record{Loss: 2.5})
	if v := m.Value(); v != 2.5 {
		t.Errorf("final loss = %v, want 2.5", v)
	}
}

func TestMeanGradNorm(t *testing.T) {
	m := NewMeanGradNorm()
	m.Observe(trace.Record{GradNorm: 2})
	m.Observe(trace.Record{GradNorm: 4})
	if v := m.Value(); v != 3 {
		t.Errorf("mean grad norm = %v, want 3", v)
	}
}

func TestBounded(t *testing.T) {
	m := NewBounded(10)

	m.Observe(trace.Record{Position: []float64{1, 2}})
	m.Observe(trace.Record{Position: []float64{1, 50}})
	m.Observe(trace.Record{Position: []float64{-3, 0}})
	m.Observe(trace.Record{Position: []float64{-11, 100}})

	if v := m.Value(); v != 0.5 {
		t.Errorf("bounded = %v, want 0.5", v)
	}

	m.Reset()
	if m.Value() != 1 {
		t.Error("expected 1 with no samples")
	}
}

func TestStepSpan(t *testing.T) {
	m := NewStepSpan()

	m.Observe(trace.Record{Dt: 0.1})
	m.Observe(trace.Record{Dt: 0.01})
	m.Observe(trace.Record{Dt: 1})

	if v := m.Value(); math.Abs(v-100) > 1e-9 {
		t.Errorf("step span = %v, want 100", v)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}
