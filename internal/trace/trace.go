// Package trace holds the per-step records an optimization run produces and
// the interfaces downstream consumers implement to watch a run.
package trace

// Record captures one integrator advance.
type Record struct {
	// Call is the advance index, counting rejected steps too.
	Call int
	// Step is the group's accepted-step counter after the advance.
	Step int
	// T and Dt are the group clock and step size after the advance.
	T  float64
	Dt float64
	// Loss and GradNorm come from the evaluation that opened the advance.
	Loss     float64
	GradNorm float64
	Accepted bool
	// Position is a snapshot of the parameter vector after the proposal.
	Position []float64
}

// Observer receives records as a run produces them.
type Observer interface {
	OnStep(rec Record)
}

// Metric accumulates a scalar summary over a run.
type Metric interface {
	Name() string
	Observe(rec Record)
	Value() float64
	Reset()
}

// Trace is the full history of a run in call order.
type Trace []Record

func (tr Trace) Losses() []float64 {
	out := make([]float64, len(tr))
	for i, r := range tr {
		out[i] = r.Loss
	}
	return out
}

func (tr Trace) StepSizes() []float64 {
	out := make([]float64, len(tr))
	for i, r := range tr {
		out[i] = r.Dt
	}
	return out
}

func (tr Trace) GradNorms() []float64 {
	out := make([]float64, len(tr))
	for i, r := range tr {
		out[i] = r.GradNorm
	}
	return out
}

func (tr Trace) Times() []float64 {
	out := make([]float64, len(tr))
	for i, r := range tr {
		out[i] = r.T
	}
	return out
}

// AcceptanceRate is the fraction of advances that were accepted.
func (tr Trace) AcceptanceRate() float64 {
	if len(tr) == 0 {
		return 0
	}
	n := 0
	for _, r := range tr {
		if r.Accepted {
			n++
		}
	}
	return float64(n) / float64(len(tr))
}

// Final returns the last record, or a zero Record for an empty trace.
func (tr Trace) Final() Record {
	if len(tr) == 0 {
		return Record{}
	}
	return tr[len(tr)-1]
}
