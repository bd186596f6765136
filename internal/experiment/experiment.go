package experiment

import (
	"context"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/mariogeiger/gradcmp-optim/internal/objective"
	"github.com/mariogeiger/gradcmp-optim/internal/optim"
	"github.com/mariogeiger/gradcmp-optim/internal/trace"
)

type Config struct {
	Objective string
	Dim       int
	Tau       float64
	Dt        float64
	LowBound  float64
	HighBound float64
	Steps     int
	Seed      int64
	Init      []float64
	Jitter    float64
}

// Result summarizes a finished run.
type Result struct {
	Trace     trace.Trace
	Metrics   map[string]float64
	FinalLoss float64
	Accepted  int
	Calls     int
}

// Experiment drives one integrator over one objective, recording a trace.
type Experiment struct {
	cfg       Config
	obj       objective.Objective
	integ     *optim.Integrator
	group     *optim.Group
	param     *optim.Param
	loss      float64
	call      int
	observers []trace.Observer
	metrics   []trace.Metric
	rng       *rand.Rand
}

// New builds an experiment from the config. The starting point is cfg.Init
// when given, otherwise the objective's conventional start at cfg.Dim,
// optionally perturbed by cfg.Jitter using the seeded source.
func New(cfg Config, obj objective.Objective) (*Experiment, error) {
	e := &Experiment{
		cfg: cfg,
		obj: obj,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}

	x0 := e.start()
	e.param = &optim.Param{Name: "x", Value: x0, Grad: make([]float64, len(x0))}
	group, err := optim.NewGroup(optim.Config{
		Tau:       cfg.Tau,
		Dt:        cfg.Dt,
		LowBound:  cfg.LowBound,
		HighBound: cfg.HighBound,
	}, e.param)
	if err != nil {
		return nil, err
	}
	e.group = group
	e.integ = optim.New(group)
	return e, nil
}

func (e *Experiment) start() []float64 {
	var x0 []float64
	if len(e.cfg.Init) > 0 {
		x0 = make([]float64, len(e.cfg.Init))
		copy(x0, e.cfg.Init)
	} else {
		x0 = e.obj.Start(e.cfg.Dim)
	}
	if e.cfg.Jitter != 0 {
		for i := range x0 {
			x0[i] += e.rng.NormFloat64() * e.cfg.Jitter
		}
	}
	return x0
}

func (e *Experiment) AddObserver(o trace.Observer) {
	e.observers = append(e.observers, o)
}

func (e *Experiment) AddMetric(m trace.Metric) {
	e.metrics = append(e.metrics, m)
}

// Group exposes the underlying group for live views.
func (e *Experiment) Group() *optim.Group { return e.group }

func (e *Experiment) Config() Config { return e.cfg }

func (e *Experiment) eval() {
	e.loss = e.obj.Eval(e.param.Value)
	e.obj.Grad(e.param.Value, e.param.Grad)
}

// Step performs one integrator advance and fans the record out to metrics
// and observers. The recorded loss and gradient norm belong to the position
// the advance evaluated; Position is the freshly proposed point.
func (e *Experiment) Step() (trace.Record, error) {
	if err := e.integ.Step(e.eval); err != nil {
		return trace.Record{}, err
	}
	pos := make([]float64, len(e.param.Value))
	copy(pos, e.param.Value)
	rec := trace.Record{
		Call:     e.call,
		Step:     e.group.StepCount(),
		T:        e.group.Time(),
		Dt:       e.group.StepSize(),
		Loss:     e.loss,
		GradNorm: floats.Norm(e.param.Grad, 2),
		Accepted: e.group.Accepted(),
		Position: pos,
	}
	e.call++
	for _, m := range e.metrics {
		m.Observe(rec)
	}
	for _, o := range e.observers {
		o.OnStep(rec)
	}
	return rec, nil
}

// Run advances cfg.Steps times and collects the result.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	tr := make(trace.Trace, 0, e.cfg.Steps)
	for i := 0; i < e.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		rec, err := e.Step()
		if err != nil {
			return nil, err
		}
		tr = append(tr, rec)
	}

	res := &Result{
		Trace:     tr,
		Metrics:   make(map[string]float64, len(e.metrics)),
		FinalLoss: e.loss,
		Accepted:  e.group.StepCount(),
		Calls:     e.call,
	}
	for _, m := range e.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res, nil
}

// Reset rebuilds the starting point from the seed, re-snapshots the
// integrator there and clears metrics and the call counter.
func (e *Experiment) Reset() error {
	e.rng = rand.New(rand.NewSource(e.cfg.Seed))
	x0 := e.start()
	copy(e.param.Value, x0)
	e.eval()
	if err := e.integ.Reset(); err != nil {
		return err
	}
	e.call = 0
	for _, m := range e.metrics {
		m.Reset()
	}
	return nil
}
