package objective

// Rosenbrock is the banana-valley benchmark
//
//	f(x) = sum B*(x[i+1] - x[i]^2)^2 + (A - x[i])^2
//
// chained over consecutive coordinates. For the default A = 1 the minimum is
// the all-ones point with value zero; the valley floor is easy to reach and
// hard to follow.
type Rosenbrock struct {
	A, B float64
}

func NewRosenbrock() *Rosenbrock {
	return &Rosenbrock{A: 1, B: 100}
}

func (r *Rosenbrock) Eval(x []float64) float64 {
	sum := 0.0
	for i := 0; i+1 < len(x); i++ {
		d := x[i+1] - x[i]*x[i]
		sum += r.B*d*d + (r.A-x[i])*(r.A-x[i])
	}
	return sum
}

func (r *Rosenbrock) Grad(x, g []float64) {
	for i := range g {
		g[i] = 0
	}
	for i := 0; i+1 < len(x); i++ {
		d := x[i+1] - x[i]*x[i]
		g[i] += -4*r.B*d*x[i] - 2*(r.A-x[i])
		g[i+1] += 2 * r.B * d
	}
}

func (r *Rosenbrock) Start(dim int) []float64 {
	s := make([]float64, dim)
	for i := range s {
		if i%2 == 0 {
			s[i] = -1.2
		} else {
			s[i] = 1
		}
	}
	return s
}
