package objective

import "math"

// Rastrigin is the multimodal egg-carton benchmark
//
//	f(x) = A*n + sum x[i]^2 - A*cos(2*pi*x[i])
//
// with a regular lattice of local minima around the global one at the
// origin. A scales the ripple against the underlying bowl.
type Rastrigin struct {
	A float64
}

func NewRastrigin() *Rastrigin {
	return &Rastrigin{A: 10}
}

func (r *Rastrigin) Eval(x []float64) float64 {
	sum := r.A * float64(len(x))
	for _, xi := range x {
		sum += xi*xi - r.A*math.Cos(2*math.Pi*xi)
	}
	return sum
}

func (r *Rastrigin) Grad(x, g []float64) {
	for i, xi := range x {
		g[i] = 2*xi + 2*math.Pi*r.A*math.Sin(2*math.Pi*xi)
	}
}

func (r *Rastrigin) Start(dim int) []float64 {
	s := make([]float64, dim)
	for i := range s {
		s[i] = 2.5
	}
	return s
}
