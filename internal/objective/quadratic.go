package objective

import "math"

// Quadratic is a convex bowl with log-spaced axis curvatures. Cond sets the
// ratio between the stiffest and softest axis; 1 gives a plain sphere. The
// minimum is the origin with value zero.
type Quadratic struct {
	Cond float64
}

func NewQuadratic() *Quadratic {
	return &Quadratic{Cond: 100}
}

func (q *Quadratic) curvature(i, n int) float64 {
	if n <= 1 {
		return 1
	}
	return math.Pow(q.Cond, float64(i)/float64(n-1))
}

func (q *Quadratic) Eval(x []float64) float64 {
	sum := 0.0
	for i, xi := range x {
		sum += 0.5 * q.curvature(i, len(x)) * xi * xi
	}
	return sum
}

func (q *Quadratic) Grad(x, g []float64) {
	for i, xi := range x {
		g[i] = q.curvature(i, len(x)) * xi
	}
}

func (q *Quadratic) Start(dim int) []float64 {
	s := make([]float64, dim)
	for i := range s {
		s[i] = 3
	}
	return s
}
