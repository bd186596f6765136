package objective

// Objective is a differentiable scalar function of a parameter vector.
type Objective interface {
	// Eval returns the objective value at x.
	Eval(x []float64) float64

	// Grad writes the gradient at x into g. g must have the length of x.
	Grad(x, g []float64)

	// Start returns the conventional starting point at the given dimension.
	Start(dim int) []float64
}
