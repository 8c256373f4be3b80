package hydro

// Operator is a square or rectangular linear map applied without a matrix
type Operator interface {
	Height() int
	Width() int
	Mult(x, y []float64)
}

// Solver approximates the inverse of an operator; preconditioners implement it
type Solver interface {
	SetOperator(op Operator)
	Mult(x, y []float64) error
}
