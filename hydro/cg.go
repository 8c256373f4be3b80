package hydro

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// CGSolver is a preconditioned conjugate gradient solver for symmetric
// positive definite operators. It converges when (r, B r) drops below
// max(RelTol^2 (r0, B r0), AbsTol^2).
type CGSolver struct {
	Op            Operator
	Prec          Solver
	RelTol        float64
	AbsTol        float64
	MaxIter       int
	IterativeMode bool // Use the incoming x as the initial guess
	Verbose       bool
	NumIterations int
	FinalNorm     float64
	r, z, d, ad   []float64
}

func NewCGSolver() *CGSolver {
	return &CGSolver{
		RelTol:  1.e-8,
		MaxIter: 300,
	}
}

func (cg *CGSolver) SetOperator(op Operator) {
	if op.Height() != op.Width() {
		panic(fmt.Errorf("CG needs a square operator, have %d x %d", op.Height(), op.Width()))
	}
	cg.Op = op
	n := op.Height()
	cg.r, cg.z, cg.d, cg.ad = make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	if cg.Prec != nil {
		cg.Prec.SetOperator(op)
	}
}

func (cg *CGSolver) SetPreconditioner(prec Solver) {
	cg.Prec = prec
	if cg.Op != nil {
		prec.SetOperator(cg.Op)
	}
}

// Mult solves Op x = b
func (cg *CGSolver) Mult(b, x []float64) (err error) {
	if cg.Op == nil {
		panic("CG solve without an operator")
	}
	var (
		n            = cg.Op.Height()
		r, z, d, ad  = cg.r, cg.z, cg.d, cg.ad
		nom, betanom float64
		den, alpha   float64
	)
	if len(b) != n || len(x) != n {
		panic(fmt.Errorf("CG size mismatch: len(b) = %d, len(x) = %d, need %d", len(b), len(x), n))
	}
	cg.NumIterations = 0
	if cg.IterativeMode {
		cg.Op.Mult(x, r)
		floats.SubTo(r, b, r)
	} else {
		clear(x)
		copy(r, b)
	}
	if err = cg.precondition(r, z); err != nil {
		return
	}
	copy(d, z)
	nom = floats.Dot(z, r)
	if nom < 0 || math.IsNaN(nom) {
		return &NumericalError{Op: "CG", Index: 0, Value: nom, Reason: "preconditioner is not positive definite"}
	}
	r0 := math.Max(nom*cg.RelTol*cg.RelTol, cg.AbsTol*cg.AbsTol)
	if cg.Verbose {
		fmt.Printf("   PCG iteration %4d : (B r, r) = %g\n", 0, nom)
	}
	if nom <= r0 {
		cg.FinalNorm = math.Sqrt(nom)
		return
	}
	for i := 1; i <= cg.MaxIter; i++ {
		cg.Op.Mult(d, ad)
		den = floats.Dot(d, ad)
		if den <= 0 {
			if floats.Dot(d, d) > 0 {
				return &NumericalError{Op: "CG", Index: i, Value: den, Reason: "operator is not positive definite"}
			}
			cg.NumIterations, cg.FinalNorm = i, math.Sqrt(nom)
			return
		}
		alpha = nom / den
		floats.AddScaled(x, alpha, d)
		floats.AddScaled(r, -alpha, ad)
		if err = cg.precondition(r, z); err != nil {
			return
		}
		betanom = floats.Dot(r, z)
		if betanom < 0 || math.IsNaN(betanom) {
			return &NumericalError{Op: "CG", Index: i, Value: betanom, Reason: "preconditioner is not positive definite"}
		}
		if cg.Verbose {
			fmt.Printf("   PCG iteration %4d : (B r, r) = %g\n", i, betanom)
		}
		if betanom <= r0 {
			cg.NumIterations, cg.FinalNorm = i, math.Sqrt(betanom)
			return
		}
		floats.AddScaledTo(d, z, betanom/nom, d)
		nom = betanom
	}
	cg.NumIterations, cg.FinalNorm = cg.MaxIter, math.Sqrt(nom)
	return &NumericalError{Op: "CG", Index: cg.MaxIter, Value: math.Sqrt(nom), Reason: "no convergence"}
}

func (cg *CGSolver) precondition(r, z []float64) error {
	if cg.Prec == nil {
		copy(z, r)
		return nil
	}
	return cg.Prec.Mult(r, z)
}
