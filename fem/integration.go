package fem

import (
	"fmt"
)

// IntegrationRule is a tensor product Gauss-Legendre rule on the reference
// zone [0,1]^Dim. Points are ordered lexicographically, x fastest:
// q = qx + NQ1D*(qy + NQ1D*qz)
type IntegrationRule struct {
	Dim, NQ1D int
	Points1D  []float64
	Weights1D []float64
	Points    [][3]float64
	Weights   []float64
}

func NewIntegrationRule(dim, NQ1D int) (ir *IntegrationRule) {
	if dim < 1 || dim > 3 {
		panic(fmt.Errorf("integration rule dimension must be 1, 2 or 3, have %d", dim))
	}
	x, w := GaussLegendre(NQ1D)
	ir = &IntegrationRule{
		Dim:       dim,
		NQ1D:      NQ1D,
		Points1D:  x,
		Weights1D: w,
	}
	var (
		nz = 1
		ny = 1
	)
	if dim > 1 {
		ny = NQ1D
	}
	if dim > 2 {
		nz = NQ1D
	}
	for qz := 0; qz < nz; qz++ {
		for qy := 0; qy < ny; qy++ {
			for qx := 0; qx < NQ1D; qx++ {
				var (
					pt = [3]float64{x[qx], 0, 0}
					wt = w[qx]
				)
				if dim > 1 {
					pt[1] = x[qy]
					wt *= w[qy]
				}
				if dim > 2 {
					pt[2] = x[qz]
					wt *= w[qz]
				}
				ir.Points = append(ir.Points, pt)
				ir.Weights = append(ir.Weights, wt)
			}
		}
	}
	return
}

// NewIntegrationRuleForOrder returns the smallest rule that integrates
// polynomials of the given degree exactly in each direction
func NewIntegrationRuleForOrder(dim, order int) *IntegrationRule {
	if order < 0 {
		order = 0
	}
	return NewIntegrationRule(dim, order/2+1)
}

func (ir *IntegrationRule) GetNPoints() int { return len(ir.Weights) }

func (ir *IntegrationRule) String() string {
	return fmt.Sprintf("IR(dim=%d,nq1d=%d)", ir.Dim, ir.NQ1D)
}
