package fem

import (
	"fmt"

	"github.com/notargets/golaghos/utils"
)

type BasisType uint8

const (
	// H1 elements interpolate at Gauss-Lobatto nodes, shared between zones
	H1 BasisType = iota
	// L2 elements interpolate at Gauss-Legendre nodes, local to a zone
	L2
)

func (bt BasisType) String() string {
	switch bt {
	case H1:
		return "H1"
	case L2:
		return "L2"
	}
	return fmt.Sprintf("BasisType(%d)", uint8(bt))
}

// FiniteElement is a tensor product Lagrange element on [0,1]^Dim. Local dofs
// are ordered lexicographically, x fastest: i = ix + ND1D*(iy + ND1D*iz)
type FiniteElement struct {
	Dim, Order int
	Type       BasisType
	Basis      *Poly1D
	ND1D, ND   int
}

func NewFiniteElement(dim, order int, bt BasisType) (fe *FiniteElement) {
	if dim < 1 || dim > 3 {
		panic(fmt.Errorf("finite element dimension must be 1, 2 or 3, have %d", dim))
	}
	var nodes []float64
	switch bt {
	case H1:
		if order < 1 {
			panic(fmt.Errorf("H1 element order must be >= 1, have %d", order))
		}
		nodes = GaussLobatto(order + 1)
	case L2:
		if order < 0 {
			panic(fmt.Errorf("L2 element order must be >= 0, have %d", order))
		}
		nodes, _ = GaussLegendre(order + 1)
	default:
		panic(fmt.Errorf("unknown basis type %v", bt))
	}
	fe = &FiniteElement{
		Dim:   dim,
		Order: order,
		Type:  bt,
		Basis: NewPoly1D(nodes),
		ND1D:  order + 1,
		ND:    utils.IPOW(order+1, dim),
	}
	return
}

func (fe *FiniteElement) GetDof() int { return fe.ND }

func (fe *FiniteElement) String() string {
	return fmt.Sprintf("%v_%dD_P%d", fe.Type, fe.Dim, fe.Order)
}

// CalcShape evaluates all ND shape functions at the reference point ip
func (fe *FiniteElement) CalcShape(ip [3]float64, shape []float64) {
	var (
		n  = fe.ND1D
		sh [3][]float64
	)
	for d := 0; d < fe.Dim; d++ {
		sh[d] = make([]float64, n)
		fe.Basis.Eval(ip[d], sh[d], nil)
	}
	for i := 0; i < fe.ND; i++ {
		ijk := fe.LocalIJK(i)
		val := 1.
		for d := 0; d < fe.Dim; d++ {
			val *= sh[d][ijk[d]]
		}
		shape[i] = val
	}
}

// CalcDShape evaluates reference gradients, dshape[i*Dim+d] = dphi_i/dxi_d
func (fe *FiniteElement) CalcDShape(ip [3]float64, dshape []float64) {
	var (
		n      = fe.ND1D
		sh, ds [3][]float64
	)
	for d := 0; d < fe.Dim; d++ {
		sh[d], ds[d] = make([]float64, n), make([]float64, n)
		fe.Basis.Eval(ip[d], sh[d], ds[d])
	}
	for i := 0; i < fe.ND; i++ {
		ijk := fe.LocalIJK(i)
		for d := 0; d < fe.Dim; d++ {
			val := 1.
			for dd := 0; dd < fe.Dim; dd++ {
				if dd == d {
					val *= ds[dd][ijk[dd]]
				} else {
					val *= sh[dd][ijk[dd]]
				}
			}
			dshape[i*fe.Dim+d] = val
		}
	}
}

func (fe *FiniteElement) LocalIJK(i int) (ijk [3]int) {
	n := fe.ND1D
	ijk[0] = i % n
	if fe.Dim > 1 {
		ijk[1] = (i / n) % n
	}
	if fe.Dim > 2 {
		ijk[2] = i / (n * n)
	}
	return
}
