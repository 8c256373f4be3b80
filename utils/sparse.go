package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

type DOK struct {
	M    *sparse.DOK
	name string
}

func NewDOK(nr, nc int, name ...string) (R DOK) {
	R = DOK{
		M:    sparse.NewDOK(nr, nc),
		name: "unnamed",
	}
	if len(name) != 0 {
		R.name = name[0]
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return mat.Transpose{Matrix: m} }

func (m DOK) Set(i, j int, val float64) DOK { // Changes receiver
	m.M.Set(i, j, val)
	return m
}

// AddTo accumulates into an entry, the usual assembly operation
func (m DOK) AddTo(i, j int, val float64) DOK { // Changes receiver
	m.M.Set(i, j, m.M.At(i, j)+val)
	return m
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

type CSR struct {
	M    *sparse.CSR
	name string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix       { return mat.Transpose{Matrix: m} }
func (m CSR) Name() string        { return m.name }

// MulVec computes y = A x
func (m CSR) MulVec(x, y []float64) {
	nr, nc := m.Dims()
	m.checkDims(nc, nr, len(x), len(y))
	for i := range y {
		y[i] = 0
	}
	m.M.MulVecTo(y, false, x)
}

// MulVecTrans computes y = A^T x
func (m CSR) MulVecTrans(x, y []float64) {
	nr, nc := m.Dims()
	m.checkDims(nr, nc, len(x), len(y))
	for j := range y {
		y[j] = 0
	}
	m.M.MulVecTo(y, true, x)
}

func (m CSR) checkDims(nIn, nOut, lx, ly int) {
	if lx != nIn || ly != nOut {
		panic(fmt.Errorf("sparse matrix \"%s\" dimension mismatch: need len(x) = %d, len(y) = %d, have %d, %d",
			m.name, nIn, nOut, lx, ly))
	}
}
