package hydro

import (
	"fmt"
	"math"

	"github.com/notargets/golaghos/device"
	"github.com/notargets/golaghos/fem"
	"github.com/notargets/golaghos/utils"
)

// DiagonalSolver divides by a fixed diagonal, the Jacobi preconditioner of
// the mass solves
type DiagonalSolver struct {
	space *fem.Space
	diag  *device.Buffer[float64]
	// Entries with |d| <= SingularTol * max|d| are reported as singular
	SingularTol float64
	maxAbs      float64
}

func NewDiagonalSolver(space *fem.Space) (ds *DiagonalSolver) {
	ds = &DiagonalSolver{
		space:       space,
		diag:        device.NewBuffer[float64](space.Context(), space.GetTrueVSize(), "diag"),
		SingularTol: 1.e-14,
	}
	return
}

func (ds *DiagonalSolver) Height() int { return ds.diag.Len() }
func (ds *DiagonalSolver) Width() int  { return ds.diag.Len() }

// SetDiagonal restricts the L-vector d to true dofs, diag = P^T d
func (ds *DiagonalSolver) SetDiagonal(d []float64) {
	if len(d) != ds.space.GetVSize() {
		panic(fmt.Errorf("diagonal size mismatch: have %d, need %d", len(d), ds.space.GetVSize()))
	}
	diag := ds.diag.Device()
	if P := ds.space.GetProlongation(); P != nil {
		P.MultTranspose(d, diag)
	} else {
		copy(diag, d)
	}
	ds.maxAbs = 0
	for _, v := range diag {
		ds.maxAbs = math.Max(ds.maxAbs, math.Abs(v))
	}
}

// Diagonal is the restricted diagonal on the device
func (ds *DiagonalSolver) Diagonal() []float64 { return ds.diag.Device() }

// Mult computes y = x / diag
func (ds *DiagonalSolver) Mult(x, y []float64) (err error) {
	diag := ds.diag.Device()
	if len(x) != len(diag) || len(y) != len(diag) {
		panic(fmt.Errorf("diagonal solver size mismatch: len(x) = %d, len(y) = %d, need %d", len(x), len(y), len(diag)))
	}
	tol := ds.SingularTol * ds.maxAbs
	for i, d := range diag {
		if math.Abs(d) <= tol {
			return &NumericalError{Op: "DiagonalSolver.Mult", Index: i, Value: d, Reason: "singular diagonal"}
		}
		y[i] = x[i] / d
		if !utils.IsFinite(y[i]) {
			return &NumericalError{Op: "DiagonalSolver.Mult", Index: i, Value: y[i], Reason: "non finite quotient"}
		}
	}
	return
}

// SetOperator does nothing, the scaling is fixed by SetDiagonal
func (ds *DiagonalSolver) SetOperator(op Operator) {}
