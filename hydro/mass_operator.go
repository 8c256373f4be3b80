package hydro

import (
	"fmt"

	"github.com/notargets/golaghos/device"
	"github.com/notargets/golaghos/fem"
	"github.com/notargets/golaghos/utils"
)

// MassOperator is the mass matrix of a scalar space, applied by partial
// assembly. The vector velocity mass is applied one component at a time with
// that component's essential dofs. The QuadratureData is borrowed and must
// outlive the operator.
type MassOperator struct {
	space *fem.Space
	ir    *fem.IntegrationRule
	qd    *QuadratureData
	dq    *fem.DofQuadMaps
	// PA coefficient, rho0 det(J0) w per point, captured at Setup
	oper          *device.Buffer[float64]
	essTDofs      *device.Buffer[int32]
	xT, distX, yL *device.Buffer[float64]
	xE, yE        *device.Buffer[float64]
	isSetup       bool
}

func NewMassOperator(space *fem.Space, ir *fem.IntegrationRule, qd *QuadratureData) (mo *MassOperator) {
	if space.GetVDim() != 1 {
		panic(fmt.Errorf("mass operator needs a scalar space, have vdim = %d", space.GetVDim()))
	}
	if qd.Dim != space.Mesh.Dim || qd.NZones != space.GetNE() || qd.QuadsPerZone != ir.GetNPoints() {
		panic(fmt.Errorf("quadrature data (dim %d, zones %d, points %d) does not fit the space (dim %d, zones %d) and rule (points %d)",
			qd.Dim, qd.NZones, qd.QuadsPerZone, space.Mesh.Dim, space.GetNE(), ir.GetNPoints()))
	}
	ctx := space.Context()
	mo = &MassOperator{
		space:    space,
		ir:       ir,
		qd:       qd,
		oper:     device.NewBuffer[float64](ctx, qd.NPoints(), "massOper"),
		essTDofs: device.NewBuffer[int32](ctx, 0, "essTDofs"),
		xT:       device.NewBuffer[float64](ctx, space.GetTrueVSize(), "xT"),
		distX:    device.NewBuffer[float64](ctx, space.GetVSize(), "distX"),
		yL:       device.NewBuffer[float64](ctx, space.GetVSize(), "yL"),
		xE:       device.NewBuffer[float64](ctx, space.GetESize(), "xE"),
		yE:       device.NewBuffer[float64](ctx, space.GetESize(), "yE"),
	}
	return
}

func (mo *MassOperator) Height() int { return mo.space.GetTrueVSize() }
func (mo *MassOperator) Width() int  { return mo.space.GetTrueVSize() }

func (mo *MassOperator) Space() *fem.Space { return mo.space }

// Setup captures the time zero mass weighting and the basis to quadrature maps
func (mo *MassOperator) Setup() {
	mo.dq = fem.GetDofQuadMaps(mo.space.Context(), mo.space.FE, mo.ir)
	copy(mo.oper.Device(), mo.qd.Rho0DetJ0w.Device())
	mo.isSetup = true
}

// SetEssentialTrueDofs replaces the list of constrained true dofs
func (mo *MassOperator) SetEssentialTrueDofs(dofs utils.Index) {
	if err := dofs.CheckBounds(mo.Height()); err != nil {
		panic(fmt.Errorf("essential dofs: %w", err))
	}
	mo.essTDofs.Resize(len(dofs))
	copy(mo.essTDofs.Host(), dofs.ToInt32())
	mo.essTDofs.ToDevice()
}

// EssentialTrueDofs returns a copy of the constrained true dofs
func (mo *MassOperator) EssentialTrueDofs() (dofs utils.Index) {
	ess := mo.essTDofs.Host()
	dofs = make(utils.Index, len(ess))
	for i, d := range ess {
		dofs[i] = int(d)
	}
	return
}

// Mult computes y = M x on true dofs. Essential rows and columns are replaced
// by the identity, which keeps the operator symmetric.
func (mo *MassOperator) Mult(x, y []float64) {
	if !mo.isSetup {
		panic("mass operator Mult called before Setup")
	}
	mo.checkSize("Mult", len(x), len(y))
	var (
		s     = mo.space
		ess   = mo.essTDofs.Device()
		xT    = mo.xT.Device()
		distX = mo.distX.Device()
		xE    = mo.xE.Device()
		yE    = mo.yE.Device()
		yL    = mo.yL.Device()
	)
	copy(xT, x)
	for _, i := range ess {
		xT[i] = 0
	}
	s.GetProlongation().Mult(xT, distX)
	s.GlobalToLocal(distX, xE)
	massMultPA(s.Context(), s.GetNE(), mo.dq.ND, mo.dq.NQ, mo.dq.B.Device(), mo.oper.Device(), xE, yE)
	s.LocalToGlobal(yE, yL)
	s.GetProlongation().MultTranspose(yL, y)
	for _, i := range ess {
		y[i] = x[i]
	}
}

// EliminateRHS zeroes b at the essential dofs, consistent with the identity
// rows of Mult for homogeneous constraints
func (mo *MassOperator) EliminateRHS(b []float64) {
	if len(b) != mo.Height() {
		panic(fmt.Errorf("EliminateRHS size mismatch: have %d, need %d", len(b), mo.Height()))
	}
	for _, i := range mo.essTDofs.Device() {
		b[i] = 0
	}
}

// ComputeDiagonal fills the L-vector diag with the exact diagonal of the
// assembled mass matrix, selecting the contraction for the space dimension
func (mo *MassOperator) ComputeDiagonal(diag []float64) {
	switch mo.space.Mesh.Dim {
	case 1:
		mo.computeDiagonal(diag, massDiagonal1D)
	case 2:
		mo.ComputeDiagonal2D(diag)
	case 3:
		mo.ComputeDiagonal3D(diag)
	}
}

func (mo *MassOperator) ComputeDiagonal2D(diag []float64) {
	if mo.space.Mesh.Dim != 2 {
		panic(fmt.Errorf("ComputeDiagonal2D on a %dD space", mo.space.Mesh.Dim))
	}
	mo.computeDiagonal(diag, massDiagonal2D)
}

func (mo *MassOperator) ComputeDiagonal3D(diag []float64) {
	if mo.space.Mesh.Dim != 3 {
		panic(fmt.Errorf("ComputeDiagonal3D on a %dD space", mo.space.Mesh.Dim))
	}
	mo.computeDiagonal(diag, massDiagonal3D)
}

type diagonalKernel func(ctx *device.Context, NE, ND1D, NQ1D int, B1D, D, diagE []float64)

func (mo *MassOperator) computeDiagonal(diag []float64, kernel diagonalKernel) {
	if !mo.isSetup {
		panic("mass operator diagonal requested before Setup")
	}
	s := mo.space
	if len(diag) != s.GetVSize() {
		panic(fmt.Errorf("diagonal size mismatch: have %d, need %d", len(diag), s.GetVSize()))
	}
	yE := mo.yE.Device()
	kernel(s.Context(), s.GetNE(), mo.dq.ND1D, mo.dq.NQ1D, mo.dq.B1D.Device(), mo.oper.Device(), yE)
	s.LocalToGlobal(yE, diag)
}

func (mo *MassOperator) checkSize(op string, lx, ly int) {
	if lx != mo.Width() || ly != mo.Height() {
		panic(fmt.Errorf("mass operator %s size mismatch: len(x) = %d, len(y) = %d, need %d",
			op, lx, ly, mo.Height()))
	}
}
