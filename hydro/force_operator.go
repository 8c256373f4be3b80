package hydro

import (
	"fmt"

	"github.com/notargets/golaghos/device"
	"github.com/notargets/golaghos/fem"
)

// ForceOperator couples the vector kinematic space (H1, vdim = dim) with the
// scalar thermodynamic space (L2) through StressJinvT. Mult maps an L2
// vector to an H1 L-vector, MultTranspose maps back. The QuadratureData is
// borrowed and must outlive the operator.
type ForceOperator struct {
	h1, l2     *fem.Space
	ir         *fem.IntegrationRule
	qd         *QuadratureData
	h1dq, l2dq *fem.DofQuadMaps
	// E-vector scratch, sized to each space
	gVecL2, gVecH1 *device.Buffer[float64]
	isSetup        bool
}

func NewForceOperator(h1, l2 *fem.Space, ir *fem.IntegrationRule, qd *QuadratureData) (fo *ForceOperator) {
	dim := h1.Mesh.Dim
	switch {
	case h1.FE.Type != fem.H1 || h1.GetVDim() != dim:
		panic(fmt.Errorf("force operator kinematic space must be H1 with vdim %d, have %v", dim, h1))
	case l2.GetVDim() != 1:
		panic(fmt.Errorf("force operator thermodynamic space must be scalar, have %v", l2))
	case l2.Mesh != h1.Mesh:
		panic("force operator spaces must share a mesh")
	case qd.Dim != dim || qd.NZones != h1.GetNE() || qd.QuadsPerZone != ir.GetNPoints():
		panic(fmt.Errorf("quadrature data (dim %d, zones %d, points %d) does not fit the spaces (dim %d, zones %d) and rule (points %d)",
			qd.Dim, qd.NZones, qd.QuadsPerZone, dim, h1.GetNE(), ir.GetNPoints()))
	}
	ctx := h1.Context()
	fo = &ForceOperator{
		h1:     h1,
		l2:     l2,
		ir:     ir,
		qd:     qd,
		gVecL2: device.NewBuffer[float64](ctx, l2.GetESize(), "gVecL2"),
		gVecH1: device.NewBuffer[float64](ctx, h1.GetESize(), "gVecH1"),
	}
	return
}

func (fo *ForceOperator) Height() int { return fo.h1.GetVSize() }
func (fo *ForceOperator) Width() int  { return fo.l2.GetVSize() }

// Setup fetches the H1 values and gradients and the L2 values at the points
func (fo *ForceOperator) Setup() {
	ctx := fo.h1.Context()
	fo.h1dq = fem.GetDofQuadMaps(ctx, fo.h1.FE, fo.ir)
	fo.l2dq = fem.GetDofQuadMaps(ctx, fo.l2.FE, fo.ir)
	fo.isSetup = true
}

// Mult computes vecH1 = F vecL2, summing the contributions of every zone
// incident to a shared H1 dof
func (fo *ForceOperator) Mult(vecL2, vecH1 []float64) {
	fo.check("Mult", len(vecL2), len(vecH1))
	var (
		gL2 = fo.gVecL2.Device()
		gH1 = fo.gVecH1.Device()
	)
	fo.l2.GlobalToLocal(vecL2, gL2)
	forceMultPA(fo.h1.Context(), fo.h1.GetNE(), fo.qd.Dim, fo.h1dq.ND, fo.l2dq.ND, fo.h1dq.NQ,
		fo.l2dq.B.Device(), fo.h1dq.G.Device(), fo.qd.StressJinvT.Device(), gL2, gH1)
	fo.h1.LocalToGlobal(gH1, vecH1)
}

// MultTranspose computes vecL2 = F^T vecH1
func (fo *ForceOperator) MultTranspose(vecH1, vecL2 []float64) {
	fo.check("MultTranspose", len(vecL2), len(vecH1))
	var (
		gL2 = fo.gVecL2.Device()
		gH1 = fo.gVecH1.Device()
	)
	fo.h1.GlobalToLocal(vecH1, gH1)
	forceMultTransposePA(fo.h1.Context(), fo.h1.GetNE(), fo.qd.Dim, fo.h1dq.ND, fo.l2dq.ND, fo.h1dq.NQ,
		fo.l2dq.B.Device(), fo.h1dq.G.Device(), fo.qd.StressJinvT.Device(), gH1, gL2)
	fo.l2.LocalToGlobal(gL2, vecL2)
}

func (fo *ForceOperator) check(op string, lL2, lH1 int) {
	if !fo.isSetup {
		panic(fmt.Errorf("force operator %s called before Setup", op))
	}
	if lL2 != fo.Width() || lH1 != fo.Height() {
		panic(fmt.Errorf("force operator %s size mismatch: L2 %d (need %d), H1 %d (need %d)",
			op, lL2, fo.Width(), lH1, fo.Height()))
	}
}
