package hydro

import (
	"fmt"

	"github.com/notargets/golaghos/fem"
)

// DensityIntegrator builds the right hand side of the L2 projection of the
// density, int rho psi_j = sum_q rho0 det(J0) w_q psi_j(x_q). It is only used
// to produce density fields for output.
type DensityIntegrator struct {
	qd *QuadratureData
	ir *fem.IntegrationRule
}

func NewDensityIntegrator(qd *QuadratureData, ir *fem.IntegrationRule) *DensityIntegrator {
	return &DensityIntegrator{qd: qd, ir: ir}
}

// AssembleRHSElementVect fills elvect with the load vector of zone
// tr.ElementNo. Rho0DetJ0w is read from the host copy.
func (di *DensityIntegrator) AssembleRHSElementVect(fe *fem.FiniteElement, tr *fem.ElementTransformation, elvect []float64) {
	var (
		NQ    = di.ir.GetNPoints()
		z     = tr.ElementNo
		rho0w = di.qd.Rho0DetJ0w.Host()
		shape = make([]float64, fe.GetDof())
	)
	if NQ != di.qd.QuadsPerZone {
		panic(fmt.Errorf("density integrator rule has %d points, quadrature data has %d", NQ, di.qd.QuadsPerZone))
	}
	if z < 0 || z >= di.qd.NZones {
		panic(fmt.Errorf("density integrator zone %d out of range [0,%d)", z, di.qd.NZones))
	}
	if len(elvect) != fe.GetDof() {
		panic(fmt.Errorf("density integrator element vector has %d entries, need %d", len(elvect), fe.GetDof()))
	}
	clear(elvect)
	for q, ip := range di.ir.Points {
		fe.CalcShape(ip, shape)
		rw := rho0w[z*NQ+q]
		for j, s := range shape {
			elvect[j] += rw * s
		}
	}
}

// AssembleRHSFaceVect always panics, there is no face form of the density load
func (di *DensityIntegrator) AssembleRHSFaceVect(fe *fem.FiniteElement, tr *fem.ElementTransformation, elvect []float64) {
	panic(fmt.Errorf("density integrator face assembly: %w", ErrUnsupported))
}
