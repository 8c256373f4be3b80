package fem

import (
	"fmt"
	"math"

	"github.com/notargets/golaghos/device"
)

// ElementTransformation identifies the zone an element level integrator is
// assembling
type ElementTransformation struct {
	ElementNo int
	Attribute int
}

// Geometry holds the Jacobian of the reference to physical map at every
// quadrature point: J[((e*NQ+q)*Dim + r)*Dim + c] = dx_r/dxi_c
type Geometry struct {
	Dim, NE, NQ   int
	J, InvJ, DetJ *device.Buffer[float64]
	MinDetJ       float64
	MinDetJZone   int
	MinDetJPoint  int
}

func NewGeometry(ctx *device.Context, dim, NE, NQ int) (g *Geometry) {
	g = &Geometry{
		Dim:  dim,
		NE:   NE,
		NQ:   NQ,
		J:    device.NewBuffer[float64](ctx, NE*NQ*dim*dim, "J"),
		InvJ: device.NewBuffer[float64](ctx, NE*NQ*dim*dim, "InvJ"),
		DetJ: device.NewBuffer[float64](ctx, NE*NQ, "DetJ"),
	}
	return
}

// Update recomputes J, det(J) and J^-1 from the node positions x, an L-vector
// of the vector H1 space nodes. Zones with det(J) == 0 get a zero inverse; the
// smallest determinant and its location are recorded for the caller to check;
// a NaN determinant is recorded in its place.
func (g *Geometry) Update(nodes *Space, x []float64, dq *DofQuadMaps) {
	var (
		dim, NQ, ND = g.Dim, g.NQ, dq.ND
		NDofs       = nodes.NDofs
		ed          = nodes.ElemDofs()
		G           = dq.G.Device()
		J, InvJ     = g.J.Device(), g.InvJ.Device()
		DetJ        = g.DetJ.Device()
		ctx         = nodes.Context()
	)
	if nodes.VDim != dim || nodes.FE.Type != H1 || dq.NQ != NQ || dq.ND != nodes.FE.ND {
		panic(fmt.Errorf("geometry needs a %dD vector H1 nodes space matching the quadrature maps", dim))
	}
	if len(x) != nodes.GetVSize() {
		panic(fmt.Errorf("geometry node vector size mismatch: have %d, need %d", len(x), nodes.GetVSize()))
	}
	ctx.ForEach(g.NE, func(kMin, kMax int) {
		xe := make([]float64, dim*ND)
		for e := kMin; e < kMax; e++ {
			for c := 0; c < dim; c++ {
				for i := 0; i < ND; i++ {
					xe[c*ND+i] = x[c*NDofs+int(ed[e*ND+i])]
				}
			}
			for q := 0; q < NQ; q++ {
				off := (e*NQ + q) * dim * dim
				for r := 0; r < dim; r++ {
					for c := 0; c < dim; c++ {
						var sum float64
						gq := G[(q*dim+c)*ND : (q*dim+c+1)*ND]
						for i := 0; i < ND; i++ {
							sum += xe[r*ND+i] * gq[i]
						}
						J[off+r*dim+c] = sum
					}
				}
				DetJ[e*NQ+q] = CalcInverse(dim, J[off:off+dim*dim], InvJ[off:off+dim*dim])
			}
		}
	})
	g.MinDetJ = math.Inf(1)
	for k, det := range DetJ {
		if math.IsNaN(det) || det < g.MinDetJ {
			g.MinDetJ, g.MinDetJZone, g.MinDetJPoint = det, k/NQ, k%NQ
		}
	}
}
