package fem

import (
	"fmt"
	"sync"

	"github.com/notargets/golaghos/device"
)

// DofQuadMaps holds a finite element's basis and reference gradients evaluated
// at the points of an integration rule, both in full tensor form and as the 1D
// factors:
//
//	B[q*ND + i]            = phi_i(x_q)
//	G[(q*Dim + d)*ND + i]  = dphi_i/dxi_d(x_q)
//	B1D[q1*ND1D + i1]      = phi1d_i1(x1d_q1)
//	G1D[q1*ND1D + i1]      = dphi1d_i1/dxi(x1d_q1)
//	W[q]                   = weight of point q
type DofQuadMaps struct {
	Dim, ND, NQ, ND1D, NQ1D int
	B, G, B1D, G1D, W       *device.Buffer[float64]
}

type dqKey struct {
	ctx *device.Context
	fe  string
	ir  string
}

var (
	dqCache   = make(map[dqKey]*DofQuadMaps)
	dqCacheMu sync.Mutex
)

// GetDofQuadMaps returns the (cached) maps of fe at the points of ir
func GetDofQuadMaps(ctx *device.Context, fe *FiniteElement, ir *IntegrationRule) (dq *DofQuadMaps) {
	var (
		key = dqKey{ctx, fe.String(), ir.String()}
		ok  bool
	)
	dqCacheMu.Lock()
	defer dqCacheMu.Unlock()
	if dq, ok = dqCache[key]; ok {
		return
	}
	dq = NewDofQuadMaps(ctx, fe, ir)
	dqCache[key] = dq
	return
}

func NewDofQuadMaps(ctx *device.Context, fe *FiniteElement, ir *IntegrationRule) (dq *DofQuadMaps) {
	if fe.Dim != ir.Dim {
		panic(fmt.Errorf("element dimension %d does not match integration rule dimension %d", fe.Dim, ir.Dim))
	}
	var (
		dim, ND, NQ = fe.Dim, fe.ND, ir.GetNPoints()
		ND1D, NQ1D  = fe.ND1D, ir.NQ1D
	)
	dq = &DofQuadMaps{
		Dim:  dim,
		ND:   ND,
		NQ:   NQ,
		ND1D: ND1D,
		NQ1D: NQ1D,
		B:    device.NewBuffer[float64](ctx, NQ*ND, "B"),
		G:    device.NewBuffer[float64](ctx, NQ*dim*ND, "G"),
		B1D:  device.NewBuffer[float64](ctx, NQ1D*ND1D, "B1D"),
		G1D:  device.NewBuffer[float64](ctx, NQ1D*ND1D, "G1D"),
		W:    device.NewBufferFrom(ctx, ir.Weights, "W"),
	}
	var (
		B, G     = dq.B.Host(), dq.G.Host()
		B1D, G1D = dq.B1D.Host(), dq.G1D.Host()
		dshape   = make([]float64, ND*dim)
	)
	for q, ip := range ir.Points {
		fe.CalcShape(ip, B[q*ND:(q+1)*ND])
		fe.CalcDShape(ip, dshape)
		for i := 0; i < ND; i++ {
			for d := 0; d < dim; d++ {
				G[(q*dim+d)*ND+i] = dshape[i*dim+d]
			}
		}
	}
	for q1, x := range ir.Points1D {
		fe.Basis.Eval(x, B1D[q1*ND1D:(q1+1)*ND1D], G1D[q1*ND1D:(q1+1)*ND1D])
	}
	dq.B.ToDevice()
	dq.G.ToDevice()
	dq.B1D.ToDevice()
	dq.G1D.ToDevice()
	return
}
