package driver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/golaghos/fem"
	"github.com/notargets/golaghos/hydro"
)

/*
UpdateQuadratureData recomputes StressJinvT and the time step estimate from
the state S. At every point of every zone:

	rho   = rho0 det(J0) / det(J)
	p     = (gamma - 1) rho e,  c_s = sqrt(gamma (gamma-1) e)
	sigma = -p I + mu sym(grad v)
	h     = h0 * smallest singular value of J J0^-1

The viscosity mu = 2 rho h^2 |lambda_min| + 0.5 rho h c_s acts only in
compression, lambda_min < 0 being the smallest eigenvalue of sym(grad v).
An inverted zone is returned as a numerical error.
*/
func (h *Hydro) UpdateQuadratureData(S *State) (dtEst float64, err error) {
	h.Geom.Update(h.H1, S.X, h.h1dq)
	if !(h.Geom.MinDetJ > 0) {
		err = &hydro.NumericalError{
			Op:     "UpdateQuadratureData",
			Index:  h.Geom.MinDetJZone,
			Value:  h.Geom.MinDetJ,
			Reason: "inverted zone",
		}
		return
	}
	var (
		dim     = h.Mesh.Dim
		dim2    = dim * dim
		NQ      = h.IR.GetNPoints()
		NDH1    = h.h1dq.ND
		NDL2    = h.l2dq.ND
		nd      = h.H1.GetNDofs()
		edH1    = h.H1.ElemDofs()
		edL2    = h.L2.ElemDofs()
		BL2     = h.l2dq.B.Device()
		GH1     = h.h1dq.G.Device()
		W       = h.h1dq.W.Device()
		J       = h.Geom.J.Device()
		InvJ    = h.Geom.InvJ.Device()
		DetJ    = h.Geom.DetJ.Device()
		Jac0inv = h.QD.Jac0inv.Device()
		rdw     = h.QD.Rho0DetJ0w.Device()
		stress  = h.QD.StressJinvT.Device()
		dtq     = h.QD.DtEstQ.Device()
		gamma   = h.Gamma
		h0      = h.QD.H0
		cfl     = h.CFL
		useVisc = h.Viscosity
	)
	h.ctx.ForEach(h.Mesh.NE, func(kMin, kMax int) {
		var (
			vE      = make([]float64, dim*NDH1)
			eE      = make([]float64, NDL2)
			gradRef = make([]float64, dim2) // dv_r/dxi_d
			gradV   = make([]float64, dim2)
			sigma   = make([]float64, dim2)
			jprBuf  = make([]float64, dim2)
			symBuf  = make([]float64, dim2)
			sv      = make([]float64, dim)
			ev      = make([]float64, dim)
			jpr     = mat.NewDense(dim, dim, jprBuf)
			sgradV  = mat.NewSymDense(dim, symBuf)
			svd     mat.SVD
			eig     mat.EigenSym
		)
		for e := kMin; e < kMax; e++ {
			for c := 0; c < dim; c++ {
				for i := 0; i < NDH1; i++ {
					vE[c*NDH1+i] = S.V[c*nd+int(edH1[e*NDH1+i])]
				}
			}
			for j := 0; j < NDL2; j++ {
				eE[j] = S.E[edL2[e*NDL2+j]]
			}
			for q := 0; q < NQ; q++ {
				var (
					k    = e*NQ + q
					detJ = DetJ[k]
					Jk   = J[k*dim2 : (k+1)*dim2]
					iJk  = InvJ[k*dim2 : (k+1)*dim2]
					rho  = rdw[k] / (detJ * W[q])
					eq   float64
				)
				for j, b := range BL2[q*NDL2 : (q+1)*NDL2] {
					eq += b * eE[j]
				}
				eq = math.Max(0, eq)
				var (
					p    = (gamma - 1) * rho * eq
					cs   = math.Sqrt(gamma * (gamma - 1) * eq)
					visc float64
				)
				fem.MultAB(dim, Jk, Jac0inv[k*dim2:(k+1)*dim2], jprBuf)
				svd.Factorize(jpr, mat.SVDNone)
				svd.Values(sv)
				hq := h0 * sv[dim-1]
				clear(sigma)
				for d := 0; d < dim; d++ {
					sigma[d*dim+d] = -p
				}
				if useVisc {
					for r := 0; r < dim; r++ {
						for d := 0; d < dim; d++ {
							var sum float64
							gq := GH1[(q*dim+d)*NDH1 : (q*dim+d+1)*NDH1]
							for i, g := range gq {
								sum += g * vE[r*NDH1+i]
							}
							gradRef[r*dim+d] = sum
						}
					}
					fem.MultAB(dim, gradRef, iJk, gradV)
					for r := 0; r < dim; r++ {
						for c := 0; c < dim; c++ {
							symBuf[r*dim+c] = 0.5 * (gradV[r*dim+c] + gradV[c*dim+r])
						}
					}
					eig.Factorize(sgradV, false)
					eig.Values(ev)
					lmin := ev[0]
					for _, l := range ev[1:] {
						lmin = math.Min(lmin, l)
					}
					if lmin < 0 {
						visc = 2*rho*hq*hq*math.Abs(lmin) + 0.5*rho*hq*cs
						for r := 0; r < dim2; r++ {
							sigma[r] += visc * symBuf[r]
						}
					}
				}
				// w det(J) sigma J^-T
				fem.MultABt(dim, sigma, iJk, gradRef)
				wd := W[q] * detJ
				for r := 0; r < dim2; r++ {
					stress[k*dim2+r] = wd * gradRef[r]
				}
				invDt := cs/hq + 2.5*visc/(rho*hq*hq)
				if invDt > 0 {
					dtq[k] = cfl / invDt
				} else {
					dtq[k] = math.Inf(1)
				}
			}
		}
	})
	dtEst = h.QD.MinDtEst()
	return
}
