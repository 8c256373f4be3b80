package hydro

import (
	"github.com/notargets/golaghos/device"
)

// Partial assembly kernels. Each one runs over zones in parallel shards and
// writes only the E-vector slices of its own zones.

// massMultPA computes yE = B^T D B xE zone by zone, D[e*NQ+q] being the
// quadrature weighted density
func massMultPA(ctx *device.Context, NE, ND, NQ int, B, D, xE, yE []float64) {
	ctx.ForEach(NE, func(kMin, kMax int) {
		tq := make([]float64, NQ)
		for e := kMin; e < kMax; e++ {
			var (
				xe = xE[e*ND : (e+1)*ND]
				ye = yE[e*ND : (e+1)*ND]
			)
			for q := 0; q < NQ; q++ {
				var (
					bq  = B[q*ND : (q+1)*ND]
					sum float64
				)
				for j, b := range bq {
					sum += b * xe[j]
				}
				tq[q] = D[e*NQ+q] * sum
			}
			for i := range ye {
				var sum float64
				for q := 0; q < NQ; q++ {
					sum += B[q*ND+i] * tq[q]
				}
				ye[i] = sum
			}
		}
	})
}

// massDiagonal1D: diag_i = sum_q B1(q,i)^2 D_q
func massDiagonal1D(ctx *device.Context, NE, ND1D, NQ1D int, B1D, D, diagE []float64) {
	ctx.ForEach(NE, func(kMin, kMax int) {
		for e := kMin; e < kMax; e++ {
			for ix := 0; ix < ND1D; ix++ {
				var sum float64
				for qx := 0; qx < NQ1D; qx++ {
					b := B1D[qx*ND1D+ix]
					sum += b * b * D[e*NQ1D+qx]
				}
				diagE[e*ND1D+ix] = sum
			}
		}
	})
}

// massDiagonal2D contracts the squared 1D shapes one direction at a time:
// HQ(ix,qy) = sum_qx B1(qx,ix)^2 D(qx,qy), diag(ix,iy) = sum_qy B1(qy,iy)^2 HQ(ix,qy)
func massDiagonal2D(ctx *device.Context, NE, ND1D, NQ1D int, B1D, D, diagE []float64) {
	var (
		ND = ND1D * ND1D
		NQ = NQ1D * NQ1D
	)
	B1sq := squared(B1D)
	ctx.ForEach(NE, func(kMin, kMax int) {
		HQ := make([]float64, ND1D*NQ1D)
		for e := kMin; e < kMax; e++ {
			De := D[e*NQ : (e+1)*NQ]
			for qy := 0; qy < NQ1D; qy++ {
				for ix := 0; ix < ND1D; ix++ {
					var sum float64
					for qx := 0; qx < NQ1D; qx++ {
						sum += B1sq[qx*ND1D+ix] * De[qx+NQ1D*qy]
					}
					HQ[ix*NQ1D+qy] = sum
				}
			}
			de := diagE[e*ND : (e+1)*ND]
			for iy := 0; iy < ND1D; iy++ {
				for ix := 0; ix < ND1D; ix++ {
					var sum float64
					for qy := 0; qy < NQ1D; qy++ {
						sum += B1sq[qy*ND1D+iy] * HQ[ix*NQ1D+qy]
					}
					de[ix+ND1D*iy] = sum
				}
			}
		}
	})
}

// massDiagonal3D does the same contraction in three passes, x then y then z
func massDiagonal3D(ctx *device.Context, NE, ND1D, NQ1D int, B1D, D, diagE []float64) {
	var (
		ND = ND1D * ND1D * ND1D
		NQ = NQ1D * NQ1D * NQ1D
	)
	B1sq := squared(B1D)
	ctx.ForEach(NE, func(kMin, kMax int) {
		var (
			QQD = make([]float64, ND1D*NQ1D*NQ1D) // (ix, qy, qz)
			QDD = make([]float64, ND1D*ND1D*NQ1D) // (ix, iy, qz)
		)
		for e := kMin; e < kMax; e++ {
			De := D[e*NQ : (e+1)*NQ]
			for qz := 0; qz < NQ1D; qz++ {
				for qy := 0; qy < NQ1D; qy++ {
					for ix := 0; ix < ND1D; ix++ {
						var sum float64
						for qx := 0; qx < NQ1D; qx++ {
							sum += B1sq[qx*ND1D+ix] * De[qx+NQ1D*(qy+NQ1D*qz)]
						}
						QQD[ix+ND1D*(qy+NQ1D*qz)] = sum
					}
				}
			}
			for qz := 0; qz < NQ1D; qz++ {
				for iy := 0; iy < ND1D; iy++ {
					for ix := 0; ix < ND1D; ix++ {
						var sum float64
						for qy := 0; qy < NQ1D; qy++ {
							sum += B1sq[qy*ND1D+iy] * QQD[ix+ND1D*(qy+NQ1D*qz)]
						}
						QDD[ix+ND1D*(iy+ND1D*qz)] = sum
					}
				}
			}
			de := diagE[e*ND : (e+1)*ND]
			for iz := 0; iz < ND1D; iz++ {
				for iy := 0; iy < ND1D; iy++ {
					for ix := 0; ix < ND1D; ix++ {
						var sum float64
						for qz := 0; qz < NQ1D; qz++ {
							sum += B1sq[qz*ND1D+iz] * QDD[ix+ND1D*(iy+ND1D*qz)]
						}
						de[ix+ND1D*(iy+ND1D*iz)] = sum
					}
				}
			}
		}
	})
}

func squared(x []float64) (y []float64) {
	y = make([]float64, len(x))
	for i, v := range x {
		y[i] = v * v
	}
	return
}

/*
forceMultPA applies the force operator zone by zone, from an L2 E-vector to a
vector H1 E-vector:

	e_q         = sum_j BL2(q,j) eL2(j)
	vH1(vd, i) = sum_q sum_gd G(q,gd,i) S(q,vd,gd) e_q
*/
func forceMultPA(ctx *device.Context, NE, dim, NDH1, NDL2, NQ int,
	BL2, GH1, S, eL2, vH1 []float64) {
	ctx.ForEach(NE, func(kMin, kMax int) {
		for e := kMin; e < kMax; e++ {
			var (
				el2 = eL2[e*NDL2 : (e+1)*NDL2]
				vh1 = vH1[e*dim*NDH1 : (e+1)*dim*NDH1]
			)
			clear(vh1)
			for q := 0; q < NQ; q++ {
				var eq float64
				for j, b := range BL2[q*NDL2 : (q+1)*NDL2] {
					eq += b * el2[j]
				}
				sq := S[(e*NQ+q)*dim*dim : (e*NQ+q+1)*dim*dim]
				for vd := 0; vd < dim; vd++ {
					out := vh1[vd*NDH1 : (vd+1)*NDH1]
					for gd := 0; gd < dim; gd++ {
						s := sq[vd*dim+gd] * eq
						gq := GH1[(q*dim+gd)*NDH1 : (q*dim+gd+1)*NDH1]
						for i, g := range gq {
							out[i] += g * s
						}
					}
				}
			}
		}
	})
}

/*
forceMultTransposePA is the exact transpose of forceMultPA:

	s_q    = sum_vd sum_gd S(q,vd,gd) sum_i G(q,gd,i) vH1(vd,i)
	eL2(j) = sum_q BL2(q,j) s_q
*/
func forceMultTransposePA(ctx *device.Context, NE, dim, NDH1, NDL2, NQ int,
	BL2, GH1, S, vH1, eL2 []float64) {
	ctx.ForEach(NE, func(kMin, kMax int) {
		for e := kMin; e < kMax; e++ {
			var (
				el2 = eL2[e*NDL2 : (e+1)*NDL2]
				vh1 = vH1[e*dim*NDH1 : (e+1)*dim*NDH1]
			)
			clear(el2)
			for q := 0; q < NQ; q++ {
				var (
					sq = S[(e*NQ+q)*dim*dim : (e*NQ+q+1)*dim*dim]
					s  float64
				)
				for vd := 0; vd < dim; vd++ {
					in := vh1[vd*NDH1 : (vd+1)*NDH1]
					for gd := 0; gd < dim; gd++ {
						var grad float64
						gq := GH1[(q*dim+gd)*NDH1 : (q*dim+gd+1)*NDH1]
						for i, g := range gq {
							grad += g * in[i]
						}
						s += sq[vd*dim+gd] * grad
					}
				}
				for j, b := range BL2[q*NDL2 : (q+1)*NDL2] {
					el2[j] += b * s
				}
			}
		}
	})
}
