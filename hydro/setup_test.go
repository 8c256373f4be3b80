package hydro

import (
	"math"
	"math/rand"

	"github.com/notargets/golaghos/device"
	"github.com/notargets/golaghos/fem"
	"github.com/notargets/golaghos/utils"
)

type testSetup struct {
	ctx          *device.Context
	mesh         *fem.CartesianMesh
	h1v, h1s, l2 *fem.Space
	ir           *fem.IntegrationRule
	qd           *QuadratureData
	geom         *fem.Geometry
	x            []float64 // node positions, L-vector of h1v
	rho0         []float64 // density at every point
}

// newTestSetup builds spaces on an n^dim unit mesh whose interior nodes are
// moved by perturb zone widths, and fills the time zero quadrature data with
// a density that varies from point to point
func newTestSetup(procLimit, dim, n, orderV, orderE int, perturb float64, periodic ...bool) (ts *testSetup) {
	ts = &testSetup{ctx: device.NewContext(procLimit)}
	ts.mesh = fem.NewCartesianMesh(dim, []int{n, n, n}, []float64{0, 0, 0}, []float64{1, 1, 1}, periodic...)
	ts.h1v = fem.NewH1Space(ts.ctx, ts.mesh, orderV, dim)
	ts.h1s = fem.NewH1Space(ts.ctx, ts.mesh, orderV, 1)
	ts.l2 = fem.NewL2Space(ts.ctx, ts.mesh, orderE, 1)
	ts.ir = fem.NewIntegrationRule(dim, orderV+2)
	ts.x = ts.h1v.NodeCoordinates()
	nd := ts.h1v.GetNDofs()
	h := 1. / float64(n)
	for l := 0; l < nd; l++ {
		bump := 1.
		for d := 0; d < dim; d++ {
			bump *= math.Sin(math.Pi * ts.x[d*nd+l])
		}
		for d := 0; d < dim; d++ {
			ts.x[d*nd+l] += perturb * h * bump * float64(d+1) / float64(dim)
		}
	}
	NQ := ts.ir.GetNPoints()
	ts.geom = fem.NewGeometry(ts.ctx, dim, ts.mesh.NE, NQ)
	ts.geom.Update(ts.h1v, ts.x, fem.GetDofQuadMaps(ts.ctx, ts.h1v.FE, ts.ir))
	ts.qd = NewQuadratureData(ts.ctx, dim, ts.mesh.NE, NQ)
	var (
		detJ = ts.geom.DetJ.Device()
		rdw  = make([]float64, ts.qd.NPoints())
	)
	ts.rho0 = make([]float64, ts.qd.NPoints())
	for e := 0; e < ts.mesh.NE; e++ {
		for q := 0; q < NQ; q++ {
			k := e*NQ + q
			ts.rho0[k] = 1 + 0.25*float64(e%3) + 0.01*float64(q)
			rdw[k] = ts.rho0[k] * detJ[k] * ts.ir.Weights[q]
		}
	}
	ts.qd.SetRho0DetJ0w(rdw)
	ts.qd.SetJac0inv(ts.geom.InvJ.Device())
	return
}

// setRandomStress fills StressJinvT with reproducible values
func (ts *testSetup) setRandomStress(seed int64) {
	rnd := rand.New(rand.NewSource(seed))
	S := ts.qd.StressJinvT.Host()
	for i := range S {
		S[i] = rnd.NormFloat64()
	}
	ts.qd.StressJinvT.ToDevice()
}

// setPressureStress sets StressJinvT for sigma = -p I
func (ts *testSetup) setPressureStress(p float64) {
	var (
		dim  = ts.qd.Dim
		NQ   = ts.qd.QuadsPerZone
		S    = ts.qd.StressJinvT.Host()
		detJ = ts.geom.DetJ.Device()
		invJ = ts.geom.InvJ.Device()
	)
	for k := 0; k < ts.qd.NPoints(); k++ {
		wd := ts.ir.Weights[k%NQ] * detJ[k]
		for vd := 0; vd < dim; vd++ {
			for gd := 0; gd < dim; gd++ {
				S[(k*dim+vd)*dim+gd] = -p * wd * invJ[(k*dim+gd)*dim+vd]
			}
		}
	}
	ts.qd.StressJinvT.ToDevice()
}

// assembledMass is the true dof mass matrix of a scalar space built entry by
// entry from the shape functions, with essential rows and columns replaced by
// the identity
func (ts *testSetup) assembledMass(s *fem.Space, ess utils.Index) (M utils.DOK) {
	var (
		nT    = s.GetTrueVSize()
		ND    = s.FE.ND
		NQ    = ts.ir.GetNPoints()
		shape = make([]float64, ND)
		rdw   = ts.qd.Rho0DetJ0w.Host()
	)
	M = utils.NewDOK(nT, nT, "M")
	for e := 0; e < s.GetNE(); e++ {
		dofs := s.GetElementDofs(e)
		for q, ip := range ts.ir.Points {
			s.FE.CalcShape(ip, shape)
			for i := 0; i < ND; i++ {
				ti := s.TrueDofOf(dofs[i])
				if ess.Contains(ti) {
					continue
				}
				for j := 0; j < ND; j++ {
					tj := s.TrueDofOf(dofs[j])
					if ess.Contains(tj) {
						continue
					}
					M.AddTo(ti, tj, shape[i]*shape[j]*rdw[e*NQ+q])
				}
			}
		}
	}
	for _, i := range ess {
		M.Set(i, i, 1)
	}
	return
}

// assembledForce is the H1 L-vector by L2 matrix of the force operator
func (ts *testSetup) assembledForce() (F utils.DOK) {
	var (
		dim    = ts.qd.Dim
		h1, l2 = ts.h1v, ts.l2
		NDH1   = h1.FE.ND
		NDL2   = l2.FE.ND
		NQ     = ts.ir.GetNPoints()
		psi    = make([]float64, NDL2)
		dphi   = make([]float64, NDH1*dim)
		S      = ts.qd.StressJinvT.Host()
		nh1    = h1.GetNDofs()
	)
	F = utils.NewDOK(h1.GetVSize(), l2.GetVSize(), "F")
	for e := 0; e < ts.mesh.NE; e++ {
		h1dofs, l2dofs := h1.GetElementDofs(e), l2.GetElementDofs(e)
		for q, ip := range ts.ir.Points {
			l2.FE.CalcShape(ip, psi)
			h1.FE.CalcDShape(ip, dphi)
			for vd := 0; vd < dim; vd++ {
				for i := 0; i < NDH1; i++ {
					var gs float64
					for gd := 0; gd < dim; gd++ {
						gs += dphi[i*dim+gd] * S[((e*NQ+q)*dim+vd)*dim+gd]
					}
					for j := 0; j < NDL2; j++ {
						F.AddTo(vd*nh1+h1dofs[i], l2dofs[j], gs*psi[j])
					}
				}
			}
		}
	}
	return
}

func matVec(A interface {
	Dims() (int, int)
	At(i, j int) float64
}, x []float64) (y []float64) {
	nr, nc := A.Dims()
	y = make([]float64, nr)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			y[i] += A.At(i, j) * x[j]
		}
	}
	return
}

func randomVector(rnd *rand.Rand, n int) (x []float64) {
	x = make([]float64, n)
	for i := range x {
		x[i] = rnd.Float64() - 0.5
	}
	return
}

func dot(x, y []float64) (sum float64) {
	for i := range x {
		sum += x[i] * y[i]
	}
	return
}
