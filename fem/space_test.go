package fem

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/golaghos/device"
	"github.com/notargets/golaghos/utils"
)

func TestH1Space(t *testing.T) {
	ctx := device.NewContext(2)
	{ // Dof counts and the multiplicity of shared nodes
		m := NewUnitMesh(2, 2)
		s := NewH1Space(ctx, m, 2, 1)
		assert.Equal(t, 25, s.GetNDofs())
		assert.Equal(t, 25, s.GetTrueVSize())
		assert.Equal(t, 36, s.GetESize())
		xE := make([]float64, s.GetESize())
		yL := make([]float64, s.GetVSize())
		s.GlobalToLocal(utils.ConstArray(s.GetVSize(), 1), xE)
		s.LocalToGlobal(xE, yL)
		assert.Equal(t, 1., yL[0])  // domain corner
		assert.Equal(t, 2., yL[2])  // zone edge on the boundary
		assert.Equal(t, 4., yL[12]) // center vertex
		assert.Equal(t, 1., yL[6])  // zone interior
		assert.Equal(t, []int{0, 1, 2, 5, 6, 7, 10, 11, 12}, s.GetElementDofs(0))
		assert.Equal(t, []int{12, 13, 14, 17, 18, 19, 22, 23, 24}, s.GetElementDofs(3))
	}
	{ // Node coordinates on a 1D mesh
		m := NewCartesianMesh(1, []int{2}, []float64{0}, []float64{2})
		s := NewH1Space(ctx, m, 2, 1)
		assert.InDeltaSlice(t, []float64{0, 0.5, 1, 1.5, 2}, s.NodeCoordinates(), 1.e-14)
	}
	{ // Boundary dofs
		m := NewUnitMesh(2, 2)
		s := NewH1Space(ctx, m, 1, 2)
		assert.Equal(t, utils.Index{0, 2, 3, 5, 6, 8}, s.BoundaryTrueDofs(0))
		assert.Equal(t, utils.Index{0, 1, 2, 6, 7, 8}, s.BoundaryTrueDofs(1))
		assert.Equal(t, 0, len(s.BoundaryTrueDofs(2)))
	}
	{ // Periodic wrap: P^T sums the duplicated lattice nodes
		m := NewCartesianMesh(2, []int{2, 2}, []float64{0, 0}, []float64{1, 1}, true, true)
		s := NewH1Space(ctx, m, 1, 1)
		assert.Equal(t, 9, s.GetNDofs())
		assert.Equal(t, 4, s.GetTrueVSize())
		yT := make([]float64, 4)
		s.GetProlongation().MultTranspose(utils.ConstArray(9, 1), yT)
		assert.Equal(t, []float64{4, 2, 2, 1}, yT)
		xL := make([]float64, 9)
		s.GetProlongation().Mult([]float64{1, 2, 3, 4}, xL)
		assert.Equal(t, []float64{1, 2, 1, 3, 4, 3, 1, 2, 1}, xL)
		assert.Equal(t, 0, len(s.BoundaryTrueDofs(0)))
	}
	assert.Panics(t, func() { NewH1Space(ctx, NewUnitMesh(2, 1), 1, 0) })
}

func TestL2Space(t *testing.T) {
	ctx := device.NewContext(1)
	s := NewL2Space(ctx, NewUnitMesh(3, 2), 1, 1)
	assert.Equal(t, 64, s.GetVSize())
	assert.Equal(t, s.GetVSize(), s.GetESize())
	assert.Equal(t, s.GetVSize(), s.GetTrueVSize())
	x := make([]float64, 64)
	for i := range x {
		x[i] = float64(i)
	}
	xE := make([]float64, 64)
	s.GlobalToLocal(x, xE)
	assert.Equal(t, x, xE)
	assert.Panics(t, func() { s.NodeCoordinates() })
}

func TestScatterAdjoint(t *testing.T) {
	var (
		rnd = rand.New(rand.NewSource(3))
		m   = NewUnitMesh(3, 3)
	)
	for _, vdim := range []int{1, 3} {
		s := NewH1Space(device.NewContext(3), m, 2, vdim)
		var (
			xL = make([]float64, s.GetVSize())
			yE = make([]float64, s.GetESize())
			xE = make([]float64, s.GetESize())
			yL = make([]float64, s.GetVSize())
		)
		for i := range xL {
			xL[i] = rnd.Float64()
		}
		for i := range yE {
			yE[i] = rnd.Float64()
		}
		s.GlobalToLocal(xL, xE)
		s.LocalToGlobal(yE, yL)
		var lhs, rhs float64
		for i := range xE {
			lhs += xE[i] * yE[i]
		}
		for i := range xL {
			rhs += xL[i] * yL[i]
		}
		assert.InDelta(t, lhs, rhs, 1.e-10)
	}
}

func TestLocalToGlobalDeterminism(t *testing.T) {
	var (
		rnd = rand.New(rand.NewSource(11))
		m   = NewUnitMesh(2, 7)
	)
	xE := make([]float64, m.NE*9*2)
	for i := range xE {
		xE[i] = rnd.NormFloat64() * 1.e3
	}
	var ref []float64
	for _, np := range []int{1, 2, 5, 16} {
		s := NewH1Space(device.NewContext(np), m, 2, 2)
		yL := make([]float64, s.GetVSize())
		s.LocalToGlobal(xE, yL)
		if ref == nil {
			ref = yL
			continue
		}
		require.Equal(t, ref, yL)
	}
}

func TestGeometry(t *testing.T) {
	ctx := device.NewContext(2)
	{ // Affine mesh, uniform Jacobian
		m := NewCartesianMesh(2, []int{2, 4}, []float64{0, 0}, []float64{1, 2})
		s := NewH1Space(ctx, m, 2, 2)
		ir := NewIntegrationRule(2, 3)
		dq := GetDofQuadMaps(ctx, s.FE, ir)
		assert.Same(t, dq, GetDofQuadMaps(ctx, s.FE, ir))
		g := NewGeometry(ctx, 2, m.NE, ir.GetNPoints())
		g.Update(s, s.NodeCoordinates(), dq)
		g.J.ToHost()
		g.DetJ.ToHost()
		g.InvJ.ToHost()
		for k := 0; k < m.NE*ir.GetNPoints(); k++ {
			assert.InDeltaSlice(t, []float64{0.5, 0, 0, 0.5}, g.J.Host()[4*k:4*k+4], 1.e-13)
			assert.InDeltaSlice(t, []float64{2, 0, 0, 2}, g.InvJ.Host()[4*k:4*k+4], 1.e-12)
			assert.InDelta(t, 0.25, g.DetJ.Host()[k], 1.e-13)
		}
		assert.InDelta(t, 0.25, g.MinDetJ, 1.e-13)
	}
	{ // Shear one node and sum the volume
		m := NewUnitMesh(3, 2)
		s := NewH1Space(ctx, m, 1, 3)
		x := s.NodeCoordinates()
		nd := s.GetNDofs()
		for l := 0; l < nd; l++ {
			x[0*nd+l] += 0.3 * x[2*nd+l]
		}
		ir := NewIntegrationRule(3, 2)
		dq := GetDofQuadMaps(ctx, s.FE, ir)
		g := NewGeometry(ctx, 3, m.NE, ir.GetNPoints())
		g.Update(s, x, dq)
		var vol float64
		det, w := g.DetJ.Device(), dq.W.Host()
		for e := 0; e < m.NE; e++ {
			for q := 0; q < dq.NQ; q++ {
				vol += det[e*dq.NQ+q] * w[q]
			}
		}
		assert.InDelta(t, 1., vol, 1.e-13)
	}
	{ // An inverted zone is reported
		m := NewUnitMesh(1, 2)
		s := NewH1Space(ctx, m, 1, 1)
		ir := NewIntegrationRule(1, 1)
		g := NewGeometry(ctx, 1, m.NE, 1)
		g.Update(s, []float64{0, 0.7, 0.5}, GetDofQuadMaps(ctx, s.FE, ir))
		assert.InDelta(t, -0.2, g.MinDetJ, 1.e-14)
		assert.Equal(t, 1, g.MinDetJZone)
	}
}

func TestCalcInverse(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	for dim := 1; dim <= 3; dim++ {
		A := make([]float64, dim*dim)
		for i := range A {
			A[i] = rnd.Float64()
		}
		for i := 0; i < dim; i++ {
			A[i*dim+i] += float64(dim)
		}
		Ainv := make([]float64, dim*dim)
		C := make([]float64, dim*dim)
		det := CalcInverse(dim, A, Ainv)
		assert.True(t, det > 0)
		MultAB(dim, A, Ainv, C)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				expected := 0.
				if i == j {
					expected = 1
				}
				assert.InDelta(t, expected, C[i*dim+j], 1.e-13)
			}
		}
		MultABt(dim, A, A, C)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				assert.Equal(t, C[i*dim+j], C[j*dim+i])
			}
		}
	}
	Ainv := []float64{9, 9, 9, 9}
	assert.Equal(t, 0., CalcInverse(2, []float64{1, 2, 2, 4}, Ainv))
	assert.Equal(t, []float64{0, 0, 0, 0}, Ainv)
}
