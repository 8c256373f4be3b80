package hydro

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/golaghos/device"
	"github.com/notargets/golaghos/fem"
	"github.com/notargets/golaghos/utils"
)

func TestMassOperatorMatchesAssembled(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, tc := range []struct {
		dim, n, order int
		periodic      bool
	}{
		{1, 4, 3, false},
		{2, 3, 2, false},
		{2, 3, 1, true},
		{3, 2, 2, false},
	} {
		ts := newTestSetup(3, tc.dim, tc.n, tc.order, 0, 0.2, tc.periodic)
		for _, s := range []*fem.Space{ts.h1s, ts.l2} {
			mo := NewMassOperator(s, ts.ir, ts.qd)
			mo.Setup()
			var ess utils.Index
			if s.FE.Type == fem.H1 {
				ess = s.BoundaryTrueDofs(tc.dim - 1)
			}
			mo.SetEssentialTrueDofs(ess)
			M := ts.assembledMass(s, ess)
			x := randomVector(rnd, mo.Width())
			y := make([]float64, mo.Height())
			mo.Mult(x, y)
			assert.InDeltaSlice(t, matVec(M, x), y, 1.e-13, "%v", s)
		}
	}
}

func TestMassOperatorEssentialDofs(t *testing.T) {
	var (
		rnd = rand.New(rand.NewSource(2))
		ts  = newTestSetup(2, 2, 4, 2, 1, 0.25)
		mo  = NewMassOperator(ts.h1s, ts.ir, ts.qd)
	)
	mo.Setup()
	ess := ts.h1s.BoundaryTrueDofs(0)
	mo.SetEssentialTrueDofs(ess)
	assert.Equal(t, ess, mo.EssentialTrueDofs())
	x := randomVector(rnd, mo.Width())
	x0 := append([]float64{}, x...)
	y := make([]float64, mo.Height())
	mo.Mult(x, y)
	for _, i := range ess {
		assert.Equal(t, x[i], y[i])
	}
	{ // Essential entries are zeroed in scratch, never in the caller's vector
		assert.Equal(t, x0, x)
		yAgain := make([]float64, mo.Height())
		mo.Mult(x, yAgain)
		assert.Equal(t, y, yAgain)
	}
	{ // Essential columns do not feed the other rows
		x2 := append([]float64{}, x...)
		for _, i := range ess {
			x2[i] = 100 * rnd.Float64()
		}
		y2 := make([]float64, mo.Height())
		mo.Mult(x2, y2)
		for i := range y {
			if !ess.Contains(i) {
				assert.Equal(t, y[i], y2[i])
			}
		}
	}
	{ // EliminateRHS zeroes exactly the essential entries
		b := randomVector(rnd, mo.Height())
		b0 := append([]float64{}, b...)
		mo.EliminateRHS(b)
		for i := range b {
			if ess.Contains(i) {
				assert.Equal(t, 0., b[i])
			} else {
				assert.Equal(t, b0[i], b[i])
			}
		}
	}
	{ // An empty set makes EliminateRHS a no-op and Mult the plain mass
		mo.SetEssentialTrueDofs(utils.Index{})
		b := randomVector(rnd, mo.Height())
		b0 := append([]float64{}, b...)
		mo.EliminateRHS(b)
		assert.Equal(t, b0, b)
		mo.Mult(x, y)
		assert.InDeltaSlice(t, matVec(ts.assembledMass(ts.h1s, nil), x), y, 1.e-13)
	}
	assert.Panics(t, func() { mo.SetEssentialTrueDofs(utils.Index{0, mo.Height()}) })
	assert.Panics(t, func() { mo.SetEssentialTrueDofs(utils.Index{-1}) })
	assert.Panics(t, func() { mo.Mult(x[1:], y) })
	assert.Panics(t, func() { mo.EliminateRHS(y[1:]) })
}

func TestMassOperatorContract(t *testing.T) {
	ts := newTestSetup(1, 2, 2, 1, 0, 0)
	mo := NewMassOperator(ts.h1s, ts.ir, ts.qd)
	x := make([]float64, mo.Width())
	assert.Panics(t, func() { mo.Mult(x, x) })
	assert.Panics(t, func() { mo.ComputeDiagonal(make([]float64, ts.h1s.GetVSize())) })
	assert.Panics(t, func() { NewMassOperator(ts.h1v, ts.ir, ts.qd) })
	assert.Panics(t, func() { NewMassOperator(ts.h1s, fem.NewIntegrationRule(2, 1), ts.qd) })
	mo.Setup()
	assert.Panics(t, func() { mo.ComputeDiagonal3D(make([]float64, ts.h1s.GetVSize())) })
	assert.Panics(t, func() { mo.ComputeDiagonal2D(make([]float64, 3)) })
}

func TestMassDiagonalSingleZone(t *testing.T) {
	// Unit square, bilinear element, one Gauss point at the center with weight
	// one, rho0 = 2: every shape function is 1/4 there, so each diagonal entry
	// is 2 * (1/4)^2
	var (
		ctx = device.NewContext(1)
		m   = fem.NewUnitMesh(2, 1)
		s   = fem.NewH1Space(ctx, m, 1, 1)
		ir  = fem.NewIntegrationRule(2, 1)
		qd  = NewQuadratureData(ctx, 2, 1, 1)
	)
	require.InDelta(t, 1., ir.Weights[0], 1.e-15)
	require.InDelta(t, 0.5, ir.Points[0][1], 1.e-15)
	qd.SetRho0DetJ0w([]float64{2 * 1 * ir.Weights[0]})
	mo := NewMassOperator(s, ir, qd)
	mo.Setup()
	diag := make([]float64, 4)
	mo.ComputeDiagonal2D(diag)
	assert.InDeltaSlice(t, []float64{0.125, 0.125, 0.125, 0.125}, diag, 1.e-15)
}

func TestMassDiagonal(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		ts := newTestSetup(2, dim, 3, 2, 0, 0.2)
		for _, s := range []*fem.Space{ts.h1s, ts.l2} {
			mo := NewMassOperator(s, ts.ir, ts.qd)
			mo.Setup()
			diag := make([]float64, s.GetVSize())
			mo.ComputeDiagonal(diag)
			M := ts.assembledMass(s, nil)
			for i := range diag {
				assert.InDelta(t, M.At(i, i), diag[i], 1.e-14)
			}
		}
	}
}

func TestMassOperatorDeterminism(t *testing.T) {
	var (
		rnd = rand.New(rand.NewSource(4))
		ref []float64
		x   []float64
	)
	for _, np := range []int{1, 2, 7} {
		ts := newTestSetup(np, 3, 3, 2, 1, 0.2)
		mo := NewMassOperator(ts.h1s, ts.ir, ts.qd)
		mo.Setup()
		if x == nil {
			x = randomVector(rnd, mo.Width())
		}
		y := make([]float64, mo.Height())
		mo.Mult(x, y)
		if ref == nil {
			ref = y
			continue
		}
		require.Equal(t, ref, y)
	}
}
