package driver

import (
	"fmt"

	"github.com/notargets/golaghos/InputParameters"
	"github.com/notargets/golaghos/device"
	"github.com/notargets/golaghos/fem"
	"github.com/notargets/golaghos/hydro"
	"github.com/notargets/golaghos/utils"
)

// State is the Lagrangian solution: node positions X and velocities V as
// vector H1 L-vectors ordered by nodes, specific internal energy E as an L2
// L-vector
type State struct {
	X, V, E []float64
}

func NewState(h1, l2 *fem.Space) *State {
	return &State{
		X: make([]float64, h1.GetVSize()),
		V: make([]float64, h1.GetVSize()),
		E: make([]float64, l2.GetVSize()),
	}
}

func (s *State) CopyFrom(o *State) {
	copy(s.X, o.X)
	copy(s.V, o.V)
	copy(s.E, o.E)
}

/*
Hydro owns the discretization, the QuadratureData and every operator built on
it, so the quadrature data outlives the operators borrowing it. Velocity is
continuous (H1, order OrderV), specific internal energy is discontinuous (L2,
order OrderE).
*/
type Hydro struct {
	ip                 *InputParameters.InputParametersHydro
	Problem            ProblemType
	Gamma, CFL         float64
	Viscosity, Verbose bool
	ctx                *device.Context
	Mesh               *fem.CartesianMesh
	H1                 *fem.Space // vector kinematic space, vdim = dim
	H1c                *fem.Space // one velocity component
	L2                 *fem.Space
	IR                 *fem.IntegrationRule
	QD                 *hydro.QuadratureData
	Geom               *fem.Geometry
	h1dq, l2dq         *fem.DofQuadMaps
	VMass, EMass       *hydro.MassOperator
	Force              *hydro.ForceOperator
	VPrec, EPrec       *hydro.DiagonalSolver
	VSolver, ESolver   *hydro.CGSolver
	DensityInteg       *hydro.DensityIntegrator
	essTDofs           []utils.Index // per velocity component
	S                  *State
	Time, Dt           float64
	Steps, Rejected    int
	// scratch
	s0, sHalf  *State
	dS         *State
	vAvg       []float64
	one, rhsV  []float64
	rhsT, solT []float64
	rhsE       []float64
}

func NewHydro(ip *InputParameters.InputParametersHydro) (h *Hydro) {
	if err := ip.Validate(); err != nil {
		panic(err)
	}
	var (
		dim = ip.Dim
		n   = ip.Zones
	)
	h = &Hydro{
		ip:        ip,
		Problem:   NewProblemType(ip.Problem),
		Gamma:     ip.Gamma,
		CFL:       ip.CFL,
		Viscosity: ip.Viscosity,
		Verbose:   ip.Verbose,
		ctx:       device.NewContext(ip.ProcLimit, ip.Unified),
	}
	h.Mesh = fem.NewCartesianMesh(dim, []int{n, n, n}, []float64{0, 0, 0}, []float64{1, 1, 1})
	h.H1 = fem.NewH1Space(h.ctx, h.Mesh, ip.OrderV, dim)
	h.H1c = fem.NewH1Space(h.ctx, h.Mesh, ip.OrderV, 1)
	h.L2 = fem.NewL2Space(h.ctx, h.Mesh, ip.OrderE, 1)
	quadOrder := ip.QuadOrder
	if quadOrder <= 0 {
		quadOrder = 3*ip.OrderV + ip.OrderE - 1
	}
	h.IR = fem.NewIntegrationRuleForOrder(dim, quadOrder)
	NQ := h.IR.GetNPoints()
	h.QD = hydro.NewQuadratureData(h.ctx, dim, h.Mesh.NE, NQ)
	h.Geom = fem.NewGeometry(h.ctx, dim, h.Mesh.NE, NQ)
	h.h1dq = fem.GetDofQuadMaps(h.ctx, h.H1.FE, h.IR)
	h.l2dq = fem.GetDofQuadMaps(h.ctx, h.L2.FE, h.IR)

	h.essTDofs = make([]utils.Index, dim)
	for c := 0; c < dim; c++ {
		h.essTDofs[c] = h.H1c.BoundaryTrueDofs(c)
	}
	h.allocateScratch()
	h.InitializeSolution()
	h.setupTimeZero()

	h.VMass = hydro.NewMassOperator(h.H1c, h.IR, h.QD)
	h.EMass = hydro.NewMassOperator(h.L2, h.IR, h.QD)
	h.Force = hydro.NewForceOperator(h.H1, h.L2, h.IR, h.QD)
	h.DensityInteg = hydro.NewDensityIntegrator(h.QD, h.IR)
	h.VMass.Setup()
	h.EMass.Setup()
	h.Force.Setup()

	h.VPrec = hydro.NewDiagonalSolver(h.H1c)
	diag := make([]float64, h.H1c.GetVSize())
	h.VMass.ComputeDiagonal(diag)
	h.VPrec.SetDiagonal(diag)
	h.EPrec = hydro.NewDiagonalSolver(h.L2)
	diag = make([]float64, h.L2.GetVSize())
	h.EMass.ComputeDiagonal(diag)
	h.EPrec.SetDiagonal(diag)
	h.VSolver = h.newCG(h.VMass, h.VPrec)
	h.ESolver = h.newCG(h.EMass, h.EPrec)

	if h.Verbose {
		fmt.Printf("Lagrangian Hydrodynamics in %d Dimensions\n", dim)
		fmt.Printf("Using %d go routines in parallel\n", utils.ParallelDegreeFor(ip.ProcLimit, h.Mesh.NE))
		fmt.Printf("Solving %s, gamma = %8.5f, artificial viscosity = %v\n", h.Problem.Print(), h.Gamma, h.Viscosity)
		fmt.Printf("%v\n", h.Mesh)
		fmt.Printf("Velocity: %v\nEnergy:   %v\n", h.H1, h.L2)
		fmt.Printf("Integration rule: %v, %d points per zone\n\n", h.IR, NQ)
	}
	return
}

func (h *Hydro) newCG(op hydro.Operator, prec hydro.Solver) (cg *hydro.CGSolver) {
	cg = hydro.NewCGSolver()
	cg.RelTol = h.ip.CGRelTol
	cg.AbsTol = h.ip.CGAbsTol
	cg.MaxIter = h.ip.CGMaxIter
	cg.SetPreconditioner(prec)
	cg.SetOperator(op)
	return
}

func (h *Hydro) allocateScratch() {
	h.S = NewState(h.H1, h.L2)
	h.s0 = NewState(h.H1, h.L2)
	h.sHalf = NewState(h.H1, h.L2)
	h.dS = NewState(h.H1, h.L2)
	h.vAvg = make([]float64, h.H1.GetVSize())
	h.one = utils.ConstArray(h.L2.GetVSize(), 1)
	h.rhsV = make([]float64, h.H1.GetVSize())
	h.rhsT = make([]float64, h.H1c.GetTrueVSize())
	h.solT = make([]float64, h.H1c.GetTrueVSize())
	h.rhsE = make([]float64, h.L2.GetVSize())
}

// InitializeSolution sets the mesh positions, velocity and energy at time zero
func (h *Hydro) InitializeSolution() {
	var (
		dim = h.Mesh.Dim
		nd  = h.H1.GetNDofs()
	)
	copy(h.S.X, h.H1.NodeCoordinates())
	for l := 0; l < nd; l++ {
		var x [3]float64
		for d := 0; d < dim; d++ {
			x[d] = h.S.X[d*nd+l]
		}
		v := h.Problem.V0(dim, x)
		for d := 0; d < dim; d++ {
			h.S.V[d*nd+l] = v[d]
		}
	}
	// Boundary velocities are exactly zero, not the rounding of sin(pi)
	for c, ess := range h.essTDofs {
		for l := 0; l < nd; l++ {
			if ess.Contains(h.H1c.TrueDofOf(l)) {
				h.S.V[c*nd+l] = 0
			}
		}
	}
	xl2 := l2Coordinates(h.L2)
	for k, x := range xl2 {
		h.S.E[k] = h.Problem.E0(dim, h.Gamma, x)
	}
	if h.Problem == SEDOV {
		var (
			vol0 = 1.
			x0   [3]float64
		)
		for d := 0; d < dim; d++ {
			vol0 *= h.Mesh.H(d)
		}
		eBlast := h.ip.BlastEnergy / (h.Problem.Rho0(x0) * vol0)
		for _, k := range h.L2.GetElementDofs(0) {
			h.S.E[k] = eBlast
		}
	}
	h.Time, h.Steps, h.Rejected = 0, 0, 0
}

// setupTimeZero writes the write once quadrature data from the initial mesh
func (h *Hydro) setupTimeZero() {
	h.Geom.Update(h.H1, h.S.X, h.h1dq)
	if h.Geom.MinDetJ <= 0 {
		panic(fmt.Errorf("initial mesh has an inverted zone %d, det(J) = %v", h.Geom.MinDetJZone, h.Geom.MinDetJ))
	}
	var (
		dim  = h.Mesh.Dim
		NE   = h.Mesh.NE
		NQ   = h.IR.GetNPoints()
		ND   = h.h1dq.ND
		nd   = h.H1.GetNDofs()
		B    = h.h1dq.B.Host()
		ed   = h.H1.ElemDofs()
		detJ = h.Geom.DetJ.Device()
		rdw  = make([]float64, NE*NQ)
	)
	h.ctx.ForEach(NE, func(kMin, kMax int) {
		for e := kMin; e < kMax; e++ {
			for q := 0; q < NQ; q++ {
				var x [3]float64
				for d := 0; d < dim; d++ {
					for i := 0; i < ND; i++ {
						x[d] += B[q*ND+i] * h.S.X[d*nd+int(ed[e*ND+i])]
					}
				}
				k := e*NQ + q
				rdw[k] = h.Problem.Rho0(x) * detJ[k] * h.IR.Weights[q]
			}
		}
	})
	h.QD.SetRho0DetJ0w(rdw)
	h.QD.SetJac0inv(h.Geom.InvJ.Device())
	h.QD.H0 = h.Mesh.ZoneSize() / float64(h.H1.GetOrder())
}

// l2Coordinates returns the physical position of every L2 dof on the
// undeformed mesh
func l2Coordinates(s *fem.Space) (x [][3]float64) {
	var (
		m     = s.Mesh
		fe    = s.FE
		nodes = fe.Basis.Nodes
	)
	x = make([][3]float64, s.GetNDofs())
	for e := 0; e < m.NE; e++ {
		zijk := m.ZoneIJK(e)
		for i, k := range s.GetElementDofs(e) {
			lijk := fe.LocalIJK(i)
			for d := 0; d < m.Dim; d++ {
				x[k][d] = m.Lo[d] + (float64(zijk[d])+nodes[lijk[d]])*m.H(d)
			}
		}
	}
	return
}

func (h *Hydro) Context() *device.Context { return h.ctx }
