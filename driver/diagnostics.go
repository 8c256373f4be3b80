package driver

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/golaghos/fem"
	"github.com/notargets/golaghos/hydro"
	"github.com/notargets/golaghos/utils"
)

// Energies returns the kinetic energy 1/2 v^T M_v v and the internal energy
// 1^T M_e e of the current state
func (h *Hydro) Energies() (kinetic, internal float64) {
	var (
		nd = h.H1c.GetNDofs()
		vT = make([]float64, h.H1c.GetTrueVSize())
		mv = make([]float64, h.H1c.GetTrueVSize())
		me = make([]float64, h.L2.GetVSize())
	)
	h.VMass.SetEssentialTrueDofs(utils.Index{})
	for c := 0; c < h.Mesh.Dim; c++ {
		restrict(h.H1c, h.S.V[c*nd:(c+1)*nd], vT)
		h.VMass.Mult(vT, mv)
		kinetic += 0.5 * floats.Dot(vT, mv)
	}
	h.EMass.Mult(h.S.E, me)
	internal = floats.Sum(me)
	return
}

func (h *Hydro) TotalEnergy() float64 {
	ke, ie := h.Energies()
	return ke + ie
}

// restrict picks the true dof values out of a consistent L-vector
func restrict(s *fem.Space, xL, xT []float64) {
	for l, v := range xL {
		xT[s.TrueDofOf(l)] = v
	}
}

// ComputeDensity projects the density of the current state onto the L2
// space, zone by zone: M_z rho_z = b_z with M_z the unit density mass on the
// deformed zone and b_z the density load vector
func (h *Hydro) ComputeDensity() (rho []float64, err error) {
	h.Geom.Update(h.H1, h.S.X, h.h1dq)
	var (
		fe   = h.L2.FE
		ND   = fe.GetDof()
		NQ   = h.IR.GetNPoints()
		B    = h.l2dq.B.Host()
		detJ = h.Geom.DetJ.Device()
		Mz   = mat.NewSymDense(ND, nil)
		rhs  = make([]float64, ND)
		sol  = mat.NewVecDense(ND, nil)
		chol mat.Cholesky
		tr   fem.ElementTransformation
	)
	rho = make([]float64, h.L2.GetVSize())
	for e := 0; e < h.Mesh.NE; e++ {
		tr.ElementNo = e
		h.DensityInteg.AssembleRHSElementVect(fe, &tr, rhs)
		for i := 0; i < ND; i++ {
			for j := i; j < ND; j++ {
				var sum float64
				for q := 0; q < NQ; q++ {
					sum += B[q*ND+i] * B[q*ND+j] * detJ[e*NQ+q] * h.IR.Weights[q]
				}
				Mz.SetSym(i, j, sum)
			}
		}
		if ok := chol.Factorize(Mz); !ok {
			err = &hydro.NumericalError{Op: "ComputeDensity", Index: e, Value: math.NaN(), Reason: "zone mass is not positive definite"}
			return
		}
		if err = chol.SolveVecTo(sol, mat.NewVecDense(ND, rhs)); err != nil {
			return
		}
		for i, k := range h.L2.GetElementDofs(e) {
			rho[k] = sol.AtVec(i)
		}
	}
	return
}

func (h *Hydro) PrintInitialization(FinalTime float64) {
	ke, ie := h.Energies()
	fmt.Printf("Solving until finaltime = %8.5f, initial dt = %8.5e\n", FinalTime, h.Dt)
	fmt.Printf("Initial energy: kinetic = %12.6e, internal = %12.6e\n", ke, ie)
	fmt.Printf("    step      time        dt   kinetic  internal   |dE|/E0\n")
}

func (h *Hydro) PrintUpdate(e0 float64) {
	ke, ie := h.Energies()
	fmt.Printf("%8d%10.5f%10.3e%10.3e%10.3e%10.3e\n", h.Steps, h.Time, h.Dt, ke, ie, math.Abs(ke+ie-e0)/e0)
}

func (h *Hydro) PrintFinal(elapsed time.Duration, e0 float64) {
	var rate float64
	if h.Steps > 0 {
		rate = float64(elapsed.Microseconds()) / float64(h.Mesh.NE*h.Steps)
	}
	fmt.Printf("\nRate of execution = %8.5f us/(zone*step) over %d steps, %d rejected\n", rate, h.Steps, h.Rejected)
	fmt.Printf("Energy change |E - E0|/E0 = %8.3e\n", math.Abs(h.TotalEnergy()-e0)/e0)
	fmt.Printf("Device: %v\n", h.ctx)
	fmt.Printf("Memory: %s\n", utils.GetMemUsage())
}
