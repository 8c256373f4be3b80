package driver

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/golaghos/hydro"
)

const (
	dtShrink = 0.85
	dtGrow   = 1.02
	dtMin    = 1.e-12
)

// SolveVelocity solves M_v dv = -F 1 one component at a time, with the
// component's wall dofs held at zero. The QuadratureData must be current.
func (h *Hydro) SolveVelocity(dv []float64) (err error) {
	var (
		nd = h.H1c.GetNDofs()
		P  = h.H1c.GetProlongation()
	)
	h.Force.Mult(h.one, h.rhsV)
	floats.Scale(-1, h.rhsV)
	for c := 0; c < h.Mesh.Dim; c++ {
		P.MultTranspose(h.rhsV[c*nd:(c+1)*nd], h.rhsT)
		h.VMass.SetEssentialTrueDofs(h.essTDofs[c])
		h.VMass.EliminateRHS(h.rhsT)
		if err = h.VSolver.Mult(h.rhsT, h.solT); err != nil {
			return fmt.Errorf("velocity component %d: %w", c, err)
		}
		P.Mult(h.solT, dv[c*nd:(c+1)*nd])
	}
	return
}

// SolveEnergy solves M_e de = F^T v
func (h *Hydro) SolveEnergy(v, de []float64) (err error) {
	h.Force.MultTranspose(v, h.rhsE)
	if err = h.ESolver.Mult(h.rhsE, de); err != nil {
		return fmt.Errorf("energy: %w", err)
	}
	return
}

// Mult evaluates the time derivative of S: dX = V, dV = M_v^-1 (-F 1),
// dE = M_e^-1 F^T V
func (h *Hydro) Mult(S, dSdt *State) (err error) {
	if _, err = h.UpdateQuadratureData(S); err != nil {
		return
	}
	if err = h.SolveVelocity(dSdt.V); err != nil {
		return
	}
	if err = h.SolveEnergy(S.V, dSdt.E); err != nil {
		return
	}
	copy(dSdt.X, S.V)
	return
}

/*
rk2Avg advances h.S by dt with the energy conserving midpoint scheme:

	half step:  v_h = v0 + dt/2 dv(S0),  e_h = e0 + dt/2 de(S0, v_h),  x_h = x0 + dt/2 v_h
	full step:  v_a = v0 + dt/2 dv(S_h), e = e0 + dt de(S_h, v_a),     x = x0 + dt v_a,
	            v = v0 + dt dv(S_h)

Kinetic plus internal energy is conserved to the tolerance of the mass solves.
*/
func (h *Hydro) rk2Avg(dt float64) (err error) {
	var (
		S0, Sh, dS = h.s0, h.sHalf, h.dS
		S          = h.S
	)
	S0.CopyFrom(S)
	if _, err = h.UpdateQuadratureData(S0); err != nil {
		return
	}
	if err = h.SolveVelocity(dS.V); err != nil {
		return
	}
	floats.AddScaledTo(Sh.V, S0.V, 0.5*dt, dS.V)
	if err = h.SolveEnergy(Sh.V, dS.E); err != nil {
		return
	}
	floats.AddScaledTo(Sh.E, S0.E, 0.5*dt, dS.E)
	floats.AddScaledTo(Sh.X, S0.X, 0.5*dt, Sh.V)

	if _, err = h.UpdateQuadratureData(Sh); err != nil {
		return
	}
	if err = h.SolveVelocity(dS.V); err != nil {
		return
	}
	floats.AddScaledTo(h.vAvg, S0.V, 0.5*dt, dS.V)
	if err = h.SolveEnergy(h.vAvg, dS.E); err != nil {
		return
	}
	floats.AddScaledTo(S.V, S0.V, dt, dS.V)
	floats.AddScaledTo(S.E, S0.E, dt, dS.E)
	floats.AddScaledTo(S.X, S0.X, dt, h.vAvg)
	return
}

/*
Step advances the solution by one accepted step. A step is rejected and
retried with dt reduced by 0.85 when a numerical error occurs or when the
time step estimate of the new state is below dt. After an accepted step with
an estimate above 1.25 dt, dt grows by 1.02.
*/
func (h *Hydro) Step() (err error) {
	var (
		saved = NewState(h.H1, h.L2)
		dtEst float64
	)
	saved.CopyFrom(h.S)
	for {
		if h.Dt < dtMin {
			return &hydro.NumericalError{Op: "Step", Index: h.Steps, Value: h.Dt, Reason: "time step collapsed"}
		}
		err = h.rk2Avg(h.Dt)
		if err == nil {
			dtEst, err = h.UpdateQuadratureData(h.S)
		}
		switch {
		case err != nil && !errors.Is(err, hydro.ErrNumerical):
			return
		case err != nil || !(dtEst >= h.Dt):
			if h.Verbose {
				fmt.Printf("Repeating step %d, dt = %8.5e, estimate = %8.5e, %v\n", h.Steps+1, h.Dt, dtEst, err)
			}
			h.S.CopyFrom(saved)
			h.Dt *= dtShrink
			h.Rejected++
			continue
		}
		h.Time += h.Dt
		h.Steps++
		if dtEst > 1.25*h.Dt {
			h.Dt *= dtGrow
		}
		return nil
	}
}

// Solve runs from the current state to FinalTime or MaxSteps
func (h *Hydro) Solve() (err error) {
	var (
		FinalTime = h.ip.FinalTime
		finished  bool
		e0        = h.TotalEnergy()
		elapsed   time.Duration
	)
	if h.Dt == 0 {
		if h.ip.DtInit > 0 {
			h.Dt = h.ip.DtInit
		} else if h.Dt, err = h.UpdateQuadratureData(h.S); err != nil {
			return
		}
	}
	h.PrintInitialization(FinalTime)
	for finished = h.CheckIfFinished(FinalTime); !finished; {
		if h.Time+h.Dt > FinalTime {
			h.Dt = FinalTime - h.Time
		}
		start := time.Now()
		if err = h.Step(); err != nil {
			return
		}
		elapsed += time.Since(start)
		finished = h.CheckIfFinished(FinalTime)
		if h.Verbose && (finished || h.Steps%h.ip.PlotSteps == 0 || h.Steps == 1) {
			h.PrintUpdate(e0)
		}
	}
	if h.Verbose {
		h.PrintFinal(elapsed, e0)
	}
	return
}

// CheckIfFinished is true once the time left is shorter than the smallest
// step Step accepts, or MaxSteps is reached
func (h *Hydro) CheckIfFinished(FinalTime float64) (finished bool) {
	if h.Time >= FinalTime*(1-1.e-12) || FinalTime-h.Time < dtMin || h.Steps >= h.ip.MaxSteps {
		finished = true
	}
	return
}
