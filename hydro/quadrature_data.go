package hydro

import (
	"fmt"
	"math"

	"github.com/notargets/golaghos/device"
)

/*
QuadratureData holds the per quadrature point state of the Lagrangian
solution. Per point arrays are ordered zone major, e*QuadsPerZone + q, and the
tensor valued ones append the row major Dim x Dim block:

	Jac0inv[((e*NQ + q)*Dim + r)*Dim + c]        inverse of the time zero Jacobian
	StressJinvT[((e*NQ + q)*Dim + vd)*Dim + gd]  w_q det(J) (sigma J^-T)(vd,gd)
	Rho0DetJ0w[e*NQ + q]                         rho0 det(J0) w_q
	DtEstQ[e*NQ + q]                             stable time step at the point

Jac0inv and Rho0DetJ0w are written once after Setup. The current density is
never stored, it follows from mass conservation, see Density.
*/
type QuadratureData struct {
	ctx                               *device.Context
	Dim, NZones, QuadsPerZone         int
	Jac0inv, StressJinvT, Rho0DetJ0w  *device.Buffer[float64]
	DtEstQ                            *device.Buffer[float64]
	H0, DtEst                         float64
	jac0invWritten, rho0DetJ0wWritten bool
}

func NewQuadratureData(ctx *device.Context, dim, nzones, quadsPerZone int) (qd *QuadratureData) {
	qd = &QuadratureData{ctx: ctx}
	qd.Setup(dim, nzones, quadsPerZone)
	return
}

// Setup sizes every buffer for (dim, nzones, quadsPerZone). Calling it again
// with the same sizes keeps the buffers and their contents, other sizes
// reallocate zero filled buffers and reopen the write once fields.
func (qd *QuadratureData) Setup(dim, nzones, quadsPerZone int) {
	if dim <= 0 || nzones <= 0 || quadsPerZone <= 0 {
		panic(fmt.Errorf("quadrature data sizes must be positive, have dim = %d, nzones = %d, quads per zone = %d",
			dim, nzones, quadsPerZone))
	}
	if dim > 3 {
		panic(fmt.Errorf("quadrature data dimension must be 1, 2 or 3, have %d", dim))
	}
	if qd.ctx == nil {
		panic("quadrature data needs a device context")
	}
	if qd.Jac0inv != nil && dim == qd.Dim && nzones == qd.NZones && quadsPerZone == qd.QuadsPerZone {
		return
	}
	qd.Dim, qd.NZones, qd.QuadsPerZone = dim, nzones, quadsPerZone
	var (
		nPts = nzones * quadsPerZone
		nTen = nPts * dim * dim
	)
	qd.Jac0inv = device.NewBuffer[float64](qd.ctx, nTen, "Jac0inv")
	qd.StressJinvT = device.NewBuffer[float64](qd.ctx, nTen, "StressJinvT")
	qd.Rho0DetJ0w = device.NewBuffer[float64](qd.ctx, nPts, "Rho0DetJ0w")
	qd.DtEstQ = device.NewBuffer[float64](qd.ctx, nPts, "DtEstQ")
	qd.H0, qd.DtEst = 0, 0
	qd.jac0invWritten, qd.rho0DetJ0wWritten = false, false
}

func (qd *QuadratureData) Context() *device.Context { return qd.ctx }

// NPoints is the total number of quadrature points
func (qd *QuadratureData) NPoints() int { return qd.NZones * qd.QuadsPerZone }

// SetJac0inv stores the time zero inverse Jacobians and moves them to the device
func (qd *QuadratureData) SetJac0inv(data []float64) {
	if qd.jac0invWritten {
		panic("Jac0inv is written once per Setup")
	}
	qd.writeOnce(qd.Jac0inv, data)
	qd.jac0invWritten = true
}

// SetRho0DetJ0w stores rho0 det(J0) w at every point and moves it to the device
func (qd *QuadratureData) SetRho0DetJ0w(data []float64) {
	if qd.rho0DetJ0wWritten {
		panic("Rho0DetJ0w is written once per Setup")
	}
	qd.writeOnce(qd.Rho0DetJ0w, data)
	qd.rho0DetJ0wWritten = true
}

func (qd *QuadratureData) writeOnce(b *device.Buffer[float64], data []float64) {
	if len(data) != b.Len() {
		panic(fmt.Errorf("%s size mismatch: have %d, need %d", b.Name(), len(data), b.Len()))
	}
	copy(b.Host(), data)
	b.ToDevice()
}

// SyncToDevice copies every host array to the device
func (qd *QuadratureData) SyncToDevice() {
	for _, b := range qd.buffers() {
		b.ToDevice()
	}
}

// SyncToHost copies every device array to the host
func (qd *QuadratureData) SyncToHost() {
	for _, b := range qd.buffers() {
		b.ToHost()
	}
}

func (qd *QuadratureData) buffers() []*device.Buffer[float64] {
	return []*device.Buffer[float64]{qd.Jac0inv, qd.StressJinvT, qd.Rho0DetJ0w, qd.DtEstQ}
}

// Density is the current density at point q of zone, rho0 det(J0) / det(J),
// given the current det(J) and the weight w of the point
func (qd *QuadratureData) Density(zone, q int, detJ, w float64) float64 {
	return qd.Rho0DetJ0w.Device()[zone*qd.QuadsPerZone+q] / (detJ * w)
}

// MinDtEst reduces DtEstQ on the device to its minimum and stores it in DtEst
func (qd *QuadratureData) MinDtEst() float64 {
	var (
		dtq  = qd.DtEstQ.Device()
		pm   = qd.ctx.Partition(len(dtq))
		mins = make([]float64, pm.ParallelDegree)
	)
	for i := range mins {
		mins[i] = math.Inf(1)
	}
	pm.Run(func(np, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			mins[np] = math.Min(mins[np], dtq[k])
		}
	})
	qd.DtEst = math.Inf(1)
	for _, m := range mins {
		qd.DtEst = math.Min(qd.DtEst, m)
	}
	return qd.DtEst
}
