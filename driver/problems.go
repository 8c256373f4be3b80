package driver

import (
	"fmt"
	"math"
	"strings"
)

type ProblemType uint8

const (
	SEDOV ProblemType = iota
	TAYLORGREEN
)

var (
	ProblemNames = map[string]ProblemType{
		"sedov":        SEDOV,
		"taylor-green": TAYLORGREEN,
	}
	ProblemPrintNames = []string{"Sedov Blast Wave", "Taylor-Green Vortex"}
)

func NewProblemType(label string) (pt ProblemType) {
	var ok bool
	if len(label) == 0 {
		panic(fmt.Errorf("empty problem type, must be one of %v", ProblemNames))
	}
	label = strings.ToLower(label)
	if pt, ok = ProblemNames[label]; !ok {
		panic(fmt.Errorf("unable to use problem type named %s", label))
	}
	return
}

func (pt ProblemType) Print() string { return ProblemPrintNames[pt] }

// Initial density at x
func (pt ProblemType) Rho0(x [3]float64) float64 { return 1 }

// Initial velocity at x
func (pt ProblemType) V0(dim int, x [3]float64) (v [3]float64) {
	switch pt {
	case TAYLORGREEN:
		sx, cx := math.Sincos(math.Pi * x[0])
		sy, cy := math.Sincos(math.Pi * x[1])
		cz := 1.
		if dim == 3 {
			cz = math.Cos(math.Pi * x[2])
		}
		v[0] = sx * cy * cz
		v[1] = -cx * sy * cz
	}
	return
}

// Initial specific internal energy at x. The Sedov blast is deposited
// separately into the zone at the origin.
func (pt ProblemType) E0(dim int, gamma float64, x [3]float64) (e float64) {
	switch pt {
	case TAYLORGREEN:
		var (
			rho = pt.Rho0(x)
			cx  = math.Cos(2 * math.Pi * x[0])
			cy  = math.Cos(2 * math.Pi * x[1])
			p   float64
		)
		if dim == 2 {
			p = 100 + rho*(cx+cy)/4
		} else {
			cz := math.Cos(2 * math.Pi * x[2])
			p = 100 + rho*((cx+cy)*(cz+2)-2)/16
		}
		e = p / ((gamma - 1) * rho)
	}
	return
}
