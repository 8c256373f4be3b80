package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InputParametersHydro struct {
	Title       string  `yaml:"Title"`
	Problem     string  `yaml:"Problem"` // sedov or taylor-green
	Dim         int     `yaml:"Dim"`
	Zones       int     `yaml:"Zones"` // Zones per direction of the unit box
	OrderV      int     `yaml:"OrderV"`
	OrderE      int     `yaml:"OrderE"`    // OrderEUnset picks OrderV - 1
	QuadOrder   int     `yaml:"QuadOrder"` // Zero picks 3*OrderV + OrderE - 1
	CFL         float64 `yaml:"CFL"`
	FinalTime   float64 `yaml:"FinalTime"`
	MaxSteps    int     `yaml:"MaxSteps"`
	DtInit      float64 `yaml:"DtInit"` // Zero starts from the time zero estimate
	Gamma       float64 `yaml:"Gamma"`  // Zero picks the problem default
	BlastEnergy float64 `yaml:"BlastEnergy"`
	Viscosity   bool    `yaml:"Viscosity"`
	ProcLimit   int     `yaml:"ProcLimit"`
	Unified     bool    `yaml:"Unified"` // Host and device share memory
	CGRelTol    float64 `yaml:"CGRelTol"`
	CGAbsTol    float64 `yaml:"CGAbsTol"`
	CGMaxIter   int     `yaml:"CGMaxIter"`
	PlotSteps   int     `yaml:"PlotSteps"`
	Verbose     bool    `yaml:"Verbose"`
}

// OrderEUnset marks an energy order left to the default, zero being a valid
// piecewise constant choice
const OrderEUnset = -1

func NewInputParametersHydro() (ip *InputParametersHydro) {
	ip = &InputParametersHydro{OrderE: OrderEUnset}
	ip.SetDefaults()
	return
}

func (ip *InputParametersHydro) Parse(data []byte) (err error) {
	ip.OrderE = OrderEUnset
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	ip.SetDefaults()
	return ip.Validate()
}

// SetDefaults fills every unset field
func (ip *InputParametersHydro) SetDefaults() {
	if len(ip.Problem) == 0 {
		ip.Problem = "sedov"
	}
	ip.Problem = strings.ToLower(ip.Problem)
	if ip.Dim == 0 {
		ip.Dim = 2
	}
	if ip.Zones == 0 {
		ip.Zones = 8
	}
	if ip.OrderV == 0 {
		ip.OrderV = 2
	}
	if ip.OrderE == OrderEUnset {
		ip.OrderE = ip.OrderV - 1
	}
	if ip.CFL == 0 {
		ip.CFL = 0.5
	}
	if ip.FinalTime == 0 {
		ip.FinalTime = 0.6
	}
	if ip.MaxSteps == 0 {
		ip.MaxSteps = 1000000
	}
	if ip.Gamma == 0 {
		switch ip.Problem {
		case "taylor-green":
			ip.Gamma = 5. / 3.
		default:
			ip.Gamma = 1.4
		}
	}
	if ip.BlastEnergy == 0 {
		ip.BlastEnergy = 0.25
	}
	if ip.CGRelTol == 0 {
		ip.CGRelTol = 1.e-10
	}
	if ip.CGMaxIter == 0 {
		ip.CGMaxIter = 300
	}
	if ip.PlotSteps == 0 {
		ip.PlotSteps = 5
	}
}

func (ip *InputParametersHydro) Validate() (err error) {
	switch {
	case ip.Problem != "sedov" && ip.Problem != "taylor-green":
		err = fmt.Errorf("unknown problem %q, must be sedov or taylor-green", ip.Problem)
	case ip.Dim < 1 || ip.Dim > 3:
		err = fmt.Errorf("dimension must be 1, 2 or 3, have %d", ip.Dim)
	case ip.Problem == "taylor-green" && ip.Dim == 1:
		err = fmt.Errorf("taylor-green needs 2 or 3 dimensions")
	case ip.Zones < 1:
		err = fmt.Errorf("zones per direction must be >= 1, have %d", ip.Zones)
	case ip.OrderV < 1:
		err = fmt.Errorf("velocity order must be >= 1, have %d", ip.OrderV)
	case ip.OrderE < 0:
		err = fmt.Errorf("energy order must be >= 0, have %d", ip.OrderE)
	case ip.CFL <= 0:
		err = fmt.Errorf("CFL must be positive, have %v", ip.CFL)
	case ip.Gamma <= 1:
		err = fmt.Errorf("gamma must be > 1, have %v", ip.Gamma)
	}
	return
}

func (ip *InputParametersHydro) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Problem\n", ip.Problem)
	fmt.Printf("[%d]\t\t\t= Dimension\n", ip.Dim)
	fmt.Printf("[%d]\t\t\t= Zones per direction\n", ip.Zones)
	fmt.Printf("[%d, %d]\t\t\t= Velocity, Energy Order\n", ip.OrderV, ip.OrderE)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("%8.5f\t\t= Gamma\n", ip.Gamma)
	fmt.Printf("[%v]\t\t\t= Artificial Viscosity\n", ip.Viscosity)
	fmt.Printf("%8.2e\t\t= CG Relative Tolerance\n", ip.CGRelTol)
}
