package hydro

import (
	"errors"
	"fmt"
)

var (
	// ErrNumerical marks a physically invalid state the driver may recover from
	ErrNumerical = errors.New("numerical degeneracy")
	// ErrUnsupported marks an operation that is refused by contract
	ErrUnsupported = errors.New("unsupported operation")
)

// NumericalError reports where a computation degenerated. Index is the dof,
// quadrature point or zone involved, or -1 when there is none.
type NumericalError struct {
	Op     string
	Index  int
	Value  float64
	Reason string
}

func (e *NumericalError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s (value %g)", e.Op, e.Reason, e.Value)
	}
	return fmt.Sprintf("%s: %s at %d (value %g)", e.Op, e.Reason, e.Index, e.Value)
}

func (e *NumericalError) Unwrap() error { return ErrNumerical }
