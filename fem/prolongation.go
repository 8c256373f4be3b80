package fem

import (
	"github.com/notargets/golaghos/utils"
)

// Prolongation maps T-vectors to L-vectors. It is a 0/1 sparse matrix with
// exactly one entry per row; its transpose sums duplicated L-dofs back into
// their T-dof.
type Prolongation struct {
	P utils.CSR
}

func newProlongation(s *Space) (pr *Prolongation) {
	var (
		nL, nT = s.GetVSize(), s.GetTrueVSize()
		dok    = utils.NewDOK(nL, nT, "P_"+s.FE.String())
	)
	for c := 0; c < s.VDim; c++ {
		for l := 0; l < s.NDofs; l++ {
			dok.Set(c*s.NDofs+l, c*s.NTrueDofs+s.trueOf[l], 1)
		}
	}
	pr = &Prolongation{P: dok.ToCSR()}
	return
}

func (pr *Prolongation) Height() int { nr, _ := pr.P.Dims(); return nr }
func (pr *Prolongation) Width() int  { _, nc := pr.P.Dims(); return nc }

// Mult computes y = P x
func (pr *Prolongation) Mult(x, y []float64) { pr.P.MulVec(x, y) }

// MultTranspose computes y = P^T x
func (pr *Prolongation) MultTranspose(x, y []float64) { pr.P.MulVecTrans(x, y) }
