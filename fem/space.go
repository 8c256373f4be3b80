package fem

import (
	"fmt"

	"github.com/notargets/golaghos/device"
	"github.com/notargets/golaghos/utils"
)

/*
Space is a finite element space over a CartesianMesh. Three vector layouts are
used:
  - T-vector (true dofs): the globally unique unknowns, size VDim*NTrueDofs
  - L-vector (local dofs): one value per lattice node, size VDim*NDofs. On a
    periodic mesh the nodes on the wrapped faces are duplicated; P maps T to L
  - E-vector (element dofs): one value per zone and local dof, index
    (e*VDim + c)*ND + i, size NE*VDim*ND

Vector components are ordered by nodes: component c of scalar dof g is at
c*NDofs + g.
*/
type Space struct {
	ctx              *device.Context
	Mesh             *CartesianMesh
	FE               *FiniteElement
	VDim             int
	NDofs, NTrueDofs int
	lattice          [3]int // H1 lattice nodes per direction
	elemDofs         *device.Buffer[int32]
	trueOf           []int // scalar L-dof to T-dof
	P                *Prolongation
	l2g              *utils.Table
}

func NewH1Space(ctx *device.Context, m *CartesianMesh, order, vdim int) *Space {
	return newSpace(ctx, m, NewFiniteElement(m.Dim, order, H1), vdim)
}

func NewL2Space(ctx *device.Context, m *CartesianMesh, order, vdim int) *Space {
	return newSpace(ctx, m, NewFiniteElement(m.Dim, order, L2), vdim)
}

func newSpace(ctx *device.Context, m *CartesianMesh, fe *FiniteElement, vdim int) (s *Space) {
	if vdim < 1 {
		panic(fmt.Errorf("space vector dimension must be >= 1, have %d", vdim))
	}
	var (
		NE = m.NE
		ND = fe.ND
		ed = make([]int32, NE*ND)
	)
	s = &Space{
		ctx:  ctx,
		Mesh: m,
		FE:   fe,
		VDim: vdim,
	}
	switch fe.Type {
	case H1:
		p := fe.Order
		s.lattice = [3]int{1, 1, 1}
		tn := [3]int{1, 1, 1}
		for d := 0; d < m.Dim; d++ {
			s.lattice[d] = p*m.N[d] + 1
			tn[d] = s.lattice[d]
			if m.Periodic[d] {
				tn[d]--
			}
		}
		s.NDofs = s.lattice[0] * s.lattice[1] * s.lattice[2]
		s.NTrueDofs = tn[0] * tn[1] * tn[2]
		for e := 0; e < NE; e++ {
			zijk := m.ZoneIJK(e)
			for i := 0; i < ND; i++ {
				lijk := fe.LocalIJK(i)
				var g [3]int
				for d := 0; d < 3; d++ {
					g[d] = zijk[d]*p + lijk[d]
				}
				ed[e*ND+i] = int32(s.latticeIndex(g))
			}
		}
		s.trueOf = make([]int, s.NDofs)
		for l := 0; l < s.NDofs; l++ {
			g := s.LatticeIJK(l)
			for d := 0; d < m.Dim; d++ {
				if m.Periodic[d] {
					g[d] %= tn[d]
				}
			}
			s.trueOf[l] = g[0] + tn[0]*(g[1]+tn[1]*g[2])
		}
	case L2:
		s.NDofs = NE * ND
		s.NTrueDofs = s.NDofs
		for k := range ed {
			ed[k] = int32(k)
		}
		s.trueOf = make([]int, s.NDofs)
		for l := range s.trueOf {
			s.trueOf[l] = l
		}
	}
	s.elemDofs = device.NewBufferFrom(ctx, ed, "elemDofs")
	s.P = newProlongation(s)
	rowOf := make([]int, NE*vdim*ND)
	for e := 0; e < NE; e++ {
		for c := 0; c < vdim; c++ {
			for i := 0; i < ND; i++ {
				rowOf[(e*vdim+c)*ND+i] = c*s.NDofs + int(ed[e*ND+i])
			}
		}
	}
	s.l2g = utils.NewTableFromMap(vdim*s.NDofs, rowOf)
	return
}

func (s *Space) Context() *device.Context { return s.ctx }
func (s *Space) GetNE() int               { return s.Mesh.NE }
func (s *Space) GetNDofs() int            { return s.NDofs }
func (s *Space) GetVDim() int             { return s.VDim }
func (s *Space) GetVSize() int            { return s.VDim * s.NDofs }
func (s *Space) GetTrueVSize() int        { return s.VDim * s.NTrueDofs }
func (s *Space) GetESize() int            { return s.Mesh.NE * s.VDim * s.FE.ND }
func (s *Space) GetOrder() int            { return s.FE.Order }

func (s *Space) GetProlongation() *Prolongation { return s.P }

// ElemDofs is the device resident zone to scalar L-dof map, index e*ND + i
func (s *Space) ElemDofs() []int32 { return s.elemDofs.Device() }

func (s *Space) GetElementDofs(e int) (dofs []int) {
	var (
		ND = s.FE.ND
		ed = s.elemDofs.Host()
	)
	dofs = make([]int, ND)
	for i := range dofs {
		dofs[i] = int(ed[e*ND+i])
	}
	return
}

func (s *Space) latticeIndex(g [3]int) int {
	return g[0] + s.lattice[0]*(g[1]+s.lattice[1]*g[2])
}

// LatticeIJK is the lattice position of a scalar H1 L-dof
func (s *Space) LatticeIJK(l int) (g [3]int) {
	g[0] = l % s.lattice[0]
	g[1] = (l / s.lattice[0]) % s.lattice[1]
	g[2] = l / (s.lattice[0] * s.lattice[1])
	return
}

// TrueDofOf maps a scalar L-dof to its T-dof
func (s *Space) TrueDofOf(l int) int { return s.trueOf[l] }

// GlobalToLocal distributes an L-vector to the E-vector
func (s *Space) GlobalToLocal(xL, xE []float64) {
	var (
		ND, VDim, NDofs = s.FE.ND, s.VDim, s.NDofs
		ed              = s.elemDofs.Device()
	)
	s.checkSizes("GlobalToLocal", len(xL), len(xE))
	s.ctx.ForEach(s.Mesh.NE, func(kMin, kMax int) {
		for e := kMin; e < kMax; e++ {
			for c := 0; c < VDim; c++ {
				off := (e*VDim + c) * ND
				for i := 0; i < ND; i++ {
					xE[off+i] = xL[c*NDofs+int(ed[e*ND+i])]
				}
			}
		}
	})
}

// LocalToGlobal sums an E-vector into an L-vector. Each L-dof is reduced over
// its zone contributions in a fixed order, independent of the parallel degree.
func (s *Space) LocalToGlobal(xE, yL []float64) {
	s.checkSizes("LocalToGlobal", len(yL), len(xE))
	s.l2g.Gather(s.ctx.Partition(s.GetVSize()), xE, yL)
}

func (s *Space) checkSizes(op string, lL, lE int) {
	if lL != s.GetVSize() || lE != s.GetESize() {
		panic(fmt.Errorf("%s size mismatch: L-vector %d (need %d), E-vector %d (need %d)",
			op, lL, s.GetVSize(), lE, s.GetESize()))
	}
}

// NodeCoordinates returns the L-vector of H1 node positions, Dim components
// ordered by nodes
func (s *Space) NodeCoordinates() (x []float64) {
	if s.FE.Type != H1 {
		panic(fmt.Errorf("node coordinates need an H1 space, have %v", s.FE.Type))
	}
	var (
		m     = s.Mesh
		p     = s.FE.Order
		nodes = s.FE.Basis.Nodes
	)
	x = make([]float64, m.Dim*s.NDofs)
	for l := 0; l < s.NDofs; l++ {
		g := s.LatticeIJK(l)
		for d := 0; d < m.Dim; d++ {
			ez := g[d] / p
			if ez == m.N[d] {
				ez--
			}
			ix := g[d] - ez*p
			x[d*s.NDofs+l] = m.Lo[d] + (float64(ez)+nodes[ix])*m.H(d)
		}
	}
	return
}

// BoundaryTrueDofs lists the scalar T-dofs on the two non periodic mesh faces
// normal to direction d
func (s *Space) BoundaryTrueDofs(d int) (dofs utils.Index) {
	if s.FE.Type != H1 {
		panic(fmt.Errorf("boundary dofs need an H1 space, have %v", s.FE.Type))
	}
	if d < 0 || d >= s.Mesh.Dim || s.Mesh.Periodic[d] {
		return utils.Index{}
	}
	for l := 0; l < s.NDofs; l++ {
		g := s.LatticeIJK(l)
		if g[d] == 0 || g[d] == s.lattice[d]-1 {
			dofs = append(dofs, s.trueOf[l])
		}
	}
	return dofs.Unique()
}

func (s *Space) String() string {
	return fmt.Sprintf("%v space, vdim = %d, L-dofs = %d, T-dofs = %d", s.FE, s.VDim, s.GetVSize(), s.GetTrueVSize())
}
