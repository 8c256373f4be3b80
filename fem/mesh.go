package fem

import (
	"fmt"
	"math"
)

// CartesianMesh is a structured grid of quads (2D), hexes (3D) or segments
// (1D). Zones are numbered lexicographically, x fastest.
type CartesianMesh struct {
	Dim      int
	N        [3]int
	Lo, Hi   [3]float64
	Periodic [3]bool
	NE       int
}

func NewCartesianMesh(dim int, N []int, Lo, Hi []float64, periodic ...bool) (m *CartesianMesh) {
	if dim < 1 || dim > 3 {
		panic(fmt.Errorf("mesh dimension must be 1, 2 or 3, have %d", dim))
	}
	if len(N) < dim || len(Lo) < dim || len(Hi) < dim {
		panic(fmt.Errorf("mesh needs %d zone counts and bounds, have %d, %d, %d", dim, len(N), len(Lo), len(Hi)))
	}
	m = &CartesianMesh{
		Dim: dim,
		N:   [3]int{1, 1, 1},
		NE:  1,
	}
	for d := 0; d < dim; d++ {
		if N[d] < 1 {
			panic(fmt.Errorf("mesh zone count must be >= 1, have N[%d] = %d", d, N[d]))
		}
		if !(Hi[d] > Lo[d]) {
			panic(fmt.Errorf("mesh bounds must be increasing, have [%v,%v] in direction %d", Lo[d], Hi[d], d))
		}
		m.N[d] = N[d]
		m.Lo[d], m.Hi[d] = Lo[d], Hi[d]
		m.NE *= N[d]
		if d < len(periodic) {
			m.Periodic[d] = periodic[d]
		}
	}
	return
}

// NewUnitMesh is an n^dim zone mesh of the unit box
func NewUnitMesh(dim, n int) *CartesianMesh {
	return NewCartesianMesh(dim, []int{n, n, n}, []float64{0, 0, 0}, []float64{1, 1, 1})
}

func (m *CartesianMesh) GetNE() int { return m.NE }

func (m *CartesianMesh) ZoneIJK(e int) (ijk [3]int) {
	ijk[0] = e % m.N[0]
	ijk[1] = (e / m.N[0]) % m.N[1]
	ijk[2] = e / (m.N[0] * m.N[1])
	return
}

func (m *CartesianMesh) ZoneIndex(ijk [3]int) int {
	return ijk[0] + m.N[0]*(ijk[1]+m.N[1]*ijk[2])
}

// H is the zone edge length in direction d
func (m *CartesianMesh) H(d int) float64 {
	return (m.Hi[d] - m.Lo[d]) / float64(m.N[d])
}

func (m *CartesianMesh) Volume() (vol float64) {
	vol = 1
	for d := 0; d < m.Dim; d++ {
		vol *= m.Hi[d] - m.Lo[d]
	}
	return
}

// ZoneSize is the edge of a cube with the average zone volume
func (m *CartesianMesh) ZoneSize() float64 {
	return math.Pow(m.Volume()/float64(m.NE), 1./float64(m.Dim))
}

func (m *CartesianMesh) String() string {
	return fmt.Sprintf("Cartesian %dD mesh, N = %v, [%v,%v], periodic = %v, NE = %d",
		m.Dim, m.N[:m.Dim], m.Lo[:m.Dim], m.Hi[:m.Dim], m.Periodic[:m.Dim], m.NE)
}
