package fem

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/mat"
)

// GaussLegendre returns the n point Gauss-Legendre rule on [0,1], ascending
func GaussLegendre(n int) (x, w []float64) {
	if n < 1 {
		panic(fmt.Errorf("Gauss-Legendre rule needs at least one point, have %d", n))
	}
	x, w = make([]float64, n), make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, 0, 1)
	sortPairs(x, w)
	return
}

// GaussLobatto returns the n point Gauss-Lobatto-Legendre nodes on [0,1],
// ascending, with both end points included
func GaussLobatto(n int) (x []float64) {
	if n < 2 {
		panic(fmt.Errorf("Gauss-Lobatto nodes need at least two points, have %d", n))
	}
	x = make([]float64, n)
	x[0], x[n-1] = 0, 1
	if n == 2 {
		return
	}
	// Interior nodes are the roots of P'_{n-1}, the Gauss-Jacobi(1,1) points
	xint := jacobiGQNodes(1, 1, n-3)
	for i, val := range xint {
		x[i+1] = 0.5 * (val + 1)
	}
	return
}

// jacobiGQNodes computes the N+1 Gauss-Jacobi nodes on [-1,1] from the
// eigenvalues of the symmetric Jacobi matrix
func jacobiGQNodes(alpha, beta float64, N int) (x []float64) {
	if N == 0 {
		return []float64{-(alpha - beta) / (alpha + beta + 2.)}
	}
	var (
		h1 = make([]float64, N+1)
		JJ = mat.NewSymDense(N+1, nil)
	)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}
	// main diagonal: diag(-1/2*(alpha^2-beta^2)./(h1+2)./h1)
	fac := -.5 * (alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		if alpha+beta < 10*1.e-16 && i == 0 {
			JJ.SetSym(i, i, 0)
			continue
		}
		JJ.SetSym(i, i, fac/(val*(val+2.)))
	}
	// 1st upper diagonal
	for i := 0; i < N; i++ {
		ip1 := float64(i + 1)
		val := h1[i]
		d1 := 2. / (val + 2.)
		d1 *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
		JJ.SetSym(i, i+1, d1)
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, false); !ok {
		panic("eigenvalue decomposition failed")
	}
	x = eig.Values(nil)
	sort.Float64s(x)
	return
}

func sortPairs(x, w []float64) {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })
	xs, ws := make([]float64, len(x)), make([]float64, len(w))
	for i, j := range idx {
		xs[i], ws[i] = x[j], w[j]
	}
	copy(x, xs)
	copy(w, ws)
}

// Poly1D is the Lagrange interpolating basis on a set of distinct nodes
type Poly1D struct {
	Nodes []float64
	denom []float64 // prod_{j!=i} (x_i - x_j)
}

func NewPoly1D(nodes []float64) (p *Poly1D) {
	n := len(nodes)
	p = &Poly1D{
		Nodes: append([]float64{}, nodes...),
		denom: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		d := 1.
		for j := 0; j < n; j++ {
			if j != i {
				d *= nodes[i] - nodes[j]
			}
		}
		if d == 0 {
			panic(fmt.Errorf("Lagrange basis nodes are not distinct: %v", nodes))
		}
		p.denom[i] = d
	}
	return
}

func (p *Poly1D) Size() int { return len(p.Nodes) }

// Eval computes all basis values (and derivatives when dshape is not nil) at x
func (p *Poly1D) Eval(x float64, shape, dshape []float64) {
	n := len(p.Nodes)
	for i := 0; i < n; i++ {
		var (
			val  = 1.
			dval float64
		)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			if dshape != nil {
				prod := 1.
				for k := 0; k < n; k++ {
					if k != i && k != j {
						prod *= x - p.Nodes[k]
					}
				}
				dval += prod
			}
			val *= x - p.Nodes[j]
		}
		shape[i] = val / p.denom[i]
		if dshape != nil {
			dshape[i] = dval / p.denom[i]
		}
	}
}
