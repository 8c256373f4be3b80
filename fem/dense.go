package fem

// Closed form determinant and inverse of the row major dim x dim matrices held
// per quadrature point. Returns det(A); Ainv is zeroed when A is singular.
func CalcInverse(dim int, A, Ainv []float64) (det float64) {
	switch dim {
	case 1:
		det = A[0]
		if det != 0 {
			Ainv[0] = 1 / det
		}
	case 2:
		det = A[0]*A[3] - A[1]*A[2]
		if det != 0 {
			id := 1 / det
			Ainv[0], Ainv[1] = A[3]*id, -A[1]*id
			Ainv[2], Ainv[3] = -A[2]*id, A[0]*id
		}
	case 3:
		c00 := A[4]*A[8] - A[5]*A[7]
		c01 := A[5]*A[6] - A[3]*A[8]
		c02 := A[3]*A[7] - A[4]*A[6]
		det = A[0]*c00 + A[1]*c01 + A[2]*c02
		if det != 0 {
			id := 1 / det
			Ainv[0] = c00 * id
			Ainv[1] = (A[2]*A[7] - A[1]*A[8]) * id
			Ainv[2] = (A[1]*A[5] - A[2]*A[4]) * id
			Ainv[3] = c01 * id
			Ainv[4] = (A[0]*A[8] - A[2]*A[6]) * id
			Ainv[5] = (A[2]*A[3] - A[0]*A[5]) * id
			Ainv[6] = c02 * id
			Ainv[7] = (A[1]*A[6] - A[0]*A[7]) * id
			Ainv[8] = (A[0]*A[4] - A[1]*A[3]) * id
		}
	default:
		panic("CalcInverse supports dim 1, 2 and 3")
	}
	if det == 0 {
		for i := range Ainv[:dim*dim] {
			Ainv[i] = 0
		}
	}
	return
}

// MultABt computes C = A B^T for row major dim x dim matrices
func MultABt(dim int, A, B, C []float64) {
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			var sum float64
			for k := 0; k < dim; k++ {
				sum += A[i*dim+k] * B[j*dim+k]
			}
			C[i*dim+j] = sum
		}
	}
}

// MultAB computes C = A B for row major dim x dim matrices
func MultAB(dim int, A, B, C []float64) {
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			var sum float64
			for k := 0; k < dim; k++ {
				sum += A[i*dim+k] * B[k*dim+j]
			}
			C[i*dim+j] = sum
		}
	}
}
