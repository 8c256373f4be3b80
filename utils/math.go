package utils

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

func IPOW(x, p int) (y int) {
	y = 1
	for i := 0; i < p; i++ {
		y *= x
	}
	return
}
