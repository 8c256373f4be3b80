package utils

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	{ // Inversion of a many-to-one map keeps positions sorted per row
		rowOf := []int{2, 0, 2, 1, 0, 2}
		tb := NewTableFromMap(3, rowOf)
		require.Equal(t, 3, tb.Size())
		assert.Equal(t, []int{1, 4}, tb.Row(0))
		assert.Equal(t, []int{3}, tb.Row(1))
		assert.Equal(t, []int{0, 2, 5}, tb.Row(2))
		assert.Equal(t, 3, tb.RowSize(2))
	}
	{ // Empty rows are allowed
		tb := NewTableFromMap(4, []int{3, 3})
		assert.Equal(t, 0, tb.RowSize(0))
		assert.Equal(t, 2, tb.RowSize(3))
	}
	{ // Gather is bit identical regardless of the parallel degree
		var (
			N     = 1000
			nrows = 37
			rowOf = make([]int, N)
			src   = make([]float64, N)
			r     = rand.New(rand.NewSource(7))
		)
		for p := range rowOf {
			rowOf[p] = r.Intn(nrows)
			src[p] = r.NormFloat64() * 1.e3
		}
		tb := NewTableFromMap(nrows, rowOf)
		ref := make([]float64, nrows)
		tb.Gather(NewPartitionMap(1, nrows), src, ref)
		for _, NP := range []int{2, 5, 16} {
			dst := make([]float64, nrows)
			tb.Gather(NewPartitionMap(NP, nrows), src, dst)
			assert.Equal(t, ref, dst)
		}
		var total, sum float64
		for _, v := range src {
			total += v
		}
		for _, v := range ref {
			sum += v
		}
		assert.InDelta(t, total, sum, 1.e-8)
	}
	{ // Rows out of range are a contract violation
		assert.Panics(t, func() { NewTableFromMap(2, []int{0, 2}) })
	}
}
