package utils

import "fmt"

// Table is a compressed row connectivity list: row i owns the entries
// J[I[i]:I[i+1]]
type Table struct {
	I, J []int
}

// NewTableFromMap inverts a many-to-one map: position p maps to row rowOf[p].
// The result lists, for every row, the positions that map into it in
// increasing order, which fixes the order of any reduction done over a row.
func NewTableFromMap(nrows int, rowOf []int) (tb *Table) {
	tb = &Table{
		I: make([]int, nrows+1),
		J: make([]int, len(rowOf)),
	}
	for p, r := range rowOf {
		if r < 0 || r >= nrows {
			panic(fmt.Errorf("table row out of range: position %d maps to row %d, nrows = %d", p, r, nrows))
		}
		tb.I[r+1]++
	}
	for r := 0; r < nrows; r++ {
		tb.I[r+1] += tb.I[r]
	}
	fill := make([]int, nrows)
	for p, r := range rowOf {
		tb.J[tb.I[r]+fill[r]] = p
		fill[r]++
	}
	return
}

func (tb *Table) Size() int { return len(tb.I) - 1 }

func (tb *Table) RowSize(i int) int { return tb.I[i+1] - tb.I[i] }

func (tb *Table) Row(i int) []int { return tb.J[tb.I[i]:tb.I[i+1]] }

// Gather sums src over each row of the table into dst: dst[i] = sum src[J[k]]
// for k in row i. Rows are split across partitions; every row is reduced in
// the fixed order held by the table, so the result does not depend on the
// partitioning.
func (tb *Table) Gather(pm *PartitionMap, src, dst []float64) {
	if len(dst) != tb.Size() {
		panic(fmt.Errorf("table gather size mismatch: len(dst) = %d, rows = %d", len(dst), tb.Size()))
	}
	pm.Run(func(np, iMin, iMax int) {
		for i := iMin; i < iMax; i++ {
			var sum float64
			for k := tb.I[i]; k < tb.I[i+1]; k++ {
				sum += src[tb.J[k]]
			}
			dst[i] = sum
		}
	})
}
