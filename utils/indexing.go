package utils

import (
	"fmt"
	"sort"
)

type Index []int

func (I Index) Copy() (r Index) {
	r = make(Index, len(I))
	copy(r, I)
	return
}

// Unique returns a sorted copy of I with duplicates removed
func (I Index) Unique() (r Index) {
	if len(I) == 0 {
		return Index{}
	}
	s := I.Copy()
	sort.Ints(s)
	r = s[:1]
	for _, val := range s[1:] {
		if val != r[len(r)-1] {
			r = append(r, val)
		}
	}
	return
}

func (I Index) Contains(val int) bool {
	for _, v := range I {
		if v == val {
			return true
		}
	}
	return false
}

// CheckBounds returns an error if any entry lies outside [0, max)
func (I Index) CheckBounds(max int) (err error) {
	for i, val := range I {
		if val < 0 || val >= max {
			err = fmt.Errorf("index out of bounds: I[%d] = %d, bounds = [0,%d)", i, val, max)
			return
		}
	}
	return
}

func (I Index) ToInt32() (r []int32) {
	r = make([]int32, len(I))
	for i, val := range I {
		r[i] = int32(val)
	}
	return
}
