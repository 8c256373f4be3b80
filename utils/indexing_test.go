package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	I := Index{5, 2, 5, 0, 2}
	assert.Equal(t, Index{0, 2, 5}, I.Unique())
	assert.Equal(t, Index{5, 2, 5, 0, 2}, I) // Unique does not reorder the receiver
	assert.Equal(t, Index{}, Index{}.Unique())
	assert.True(t, I.Contains(0))
	assert.False(t, I.Contains(3))
	assert.NoError(t, I.CheckBounds(6))
	assert.Error(t, I.CheckBounds(5))
	assert.Error(t, Index{-1}.CheckBounds(5))
	assert.Equal(t, []int32{5, 2, 5, 0, 2}, I.ToInt32())
	assert.Equal(t, 4, IPOW(2, 2))
	assert.Equal(t, 1, IPOW(7, 0))
	assert.Equal(t, []float64{1.5, 1.5}, ConstArray(2, 1.5))
	assert.True(t, IsFinite(1))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(-1)))
}
