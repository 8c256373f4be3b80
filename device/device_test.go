package device

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer(t *testing.T) {
	ctx := NewContext(4)
	{ // Host writes are not visible on the device until synced
		b := NewBuffer[float64](ctx, 8, "x")
		assert.Equal(t, "x", b.Name())
		require.Equal(t, 8, b.Len())
		for i := range b.Host() {
			assert.Equal(t, 0., b.Host()[i])
			assert.Equal(t, 0., b.Device()[i])
		}
		b.Host()[3] = 2.5
		assert.Equal(t, 0., b.Device()[3])
		b.ToDevice()
		assert.Equal(t, 2.5, b.Device()[3])
		b.Device()[4] = -1
		assert.Equal(t, 0., b.Host()[4])
		b.ToHost()
		assert.Equal(t, -1., b.Host()[4])
		HtoD, DtoH := ctx.TransferStats()
		assert.Equal(t, int64(64), HtoD)
		assert.Equal(t, int64(64), DtoH)
		b.Zero()
		assert.Equal(t, 0., b.Host()[3])
		assert.Equal(t, 0., b.Device()[4])
	}
	{ // Resize keeps storage for identical length, zero fills otherwise
		b := NewBufferFrom[int32](ctx, []int32{1, 2, 3})
		assert.Equal(t, int32(2), b.Device()[1])
		b.Resize(3)
		assert.Equal(t, int32(2), b.Device()[1])
		b.Resize(5)
		assert.Equal(t, []int32{0, 0, 0, 0, 0}, b.Device())
	}
	{ // Unified storage aliases host and device
		uctx := NewContext(1, true)
		b := NewBuffer[float64](uctx, 2)
		b.Host()[0] = 1
		assert.Equal(t, 1., b.Device()[0])
		b.ToDevice()
		HtoD, _ := uctx.TransferStats()
		assert.Equal(t, int64(0), HtoD)
	}
	assert.Panics(t, func() { NewBuffer[float64](nil, 2) })
	assert.Panics(t, func() { NewBuffer[float64](ctx, -1) })
}

func TestForEach(t *testing.T) {
	ctx := NewContext(0)
	var (
		N     = 1013
		count = make([]int32, N)
		total atomic.Int64
	)
	ctx.ForEach(N, func(kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			count[k]++
			total.Add(int64(k))
		}
	})
	for k := 0; k < N; k++ {
		assert.Equal(t, int32(1), count[k])
	}
	assert.Equal(t, int64(N*(N-1)/2), total.Load())
	assert.Same(t, ctx.Partition(N), ctx.Partition(N))
	ctx.ForEach(0, func(kMin, kMax int) { t.Fatal("no work expected") })
}
