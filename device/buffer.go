package device

import (
	"fmt"
	"unsafe"
)

type Number interface {
	~float64 | ~float32 | ~int32 | ~int
}

type Buffer[T Number] struct {
	ctx       *Context
	host, dev []T
	name      string
}

// NewBuffer allocates a zero filled buffer of length N on host and device
func NewBuffer[T Number](ctx *Context, N int, name ...string) (b *Buffer[T]) {
	if ctx == nil {
		panic("device buffer needs a context")
	}
	if N < 0 {
		panic(fmt.Errorf("negative device buffer length %d", N))
	}
	b = &Buffer[T]{
		ctx:  ctx,
		name: "unnamed",
	}
	if len(name) != 0 {
		b.name = name[0]
	}
	b.allocate(N)
	return
}

// NewBufferFrom copies data into a new buffer and moves it to the device
func NewBufferFrom[T Number](ctx *Context, data []T, name ...string) (b *Buffer[T]) {
	b = NewBuffer[T](ctx, len(data), name...)
	copy(b.host, data)
	b.ToDevice()
	return
}

func (b *Buffer[T]) allocate(N int) {
	b.host = make([]T, N)
	if b.ctx.Unified {
		b.dev = b.host
	} else {
		b.dev = make([]T, N)
	}
}

func (b *Buffer[T]) Len() int     { return len(b.host) }
func (b *Buffer[T]) Name() string { return b.name }

// Host is the host side storage, kernels never read it
func (b *Buffer[T]) Host() []T { return b.host }

// Device is the storage kernels operate on
func (b *Buffer[T]) Device() []T { return b.dev }

// Resize reallocates both copies, zero filled, when the length changes
func (b *Buffer[T]) Resize(N int) {
	if N == len(b.host) {
		return
	}
	b.allocate(N)
}

// Zero clears both copies
func (b *Buffer[T]) Zero() {
	clear(b.host)
	if !b.ctx.Unified {
		clear(b.dev)
	}
}

func (b *Buffer[T]) ToDevice() {
	if b.ctx.Unified {
		return
	}
	copy(b.dev, b.host)
	b.ctx.bytesHtoD.Add(b.bytes())
}

func (b *Buffer[T]) ToHost() {
	if b.ctx.Unified {
		return
	}
	copy(b.host, b.dev)
	b.ctx.bytesDtoH.Add(b.bytes())
}

func (b *Buffer[T]) bytes() int64 {
	var t T
	return int64(len(b.host)) * int64(unsafe.Sizeof(t))
}
