// Package device models the compute context the operators run on. Zone work is
// sharded across go routines, and every array the kernels touch lives in a
// Buffer holding a host copy and a device copy. Moving data between the two is
// always explicit and synchronous: ToDevice after writing on the host, ToHost
// before reading device results on the host.
package device

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/notargets/golaghos/utils"
)

type Context struct {
	ProcLimit int  // Zero means one go routine per CPU
	Unified   bool // Host and device share storage, transfers are no-ops
	pmCache   map[int]*utils.PartitionMap
	mu        sync.Mutex
	bytesHtoD atomic.Int64
	bytesDtoH atomic.Int64
}

func NewContext(ProcLimit int, unified ...bool) (ctx *Context) {
	ctx = &Context{
		ProcLimit: ProcLimit,
		pmCache:   make(map[int]*utils.PartitionMap),
	}
	if len(unified) != 0 {
		ctx.Unified = unified[0]
	}
	return
}

// Partition returns the (cached) partitioning of N work items
func (ctx *Context) Partition(N int) (pm *utils.PartitionMap) {
	var ok bool
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if pm, ok = ctx.pmCache[N]; !ok {
		pm = utils.NewPartitionMap(utils.ParallelDegreeFor(ctx.ProcLimit, N), N)
		ctx.pmCache[N] = pm
	}
	return
}

// ForEach runs f over N items split into disjoint [kMin,kMax) shards, one go
// routine per shard, and returns after every shard has finished
func (ctx *Context) ForEach(N int, f func(kMin, kMax int)) {
	if N <= 0 {
		return
	}
	ctx.Partition(N).Run(func(np, kMin, kMax int) {
		f(kMin, kMax)
	})
}

// TransferStats reports bytes moved host to device and device to host
func (ctx *Context) TransferStats() (HtoD, DtoH int64) {
	return ctx.bytesHtoD.Load(), ctx.bytesDtoH.Load()
}

func (ctx *Context) String() string {
	HtoD, DtoH := ctx.TransferStats()
	return fmt.Sprintf("ProcLimit = %d, Unified = %v, HtoD = %d bytes, DtoH = %d bytes",
		ctx.ProcLimit, ctx.Unified, HtoD, DtoH)
}
