// Package cluster replaces the original tool's global MPI state with an
// explicit World context: something that partitions event-group jobs across
// a fixed worker count and sum-reduces their partial stack matrices to rank
// 0, per the "Global MPI state" redesign flag.
package cluster

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/geoseis/ccstack/stack"
	"github.com/geoseis/ccstack/trace"
)

// Context is the per-worker view of a World: its rank and the total worker
// count, passed into the work function instead of being read from global
// MPI state.
type Context struct {
	Rank int
	Size int
}

// WorkFunc processes one worker's contiguous chunk of event groups into a
// local partial stack matrix.
type WorkFunc func(ctx Context, chunk []trace.Group) (*stack.Matrix, error)

// World partitions jobs across a fixed pool of workers and sum-reduces their
// partial results. Any implementation — goroutines (LocalWorld), MPI, gRPC,
// a job queue — can sit behind this interface without C4/C5/C7 changing.
type World interface {
	Size() int
	Run(jobs []trace.Group, empty *stack.Matrix, work WorkFunc) (*stack.Matrix, error)
}

// LocalWorld runs Size workers as goroutines over an in-process job queue: a
// fixed pool draining a partitioned slice of jobs via sync.WaitGroup,
// generalized from "race to the best candidate" into "partition jobs,
// sum-reduce the partial results."
type LocalWorld struct {
	size int
}

// NewLocalWorld builds a LocalWorld running `size` goroutine workers; size
// <= 0 defaults to runtime.GOMAXPROCS(0).
func NewLocalWorld(size int) *LocalWorld {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &LocalWorld{size: size}
}

func (w *LocalWorld) Size() int { return w.size }

// Run partitions jobs into Size contiguous chunks (chunk size
// ceil(len(jobs)/Size), last chunk possibly short), runs `work` for each
// chunk on its own goroutine, and sum-reduces the resulting partial
// matrices into one global matrix shaped like empty.
func (w *LocalWorld) Run(jobs []trace.Group, empty *stack.Matrix, work WorkFunc) (*stack.Matrix, error) {
	size := w.size
	njobs := len(jobs)
	nchunk := (njobs + size - 1) / size
	if nchunk < 1 {
		nchunk = 1
	}

	partials := make([]*stack.Matrix, size)
	errs := make([]error, size)

	var wg sync.WaitGroup
	for rank := 0; rank < size; rank++ {
		i1 := rank * nchunk
		i2 := i1 + nchunk
		if i1 > njobs {
			i1 = njobs
		}
		if i2 > njobs {
			i2 = njobs
		}
		chunk := jobs[i1:i2]

		wg.Add(1)
		go func(rank int, chunk []trace.Group) {
			defer wg.Done()
			m, err := work(Context{Rank: rank, Size: size}, chunk)
			if err != nil {
				errs[rank] = err
				return
			}
			partials[rank] = m
		}(rank, chunk)
	}
	wg.Wait()

	for rank, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("cluster: worker %d: %w", rank, err)
		}
	}

	global := empty
	for _, p := range partials {
		if p == nil {
			continue
		}
		global.Add(p)
	}
	return global, nil
}
