package shell

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/time/rate"
)

// WorkerPool bounds ebuild-sourcing concurrency to a fixed capacity,
// mirroring the fork+semaphore worker pool of the original sourcing
// driver (spec §4.H "process isolation") as goroutines guarded by a
// buffered channel instead of forked processes. A rate.Limiter paces
// dispatch underneath the hard cap so a burst of cache misses doesn't
// all fire in the same instant (spec §5 "sourcing worker pool is a
// single process-scope resource; its semaphore bounds concurrency").
type WorkerPool struct {
	sem     chan struct{}
	limiter *rate.Limiter
	sourcer Sourcer
	timeout time.Duration
}

// NewWorkerPool builds a pool with the given hard concurrency cap
// (below 1 selects the spec §4.H default: number of CPUs), an optional
// rate limiter (nil disables pacing), and a per-job timeout (zero
// disables it).
func NewWorkerPool(capacity int, limiter *rate.Limiter, sourcer Sourcer, timeout time.Duration) *WorkerPool {
	if capacity < 1 {
		capacity = runtime.NumCPU()
	}
	return &WorkerPool{
		sem:     make(chan struct{}, capacity),
		limiter: limiter,
		sourcer: sourcer,
		timeout: timeout,
	}
}

// Run dispatches job to the sourcer, blocking until a pool slot is
// free. Cancellation of ctx aborts both the wait for a slot and the
// in-flight sourcing call (spec §5 "cancellation token ... must cause
// in-flight worker tasks to be signaled and reaped").
func (p *WorkerPool) Run(ctx context.Context, job SourceJob) (SourceResult, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return SourceResult{}, err
		}
	}

	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return SourceResult{}, ctx.Err()
	}
	defer func() { <-p.sem }()

	runCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	return p.sourcer.Source(runCtx, job)
}
