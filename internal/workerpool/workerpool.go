// Package workerpool runs independent LinkGraphJob solves concurrently
// across a bounded number of goroutines, the "Job Pool" component
// SPEC_FULL.md §2/§5 adds around the strictly single-threaded-per-job
// solver core.
package workerpool

import (
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"mcfsolver/internal/linkgraph/graph"
	"mcfsolver/internal/linkgraph/mcf"
)

// Pool wraps an ants.Pool sized to the host's configured worker count. One
// goroutine runs exactly one Solve(job) call at a time, honoring "no
// parallelism within a job" by construction: each submitted task owns one
// *graph.LinkGraphJob and never shares it.
type Pool struct {
	inner  *ants.Pool
	logger *zap.Logger
	wg     sync.WaitGroup
}

// New creates a pool with maxWorkers goroutines available, matching the
// teacher's common.NewPool(ants.NewPool) shape.
func New(maxWorkers int, logger *zap.Logger) (*Pool, error) {
	inner, err := ants.NewPool(maxWorkers)
	if err != nil {
		return nil, fmt.Errorf("workerpool: create ants pool: %w", err)
	}
	return &Pool{inner: inner, logger: logger}, nil
}

// Submit queues job for solving. onDone, if non-nil, runs on the pool
// goroutine once Solve returns. Submit never blocks the caller beyond
// ants' own backpressure.
func (p *Pool) Submit(job *graph.LinkGraphJob, onDone func(*graph.LinkGraphJob)) error {
	p.wg.Add(1)
	err := p.inner.Submit(func() {
		defer p.wg.Done()
		mcf.Solve(job)
		if p.logger != nil {
			p.logger.Info("job solved", zap.Int("nodes", job.Size()))
		}
		if onDone != nil {
			onDone(job)
		}
	})
	if err != nil {
		p.wg.Done()
		return fmt.Errorf("workerpool: submit: %w", err)
	}
	return nil
}

// Wait blocks until every submitted job has finished solving.
func (p *Pool) Wait() { p.wg.Wait() }

// Running reports the number of goroutines currently solving a job.
func (p *Pool) Running() int { return p.inner.Running() }

// Release tears down the pool. Callers should Wait first if they want
// every in-flight job to finish before goroutines are reclaimed.
func (p *Pool) Release() { p.inner.Release() }
