// Package pool provides a bounded fan-out over an index range. Work items
// are addressed by index, so callers write results straight into their own
// slices and output order never depends on scheduling.
package pool

import (
	"context"
	"runtime"
	"sync"
)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkers sets the number of concurrent workers.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// Pool runs index-addressed work with bounded concurrency.
type Pool struct {
	workers int
}

// New creates a Pool with configuration options.
func New(opts ...Option) *Pool {
	p := &Pool{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run invokes fn for every index in [0, n), at most workers at a time. The
// first error cancels the remaining work and is returned; fn must treat
// per-item conditions it wants to survive as results, not errors.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, index int) error) error {
	if n <= 0 {
		return nil
	}
	workers := p.workers
	if workers > n {
		workers = n
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	indexes := make(chan int)
	errs := make(chan error, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if err := fn(ctx, i); err != nil {
					select {
					case errs <- err:
					default:
					}
					cancel()
					return
				}
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	select {
	case err := <-errs:
		return err
	default:
	}
	return ctx.Err()
}
