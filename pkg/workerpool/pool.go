// Package workerpool provides a bounded goroutine pool with backpressure.
//
// A Pool limits the number of goroutines that can run concurrently. When all
// workers are busy and the queue is full, Submit returns ErrPoolFull
// immediately so the caller can decide to retry or reject; SubmitContext
// waits instead.
//
//	pool := workerpool.New(8)
//	defer pool.Shutdown()
//
//	err := pool.Each(ctx, len(ids), func(ctx context.Context, i int) {
//	    results[i] = assign(ctx, ids[i])
//	})
package workerpool

import (
	"context"
	"errors"
	"sync"

	"github.com/projectdesk/projectdesk/pkg/logger"
)

// ErrPoolFull is returned by Submit when all workers are busy and the task
// queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a bounded goroutine pool.
type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closeCh chan struct{}
}

// New creates a Pool with the given number of workers (at least one).
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		// Twice the worker count absorbs bursts.
		tasks:   make(chan func(), size*2),
		closeCh: make(chan struct{}),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Submit enqueues task without blocking.
//   - Returns ErrPoolFull if the task queue is at capacity.
//   - Returns ErrPoolClosed if Shutdown has been called.
func (p *Pool) Submit(task func()) error {
	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitContext blocks until a slot is free, ctx is done or the pool is
// closed.
func (p *Pool) SubmitContext(ctx context.Context, task func()) error {
	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case <-p.closeCh:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	case p.tasks <- task:
		return nil
	}
}

// Each runs fn(ctx, i) for every i in [0, n) on the pool and waits for the
// submitted calls to finish. If submission stops early (ctx done or pool
// closed) the error is returned after the already running calls complete.
func (p *Pool) Each(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	var wg sync.WaitGroup
	var err error

	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		if err = p.SubmitContext(ctx, func() {
			defer wg.Done()
			fn(ctx, i)
		}); err != nil {
			wg.Done()
			break
		}
	}

	wg.Wait()
	return err
}

// Shutdown stops accepting new tasks, runs whatever is already queued and
// waits for the workers to exit. It is safe to call multiple times.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.closeCh)
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case task := <-p.tasks:
			safeRun(task)
		case <-p.closeCh:
			for {
				select {
				case task := <-p.tasks:
					safeRun(task)
				default:
					return
				}
			}
		}
	}
}

// safeRun keeps a panicking task from killing its worker.
func safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "panic", r)
		}
	}()
	task()
}
