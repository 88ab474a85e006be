// Package pipeline runs serialization/compression tasks on a bounded
// worker pool while guaranteeing the bytes reach a sink in submission
// order, even though the tasks themselves may finish out of order.
// This is the ordered-future-queue design the writer front-end is
// built on: admission is bounded by a semaphore, and a single drain
// goroutine blocks on each future in turn before handing its bytes to
// the sink.
package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Task produces a finished byte slice or fails. It is idempotent and
// carries its own data, so it can run on any goroutine.
type Task func() ([]byte, error)

// Sink receives bytes in the same order tasks were submitted in.
type Sink func([]byte) error

type result struct {
	bytes []byte
	err   error
}

// Pool bounds concurrent task execution and serializes the resulting
// bytes back into submission order via an internal queue of futures.
type Pool struct {
	sem   *semaphore.Weighted
	sink  Sink
	queue chan chan result

	drainDone chan struct{}
	mu        sync.Mutex
	firstErr  error
	poisoned  bool

	wg sync.WaitGroup
}

// New starts a Pool with up to maxConcurrency tasks running at once
// and up to queueDepth submitted-but-undelivered results buffered
// ahead of the sink.
func New(maxConcurrency, queueDepth int, sink Sink) *Pool {
	p := &Pool{
		sem:       semaphore.NewWeighted(int64(maxConcurrency)),
		sink:      sink,
		queue:     make(chan chan result, queueDepth),
		drainDone: make(chan struct{}),
	}
	go p.drain()
	return p
}

// Submit runs task on the pool and pushes its eventual result onto
// the ordered queue at submission time, so Pool.drain delivers bytes
// to the sink in the order Submit was called, regardless of which
// task finishes first. Submit blocks if the pool's admission slots
// or the queue are full, the two suspension points the front-end is
// allowed to block on.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	future := make(chan result, 1)
	select {
	case p.queue <- future:
	case <-ctx.Done():
		p.sem.Release(1)
		return ctx.Err()
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.sem.Release(1)
		b, err := task()
		future <- result{bytes: b, err: err}
		close(future)
	}()
	return nil
}

// drain consumes the queue strictly in FIFO order. Once a task fails,
// the stream is poisoned: later successful results are discarded
// rather than written, and drain keeps the first error for Close to
// report.
func (p *Pool) drain() {
	defer close(p.drainDone)
	for future := range p.queue {
		r := <-future

		p.mu.Lock()
		poisoned := p.poisoned
		if r.err != nil && p.firstErr == nil {
			p.firstErr = r.err
			p.poisoned = true
		}
		p.mu.Unlock()

		if poisoned || r.err != nil {
			continue
		}
		if err := p.sink(r.bytes); err != nil {
			p.mu.Lock()
			if p.firstErr == nil {
				p.firstErr = err
			}
			p.poisoned = true
			p.mu.Unlock()
		}
	}
}

// Close waits for all submitted tasks to finish, drains the queue,
// and returns the first error seen by any task or the sink, if any.
func (p *Pool) Close() error {
	p.wg.Wait()
	close(p.queue)
	<-p.drainDone

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.firstErr
}
