// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package worker runs background jobs on a fixed set of goroutines fed by a bounded queue.
package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueFull is returned by [Pool.TrySubmit] when no slot is free.
var ErrQueueFull = errors.New("worker: queue is full")

// ErrStopped is returned when submitting to a pool that is shutting down.
var ErrStopped = errors.New("worker: pool is stopped")

// Task is a unit of work. The context is cancelled when the pool is stopped forcefully.
type Task func(context context.Context)

// Pool is a fixed-size worker pool.
//
// # Concurrency
//
// Submissions and Stop may be called from any goroutine. Jobs already queued
// when Stop is called are drained before Stop returns.
type Pool struct {
	wg     sync.WaitGroup
	jobs   chan Task
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	stopped bool

	// onDepthChange, when set, observes the queue length after each enqueue/dequeue.
	onDepthChange func(depth int)
}

// Option customizes a [Pool].
type Option func(*Pool)

// WithDepthObserver registers a callback fed with the queue length.
func WithDepthObserver(observer func(depth int)) Option {
	return func(pool *Pool) { pool.onDepthChange = observer }
}

// NewPool starts workers goroutines reading from a queue of queueSize slots.
func NewPool(workers, queueSize int, options ...Option) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool := &Pool{jobs: make(chan Task, queueSize), ctx: ctx, cancel: cancel}
	for _, option := range options {
		option(pool)
	}

	for range workers {
		pool.wg.Add(1)
		go func() {
			defer pool.wg.Done()
			for job := range pool.jobs {
				pool.observe()
				job(pool.ctx)
			}
		}()
	}
	return pool
}

// TrySubmit enqueues a task without blocking.
func (pool *Pool) TrySubmit(task Task) error {
	pool.mu.RLock()
	defer pool.mu.RUnlock()

	if pool.stopped {
		return ErrStopped
	}

	select {
	case pool.jobs <- task:
		pool.observe()
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new work and waits for queued tasks to finish. If ctx expires
// first, running tasks see their context cancelled and Stop returns ctx.Err().
func (pool *Pool) Stop(ctx context.Context) error {
	pool.mu.Lock()
	if !pool.stopped {
		pool.stopped = true
		close(pool.jobs)
	}
	pool.mu.Unlock()

	done := make(chan struct{})
	go func() {
		pool.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		pool.cancel()
		return nil
	case <-ctx.Done():
		pool.cancel()
		<-done
		return ctx.Err()
	}
}

// Depth returns the number of queued tasks.
func (pool *Pool) Depth() int {
	return len(pool.jobs)
}

func (pool *Pool) observe() {
	if pool.onDepthChange != nil {
		pool.onDepthChange(len(pool.jobs))
	}
}
