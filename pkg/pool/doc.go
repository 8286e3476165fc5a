/*
Package pool provides a fixed-size worker pool with priority scheduling, per-task result futures and execution statistics.

# Overview

This package implements a production-grade worker pool supporting:
- Fixed number of worker goroutines spawned at construction
- Four priority classes with FIFO ordering inside each class
- One-shot futures delivering each task's value or error
- Panic-safe execution with completion/failure accounting
- Graceful and forced shutdown
- Concurrency safety guarantees

# Core Components

## Pool

The controller owning the workers and the queue. It exposes submission,
statistics accessors and the two shutdown protocols:
- Shutdown stops intake and drains every queued task before returning
- ShutdownNow stops intake, discards queued tasks (their futures fail
  with types.ErrPoolShutdown) and waits only for in-flight work

## Future

The one-shot handle returned by a submission. It resolves exactly once to
Ready or Failed; Get blocks (with context support), Poll waits with a
timeout without consuming the value, and Done exposes the resolution
signal for select-based callers.

## Priority

Low, Normal, High and Critical classes. Strictly higher classes are
dequeued first once visible to a worker; within a class, dequeue order
equals submission order. A worker already mid-dequeue may have claimed a
lower-priority task, so ordering is a scheduling preference, not a
real-time guarantee.

# Ordering

Pending tasks are kept in a binary heap keyed by (priority desc,
submission sequence asc). Insertion and extraction are O(log n). The heap
and the stop flag share one mutex: a worker's wait predicate examines
both atomically, and the lock is never held across task execution.

# Error Handling

Construction errors (types.ErrInvalidConfiguration) and submission errors
(types.ErrPoolStopped) surface synchronously. Execution failures surface
asynchronously through the task's future: a returned error is delivered
as-is, a panic is captured as a *types.TaskError carrying the stack
trace. A failing task never crashes its worker or the pool.

# Usage Examples

Basic usage:

	p, err := pool.New(pool.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer p.Shutdown()

	future, err := pool.Submit(p, func() (int, error) {
		return 21 * 2, nil
	})
	if err != nil {
		log.Fatal(err)
	}

	v, err := future.Get(context.Background())

Priority submission:

	future, err := pool.SubmitWith(p, pool.Critical, fetchUser)

Side-effect-only tasks:

	done, err := p.Do(pool.Low, rotateLogs)

Polling instead of blocking:

	if future.Poll(100*time.Millisecond) == pool.StatePending {
		// still running
	}

Retrieve statistics:

	stats := p.Stats()
	fmt.Printf("completed %d/%d, avg %v\n",
		stats.Completed, stats.Submitted, stats.AverageExecutionTime)

# Statistics

Submitted, Completed, Failed, AverageExecutionTime and Uptime are
monotonic over the pool's lifetime. After Shutdown returns,
Completed+Failed equals Submitted. Set Config.EnableStats to false to
skip all accounting on the hot path; the accessors then report zero.
*/
package pool
