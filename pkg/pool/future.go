package pool

import (
	"context"
	"time"

	"github.com/jzx17/taskpool/pkg/types"
)

// FutureState describes the resolution state of a Future
type FutureState int32

const (
	// StatePending means the task has not resolved yet
	StatePending FutureState = iota
	// StateReady means the task completed and a value is available
	StateReady
	// StateFailed means the task failed and an error is available
	StateFailed
)

// String returns the string representation of FutureState
func (s FutureState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Future is the one-shot handle through which a task delivers its
// outcome. Exactly one producer resolves it - the worker that executed
// the task, or the forced-shutdown path for discarded envelopes - and any
// number of readers may wait on it. Reads are idempotent: once resolved,
// every Get and Wait call observes the same outcome.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error

	clock types.Clock
}

func newFuture[T any](clock types.Clock) *Future[T] {
	return &Future[T]{
		done:  make(chan struct{}),
		clock: clock,
	}
}

// complete resolves the future with a value. Must be called at most once,
// and never after fail.
func (f *Future[T]) complete(v T) {
	f.value = v
	close(f.done)
}

// fail resolves the future with an error. Must be called at most once,
// and never after complete.
func (f *Future[T]) fail(err error) {
	f.err = err
	close(f.done)
}

// Get blocks until the future resolves or ctx is done, then returns the
// task's value or error. A ctx expiry does not consume anything; the
// caller may Get again.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Wait blocks without a deadline until the future resolves.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// Poll waits up to timeout for resolution and reports the state without
// consuming the value. StatePending means the timeout elapsed first.
func (f *Future[T]) Poll(timeout time.Duration) FutureState {
	if timeout <= 0 {
		return f.State()
	}

	timer := f.clock.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.State()
	case <-timer.C():
		return StatePending
	}
}

// State reports the current resolution state without blocking.
func (f *Future[T]) State() FutureState {
	select {
	case <-f.done:
		if f.err != nil {
			return StateFailed
		}
		return StateReady
	default:
		return StatePending
	}
}

// Done exposes the resolution signal for select-based callers. The
// channel is closed once the future is Ready or Failed.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Err returns the resolution error. It is nil while the future is
// pending and nil after a successful resolution.
func (f *Future[T]) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}
