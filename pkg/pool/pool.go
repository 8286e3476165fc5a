package pool

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jzx17/taskpool/pkg/types"
)

// Config contains configuration for the pool
type Config struct {
	// Workers is the number of worker goroutines
	Workers int

	// EnableStats controls whether execution statistics are recorded
	EnableStats bool

	// Clock for time operations (optional, defaults to real clock)
	Clock types.Clock
}

// DefaultConfig returns the default configuration. The worker count is
// computed from the hardware parallelism available at call time.
func DefaultConfig() *Config {
	return &Config{
		Workers:     runtime.NumCPU(),
		EnableStats: true,
		Clock:       types.NewRealClock(),
	}
}

// Pool is a fixed-size worker pool that executes submitted tasks in
// priority order and delivers each outcome through a Future.
type Pool struct {
	config *Config
	queue  *dispatchQueue
	wg     sync.WaitGroup

	createdAt time.Time

	// statistics, updated atomically off the queue lock
	completed int64
	failed    int64
	execTime  int64 // accumulated execution time in nanoseconds
}

// New creates a pool and spawns its workers immediately; the returned
// handle accepts submissions right away.
func New(config *Config) (*Pool, error) {
	if config == nil {
		config = DefaultConfig()
	}

	// parameter validation
	if config.Workers <= 0 {
		return nil, fmt.Errorf("%w: worker count must be positive, got %d",
			types.ErrInvalidConfiguration, config.Workers)
	}

	// Ensure clock is set
	if config.Clock == nil {
		config.Clock = types.NewRealClock()
	}

	p := &Pool{
		config:    config,
		queue:     newDispatchQueue(config.EnableStats),
		createdAt: config.Clock.Now(),
	}

	p.wg.Add(config.Workers)
	for i := 0; i < config.Workers; i++ {
		go p.runWorker()
	}

	return p, nil
}

// Submit enqueues fn at Normal priority. See SubmitWith.
func Submit[T any](p *Pool, fn func() (T, error)) (*Future[T], error) {
	return SubmitWith(p, Normal, fn)
}

// SubmitWith enqueues fn at the given priority and returns the Future
// carrying its outcome. It fails with ErrPoolStopped once shutdown has
// begun; a rejected task is never partially enqueued. Among tasks of
// equal priority, dequeue order matches submission order.
func SubmitWith[T any](p *Pool, priority Priority, fn func() (T, error)) (*Future[T], error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: task function cannot be nil", types.ErrInvalidConfiguration)
	}
	if !priority.valid() {
		return nil, fmt.Errorf("%w: unknown priority %d", types.ErrInvalidConfiguration, priority)
	}

	future := newFuture[T](p.config.Clock)
	env := &envelope{
		priority: priority,
		run: func() error {
			v, err := runGuarded(fn)
			if err != nil {
				future.fail(err)
				return err
			}
			future.complete(v)
			return nil
		},
		discard: future.fail,
	}

	if err := p.queue.push(env); err != nil {
		return nil, err
	}
	return future, nil
}

// Do enqueues a side-effect-only task at the given priority. The
// returned future resolves once the task has run; its value carries no
// information.
func (p *Pool) Do(priority Priority, fn func() error) (*Future[struct{}], error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: task function cannot be nil", types.ErrInvalidConfiguration)
	}
	return SubmitWith(p, priority, func() (struct{}, error) {
		return struct{}{}, fn()
	})
}

// Shutdown stops intake and waits for the workers to drain every queued
// task. Safe to call more than once; later calls just wait for the
// workers again.
func (p *Pool) Shutdown() {
	p.queue.stop()
	p.wg.Wait()
}

// ShutdownNow stops intake and discards every queued task; each
// discarded future fails with ErrPoolShutdown so no caller is left
// blocked. Tasks a worker has already begun still run to completion
// before ShutdownNow returns.
func (p *Pool) ShutdownNow() {
	drained := p.queue.stopAndDrain()
	for _, env := range drained {
		env.discard(types.ErrPoolShutdown)
	}
	p.wg.Wait()
}

// Close shuts the pool down gracefully. It exists so the pool can sit
// behind an io.Closer; the error is always nil.
func (p *Pool) Close() error {
	p.Shutdown()
	return nil
}

// Workers returns the fixed worker count.
func (p *Pool) Workers() int {
	return p.config.Workers
}

// Pending returns a snapshot of the queued-task count. It is advisory:
// the value may be stale as soon as it is returned.
func (p *Pool) Pending() int {
	return p.queue.len()
}

// Submitted returns the number of accepted submissions.
func (p *Pool) Submitted() uint64 {
	return p.queue.submittedCount()
}

// Completed returns the number of tasks that finished without error.
func (p *Pool) Completed() uint64 {
	return uint64(atomic.LoadInt64(&p.completed))
}

// Failed returns the number of tasks that finished with an error or
// panicked.
func (p *Pool) Failed() uint64 {
	return uint64(atomic.LoadInt64(&p.failed))
}

// AverageExecutionTime returns the mean execution time of completed
// tasks, or 0 when statistics are disabled or nothing has completed yet.
func (p *Pool) AverageExecutionTime() time.Duration {
	completed := atomic.LoadInt64(&p.completed)
	if !p.config.EnableStats || completed == 0 {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&p.execTime) / completed)
}

// Uptime returns the wall-clock time elapsed since construction.
func (p *Pool) Uptime() time.Duration {
	return p.config.Clock.Since(p.createdAt)
}

// IsStopped reports whether shutdown has begun.
func (p *Pool) IsStopped() bool {
	return p.queue.isStopped()
}

// Stats is a point-in-time snapshot of pool counters
type Stats struct {
	Workers              int
	Pending              int
	Submitted            uint64
	Completed            uint64
	Failed               uint64
	AverageExecutionTime time.Duration
	Uptime               time.Duration
	Stopped              bool
}

// Stats returns a snapshot of all counters. Individual fields are read
// independently, so the snapshot is not a consistent cut across racing
// updates.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:              p.Workers(),
		Pending:              p.Pending(),
		Submitted:            p.Submitted(),
		Completed:            p.Completed(),
		Failed:               p.Failed(),
		AverageExecutionTime: p.AverageExecutionTime(),
		Uptime:               p.Uptime(),
		Stopped:              p.IsStopped(),
	}
}
