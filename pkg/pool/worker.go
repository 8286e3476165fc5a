package pool

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/jzx17/taskpool/pkg/types"
)

// runWorker is the loop each pooled goroutine runs: block until work or
// shutdown, execute the highest-priority envelope, record statistics,
// repeat. The loop exits only when the queue is stopped and drained;
// termination is irreversible.
func (p *Pool) runWorker() {
	defer p.wg.Done()

	for {
		env, ok := p.queue.pop()
		if !ok {
			return
		}
		p.execute(env)
	}
}

// execute runs one envelope with no pool lock held, so a slow task never
// blocks the other workers, and updates the counters.
func (p *Pool) execute(env *envelope) {
	if !p.config.EnableStats {
		// the outcome is still delivered through the future
		_ = env.run()
		return
	}

	start := p.config.Clock.Now()
	err := env.run()
	elapsed := p.config.Clock.Since(start)

	if err != nil {
		atomic.AddInt64(&p.failed, 1)
	} else {
		atomic.AddInt64(&p.completed, 1)
	}
	atomic.AddInt64(&p.execTime, int64(elapsed))
}

// runGuarded invokes fn with panic recovery, so a failing task body is
// reported through its future instead of taking the worker down.
func runGuarded[T any](fn func() (T, error)) (val T, err error) {
	defer func() {
		if r := recover(); r != nil {
			// record panic information
			var buf [4096]byte
			n := runtime.Stack(buf[:], false)

			var cause error
			switch v := r.(type) {
			case error:
				cause = v
			default:
				cause = fmt.Errorf("panic: %v", v)
			}

			err = types.NewTaskError("execute", cause).
				WithContext("stack_trace", string(buf[:n]))
		}
	}()

	return fn()
}
