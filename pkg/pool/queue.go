package pool

import (
	"container/heap"
	"sync"

	"github.com/jzx17/taskpool/pkg/types"
)

// dispatchQueue couples the pending-task heap, the stop flag and the
// submission counter under a single mutex. A worker's wait predicate
// examines the flag and the heap together; guarding them separately
// would let a stop slip in between the two checks.
type dispatchQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending envelopeHeap
	stopped bool

	// seq stamps envelopes in submission order for the FIFO tie-break
	seq uint64

	// submitted counts accepted envelopes; gated by countSubmits so
	// the accessor reads zero when statistics are disabled
	countSubmits bool
	submitted    uint64
}

func newDispatchQueue(countSubmits bool) *dispatchQueue {
	q := &dispatchQueue{
		pending:      make(envelopeHeap, 0),
		countSubmits: countSubmits,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push enqueues an envelope unless shutdown has begun. The stop check and
// the insert form one critical section, so a rejected envelope is never
// partially enqueued and an accepted one is visible to workers before
// push returns.
func (q *dispatchQueue) push(env *envelope) error {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return types.ErrPoolStopped
	}

	q.seq++
	env.seq = q.seq
	heap.Push(&q.pending, env)
	if q.countSubmits {
		q.submitted++
	}
	q.mu.Unlock()

	q.cond.Signal()
	return nil
}

// pop blocks until an envelope is available or the queue has stopped and
// drained. ok is false only when the calling worker should terminate.
func (q *dispatchQueue) pop() (env *envelope, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for !q.stopped && q.pending.Len() == 0 {
		q.cond.Wait()
	}

	if q.pending.Len() == 0 {
		return nil, false
	}

	return heap.Pop(&q.pending).(*envelope), true
}

// stop flips the stop flag and wakes every waiting worker. Calling it
// again is a no-op.
func (q *dispatchQueue) stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	q.mu.Unlock()

	q.cond.Broadcast()
}

// stopAndDrain flips the stop flag and removes every envelope still
// pending, in dequeue order. The flip and the drain are atomic: no worker
// can claim an envelope this call is about to discard.
func (q *dispatchQueue) stopAndDrain() []*envelope {
	q.mu.Lock()
	q.stopped = true
	drained := make([]*envelope, 0, q.pending.Len())
	for q.pending.Len() > 0 {
		drained = append(drained, heap.Pop(&q.pending).(*envelope))
	}
	q.mu.Unlock()

	q.cond.Broadcast()
	return drained
}

// len returns a snapshot of the pending count; it may be stale as soon as
// the lock is released.
func (q *dispatchQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending.Len()
}

func (q *dispatchQueue) isStopped() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stopped
}

func (q *dispatchQueue) submittedCount() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.submitted
}
