// Package pool provides priority ordering support
package pool

// Priority defines the dequeue precedence of a submitted task.
// Higher values are dequeued first.
type Priority int8

const (
	// Low priority tasks run after everything else
	Low Priority = iota
	// Normal is the default priority
	Normal
	// High priority tasks preempt Normal and Low work
	High
	// Critical priority tasks are dequeued before all other classes
	Critical
)

// String returns the string representation of Priority
func (p Priority) String() string {
	switch p {
	case Low:
		return "low"
	case Normal:
		return "normal"
	case High:
		return "high"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

func (p Priority) valid() bool {
	return p >= Low && p <= Critical
}

// envelope is the queued unit of work: a priority tag, a sequence number
// assigned at enqueue time, and the bound task body. The run closure
// executes the body and resolves its future; discard fails the future
// when forced shutdown throws the envelope away unexecuted.
type envelope struct {
	priority Priority
	seq      uint64
	run      func() error
	discard  func(error)
}

// envelopeHeap is the pending-task heap (internal use)
type envelopeHeap []*envelope

// Len implements heap.Interface
func (h envelopeHeap) Len() int { return len(h) }

// Less implements heap.Interface - higher priority first, FIFO for same priority.
// The explicit sequence tie-break is load-bearing: a comparator on priority
// alone would not keep submission order among equals.
func (h envelopeHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq < h[j].seq
}

// Swap implements heap.Interface
func (h envelopeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

// Push implements heap.Interface
func (h *envelopeHeap) Push(x interface{}) {
	*h = append(*h, x.(*envelope))
}

// Pop implements heap.Interface
func (h *envelopeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return item
}
