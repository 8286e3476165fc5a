package pool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzx17/taskpool/pkg/types"
)

func TestDispatchQueuePushPop(t *testing.T) {
	t.Run("pop follows priority then submission order", func(t *testing.T) {
		q := newDispatchQueue(true)
		require.NoError(t, q.push(&envelope{priority: Normal}))
		require.NoError(t, q.push(&envelope{priority: Low}))
		require.NoError(t, q.push(&envelope{priority: Critical}))
		require.NoError(t, q.push(&envelope{priority: Normal}))

		var got []Priority
		for i := 0; i < 4; i++ {
			env, ok := q.pop()
			require.True(t, ok)
			got = append(got, env.priority)
		}
		assert.Equal(t, []Priority{Critical, Normal, Normal, Low}, got)
	})

	t.Run("push stamps monotonic sequence", func(t *testing.T) {
		q := newDispatchQueue(true)
		first := &envelope{priority: Normal}
		second := &envelope{priority: Normal}
		require.NoError(t, q.push(first))
		require.NoError(t, q.push(second))
		assert.Less(t, first.seq, second.seq)
	})

	t.Run("blocked pop wakes on push", func(t *testing.T) {
		q := newDispatchQueue(true)

		got := make(chan *envelope, 1)
		go func() {
			env, ok := q.pop()
			if ok {
				got <- env
			}
		}()

		// give the popper a moment to block
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, q.push(&envelope{priority: High}))

		select {
		case env := <-got:
			assert.Equal(t, High, env.priority)
		case <-time.After(time.Second):
			t.Fatal("pop did not wake after push")
		}
	})
}

func TestDispatchQueueStop(t *testing.T) {
	t.Run("push after stop is rejected", func(t *testing.T) {
		q := newDispatchQueue(true)
		q.stop()

		err := q.push(&envelope{priority: Normal})
		assert.ErrorIs(t, err, types.ErrPoolStopped)
		assert.Equal(t, uint64(0), q.submittedCount())
	})

	t.Run("pop drains remaining work after stop", func(t *testing.T) {
		q := newDispatchQueue(true)
		require.NoError(t, q.push(&envelope{priority: Normal}))
		require.NoError(t, q.push(&envelope{priority: High}))
		q.stop()

		_, ok := q.pop()
		assert.True(t, ok)
		_, ok = q.pop()
		assert.True(t, ok)
		_, ok = q.pop()
		assert.False(t, ok)
	})

	t.Run("stop wakes all blocked poppers", func(t *testing.T) {
		q := newDispatchQueue(true)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, ok := q.pop()
				assert.False(t, ok)
			}()
		}

		time.Sleep(10 * time.Millisecond)
		q.stop()

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("poppers did not wake after stop")
		}
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		q := newDispatchQueue(true)
		q.stop()
		q.stop()
		assert.True(t, q.isStopped())
	})
}

func TestDispatchQueueStopAndDrain(t *testing.T) {
	t.Run("returns pending envelopes in dequeue order", func(t *testing.T) {
		q := newDispatchQueue(true)
		require.NoError(t, q.push(&envelope{priority: Low}))
		require.NoError(t, q.push(&envelope{priority: Critical}))
		require.NoError(t, q.push(&envelope{priority: Normal}))

		drained := q.stopAndDrain()
		require.Len(t, drained, 3)
		assert.Equal(t, Critical, drained[0].priority)
		assert.Equal(t, Normal, drained[1].priority)
		assert.Equal(t, Low, drained[2].priority)

		assert.Equal(t, 0, q.len())
		assert.True(t, q.isStopped())
	})

	t.Run("drains nothing on empty queue", func(t *testing.T) {
		q := newDispatchQueue(true)
		assert.Empty(t, q.stopAndDrain())
	})

	t.Run("drains work queued by a racing graceful stop", func(t *testing.T) {
		// a graceful stop leaves pending work for workers; a forced stop
		// afterwards must still remove it
		q := newDispatchQueue(true)
		require.NoError(t, q.push(&envelope{priority: Normal}))
		q.stop()

		drained := q.stopAndDrain()
		assert.Len(t, drained, 1)
	})
}

func TestDispatchQueueSubmittedCount(t *testing.T) {
	t.Run("counts accepted pushes", func(t *testing.T) {
		q := newDispatchQueue(true)
		require.NoError(t, q.push(&envelope{priority: Normal}))
		require.NoError(t, q.push(&envelope{priority: Normal}))
		assert.Equal(t, uint64(2), q.submittedCount())
	})

	t.Run("disabled counter stays zero", func(t *testing.T) {
		q := newDispatchQueue(false)
		require.NoError(t, q.push(&envelope{priority: Normal}))
		assert.Equal(t, uint64(0), q.submittedCount())
	})
}
