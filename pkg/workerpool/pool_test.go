package workerpool_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdesk/projectdesk/pkg/workerpool"
)

func TestPoolSubmitAndExecute(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Shutdown()

	const n = 100
	var count atomic.Int64

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		require.NoError(t, pool.SubmitContext(context.Background(), func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()

	assert.Equal(t, int64(n), count.Load())
}

func TestPoolErrPoolFull(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, pool.SubmitContext(context.Background(), func() {
		close(started)
		<-blocker
	}))
	<-started

	// Queue holds twice the worker count.
	require.NoError(t, pool.Submit(func() {}))
	require.NoError(t, pool.Submit(func() {}))

	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolFull)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.SubmitContext(ctx, func() {}), context.DeadlineExceeded)

	close(blocker)
}

func TestPoolErrPoolClosed(t *testing.T) {
	pool := workerpool.New(2)
	pool.Shutdown()
	pool.Shutdown()

	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolClosed)
	assert.ErrorIs(t, pool.SubmitContext(context.Background(), func() {}), workerpool.ErrPoolClosed)
}

func TestPoolPanicRecovery(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	require.NoError(t, pool.SubmitContext(context.Background(), func() {
		panic("boom")
	}))

	done := make(chan struct{})
	require.NoError(t, pool.SubmitContext(context.Background(), func() { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
}

func TestEachRunsEveryIndex(t *testing.T) {
	pool := workerpool.New(3)
	defer pool.Shutdown()

	results := make([]int, 25)
	err := pool.Each(context.Background(), len(results), func(_ context.Context, i int) {
		results[i] = i * i
	})
	require.NoError(t, err)

	for i, v := range results {
		assert.Equal(t, i*i, v)
	}
}

func TestEachStopsOnCancelledContext(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Int64
	err := pool.Each(ctx, 10, func(context.Context, int) { ran.Add(1) })

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, ran.Load())
}

func TestShutdownRunsQueuedTasks(t *testing.T) {
	pool := workerpool.New(2)

	var count atomic.Int64
	for i := 0; i < 4; i++ {
		require.NoError(t, pool.SubmitContext(context.Background(), func() {
			time.Sleep(time.Millisecond)
			count.Add(1)
		}))
	}
	pool.Shutdown()

	assert.Equal(t, int64(4), count.Load())
}
