package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abeleng/shemeta/internal/testing/leaktest"
)

type testJob struct {
	executed *int32
}

func (j *testJob) Process(ctx context.Context) error {
	atomic.AddInt32(j.executed, 1)
	return nil
}

func TestPool_RunsEveryQueuedJob(t *testing.T) {
	var executed int32
	pool := NewPool(2, 10)
	pool.Start()
	defer pool.Stop()

	job := &testJob{executed: &executed}
	for range 5 {
		require.True(t, pool.Enqueue(job))
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&executed) == 5 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, Stats{Processed: 5}, pool.Stats())
}

func TestPool_FailingJobDoesNotStopWorker(t *testing.T) {
	var executed int32
	pool := NewPool(1, 10)
	pool.Start()
	defer pool.Stop()

	pool.Enqueue(JobFunc(func(context.Context) error { return errors.New("boom") }))
	pool.Enqueue(JobFunc(func(context.Context) error { panic("kaboom") }))
	pool.Enqueue(&testJob{executed: &executed})

	require.Eventually(t, func() bool { return atomic.LoadInt32(&executed) == 1 }, time.Second, 10*time.Millisecond)
	stats := pool.Stats()
	assert.EqualValues(t, 3, stats.Processed)
	assert.EqualValues(t, 2, stats.Failed)
}

func TestPool_EnqueueAfterStop(t *testing.T) {
	pool := NewPool(1, 0)
	pool.Start()
	pool.Stop()
	pool.Stop()

	assert.False(t, pool.Enqueue(JobFunc(func(context.Context) error { return nil })))
}

func TestPool_TryEnqueueFull(t *testing.T) {
	pool := NewPool(1, 1)
	// not started: the single slot fills and stays full
	assert.True(t, pool.TryEnqueue(JobFunc(func(context.Context) error { return nil })))
	assert.False(t, pool.TryEnqueue(JobFunc(func(context.Context) error { return nil })))
	assert.EqualValues(t, 1, pool.Stats().Dropped)
	pool.Stop()
}

func TestPool_JobSeesCancellationOnStop(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	pool := NewPool(1, 1)
	pool.Start()

	started := make(chan struct{})
	pool.Enqueue(JobFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}))
	<-started

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("pool did not stop while a job was running")
	}
	checker.Check(1)
}
