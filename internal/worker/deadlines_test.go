package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadlines_ReplaceKeepsNewTimer(t *testing.T) {
	dl := newDeadlines()
	var first, second atomic.Int32

	require.True(t, dl.arm("o1", 20*time.Millisecond, func() { first.Add(1) }))
	require.True(t, dl.arm("o1", 60*time.Millisecond, func() { second.Add(1) }))
	assert.Equal(t, 1, dl.len())

	require.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, first.Load())
	assert.Zero(t, dl.len())
}

func TestDeadlines_NonPositiveRunsNow(t *testing.T) {
	dl := newDeadlines()
	var ran atomic.Bool

	require.True(t, dl.arm("o1", 0, func() { ran.Store(true) }))
	assert.Zero(t, dl.len())

	_, err := dl.stop(context.Background())
	require.NoError(t, err)
	assert.True(t, ran.Load(), "stop waits for the callback")
}

func TestDeadlines_Cancel(t *testing.T) {
	dl := newDeadlines()
	require.True(t, dl.arm("o1", time.Hour, func() {}))

	assert.True(t, dl.cancel("o1"))
	assert.False(t, dl.cancel("o1"))
	assert.False(t, dl.cancel("unknown"))
}

func TestDeadlines_StopRejectsNewTimers(t *testing.T) {
	dl := newDeadlines()
	require.True(t, dl.arm("o1", time.Hour, func() {}))
	require.True(t, dl.arm("o2", time.Hour, func() {}))

	n, err := dl.stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, dl.arm("o3", time.Millisecond, func() { t.Error("armed after stop") }))
}

func TestDeadlines_StopHonoursContext(t *testing.T) {
	dl := newDeadlines()
	release := make(chan struct{})
	defer close(release)
	require.True(t, dl.arm("slow", 0, func() { <-release }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := dl.stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
