package concurrency

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockManager_SerializesSameKey(t *testing.T) {
	lm := NewLockManager()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := lm.Lock("B1|F1|R1")
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Zero(t, lm.Len(), "released keys are dropped")
}

func TestLockManager_IndependentKeys(t *testing.T) {
	lm := NewLockManager()
	unlockA := lm.Lock("a")

	done := make(chan struct{})
	go func() {
		unlock := lm.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked behind a")
	}
	assert.Equal(t, 1, lm.Len())
	unlockA()
	assert.Zero(t, lm.Len())
}

func TestLockManager_UnlockIsIdempotent(t *testing.T) {
	lm := NewLockManager()
	unlock := lm.Lock("k")
	unlock()
	unlock()

	relock := lm.Lock("k")
	relock()
	assert.Zero(t, lm.Len())
}
