package worker

import (
	"context"
	"sync"
	"time"
)

// deadlines holds one timer per key. Callbacks run tracked so stop can wait
// for them; nothing new starts once stop has begun.
type deadlines struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
	wg     sync.WaitGroup
}

func newDeadlines() *deadlines {
	return &deadlines{timers: make(map[string]*time.Timer)}
}

// arm runs fn after d, replacing any timer already held for key. A
// non-positive d runs fn right away. It reports false after stop.
func (dl *deadlines) arm(key string, d time.Duration, fn func()) bool {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.closed {
		return false
	}
	if old, ok := dl.timers[key]; ok {
		old.Stop()
		delete(dl.timers, key)
	}
	if d <= 0 {
		dl.goLocked(fn)
		return true
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		dl.mu.Lock()
		defer dl.mu.Unlock()
		// a replaced or cancelled timer may still fire once
		if dl.closed || dl.timers[key] != t {
			return
		}
		delete(dl.timers, key)
		dl.goLocked(fn)
	})
	dl.timers[key] = t
	return true
}

// goLocked starts fn as a tracked goroutine; mu must be held
func (dl *deadlines) goLocked(fn func()) {
	dl.wg.Add(1)
	go func() {
		defer dl.wg.Done()
		fn()
	}()
}

// cancel disarms key and reports whether a timer was pending
func (dl *deadlines) cancel(key string) bool {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	t, ok := dl.timers[key]
	if ok {
		t.Stop()
		delete(dl.timers, key)
	}
	return ok
}

func (dl *deadlines) len() int {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	return len(dl.timers)
}

// stop disarms every timer and waits for running callbacks until ctx ends.
// It returns the number of timers it disarmed.
func (dl *deadlines) stop(ctx context.Context) (int, error) {
	dl.mu.Lock()
	dl.closed = true
	n := len(dl.timers)
	for key, t := range dl.timers {
		t.Stop()
		delete(dl.timers, key)
	}
	dl.mu.Unlock()

	done := make(chan struct{})
	go func() {
		dl.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return n, nil
	case <-ctx.Done():
		return n, ctx.Err()
	}
}
