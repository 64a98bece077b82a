// Package leaktest checks that components stop the goroutines they start.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleTimeout = 2 * time.Second
	pollInterval  = 10 * time.Millisecond
	stackBufBytes = 1 << 16
)

// GoroutineChecker compares the goroutine count against a baseline taken at
// construction.
type GoroutineChecker struct {
	t        testing.TB
	baseline int
}

// NewGoroutineChecker records the baseline goroutine count.
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{t: t, baseline: runtime.NumGoroutine()}
}

// Check waits for the count to drop to baseline+tolerance. Stopped workers
// exit asynchronously, so the count is polled rather than read once. On
// timeout the test fails with a dump of every live goroutine.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()
	if n, ok := Settle(g.baseline+tolerance, settleTimeout); !ok {
		buf := make([]byte, stackBufBytes)
		buf = buf[:runtime.Stack(buf, true)]
		g.t.Errorf("goroutine leak: baseline=%d now=%d tolerance=%d\n%s", g.baseline, n, tolerance, buf)
	}
}

// Settle polls until at most target goroutines are running. It returns the
// last observed count and whether the target was reached before timeout.
func Settle(target int, timeout time.Duration) (int, bool) {
	deadline := time.Now().Add(timeout)
	for {
		runtime.Gosched()
		n := runtime.NumGoroutine()
		if n <= target {
			return n, true
		}
		if time.Now().After(deadline) {
			return n, false
		}
		time.Sleep(pollInterval)
	}
}

// Run fails t if fn leaves any goroutine behind.
func Run(t testing.TB, fn func()) {
	t.Helper()
	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}
