// Package scheduler feeds periodic jobs into a worker pool.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abeleng/shemeta/internal/logger"
	"github.com/abeleng/shemeta/internal/worker"
)

// Log messages
const (
	LogMsgJobScheduled = "Scheduled job"
	LogMsgTickSkipped  = "Scheduled job skipped, worker queue full"
	LogMsgJobIgnored   = "Scheduler stopped, job not scheduled"
)

// Enqueuer accepts jobs without blocking
type Enqueuer interface {
	TryEnqueue(job worker.Job) bool
}

type entry struct {
	name     string
	interval time.Duration
	job      worker.Job
	skipped  atomic.Int64
}

// Scheduler enqueues jobs at fixed intervals. A tick that finds the queue full
// is skipped, so a slow job never piles up behind itself.
type Scheduler struct {
	pool   Enqueuer
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	entries map[string]*entry
}

// New creates a scheduler feeding pool
func New(pool Enqueuer) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		pool:    pool,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]*entry),
	}
}

// Schedule runs job every interval under name. With runNow the first run is
// enqueued immediately instead of after one interval.
func (s *Scheduler) Schedule(name string, interval time.Duration, runNow bool, job worker.Job) {
	log := logger.FromContext(s.ctx)
	if s.ctx.Err() != nil {
		log.Warn(LogMsgJobIgnored, "job", name)
		return
	}

	e := &entry{name: name, interval: interval, job: job}
	s.mu.Lock()
	s.entries[name] = e
	s.mu.Unlock()
	log.Info(LogMsgJobScheduled, "job", name, "interval", interval, "run_now", runNow)

	s.wg.Add(1)
	go s.loop(e, runNow)
}

func (s *Scheduler) loop(e *entry, runNow bool) {
	defer s.wg.Done()
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	if runNow {
		s.fire(e)
	}
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.fire(e)
		}
	}
}

func (s *Scheduler) fire(e *entry) {
	if s.pool.TryEnqueue(e.job) {
		return
	}
	n := e.skipped.Add(1)
	logger.FromContext(s.ctx).Warn(LogMsgTickSkipped, "job", e.name, "skipped_total", n)
}

// Skipped returns how many ticks of name were dropped on a full queue
func (s *Scheduler) Skipped(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[name]; ok {
		return e.skipped.Load()
	}
	return 0
}

// Stop ends every schedule and waits for the tick loops to return. Jobs
// already enqueued are left to the pool.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}
