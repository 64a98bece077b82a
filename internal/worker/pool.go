package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/abeleng/shemeta/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface
type JobFunc func(ctx context.Context) error

// Process calls f(ctx)
func (f JobFunc) Process(ctx context.Context) error {
	return f(ctx)
}

// Stats counts what a pool has done since it was created
type Stats struct {
	Processed int64
	Failed    int64
	Dropped   int64
}

// Pool runs queued jobs on a fixed number of goroutines. Jobs receive a
// context that is cancelled when the pool stops.
type Pool struct {
	size  int
	queue chan Job
	wg    sync.WaitGroup

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once

	processed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// NewPool creates a pool; it does nothing until Start
func NewPool(workers int, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		size:   max(workers, 1),
		queue:  make(chan Job, max(queueSize, 0)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	for id := range p.size {
		p.wg.Add(1)
		go p.loop(id)
	}
}

func (p *Pool) loop(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job := <-p.queue:
			p.run(id, job)
		}
	}
}

// run executes one job. A panicking job counts as failed and the worker lives on.
func (p *Pool) run(id int, job Job) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s: %v", ErrMsgJobPanicked, r)
			}
		}()
		err = job.Process(p.ctx)
	}()

	p.processed.Add(1)
	if err != nil {
		p.failed.Add(1)
		logger.FromContext(p.ctx).Error(LogMsgWorkerJobFailed, "worker", id, "error", err)
	}
}

// Enqueue adds a job to the queue, blocking while it is full.
// It returns false once the pool is stopped.
func (p *Pool) Enqueue(job Job) bool {
	select {
	case <-p.ctx.Done():
		return false
	default:
	}
	select {
	case p.queue <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// TryEnqueue adds a job without blocking and reports whether it was queued
func (p *Pool) TryEnqueue(job Job) bool {
	select {
	case p.queue <- job:
		return true
	default:
		p.dropped.Add(1)
		logger.FromContext(p.ctx).Warn(LogMsgQueueFull, "queued", len(p.queue))
		return false
	}
}

// Stats returns a snapshot of the job counters
func (p *Pool) Stats() Stats {
	return Stats{
		Processed: p.processed.Load(),
		Failed:    p.failed.Load(),
		Dropped:   p.dropped.Load(),
	}
}

// Stop cancels running jobs and waits for the workers to exit. Queued jobs
// that have not started are discarded.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
}
