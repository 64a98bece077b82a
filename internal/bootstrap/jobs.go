package bootstrap

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/abeleng/shemeta/internal/config"
	"github.com/abeleng/shemeta/internal/geo"
	"github.com/abeleng/shemeta/internal/metrics"
	"github.com/abeleng/shemeta/internal/offer"
	"github.com/abeleng/shemeta/internal/scheduler"
	"github.com/abeleng/shemeta/internal/worker"
)

// StartBackgroundJobs starts the worker pool and schedules the periodic offer
// expiry sweep, recording each run's outcome.
func StartBackgroundJobs(cfg *config.Config, offers offer.Service) (*worker.Pool, *scheduler.Scheduler) {
	pool := worker.NewPool(cfg.WorkerCount, JobQueueSize)
	pool.Start()

	sweep := offer.NewExpiryJob(offers, offer.DefaultExpiryBatchSize)
	sched := scheduler.New(pool)
	sched.Schedule(JobNameOfferExpiry, cfg.ExpirySweepInterval, true, worker.JobFunc(func(ctx context.Context) error {
		err := sweep.Process(ctx)
		metrics.RecordExpirySweep(err)
		return err
	}))

	slog.Info(LogMsgBackgroundJobsStarted, "workers", cfg.WorkerCount, "sweep_interval", cfg.ExpirySweepInterval)
	return pool, sched
}

// RegisterResolverMetrics exposes the resolver cache counters on reg
func RegisterResolverMetrics(reg prometheus.Registerer, resolver *geo.Resolver) error {
	return metrics.RegisterResolverCache(reg, func() (uint64, uint64, int) {
		s := resolver.Stats()
		return s.Hits, s.Misses, s.Size
	})
}
