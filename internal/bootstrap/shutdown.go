package bootstrap

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/abeleng/shemeta/internal/event"
	"github.com/abeleng/shemeta/internal/scheduler"
	"github.com/abeleng/shemeta/internal/server"
	"github.com/abeleng/shemeta/internal/sse"
	"github.com/abeleng/shemeta/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil components are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	Pool               *worker.Pool
	ExpiryWorker       *worker.OfferExpiryWorker
	Hub                *sse.Hub
	ResilientPublisher *event.ResilientPublisher
	Redis              *redis.Client
	Storage            *Storage
}

// GracefulShutdown stops the application in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Scheduler and worker pool (let a running sweep finish)
// 3. Expiry timers and the SSE hub
// 4. Event publisher (flush pending retries)
// 5. Redis and the database
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.Pool != nil {
		c.Pool.Stop()
	}

	if c.ExpiryWorker != nil {
		if err := c.ExpiryWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgExpiryWorkerFailed, "error", err)
		}
	}
	if c.Hub != nil {
		c.Hub.Stop()
	}

	if c.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			slog.Error(LogMsgRedisCloseFailed, "error", err)
		}
	}
	if c.Storage != nil {
		c.Storage.Close()
	}

	slog.Info(LogMsgServerStopped)
}
