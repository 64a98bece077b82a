package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/abeleng/shemeta/internal/config"
	"github.com/abeleng/shemeta/internal/event"
	"github.com/abeleng/shemeta/internal/metrics"
	"github.com/abeleng/shemeta/internal/notify"
	"github.com/abeleng/shemeta/internal/sse"
	"github.com/abeleng/shemeta/internal/worker"
)

// EventHandlerDependencies holds what the event subscribers need
type EventHandlerDependencies struct {
	Bus     event.Bus
	Config  *config.Config
	Hub     *sse.Hub
	Expirer worker.OfferExpirer
}

// EventHandlers are the subscribers that own resources needing shutdown
type EventHandlers struct {
	ExpiryWorker *worker.OfferExpiryWorker
	Redis        *redis.Client
}

// RegisterEventHandlers subscribes metrics, notifications, the per-offer expiry
// timers and, when configured, the Redis fan-out to the bus.
func RegisterEventHandlers(ctx context.Context, deps EventHandlerDependencies) (*EventHandlers, error) {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.Bus); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	sinks := []notify.Sink{notify.NewSSESink(deps.Hub)}
	if deps.Config.DiscordWebhookURL != "" {
		discord, err := notify.NewDiscordSink(deps.Config.DiscordWebhookURL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateDiscordSink, err)
		}
		sinks = append(sinks, discord)
	}
	notify.NewDispatcher(sinks...).Subscribe(deps.Bus)
	slog.Info(LogMsgNotifySinksRegistered, "sinks", len(sinks))

	handlers := &EventHandlers{ExpiryWorker: worker.NewOfferExpiryWorker(deps.Expirer)}
	handlers.ExpiryWorker.Subscribe(deps.Bus)

	if deps.Config.RedisURL != "" {
		client, err := event.NewRedisClient(ctx, deps.Config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectRedis, err)
		}
		event.NewRedisBridge(client, deps.Config.RedisChannel).Register(deps.Bus, event.OfferTypes())
		handlers.Redis = client
		slog.Info(LogMsgRedisBridgeRegistered, "channel", deps.Config.RedisChannel)
	}

	return handlers, nil
}
