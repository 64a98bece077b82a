package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisChannel is used when no channel is configured.
const DefaultRedisChannel = "shemeta.events"

// redisPublisher is the part of *redis.Client the bridge needs.
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisBridge forwards bus events to a Redis pub/sub channel so other
// processes can fan them out.
type RedisBridge struct {
	client  redisPublisher
	channel string
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRedisURL, err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgRedisPing, err)
	}
	return rdb, nil
}

// NewRedisBridge creates a bridge publishing to channel.
func NewRedisBridge(client redisPublisher, channel string) *RedisBridge {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisBridge{client: client, channel: channel}
}

// Handle is an event Handler that publishes the JSON-encoded event.
func (b *RedisBridge) Handle(ctx context.Context, e Event) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgEncodeEvent, err)
	}
	if err := b.client.Publish(ctx, b.channel, raw).Err(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgRedisPublish, err)
	}
	return nil
}

// Register subscribes the bridge to types on bus.
func (b *RedisBridge) Register(bus Bus, types []Type) {
	SubscribeAll(bus, types, Dedupe(DefaultDedupeSize, b.Handle))
}
