package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	channel  string
	messages [][]byte
	err      error
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	if b, ok := message.([]byte); ok {
		f.messages = append(f.messages, b)
	}
	return redis.NewIntResult(1, f.err)
}

func TestRedisBridge_Handle(t *testing.T) {
	fake := &fakeRedis{}
	bridge := NewRedisBridge(fake, "")

	e := NewOfferEvent(testOffer("accepted"), "proposed", "f1", testOffer("accepted").ExpiresAt)
	require.NoError(t, bridge.Handle(context.Background(), e))

	assert.Equal(t, DefaultRedisChannel, fake.channel)
	require.Len(t, fake.messages, 1)

	var decoded Event
	require.NoError(t, json.Unmarshal(fake.messages[0], &decoded))
	assert.Equal(t, e.ID, decoded.ID)
	assert.Equal(t, OfferAccepted, decoded.Type)
}

func TestRedisBridge_PublishError(t *testing.T) {
	bridge := NewRedisBridge(&fakeRedis{err: errors.New("connection refused")}, "ch")

	err := bridge.Handle(context.Background(), Event{ID: "x", Type: OfferExpired})
	assert.ErrorContains(t, err, ErrMsgRedisPublish)
}

func TestRedisBridge_RegisterDeduplicates(t *testing.T) {
	fake := &fakeRedis{}
	bus := NewMemoryBus()
	NewRedisBridge(fake, "ch").Register(bus, OfferTypes())

	e := Event{ID: "same", Type: OfferDeclined}
	require.NoError(t, bus.Publish(context.Background(), e))
	require.NoError(t, bus.Publish(context.Background(), e))
	require.NoError(t, bus.Publish(context.Background(), Event{ID: "other", Type: RequirementPosted}))

	assert.Len(t, fake.messages, 1)
	assert.Equal(t, "ch", fake.channel)
}
