package event

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abeleng/shemeta/internal/domain"
)

// flakyBus records every publish and fails while fail returns true
type flakyBus struct {
	mu    sync.Mutex
	calls []time.Time
	seen  []Event
	fail  func(call int) bool
	delay time.Duration
}

func (b *flakyBus) Publish(_ context.Context, e Event) error {
	b.mu.Lock()
	b.calls = append(b.calls, time.Now())
	b.seen = append(b.seen, e)
	n := len(b.calls)
	b.mu.Unlock()

	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	if b.fail != nil && b.fail(n) {
		return errors.New("subscriber unavailable")
	}
	return nil
}

func (b *flakyBus) Subscribe(Type, Handler) {}

func (b *flakyBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func (b *flakyBus) times() []time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]time.Time(nil), b.calls...)
}

func proposedEvent(id string) Event {
	o := testOffer(domain.OfferStateProposed)
	o.ID = id
	return NewOfferEvent(o, "", "b1", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
}

func newPublisher(t *testing.T, bus Bus, maxRetries int, delay time.Duration) (*ResilientPublisher, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	rp, err := NewResilientPublisher(bus, maxRetries, delay, path)
	require.NoError(t, err)
	return rp, path
}

func TestResilientPublisher_DeliversFirstTime(t *testing.T) {
	bus := &flakyBus{}
	rp, path := newPublisher(t, bus, 3, 20*time.Millisecond)

	require.NoError(t, rp.Publish(context.Background(), proposedEvent("o1")))
	require.NoError(t, rp.Shutdown(context.Background()))

	assert.Equal(t, 1, bus.count())
	entries, err := ReadDeadLetters(path)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResilientPublisher_RetriesUntilDelivered(t *testing.T) {
	bus := &flakyBus{fail: func(call int) bool { return call == 1 }}
	rp, path := newPublisher(t, bus, 3, 20*time.Millisecond)
	defer rp.Shutdown(context.Background())

	rp.PublishWithRetry(context.Background(), proposedEvent("o1"))

	require.Eventually(t, func() bool { return bus.count() == 2 }, time.Second, 5*time.Millisecond)
	entries, err := ReadDeadLetters(path)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResilientPublisher_DeadLettersAfterMaxRetries(t *testing.T) {
	bus := &flakyBus{fail: func(int) bool { return true }}
	rp, path := newPublisher(t, bus, 2, 10*time.Millisecond)

	e := proposedEvent("o7")
	rp.PublishWithRetry(context.Background(), e)

	// initial attempt plus two retries
	require.Eventually(t, func() bool { return bus.count() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, rp.Shutdown(context.Background()))

	entries, err := ReadDeadLetters(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DeadLetterSchemaVersion, entries[0].SchemaVersion)
	assert.Equal(t, e.ID, entries[0].EventID)
	assert.Equal(t, OfferProposed, entries[0].Type)
	assert.Equal(t, 2, entries[0].Attempts)
	assert.Equal(t, "subscriber unavailable", entries[0].LastError)

	p, err := DecodePayload[OfferEventPayloadV1](entries[0].Event)
	require.NoError(t, err, "dead-lettered payload decodes like a wire event")
	assert.Equal(t, "o7", p.OfferID)
}

func TestResilientPublisher_QueueOverflowDeadLetters(t *testing.T) {
	bus := &flakyBus{fail: func(int) bool { return true }, delay: 20 * time.Millisecond}
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	dl, err := NewDeadLetterWriter(path)
	require.NoError(t, err)

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, 2),
		maxRetries: 3,
		retryDelay: time.Hour,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}
	rp.wg.Add(1)
	go rp.retryWorker()

	for i := 0; i < 6; i++ {
		rp.PublishWithRetry(context.Background(), proposedEvent("o"+string(rune('a'+i))))
	}

	entries, err := ReadDeadLetters(path)
	require.NoError(t, err)
	assert.NotEmpty(t, entries, "overflow goes straight to the dead letter")

	require.NoError(t, rp.Shutdown(context.Background()))
	entries, err = ReadDeadLetters(path)
	require.NoError(t, err)
	assert.Len(t, entries, 6, "shutdown gives queued events one last try")
}

func TestResilientPublisher_ShutdownFlushesPending(t *testing.T) {
	var mu sync.Mutex
	failing := true
	bus := &flakyBus{fail: func(int) bool {
		mu.Lock()
		defer mu.Unlock()
		return failing
	}}
	rp, path := newPublisher(t, bus, 5, time.Hour)

	for _, id := range []string{"o1", "o2", "o3"} {
		rp.PublishWithRetry(context.Background(), proposedEvent(id))
	}
	mu.Lock()
	failing = false
	mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rp.Shutdown(ctx))

	assert.Equal(t, 6, bus.count(), "one failed attempt and one final attempt each")
	entries, err := ReadDeadLetters(path)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResilientPublisher_ExponentialBackoff(t *testing.T) {
	bus := &flakyBus{fail: func(call int) bool { return call < 4 }}
	base := 40 * time.Millisecond
	rp, _ := newPublisher(t, bus, 5, base)
	defer rp.Shutdown(context.Background())

	rp.PublishWithRetry(context.Background(), proposedEvent("o1"))
	require.Eventually(t, func() bool { return bus.count() >= 4 }, 2*time.Second, 5*time.Millisecond)

	calls := bus.times()
	assert.GreaterOrEqual(t, calls[1].Sub(calls[0]), base)
	assert.GreaterOrEqual(t, calls[2].Sub(calls[1]), 2*base)
	assert.GreaterOrEqual(t, calls[3].Sub(calls[2]), 4*base)
}

func TestResilientPublisher_ConcurrentPublishes(t *testing.T) {
	bus := &flakyBus{}
	rp, _ := newPublisher(t, bus, 3, 10*time.Millisecond)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				rp.PublishWithRetry(context.Background(), proposedEvent("o"))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, rp.Shutdown(context.Background()))

	assert.Equal(t, 40, bus.count())
}

func TestCalculateRetryDelay(t *testing.T) {
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(2*time.Second, 1))
	assert.Equal(t, 8*time.Second, CalculateRetryDelay(2*time.Second, 3))
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(2*time.Second, 0), "attempts below one use the base")
}

func TestReadDeadLetters_MissingFile(t *testing.T) {
	_, err := ReadDeadLetters(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.ErrorContains(t, err, ErrMsgOpenDeadLetter)
}
