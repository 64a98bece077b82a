package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/testing/leaktest"
)

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case e := <-c.EventChannel:
		return e
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func assertNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case e := <-c.EventChannel:
		t.Fatalf("unexpected event %s", e.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_SendOnlyReachesRecipients(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	buyer := hub.Register("B1", nil)
	farmer := hub.Register("F1", nil)
	other := hub.Register("F2", nil)
	waitForClients(t, hub, 3)

	require.True(t, hub.Send([]string{"F1"}, "offer.proposed", map[string]string{"offer_id": "O1"}))

	e := receive(t, farmer)
	assert.Equal(t, "offer.proposed", e.Type)
	assertNothing(t, buyer)
	assertNothing(t, other)

	hub.Broadcast("announcement", nil)
	receive(t, buyer)
	receive(t, farmer)
	receive(t, other)
}

func TestHub_TypeFilter(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	c := hub.Register("F1", []string{"offer.accepted"})
	waitForClients(t, hub, 1)

	hub.Send([]string{"F1"}, "offer.proposed", nil)
	hub.Send([]string{"F1"}, "offer.accepted", nil)

	assert.Equal(t, "offer.accepted", receive(t, c).Type)
	assertNothing(t, c)
}

func TestHub_UnregisterAndStop(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	hub := NewHub()
	hub.Start()

	a := hub.Register("F1", nil)
	b := hub.Register("F2", nil)
	waitForClients(t, hub, 2)

	hub.Unregister(a.ID)
	waitForClients(t, hub, 1)
	_, open := <-a.EventChannel
	assert.False(t, open)

	hub.Stop()
	hub.Stop()
	_, open = <-b.EventChannel
	assert.False(t, open)

	checker.Check(0)
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "1", Type: "offer.expired", Timestamp: 10, Payload: map[string]int{"v": 2}})
	require.NoError(t, err)
	assert.Equal(t, "id: 1\nevent: offer.expired\ndata: {\"id\":\"1\",\"type\":\"offer.expired\",\"timestamp\":10,\"payload\":{\"v\":2}}\n\n", string(msg))
}

func TestHandler_RequiresIdentity(t *testing.T) {
	hub := NewHub()
	h := Handler(hub, func(*http.Request) (domain.Identity, bool) { return domain.Identity{}, false })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_StreamsCallerEvents(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	h := Handler(hub, func(*http.Request) (domain.Identity, bool) {
		return domain.Identity{UserID: "F1", Role: domain.RoleFarmer}, true
	})
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		var kind string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "event: ") {
				kind = strings.TrimSpace(strings.TrimPrefix(line, "event: "))
			}
			if line == "\n" {
				return kind
			}
		}
	}

	assert.Equal(t, EventTypeConnected, readEvent())
	waitForClients(t, hub, 1)

	hub.Send([]string{"B1"}, "offer.accepted", nil)
	hub.Send([]string{"F1"}, "offer.proposed", nil)
	assert.Equal(t, "offer.proposed", readEvent())
}

func TestHub_SendReachesEveryStreamOfUser(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	phone := hub.Register("F1", nil)
	browser := hub.Register("F1", nil)
	waitForClients(t, hub, 2)
	assert.Equal(t, 1, hub.UserCount())

	require.True(t, hub.Send([]string{"F1", "F1"}, "offer.accepted", nil))

	for _, c := range []*Client{phone, browser} {
		select {
		case e := <-c.EventChannel:
			assert.Equal(t, "offer.accepted", e.Type)
		case <-time.After(time.Second):
			t.Fatal("stream did not receive event")
		}
		select {
		case e := <-c.EventChannel:
			t.Fatalf("duplicate recipient delivered twice: %v", e)
		default:
		}
	}

	hub.Unregister(phone.ID)
	waitForClients(t, hub, 1)
	assert.Equal(t, 1, hub.UserCount())
}

func TestHub_FullClientBufferCountsDrops(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	hub.Register("B1", nil)
	waitForClients(t, hub, 1)

	for i := 0; i < ClientEventBuffer+5; i++ {
		hub.Send([]string{"B1"}, "offer.proposed", nil)
	}
	require.Eventually(t, func() bool { return hub.Dropped() >= 5 }, time.Second, 5*time.Millisecond)
}

func TestFormatSSEMessage_KeepaliveHasNoID(t *testing.T) {
	msg, err := FormatSSEMessage(Event{Type: EventTypeKeepalive, Timestamp: 10})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(msg), "event: keepalive\n"))
}
