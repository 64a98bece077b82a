package notify

import (
	"context"

	"github.com/abeleng/shemeta/internal/logger"
)

// hubSender is the part of *sse.Hub the sink needs
type hubSender interface {
	Send(userIDs []string, eventType string, payload interface{}) bool
}

// SSESink pushes notifications to the live streams of the addressed users
type SSESink struct {
	hub hubSender
}

// NewSSESink creates a sink over an SSE hub
func NewSSESink(hub hubSender) *SSESink {
	return &SSESink{hub: hub}
}

func (s *SSESink) Name() string { return "sse" }

// Deliver never fails: a full hub buffer drops the live update, and clients
// recover state from the REST endpoints.
func (s *SSESink) Deliver(ctx context.Context, n Notification) error {
	if len(n.UserIDs) == 0 {
		return nil
	}
	if !s.hub.Send(n.UserIDs, string(n.Type), n) {
		logger.FromContext(ctx).Warn(LogMsgSSEBufferFull, "event_id", n.EventID)
	}
	return nil
}
