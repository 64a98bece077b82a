package sse

import "time"

// Queue sizes. A client whose queue is full misses events rather than
// stalling the hub.
const (
	BroadcastBufferSize = 256
	ClientEventBuffer   = 50
	ClientChannelBuffer = 10
)

// KeepaliveInterval is how often an idle stream gets a keepalive event
const KeepaliveInterval = 25 * time.Second

// Stream control events, sent alongside offer notifications
const (
	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgWriteError         = "Failed to write SSE event"

	ErrMsgStreamingUnsupported = "streaming unsupported by response writer"
	ErrMsgNoIdentity           = "authentication required"
)
