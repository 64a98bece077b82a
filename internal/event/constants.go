package event

import "time"

// EventSchemaVersion is stamped on every event this service emits
const EventSchemaVersion = "1.0"

// Resilient publisher defaults, used when the caller passes zero values
const (
	DefaultMaxRetries   = 5
	DefaultRetryDelay   = 2 * time.Second
	PublishQueueSize    = 1000
	deadLetterFileMode  = 0o644
	deadLetterLineLimit = 1 << 20
)

// Log messages
const (
	LogMsgEventPublishFailed    = "Event publish failed, queuing for retry"
	LogMsgRetryQueueFull        = "Retry queue full, event dropped to dead-letter"
	LogMsgDeadLetterWriteFailed = "Failed to write to dead letter"
	LogMsgEventRetryExhausted   = "Event retry exhausted, writing to dead-letter"
	LogMsgEventRetryFailed      = "Event retry failed, scheduling next attempt"
	LogMsgEventRetrySucceeded   = "Event retry succeeded"
	LogMsgEventDroppedShutdown  = "Event dropped during shutdown"
	LogMsgQueueDrainedShutdown  = "Drained retry queue during shutdown"
	LogMsgShutdownTimeout       = "Resilient publisher shutdown timed out"
	LogMsgEventDeadLettered     = "Event dead-lettered"
)

// Error messages
const (
	ErrMsgHandlersFailed   = "subscribers failed for"
	ErrMsgEncodeEvent      = "failed to encode event"
	ErrMsgDecodePayload    = "failed to decode payload of"
	ErrMsgOpenDeadLetter   = "failed to open dead-letter file"
	ErrMsgDecodeDeadLetter = "failed to decode dead-letter entry"
	ErrMsgRedisURL         = "invalid redis url"
	ErrMsgRedisPing        = "redis ping failed"
	ErrMsgRedisPublish     = "redis publish failed"
)
