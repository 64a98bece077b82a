package notify

// Log messages
const (
	LogMsgSinkFailed       = "Notification sink failed"
	LogMsgInvalidPayload   = "Dropping notification with unreadable payload"
	LogMsgSSEBufferFull    = "SSE hub buffer full, notification dropped"
	LogMsgDispatcherActive = "Notification dispatcher subscribed"
)

// Error messages
const (
	ErrMsgWebhookURL  = "invalid discord webhook url"
	ErrMsgWebhookPost = "discord webhook execute failed"
	ErrMsgSinkFailed  = "notification sink failed"
)

// Discord presentation
const (
	DiscordUsername      = "Shemeta Market"
	DiscordColorProposed = 0x3498DB
	DiscordColorAccepted = 0x2ECC71
	DiscordColorDeclined = 0xE74C3C
	DiscordColorExpired  = 0x95A5A6
)
