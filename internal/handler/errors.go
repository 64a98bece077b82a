package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// Identity error messages
	ErrMsgNoIdentity  = "Authentication required"
	ErrMsgFarmersOnly = "Only farmers can use this endpoint"
	ErrMsgBuyersOnly  = "Only buyers can use this endpoint"
	ErrMsgAdminsOnly  = "Only administrators can use this endpoint"

	// Offer error messages
	ErrMsgInvalidDecision = "decision must be accept or decline"
	ErrMsgInvalidLimit    = "Invalid limit parameter"
)

// Success messages for API responses
const (
	MsgExpirySweepDone    = "Expiry sweep completed"
	MsgStorageUnreachable = "storage unreachable"
)

// Log messages
const (
	LogMsgDecodeFailed     = "Failed to decode request"
	LogMsgRequestDecoded   = "Request decoded"
	LogMsgMissingParam     = "Missing query parameter"
	LogMsgServiceError     = "Service call failed"
	LogMsgEncodeFailed     = "Failed to encode JSON response"
	LogMsgWriteFailed      = "Failed to write response buffer"
	LogMsgReadinessFailed  = "Readiness check failed"
	LogMsgExpirySweepAdmin = "Expiry sweep triggered by admin"
)

// ResponseBufferBytes is the starting capacity of pooled response buffers
const ResponseBufferBytes = 512
