package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// Log messages for worker pool operations
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgQueueFull       = "Worker queue full, job dropped"
)

// Error messages
const (
	ErrMsgJobPanicked = "job panicked"
)

// ============================================================================
// Log Messages - Offer Expiry Worker
// ============================================================================

// Log messages for offer expiry worker operations
const (
	LogMsgSchedulingOfferExpiry  = "Scheduling offer expiry"
	LogMsgExpiringOffer          = "Expiring offer at deadline"
	LogMsgFailedToExpireOffer    = "Failed to expire offer"
	LogMsgCancelledOfferExpiry   = "Cancelled pending offer expiry"
	LogMsgInvalidOfferPayload    = "Invalid offer event payload"
	LogMsgExpiryShutdownComplete = "Offer expiry worker stopped"
	LogMsgExpiryShutdownTimeout  = "Offer expiry worker stop timed out"
)
