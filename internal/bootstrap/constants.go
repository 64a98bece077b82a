package bootstrap

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of log files kept after cleanup
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStarting            = "Starting shemeta"
	LogMsgConfigurationLoaded = "Configuration loaded"
	ErrMsgFailedCreateLogsDir = "failed to create logs directory"
	ErrMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Storage
// =============================================================================

const (
	LogMsgStorageSelected = "Storage backend selected"
	ErrMsgUnknownStorage  = "unknown storage backend"
	ErrMsgFailedConnectDB = "failed to connect to database"
	ErrMsgFailedMigrate   = "failed to migrate database"
)

// =============================================================================
// Reference Data
// =============================================================================

const (
	LogMsgCatalogLoaded       = "Crop catalog loaded"
	LogMsgReferenceLoaded     = "Reference data loaded"
	LogMsgGeoDatasetReady     = "Geo dataset ready"
	LogMsgFarmerRosterLoaded  = "Farmer roster loaded"
	ErrMsgFailedLoadCatalog   = "failed to load crop catalog"
	ErrMsgFailedLoadReference = "failed to load reference data"
	ErrMsgFailedBuildDataset  = "failed to build geo dataset"
	ErrMsgFailedLoadFarmers   = "failed to load farmer roster"
)

// =============================================================================
// Event System Configuration
// =============================================================================

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgPendingDeadLetters             = "Undelivered events found in dead-letter file"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// =============================================================================
// Services and Event Handlers
// =============================================================================

const (
	ErrMsgFailedCreateIssuer   = "failed to create token issuer"
	ErrMsgFailedCreateResolver = "failed to create geo resolver"
)

const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgNotifySinksRegistered      = "Notification sinks registered"
	LogMsgRedisBridgeRegistered      = "Redis bridge registered"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
	ErrMsgFailedCreateDiscordSink    = "failed to create discord sink"
	ErrMsgFailedConnectRedis         = "failed to connect to redis"
)

// =============================================================================
// Background Jobs
// =============================================================================

const (
	// JobQueueSize bounds pending background jobs
	JobQueueSize = 16

	JobNameOfferExpiry = "offer-expiry"
)

const (
	LogMsgBackgroundJobsStarted = "Background jobs started"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgExpiryWorkerFailed         = "Offer expiry worker shutdown failed"
	LogMsgRedisCloseFailed           = "Redis client close failed"
)
