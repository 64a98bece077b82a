package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Marketplace metric names
const (
	MetricNameOfferTransitions      = "offer_transitions_total"
	MetricNameOfferRejections       = "offer_rejections_total"
	MetricNameRequirementsPosted    = "requirements_posted_total"
	MetricNameLandsRegistered       = "lands_registered_total"
	MetricNameRecommendationsServed = "recommendations_served_total"
	MetricNameExpirySweeps          = "offer_expiry_sweeps_total"
	MetricNameResolverCacheHits     = "geo_resolver_cache_hits"
	MetricNameResolverCacheMisses   = "geo_resolver_cache_misses"
	MetricNameResolverCacheEntries  = "geo_resolver_cache_entries"
	MetricNameStreamClients         = "sse_clients"
	MetricNameStreamDropped         = "sse_events_dropped_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Marketplace metric help text
const (
	HelpTextOfferTransitions      = "Offer state transitions by resulting state"
	HelpTextOfferRejections       = "Offer operations rejected, by reason"
	HelpTextRequirementsPosted    = "Crop requirements posted, by crop"
	HelpTextLandsRegistered       = "Land parcels registered, by whether a geo unit was resolved"
	HelpTextRecommendationsServed = "Crop recommendations returned on land registration"
	HelpTextExpirySweeps          = "Offer expiry sweeps run, by outcome"
	HelpTextResolverCacheHits     = "Geo resolver cache hits since start"
	HelpTextResolverCacheMisses   = "Geo resolver cache misses since start"
	HelpTextResolverCacheEntries  = "Entries currently held by the geo resolver cache"
	HelpTextStreamClients         = "Open server-sent event streams"
	HelpTextStreamDropped         = "Live updates dropped because a stream buffer was full"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelState    = "state"
	LabelReason   = "reason"
	LabelCrop     = "crop"
	LabelResolved = "resolved"
	LabelOutcome  = "outcome"
)

// Rejection reasons
const (
	ReasonDuplicate  = "duplicate"
	ReasonConflict   = "conflict"
	ReasonTransition = "invalid_transition"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgUnreadablePayload = "Event payload could not be decoded for metrics"
	LogMsgMetricsRecorded   = "Metrics recorded for event"
)

// UnmatchedRoute labels requests no route matched, to bound label cardinality
const UnmatchedRoute = "unmatched"
