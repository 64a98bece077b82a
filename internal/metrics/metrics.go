package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/abeleng/shemeta/internal/domain"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Marketplace Metrics
var (
	OfferTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOfferTransitions,
			Help: HelpTextOfferTransitions,
		},
		[]string{LabelState},
	)

	OfferRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOfferRejections,
			Help: HelpTextOfferRejections,
		},
		[]string{LabelReason},
	)

	RequirementsPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRequirementsPosted,
			Help: HelpTextRequirementsPosted,
		},
		[]string{LabelCrop},
	)

	LandsRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLandsRegistered,
			Help: HelpTextLandsRegistered,
		},
		[]string{LabelResolved},
	)

	RecommendationsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRecommendationsServed,
			Help: HelpTextRecommendationsServed,
		},
	)

	ExpirySweeps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameExpirySweeps,
			Help: HelpTextExpirySweeps,
		},
		[]string{LabelOutcome},
	)
)

// RecordOfferRejection counts offer operations refused for a lifecycle reason.
// Other errors are not counted.
func RecordOfferRejection(err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateOffer):
		OfferRejections.WithLabelValues(ReasonDuplicate).Inc()
	case errors.Is(err, domain.ErrConflict):
		OfferRejections.WithLabelValues(ReasonConflict).Inc()
	case errors.Is(err, domain.ErrInvalidTransition):
		OfferRejections.WithLabelValues(ReasonTransition).Inc()
	}
}

// RecordExpirySweep counts one sweep run
func RecordExpirySweep(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ExpirySweeps.WithLabelValues(outcome).Inc()
}

// CacheStatsFunc reports cumulative cache hits, misses and the current size
type CacheStatsFunc func() (hits, misses uint64, size int)

// RegisterResolverCache exposes resolver cache counters read at scrape time.
// Registering twice on the same registerer is a no-op.
func RegisterResolverCache(reg prometheus.Registerer, stats CacheStatsFunc) error {
	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: MetricNameResolverCacheHits,
			Help: HelpTextResolverCacheHits,
		}, func() float64 { h, _, _ := stats(); return float64(h) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: MetricNameResolverCacheMisses,
			Help: HelpTextResolverCacheMisses,
		}, func() float64 { _, m, _ := stats(); return float64(m) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: MetricNameResolverCacheEntries,
			Help: HelpTextResolverCacheEntries,
		}, func() float64 { _, _, n := stats(); return float64(n) }),
	}
	return registerAll(reg, collectors...)
}

// StreamStats is the part of the SSE hub read at scrape time
type StreamStats interface {
	ClientCount() int
	Dropped() int64
}

// RegisterStreamHub exposes the live-update hub's stream count and drops
func RegisterStreamHub(reg prometheus.Registerer, hub StreamStats) error {
	return registerAll(reg,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: MetricNameStreamClients,
			Help: HelpTextStreamClients,
		}, func() float64 { return float64(hub.ClientCount()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: MetricNameStreamDropped,
			Help: HelpTextStreamDropped,
		}, func() float64 { return float64(hub.Dropped()) }),
	)
}

// registerAll tolerates collectors that are already registered, so wiring
// can run more than once against the default registerer
func registerAll(reg prometheus.Registerer, collectors ...prometheus.Collector) error {
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}
