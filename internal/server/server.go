package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/abeleng/shemeta/docs"
	"github.com/abeleng/shemeta/internal/advisory"
	"github.com/abeleng/shemeta/internal/aggregation"
	"github.com/abeleng/shemeta/internal/auth"
	"github.com/abeleng/shemeta/internal/config"
	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/handler"
	"github.com/abeleng/shemeta/internal/logger"
	"github.com/abeleng/shemeta/internal/market"
	"github.com/abeleng/shemeta/internal/metrics"
	"github.com/abeleng/shemeta/internal/offer"
	"github.com/abeleng/shemeta/internal/sse"
)

// Deps are the services the HTTP surface is built on
type Deps struct {
	DB          handler.Pinger
	Tokens      TokenParser
	Auth        auth.Service
	Advisory    advisory.Service
	Market      market.Service
	Offers      offer.Service
	Aggregation aggregation.Service
	Hub         *sse.Hub
	Now         func() time.Time
}

type Server struct {
	httpServer *http.Server
	detector   *SuspiciousActivityDetector
}

// NewServer creates a new Server instance
func NewServer(cfg *config.Config, deps Deps) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	detector := NewSuspiciousActivityDetector()

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           NewRouter(cfg, deps, detector),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		detector: detector,
	}
}

// NewRouter builds the routed handler with the full middleware stack
func NewRouter(cfg *config.Config, deps Deps, detector *SuspiciousActivityDetector) http.Handler {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(SecurityHeadersMiddleware())
	r.Use(newCORS(cfg.CORSAllowedOrigins).Handler)
	r.Use(loggingMiddleware)
	r.Use(RateLimitMiddleware(NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst), cfg.TrustedProxies, detector))
	r.Use(AuthMiddleware(deps.Tokens, cfg.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)

	// Health check routes (unversioned)
	r.Get(PathHealthz, handler.HandleHealthz())
	r.Get(PathReadyz, handler.HandleReadyz(deps.DB))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion(cfg.ServiceName, cfg.Version))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle(PathMetrics, promhttp.Handler())

	authHandler := handler.NewAuthHandler(deps.Auth)
	farmerHandler := handler.NewFarmerHandler(deps.Advisory, deps.Aggregation)
	buyerHandler := handler.NewBuyerHandler(deps.Market, deps.Aggregation)
	offerHandler := handler.NewOfferHandler(deps.Offers)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			if !cfg.IsProduction() {
				r.Post("/token", authHandler.HandleIssueToken)
			}
		})

		r.Route("/farmer", func(r chi.Router) {
			r.Post("/land", farmerHandler.HandleRegisterLand)
			r.Get("/home", farmerHandler.HandleHome)
			r.Get("/buyers", farmerHandler.HandleMatchedBuyers)
			r.Get("/dashboard", farmerHandler.HandleDashboard)
		})

		r.Route("/buyer", func(r chi.Router) {
			r.Post("/requirements", buyerHandler.HandlePostRequirement)
			r.Get("/requirements", buyerHandler.HandleListRequirements)
			r.Get("/requirements/{id}/farmers", buyerHandler.HandleMatchedFarmers)
			r.Get("/dashboard", buyerHandler.HandleDashboard)
		})

		r.Route("/offers", func(r chi.Router) {
			r.Post("/", offerHandler.HandlePropose)
			r.Get("/", offerHandler.HandleList)
			r.Get("/{id}", offerHandler.HandleGet)
			r.Post("/{id}/respond", offerHandler.HandleRespond)
		})

		if deps.Hub != nil {
			r.Get("/events", sse.Handler(deps.Hub, identityFromRequest))
		}

		r.Route("/admin", func(r chi.Router) {
			r.Post("/offers/expire", handler.HandleExpireOffers(deps.Offers, deps.Now))
		})
	})

	// Swagger documentation
	if !cfg.IsProduction() {
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	return r
}

func identityFromRequest(r *http.Request) (domain.Identity, bool) {
	return auth.IdentityFromContext(r.Context())
}

// newCORS allows browser front ends. An empty origin list allows any origin.
func newCORS(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", HeaderAuthorization},
		ExposedHeaders: []string{HeaderRequestID},
		MaxAge:         CORSMaxAgeSeconds,
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, PathHealthz) ||
			strings.HasPrefix(r.URL.Path, PathReadyz) ||
			strings.HasPrefix(r.URL.Path, PathMetrics) {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAuthorization) || strings.EqualFold(k, "Cookie") {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Handler exposes the routed handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
