package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abeleng/shemeta/internal/auth"
	"github.com/abeleng/shemeta/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestAuthMiddleware(t *testing.T) {
	issuer, err := auth.NewIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	token, _, err := issuer.Issue(domain.Identity{UserID: "F1", Role: domain.RoleFarmer})
	require.NoError(t, err)

	other, err := auth.NewIssuer("another-secret-another-secret-xx", time.Hour)
	require.NoError(t, err)
	forged, _, err := other.Issue(domain.Identity{UserID: "F1", Role: domain.RoleFarmer})
	require.NoError(t, err)

	middleware := AuthMiddleware(issuer, nil, NewSuspiciousActivityDetector())

	tests := []struct {
		name           string
		header         string
		path           string
		expectedStatus int
		expectedUser   string
	}{
		{"Valid token", "Bearer " + token, "/api/v1/offers", http.StatusOK, "F1"},
		{"Token from another key", "Bearer " + forged, "/api/v1/offers", http.StatusUnauthorized, ""},
		{"Missing token", "", "/api/v1/offers", http.StatusUnauthorized, ""},
		{"Wrong scheme", "Basic " + token, "/api/v1/offers", http.StatusUnauthorized, ""},
		{"Public path - healthz", "", "/healthz", http.StatusOK, ""},
		{"Public path - metrics", "", "/metrics", http.StatusOK, ""},
		{"Public path - register", "", "/api/v1/auth/register", http.StatusOK, ""},
		{"Query token on event stream", "", "/api/v1/events?access_token=" + token, http.StatusOK, "F1"},
		{"Query token elsewhere ignored", "", "/api/v1/offers?access_token=" + token, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()

			var seen string
			handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if id, ok := auth.IdentityFromContext(r.Context()); ok {
					seen = id.UserID
				}
				w.WriteHeader(http.StatusOK)
			}))

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedUser, seen)
		})
	}
}

func TestAuthMiddleware_RecordsFailures(t *testing.T) {
	issuer, err := auth.NewIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	detector := NewSuspiciousActivityDetector()
	handler := AuthMiddleware(issuer, nil, detector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
		req.RemoteAddr = "10.0.0.9:5555"
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	detector.mu.Lock()
	defer detector.mu.Unlock()
	assert.Equal(t, 3, detector.failedAuthByIP["10.0.0.9"])
}

func TestExtractIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4000"
	req.Header.Set(HeaderForwardedFor, "203.0.113.7, 198.51.100.2")

	assert.Equal(t, "10.0.0.1", extractIP(req, nil), "untrusted proxy headers are ignored")
	assert.Equal(t, "198.51.100.2", extractIP(req, []string{"10.0.0.1"}))
}

func TestIPRateLimiter(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(1, 2)
	limiter.now = func() time.Time { return now }
	limiter.lastSweep = now

	assert.True(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"), "burst exhausted")
	assert.True(t, limiter.Allow("b"), "buckets are per ip")

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("a"), "one token refilled")

	now = now.Add(LimiterIdleTTL + time.Minute)
	limiter.Allow("c")
	limiter.mu.Lock()
	_, stillThere := limiter.visitors["b"]
	limiter.mu.Unlock()
	assert.False(t, stillThere, "idle buckets are swept")
}

func TestRateLimitMiddleware(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	middleware := RateLimitMiddleware(NewIPRateLimiter(0.001, 3), nil, detector)
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.168.1.100:1234"

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	detector.mu.Lock()
	defer detector.mu.Unlock()
	assert.Equal(t, 1, detector.rateLimitedByIP["192.168.1.100"])
}
