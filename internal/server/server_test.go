package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abeleng/shemeta/internal/auth"
	"github.com/abeleng/shemeta/internal/config"
	"github.com/abeleng/shemeta/internal/database/memory"
	"github.com/abeleng/shemeta/internal/handler"
)

func newTestRouter(t *testing.T, env string) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Port:           8080,
		Environment:    env,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
	issuer, err := auth.NewIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	deps := Deps{
		DB:     handler.PingFunc(func(context.Context) error { return nil }),
		Tokens: issuer,
		Auth:   auth.NewService(memory.NewStore(), issuer, nil),
	}
	return NewRouter(cfg, deps, NewSuspiciousActivityDetector())
}

func register(t *testing.T, router http.Handler, body string) auth.Session {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, PathRegister, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var session auth.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	return session
}

func TestRouter_PublicEndpoints(t *testing.T) {
	router := newTestRouter(t, config.EnvDevelopment)

	for _, path := range []string{PathHealthz, PathReadyz, "/version"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType), path)
	}
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	router := newTestRouter(t, config.EnvDevelopment)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RoleGateBehindToken(t *testing.T) {
	router := newTestRouter(t, config.EnvDevelopment)
	session := register(t, router, `{"name":"Tsion Trading","role":"exporter","region":"addis-ababa"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/farmer/home", nil)
	req.Header.Set(HeaderAuthorization, auth.BearerPrefix+session.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), handler.ErrMsgFarmersOnly)
}

func TestRouter_TokenIssueOnlyOutsideProduction(t *testing.T) {
	dev := newTestRouter(t, config.EnvDevelopment)
	session := register(t, dev, `{"name":"Abebe","role":"farmer"}`)

	rec := httptest.NewRecorder()
	dev.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, PathToken, strings.NewReader(`{"user_id":"`+session.User.ID+`"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)

	prod := newTestRouter(t, config.EnvProduction)
	rec = httptest.NewRecorder()
	prod.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, PathToken, strings.NewReader(`{"user_id":"x"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t, config.EnvDevelopment)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/offers", nil)
	req.Header.Set("Origin", "https://app.example.et")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", HeaderAuthorization)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
