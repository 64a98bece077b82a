package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the assembled configuration. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable must be set for security"))
	} else if c.IsProduction() && len(c.JWTSecret) < MinJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters in production", MinJWTSecretLength))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.OfferTTL <= 0 {
		errs = append(errs, errors.New("OFFER_TTL must be positive"))
	}
	if c.ExpirySweepInterval <= 0 {
		errs = append(errs, errors.New("EXPIRY_SWEEP_INTERVAL must be positive"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	for name, v := range map[string]int{
		"DB_MAX_CONNS":        c.DBMaxConns,
		"WORKER_COUNT":        c.WorkerCount,
		"MATCH_CONCURRENCY":   c.MatchConcurrency,
		"RESOLVER_CACHE_SIZE": c.ResolverCacheSize,
	} {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}
	if c.EventMaxRetries < 0 {
		errs = append(errs, errors.New("EVENT_MAX_RETRIES must not be negative"))
	}

	return errors.Join(errs...)
}

// Warnings returns non-fatal issues such as example values left in place
func (c *Config) Warnings() []string {
	var warnings []string

	if c.DBPassword == ExampleDBPassword {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}
	if c.JWTSecret == ExampleJWTSecret {
		warnings = append(warnings, "JWT_SECRET appears to be using the example value - generate a secure key with: openssl rand -hex 32")
	}
	if c.IsProduction() && len(c.CORSAllowedOrigins) == 0 {
		warnings = append(warnings, "CORS_ALLOWED_ORIGINS is empty - any origin is allowed")
	}
	for _, o := range c.CORSAllowedOrigins {
		if strings.TrimSpace(o) == "*" && c.IsProduction() {
			warnings = append(warnings, "CORS_ALLOWED_ORIGINS allows any origin in production")
			break
		}
	}

	return warnings
}
