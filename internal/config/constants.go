package config

import "time"

// Environments
const (
	EnvDevelopment = "dev"
	EnvProduction  = "production"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Defaults
const (
	DefaultPort                = 8080
	DefaultServiceName         = "shemeta"
	DefaultVersion             = "dev"
	DefaultDBMaxConns          = 20
	DefaultDBMaxConnIdleTime   = 5 * time.Minute
	DefaultDBMaxConnLifetime   = 30 * time.Minute
	DefaultJWTTTL              = 24 * time.Hour
	DefaultRateLimitRPS        = 10.0
	DefaultRateLimitBurst      = 20
	DefaultOfferTTL            = 7 * 24 * time.Hour
	DefaultExpirySweepInterval = time.Minute
	DefaultWorkerCount         = 4
	DefaultMatchConcurrency    = 8
	DefaultResolverCacheSize   = 4096
	DefaultRedisChannel        = "shemeta:offers"
	DefaultEventMaxRetries     = 5
	DefaultEventRetryDelay     = 2 * time.Second
	DefaultEventDeadLetterPath = "logs/event_deadletter.jsonl"
)

// Example values shipped in .env.example that must not reach production
const (
	ExampleDBPassword = "change_this_secure_password"
	ExampleJWTSecret  = "generate_with_openssl_rand_hex_32"
)

// MinJWTSecretLength is the shortest secret accepted in production
const MinJWTSecretLength = 32
