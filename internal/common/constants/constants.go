package constants

import "time"

const (
	JWTSecretMinLength = 32

	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "5001"
	DefaultRequestTimeout = 5 * time.Second
	DefaultTokenTTL       = time.Hour
	DefaultBcryptCost     = 10

	RateLimitCleanupInterval           = 5 * time.Minute
	RateLimitLoginRequestsPerSecond    = 1.0
	RateLimitLoginBurst                = 5
	RateLimitRegisterRequestsPerSecond = 0.5
	RateLimitRegisterBurst             = 3
	RateLimitGeneralRequestsPerSecond  = 10.0
	RateLimitGeneralBurst              = 20

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
