// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"net/netip"
	"os"
	"strings"
	"time"
)

// StructuredConfig is the top-level configuration container for the tours
// API server. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, an optional
// JSON file and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as signing keys,
	// token and password parameters, and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the relational database.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address, timeout and body size settings for the
	// HTTP and gRPC servers.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds configuration for external integrations.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Limiter holds request rate limiting settings.
	Limiter Limiter `envPrefix:"LIMITER_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Storage groups the configuration for all storage backends used by the
// application.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`
}

// App holds application-level configuration values that control security,
// token lifecycle, and versioning.
type App struct {
	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a JWT token remains valid after
	// issuance (e.g. "2160h").
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// PasswordHashCost is the bcrypt cost factor.
	// Env: APP_PASSWORD_HASH_COST
	PasswordHashCost int `env:"PASSWORD_HASH_COST"`

	// PasswordHashWorkers bounds the number of concurrent bcrypt operations.
	// Env: APP_PASSWORD_HASH_WORKERS
	PasswordHashWorkers int `env:"PASSWORD_HASH_WORKERS"`

	// ResetTokenTTL is the lifetime of a password reset token.
	// Env: APP_RESET_TOKEN_TTL
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL"`

	// ResetURLBase is the public base URL used to build reset links
	// (e.g. "https://tours.example.com"). Request headers never affect the
	// links, so deployments behind a public host must set it.
	// Env: APP_RESET_URL_BASE
	ResetURLBase string `env:"RESET_URL_BASE"`

	// LogLevel is the minimal zerolog level ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address on which the gRPC health server
	// listens, in "host:port" format (e.g. "0.0.0.0:9090").
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// MaxBodyBytes limits the size of JSON request bodies.
	// Env: SERVER_MAX_BODY_BYTES
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES"`

	// TrustedProxies lists the proxy addresses or CIDR ranges whose
	// X-Forwarded-For and X-Real-IP headers are believed. When empty the
	// client address is always the TCP peer.
	// Env: SERVER_TRUSTED_PROXIES (comma separated)
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// TrustedPrefixes parses TrustedProxies. A bare address is a single-host
// prefix.
func (s Server) TrustedPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(s.TrustedProxies))
	for _, raw := range s.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, err
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the PostgreSQL Data Source Name. When empty an in-memory
	// store is used instead, which is only suitable for development.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// QueryTimeout bounds every single store call.
	// Env: STORAGE_DB_QUERY_TIMEOUT
	QueryTimeout time.Duration `env:"QUERY_TIMEOUT"`

	// MaxOpenConns limits the size of the connection pool.
	// Env: STORAGE_DB_MAX_OPEN_CONNS
	MaxOpenConns int `env:"MAX_OPEN_CONNS"`
}

// Adapter holds configuration for external adapter integrations.
type Adapter struct {
	// Notifier configures delivery of password reset messages.
	Notifier Notifier `envPrefix:"NOTIFIER_"`
}

// Notifier kinds.
const (
	NotifierLog     = "log"
	NotifierSMTP    = "smtp"
	NotifierMailgun = "mailgun"
	NotifierWebhook = "webhook"
)

// Notifier selects and configures one notification backend.
type Notifier struct {
	// Kind is one of "log", "smtp", "mailgun" or "webhook".
	// Env: ADAPTER_NOTIFIER_KIND
	Kind string `env:"KIND"`

	// From is the sender address.
	// Env: ADAPTER_NOTIFIER_FROM
	From string `env:"FROM"`

	// Env: ADAPTER_NOTIFIER_SMTP_HOST, ADAPTER_NOTIFIER_SMTP_PORT,
	// ADAPTER_NOTIFIER_SMTP_USERNAME, ADAPTER_NOTIFIER_SMTP_PASSWORD
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	// Env: ADAPTER_NOTIFIER_MAILGUN_DOMAIN, ADAPTER_NOTIFIER_MAILGUN_API_KEY
	MailgunDomain string `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey string `env:"MAILGUN_API_KEY"`

	// WebhookURL receives a JSON POST per notification.
	// Env: ADAPTER_NOTIFIER_WEBHOOK_URL
	WebhookURL string `env:"WEBHOOK_URL"`

	// Timeout bounds a single delivery attempt.
	// Env: ADAPTER_NOTIFIER_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Limiter holds request rate limiting settings.
type Limiter struct {
	// Requests is the number of requests allowed per Window and client.
	// Env: LIMITER_REQUESTS
	Requests int `env:"REQUESTS"`

	// Window is the rate limiting window (e.g. "1h").
	// Env: LIMITER_WINDOW
	Window time.Duration `env:"WINDOW"`

	// RedisURL switches to a Redis-backed limiter shared between instances
	// (e.g. "redis://localhost:6379/0").
	// Env: LIMITER_REDIS_URL
	RedisURL string `env:"REDIS_URL"`

	// CacheSize bounds the number of clients tracked by the in-memory limiter.
	// Env: LIMITER_CACHE_SIZE
	CacheSize int `env:"CACHE_SIZE"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// ResetSweepInterval is how often expired reset tokens are cleared.
	// Env: WORKERS_RESET_SWEEP_INTERVAL
	ResetSweepInterval time.Duration `env:"RESET_SWEEP_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration. A field keeps the value of the first source that sets it:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		withDefaults().
		build()
}
