// Package config handles server configuration: development defaults
// overlaid by environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the VaultKeep server.
//
// Fields:
//   - HTTPAddr: bind address for the HTTP API.
//   - SQLitePath: path to the SQLite database file.
//   - BoltPath: path to the bbolt file holding the one-time-code ledger.
//   - JWTSecret: HMAC secret for signing access tokens (HS256).
//   - AccessTokenTTL: access token and session lifetime.
//   - OTPTTL: one-time code lifetime.
//   - SMTP*: outgoing mail settings for code delivery.
//   - VaultSecret / VaultSalt: inputs for deriving the at-rest key that
//     seals stored site passwords.
//   - RateLimit / RateLimitWindow: default per-IP request budget.
//   - OTPRateLimit / OTPRateLimitWindow: tighter budget for the
//     code-mailing and login endpoints.
type Config struct {
	HTTPAddr   string
	SQLitePath string
	BoltPath   string

	JWTSecret      string
	AccessTokenTTL time.Duration
	OTPTTL         time.Duration

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	VaultSecret string
	VaultSalt   string

	RateLimit          int
	RateLimitWindow    time.Duration
	OTPRateLimit       int
	OTPRateLimitWindow time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: The secrets here are insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.SQLitePath = "vaultkeep.db"
	c.BoltPath = "vaultkeep-otp.db"

	c.JWTSecret = "dev-secret"
	c.AccessTokenTTL = 1 * time.Hour
	c.OTPTTL = 5 * time.Minute

	c.SMTPHost = "localhost"
	c.SMTPPort = 587
	c.SMTPFrom = "no-reply@vaultkeep.local"

	c.VaultSecret = "dev-vault-secret"
	c.VaultSalt = "dev-vault-salt"

	c.RateLimit = 100
	c.RateLimitWindow = 1 * time.Minute
	c.OTPRateLimit = 5
	c.OTPRateLimitWindow = 5 * time.Minute
}

// Load builds a Config by applying defaults, then overlaying values from
// environment variables.
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.loadEnv()
	return cfg
}

func (c *Config) loadEnv() {
	c.HTTPAddr = getenv("HTTP_ADDR", c.HTTPAddr)
	c.SQLitePath = getenv("SQLITE_PATH", c.SQLitePath)
	c.BoltPath = getenv("BOLT_PATH", c.BoltPath)

	c.JWTSecret = getenv("JWT_SECRET", c.JWTSecret)
	c.AccessTokenTTL = getenvDuration("ACCESS_TOKEN_TTL", c.AccessTokenTTL)
	c.OTPTTL = getenvDuration("OTP_TTL", c.OTPTTL)

	c.SMTPHost = getenv("SMTP_HOST", c.SMTPHost)
	c.SMTPPort = getenvInt("SMTP_PORT", c.SMTPPort)
	c.SMTPUser = getenv("SMTP_USER", c.SMTPUser)
	c.SMTPPass = getenv("SMTP_PASS", c.SMTPPass)
	c.SMTPFrom = getenv("SMTP_FROM", c.SMTPFrom)

	c.VaultSecret = getenv("VAULT_SECRET", c.VaultSecret)
	c.VaultSalt = getenv("VAULT_SALT", c.VaultSalt)

	c.RateLimit = getenvInt("RATE_LIMIT", c.RateLimit)
	c.RateLimitWindow = getenvDuration("RATE_LIMIT_WINDOW", c.RateLimitWindow)
	c.OTPRateLimit = getenvInt("OTP_RATE_LIMIT", c.OTPRateLimit)
	c.OTPRateLimitWindow = getenvDuration("OTP_RATE_LIMIT_WINDOW", c.OTPRateLimitWindow)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
