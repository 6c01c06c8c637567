// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and command-line flags.
package config

import (
	"errors"
	"os"
	"time"
)

// Config holds runtime settings for the sessionkeeper server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP API.
//   - EndpointAddrGRPC: bind address for the gRPC health endpoint.
//   - DatabaseDSN: credential store DSN. "mongodb://" and "mongodb+srv://"
//     select MongoDB, anything else is handed to pgx.
//   - MongoDatabase: database name used with a MongoDB DSN.
//   - AccessTokenSecret / RefreshTokenSecret: HMAC secrets (HS256), one per token kind.
//   - AccessTokenTTL / RefreshTokenTTL: token lifetimes.
//   - CookieSecure: sets the Secure attribute on session cookies.
//   - CORSOrigin: allowed origin for browser clients ("" disables CORS headers).
//   - RedisAddr: login throttle backend ("" disables throttling).
//   - MaxLoginAttempts / LoginWindow: failed logins allowed per identifier per window.
//   - HealthCheckInterval: how often the gRPC health endpoint pings the store.
//   - S3*: S3-compatible media storage for avatars and cover images.
type Config struct {
	EndpointAddrHTTP    string
	EndpointAddrGRPC    string
	DatabaseDSN         string
	MongoDatabase       string
	AccessTokenSecret   string
	AccessTokenTTL      time.Duration
	RefreshTokenSecret  string
	RefreshTokenTTL     time.Duration
	CookieSecure        bool
	CORSOrigin          string
	RedisAddr           string
	MaxLoginAttempts    int
	LoginWindow         time.Duration
	HealthCheckInterval time.Duration
	S3RootUser          string
	S3RootPassword      string
	S3Bucket            string
	S3Region            string
	S3BaseEndpoint      string
	S3PublicBaseURL     string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secrets are insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = "mongodb://localhost:27017"
	c.MongoDatabase = "sessionkeeper"
	c.AccessTokenSecret = "access-secret"
	c.AccessTokenTTL = 1 * time.Hour
	c.RefreshTokenSecret = "refresh-secret"
	c.RefreshTokenTTL = 240 * time.Hour
	c.CookieSecure = true
	c.CORSOrigin = ""
	c.RedisAddr = ""
	c.MaxLoginAttempts = 5
	c.LoginWindow = 15 * time.Minute
	c.HealthCheckInterval = 10 * time.Second
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "media"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3PublicBaseURL = "http://127.0.0.1:9000"
}

// Validate rejects configurations the token codec cannot work with.
func (c *Config) Validate() error {
	switch {
	case c.AccessTokenSecret == "" || c.RefreshTokenSecret == "":
		return errors.New("access and refresh token secrets are required")
	case c.AccessTokenSecret == c.RefreshTokenSecret:
		return errors.New("access and refresh token secrets must differ")
	case c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0:
		return errors.New("token TTLs must be positive")
	case c.AccessTokenTTL >= c.RefreshTokenTTL:
		return errors.New("access token TTL must be shorter than refresh token TTL")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseEnv(cfg, os.LookupEnv)
	parseFlags(cfg, os.Args[1:])
	return cfg
}
