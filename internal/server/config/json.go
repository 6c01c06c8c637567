package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/sessionkeeper/internal/flagx"
	"github.com/dmitrijs2005/sessionkeeper/internal/timex"
)

// JsonConfig mirrors Config for JSON unmarshalling. Durations accept both
// "15m"-style strings and integer nanoseconds. Pointer fields distinguish
// "absent" from the zero value, so a partial file only overrides what it names.
type JsonConfig struct {
	EndpointAddrHTTP    *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC    *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN         *string         `json:"database_dsn"`
	MongoDatabase       *string         `json:"mongo_database"`
	AccessTokenSecret   *string         `json:"access_token_secret"`
	AccessTokenTTL      *timex.Duration `json:"access_token_ttl"`
	RefreshTokenSecret  *string         `json:"refresh_token_secret"`
	RefreshTokenTTL     *timex.Duration `json:"refresh_token_ttl"`
	CookieSecure        *bool           `json:"cookie_secure"`
	CORSOrigin          *string         `json:"cors_origin"`
	RedisAddr           *string         `json:"redis_addr"`
	MaxLoginAttempts    *int            `json:"max_login_attempts"`
	LoginWindow         *timex.Duration `json:"login_window"`
	HealthCheckInterval *timex.Duration `json:"health_check_interval"`
	S3RootUser          *string         `json:"s3_root_user"`
	S3RootPassword      *string         `json:"s3_root_password"`
	S3Bucket            *string         `json:"s3_bucket"`
	S3Region            *string         `json:"s3_region"`
	S3BaseEndpoint      *string         `json:"s3_base_endpoint"`
	S3PublicBaseURL     *string         `json:"s3_public_base_url"`
}

// parseJson overlays values from the JSON file named by -c / -config.
// Without either flag nothing happens. An unreadable file or invalid JSON
// panics: the server must not start on a half-read configuration.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.AccessTokenSecret, c.AccessTokenSecret)
	setString(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	setString(&config.CORSOrigin, c.CORSOrigin)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)

	if c.AccessTokenTTL != nil {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	if c.RefreshTokenTTL != nil {
		config.RefreshTokenTTL = c.RefreshTokenTTL.Duration
	}
	if c.LoginWindow != nil {
		config.LoginWindow = c.LoginWindow.Duration
	}
	if c.HealthCheckInterval != nil {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	if c.MaxLoginAttempts != nil {
		config.MaxLoginAttempts = *c.MaxLoginAttempts
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
