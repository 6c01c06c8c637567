package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/timex"
)

// parseEnv overlays the variables a .env-style deployment provides.
// Expiries accept Go durations or the short "1d"/"10d" form.
//
//	PORT                  HTTP port (becomes ":<PORT>")
//	DATABASE_DSN          credential store DSN
//	MONGODB_URI           same as DATABASE_DSN; DATABASE_DSN wins when both are set
//	ACCESS_TOKEN_SECRET   access token HMAC secret
//	ACCESS_TOKEN_EXPIRY   access token TTL
//	REFRESH_TOKEN_SECRET  refresh token HMAC secret
//	REFRESH_TOKEN_EXPIRY  refresh token TTL
//	CORS_ORIGIN           allowed browser origin
//	REDIS_ADDR            login throttle backend
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup("PORT"); ok && v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	if v, ok := lookup("MONGODB_URI"); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := lookup("DATABASE_DSN"); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := lookup("ACCESS_TOKEN_SECRET"); ok && v != "" {
		config.AccessTokenSecret = v
	}
	if v, ok := lookup("REFRESH_TOKEN_SECRET"); ok && v != "" {
		config.RefreshTokenSecret = v
	}
	if v, ok := lookup("ACCESS_TOKEN_EXPIRY"); ok && v != "" {
		config.AccessTokenTTL = mustDuration("ACCESS_TOKEN_EXPIRY", v)
	}
	if v, ok := lookup("REFRESH_TOKEN_EXPIRY"); ok && v != "" {
		config.RefreshTokenTTL = mustDuration("REFRESH_TOKEN_EXPIRY", v)
	}
	if v, ok := lookup("CORS_ORIGIN"); ok {
		config.CORSOrigin = v
	}
	if v, ok := lookup("REDIS_ADDR"); ok {
		config.RedisAddr = v
	}
}

func mustDuration(name, v string) time.Duration {
	d, err := timex.ParseLoose(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", name, err))
	}
	return d
}
