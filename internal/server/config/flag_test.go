package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", ":9090", "-m", ":9091", "-d", "postgres://db", "-n", "users",
				"-s", "acc", "-S", "ref", "-t", "15", "-r", "14400", "-k=false", "-o", "http://app",
				"-R", "redis:6379", "-l", "3", "-w", "5",
				"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint", "-P", "http://cdn",
			},
			expected: &Config{
				EndpointAddrHTTP:   ":9090",
				EndpointAddrGRPC:   ":9091",
				DatabaseDSN:        "postgres://db",
				MongoDatabase:      "users",
				AccessTokenSecret:  "acc",
				RefreshTokenSecret: "ref",
				AccessTokenTTL:     15 * time.Minute,
				RefreshTokenTTL:    240 * time.Hour,
				CookieSecure:       false,
				CORSOrigin:         "http://app",
				RedisAddr:          "redis:6379",
				MaxLoginAttempts:   3,
				LoginWindow:        5 * time.Minute,
				S3RootUser:         "user",
				S3RootPassword:     "password",
				S3Bucket:           "bucket",
				S3Region:           "us-west-1",
				S3BaseEndpoint:     "http://endpoint",
				S3PublicBaseURL:    "http://cdn",
			},
		},
		{
			name:     "unset duration flags keep sub-minute values",
			args:     []string{"-c", "cfg.json", "-test.v=true"},
			expected: &Config{AccessTokenTTL: 90 * time.Second, RefreshTokenTTL: 3 * time.Minute, LoginWindow: 30 * time.Second},
		},
		{
			name:        "bad number",
			args:        []string{"-t", "abc"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{AccessTokenTTL: 90 * time.Second, RefreshTokenTTL: 3 * time.Minute, LoginWindow: 30 * time.Second}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config, tt.args) })
				return
			}

			require.NotPanics(t, func() { parseFlags(config, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
