package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8000", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "mongodb://localhost:27017", c.DatabaseDSN)
	assert.Equal(t, "sessionkeeper", c.MongoDatabase)
	assert.Equal(t, "access-secret", c.AccessTokenSecret)
	assert.Equal(t, "refresh-secret", c.RefreshTokenSecret)
	assert.Equal(t, 1*time.Hour, c.AccessTokenTTL)
	assert.Equal(t, 240*time.Hour, c.RefreshTokenTTL)
	assert.True(t, c.CookieSecure)
	assert.Equal(t, 5, c.MaxLoginAttempts)
	assert.Equal(t, 15*time.Minute, c.LoginWindow)
	assert.Equal(t, "media", c.S3Bucket)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"server"}

	for _, k := range []string{"PORT", "DATABASE_DSN", "MONGODB_URI", "ACCESS_TOKEN_SECRET",
		"REFRESH_TOKEN_SECRET", "ACCESS_TOKEN_EXPIRY", "REFRESH_TOKEN_EXPIRY"} {
		t.Setenv(k, "")
	}

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *c)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "missing access secret", mutate: func(c *Config) { c.AccessTokenSecret = "" }, wantErr: true},
		{name: "missing refresh secret", mutate: func(c *Config) { c.RefreshTokenSecret = "" }, wantErr: true},
		{name: "shared secret", mutate: func(c *Config) { c.RefreshTokenSecret = c.AccessTokenSecret }, wantErr: true},
		{name: "zero access ttl", mutate: func(c *Config) { c.AccessTokenTTL = 0 }, wantErr: true},
		{name: "negative refresh ttl", mutate: func(c *Config) { c.RefreshTokenTTL = -time.Minute }, wantErr: true},
		{name: "access outlives refresh", mutate: func(c *Config) { c.AccessTokenTTL = c.RefreshTokenTTL }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}
