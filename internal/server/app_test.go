package server

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/server/config"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDSN = repomanager.MemoryDSN
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.HealthCheckInterval = 50 * time.Millisecond
	return c
}

func TestNewApp_RejectsInvalidConfig(t *testing.T) {
	c := testConfig()
	c.RefreshTokenSecret = c.AccessTokenSecret

	_, err := NewApp(context.Background(), c)
	assert.ErrorContains(t, err, "config error")
}

func TestNewApp_MemoryStore(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	assert.NotNil(t, app.users)
	assert.NotNil(t, app.sessions)
	assert.Nil(t, app.redis, "throttling is off without a Redis address")
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after context cancel")
	}
}
