package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadSyncConfig_Defaults(t *testing.T) {
	c := LoadSyncConfig()
	assert.Equal(t, 3*time.Second, c.ReadTimeout)
	assert.Equal(t, 30*time.Second, c.PollInterval)
	assert.Equal(t, MirrorFile, c.MirrorBackend)
}

func TestLoadSyncConfig_Overrides(t *testing.T) {
	t.Setenv("SYNC_READ_TIMEOUT", "1500")
	t.Setenv("SYNC_POLL_INTERVAL", "5s")
	t.Setenv("MIRROR_BACKEND", "bogus")
	c := LoadSyncConfig()
	assert.Equal(t, 1500*time.Millisecond, c.ReadTimeout)
	assert.Equal(t, 5*time.Second, c.PollInterval)
	assert.Equal(t, MirrorFile, c.MirrorBackend)
}

func TestLoad_RemoteOptional(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_HOST", "")
	c := Load()
	assert.False(t, c.RemoteConfigured())
	assert.Empty(t, c.RemoteEndpoint())

	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "moca")
	t.Setenv("DB_NAME", "museum")
	t.Setenv("DB_PASS", "hunter2")
	c = Load()
	assert.True(t, c.RemoteConfigured())
	assert.Equal(t, "mysql://db.internal:3306/museum", c.RemoteEndpoint())
	assert.NotContains(t, c.RemoteEndpoint(), "hunter2")
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	c := LoadRateLimitConfig()
	assert.Equal(t, 1, c.Capacity)
	assert.Equal(t, 5*time.Minute, c.TTL)
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "chatty"})
	assert.NoError(t, err)
	assert.Equal(t, "info", l.GetLevel().String())
}
