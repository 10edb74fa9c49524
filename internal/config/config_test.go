package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("ASSIGNMENT_SERIALIZE", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("SEED_ADMIN_ON_START", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	require.True(t, cfg.Assignment.Serialize)
	require.Equal(t, "crm:notifications", cfg.Notification.RedisChannel)
	require.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	require.Equal(t, "admin", cfg.Bootstrap.AdminUsername)
	require.False(t, cfg.Bootstrap.SeedOnStart)
}

func TestLoad_overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("ASSIGNMENT_SERIALIZE", "false")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("SEED_ADMIN_ON_START", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.App.Port)
	require.False(t, cfg.Assignment.Serialize)
	require.Equal(t, int32(10), cfg.Postgres.MaxConns)
	require.Zero(t, cfg.App.RequestTimeout())
	require.True(t, cfg.Bootstrap.SeedOnStart)
}

func TestLoad_invalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "x")

	_, err := Load()
	require.Error(t, err)
}
