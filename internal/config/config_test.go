package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tim1593/shop-db2/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.App.Port)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenValidity)
	assert.Equal(t, 6, cfg.Auth.MinimumPasswordLength)
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.Maintenance)
	assert.Equal(t, "postgres://postgres:@localhost:5432/shopdb?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOKEN_VALIDITY", "1h")
	t.Setenv("MAINTENANCE", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Auth.TokenValidity)
	assert.True(t, cfg.Maintenance)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}
