package config

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), ".env")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEONAMES_USERNAME", "demo_user")

	cfg, err := load(viper.New(), missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
	assert.Equal(t, "http://api.geonames.org", cfg.GeoNames.BaseURL)
	assert.Equal(t, "demo_user", cfg.GeoNames.Username)
	assert.Equal(t, 10*time.Second, cfg.GeoNames.RequestTimeout)
	assert.Equal(t, int64(10<<20), cfg.GeoNames.MaxBodyBytes)
	assert.Equal(t, http.StatusBadGateway, cfg.Proxy.FailureStatus)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
	assert.Equal(t, []string{"*"}, cfg.Server.AllowOrigins)
	assert.Equal(t, "geo-lookup-stats", cfg.Worker.ConsumerGroup)
	assert.Equal(t, 50, cfg.Worker.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Stats.PublishTimeout)
	assert.Equal(t, 30*time.Second, cfg.Worker.ClaimMinIdle)
	assert.NotEmpty(t, cfg.Worker.ConsumerName)
}

func TestLoad_WorkerConsumerIdentity(t *testing.T) {
	t.Setenv("GEONAMES_USERNAME", "demo_user")

	t.Run("defaults to hostname", func(t *testing.T) {
		hostname, err := os.Hostname()
		require.NoError(t, err)

		cfg, err := load(viper.New(), missingEnvFile(t))
		require.NoError(t, err)
		assert.Equal(t, hostname, cfg.Worker.ConsumerName)
	})

	t.Run("explicit name and idle time", func(t *testing.T) {
		t.Setenv("WORKER_CONSUMER_NAME", "stats-0")
		t.Setenv("WORKER_CLAIM_MIN_IDLE", "5")

		cfg, err := load(viper.New(), missingEnvFile(t))
		require.NoError(t, err)
		assert.Equal(t, "stats-0", cfg.Worker.ConsumerName)
		assert.Equal(t, 5*time.Second, cfg.Worker.ClaimMinIdle)
	})

	t.Run("non-positive idle time is rejected", func(t *testing.T) {
		t.Setenv("WORKER_CLAIM_MIN_IDLE", "0")

		_, err := load(viper.New(), missingEnvFile(t))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "WORKER_CLAIM_MIN_IDLE")
	})
}

func TestLoad_UsernameRequired(t *testing.T) {
	t.Setenv("GEONAMES_USERNAME", "")

	cfg, err := load(viper.New(), missingEnvFile(t))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "GEONAMES_USERNAME")
}

func TestLoad_InvalidFailureStatus(t *testing.T) {
	t.Setenv("GEONAMES_USERNAME", "demo_user")
	t.Setenv("PROXY_FAILURE_STATUS", "999")

	_, err := load(viper.New(), missingEnvFile(t))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PROXY_FAILURE_STATUS")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEONAMES_USERNAME", "demo_user")
	t.Setenv("GEONAMES_BASE_URL", "http://localhost:9999/")
	t.Setenv("GEONAMES_TIMEOUT", "3")
	t.Setenv("PROXY_FAILURE_STATUS", "200")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://localhost:3000, https://app.example.com")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := load(viper.New(), missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.GeoNames.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.GeoNames.RequestTimeout)
	assert.Equal(t, http.StatusOK, cfg.Proxy.FailureStatus)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.Server.AllowOrigins)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6380", cfg.GetRedisAddr())
}

func TestLoad_FromEnvFile(t *testing.T) {
	t.Setenv("GEONAMES_USERNAME", "")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "GEONAMES_USERNAME=file_user\nAPI_PORT=9090\nLOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg, err := load(viper.New(), envFile)
	require.NoError(t, err)

	assert.Equal(t, "file_user", cfg.GeoNames.Username)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,, b "))
}
