package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("SESSION_IDLE_MINUTES", "")
		t.Setenv("TRIAL_DAYS", "")
		t.Setenv("SERVER_PORT", "")

		cfg := Load()

		assert.Equal(t, 30*time.Minute, cfg.SessionIdle)
		assert.Equal(t, 14, cfg.TrialDays)
		assert.Equal(t, ":8080", cfg.Addr())
		assert.Equal(t, 8, cfg.BulkConcurrency)
	})

	t.Run("overrides from environment", func(t *testing.T) {
		t.Setenv("SESSION_IDLE_MINUTES", "5")
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("APP_ENV", "production")
		t.Setenv("S3_PATH_STYLE", "false")

		cfg := Load()

		assert.Equal(t, 5*time.Minute, cfg.SessionIdle)
		assert.Equal(t, ":9000", cfg.Addr())
		assert.True(t, cfg.IsProduction())
		assert.False(t, cfg.Storage.UsePathStyle)
	})

	t.Run("invalid numbers fall back", func(t *testing.T) {
		t.Setenv("TRIAL_DAYS", "abc")
		t.Setenv("BULK_CONCURRENCY", "-3")

		cfg := Load()

		assert.Equal(t, 14, cfg.TrialDays)
		assert.Equal(t, 8, cfg.BulkConcurrency)
	})
}

func TestStorageConfigEnabled(t *testing.T) {
	assert.False(t, StorageConfig{}.Enabled())
	assert.True(t, StorageConfig{Bucket: "b", AccessKey: "a", SecretKey: "s"}.Enabled())
}
