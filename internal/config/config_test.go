package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 3*time.Hour, cfg.Session.IdleTTL)
	assert.Equal(t, time.Minute, cfg.Cache.WorkoutTTL)
	assert.Equal(t, 16, cfg.Cache.SizeMB)
	assert.True(t, cfg.Log.ToStdout)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  address: ":9090"
database:
  driver: memory
jwt:
  secret: file-secret
  expiration: 30m
session:
  idle_ttl: 45m
s3:
  bucket_name: photos
  public_base_url: https://cdn.example.com/photos
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, 45*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, "photos", cfg.S3.BucketName)
	assert.Equal(t, "https://cdn.example.com/photos", cfg.S3.PublicBaseURL)
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestLoadConfig_CacheNeedsSize(t *testing.T) {
	t.Setenv("CACHE_SIZE_MB", "0")
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)

	t.Setenv("CACHE_WORKOUT_TTL", "0s")
	_, err = LoadConfig(t.TempDir())
	assert.NoError(t, err)
}
