package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	err := parseFlags(cfg, []string{
		"-c", "ignored.yaml",
		"-a", "127.0.0.1:9090", "-g", ":6000", "-s", "secret", "-t", "1h",
		"-k", "postgres", "-d", "postgres://db", "-sheet", "", "-b", "bucket",
		"-r", "redis:6379", "-l", "warn",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.HTTPAddr)
	assert.Equal(t, ":6000", cfg.GRPCAddr)
	assert.Equal(t, "secret", cfg.SecretKey)
	assert.Equal(t, time.Hour, cfg.AccessTokenValidityDuration)
	assert.Equal(t, "postgres", cfg.SnapshotDriver)
	assert.Equal(t, "postgres://db", cfg.SnapshotDSN)
	assert.Equal(t, "bucket", cfg.S3Bucket)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParseFlags_BadDuration(t *testing.T) {
	assert.Error(t, parseFlags(&Config{}, []string{"-t", "soon"}))
}
