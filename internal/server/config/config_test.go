package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/sampleledger/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, ":50051", c.GRPCAddr)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, 12*time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, "json", c.SnapshotDriver)
	assert.Equal(t, "ssep_data.json", c.DataFile)
	assert.Equal(t, "ssep_history.json", c.TrashFile)
	assert.Equal(t, DefaultSpreadsheetID, c.SpreadsheetID)
	assert.True(t, c.CSVFallback)
	assert.Empty(t, c.S3Bucket)
	assert.Equal(t, auth.DefaultAccountConfigs(), c.Accounts)
}

func TestLoadConfig_Layers(t *testing.T) {
	dir := t.TempDir()

	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("LEDGER_TEST_DOTENV_ONLY=1\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LEDGER_TEST_DOTENV_ONLY") })

	yamlFile := filepath.Join(dir, "ledger.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte(`
http_addr: ":9000"
grpc_addr: ":9001"
log_level: debug
snapshot:
  driver: sqlite
  dsn: file.db
s3:
  bucket: from-file
`), 0o600))

	t.Setenv("LEDGER_GRPC_ADDR", ":9101")
	t.Setenv("LEDGER_S3_BUCKET", "from-env")

	cfg, err := LoadConfig([]string{"-env-file", envFile, "-c", yamlFile, "-b", "from-flag"})
	require.NoError(t, err)

	assert.Equal(t, "1", os.Getenv("LEDGER_TEST_DOTENV_ONLY"))
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, ":9101", cfg.GRPCAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.SnapshotDriver)
	assert.Equal(t, "file.db", cfg.SnapshotDSN)
	assert.Equal(t, "from-flag", cfg.S3Bucket)
	assert.Equal(t, "secretKey", cfg.SecretKey)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")})
	assert.Error(t, err)

	_, err = LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)

	t.Setenv("LEDGER_TOKEN_TTL", "forever")
	_, err = LoadConfig(nil)
	assert.ErrorContains(t, err, "LEDGER_TOKEN_TTL")
}
