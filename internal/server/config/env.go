package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// loadDotEnv loads path into the process environment without overriding
// variables that are already set. With path empty, ".env" is tried and its
// absence is not an error.
func loadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

type envVar struct {
	name string
	set  func(c *Config, v string) error
}

func str(dst func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

func dur(dst func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*dst(c) = d
		return nil
	}
}

var envVars = []envVar{
	{"LEDGER_HTTP_ADDR", str(func(c *Config) *string { return &c.HTTPAddr })},
	{"LEDGER_GRPC_ADDR", str(func(c *Config) *string { return &c.GRPCAddr })},
	{"LEDGER_LOG_FORMAT", str(func(c *Config) *string { return &c.LogFormat })},
	{"LEDGER_LOG_LEVEL", str(func(c *Config) *string { return &c.LogLevel })},
	{"LEDGER_SECRET_KEY", str(func(c *Config) *string { return &c.SecretKey })},
	{"LEDGER_TOKEN_TTL", dur(func(c *Config) *time.Duration { return &c.AccessTokenValidityDuration })},
	{"LEDGER_SHUTDOWN_TIMEOUT", dur(func(c *Config) *time.Duration { return &c.ShutdownTimeout })},
	{"LEDGER_CORS_ORIGINS", func(c *Config, v string) error {
		c.CORSOrigins = splitList(v)
		return nil
	}},
	{"LEDGER_SNAPSHOT_DRIVER", str(func(c *Config) *string { return &c.SnapshotDriver })},
	{"LEDGER_SNAPSHOT_DSN", str(func(c *Config) *string { return &c.SnapshotDSN })},
	{"LEDGER_DATA_FILE", str(func(c *Config) *string { return &c.DataFile })},
	{"LEDGER_TRASH_FILE", str(func(c *Config) *string { return &c.TrashFile })},
	{"LEDGER_SPREADSHEET_ID", str(func(c *Config) *string { return &c.SpreadsheetID })},
	{"LEDGER_WORKSHEET", str(func(c *Config) *string { return &c.Worksheet })},
	{"LEDGER_GOOGLE_CREDENTIALS", str(func(c *Config) *string { return &c.CredentialsFile })},
	{"LEDGER_CSV_FALLBACK", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.CSVFallback = b
		return nil
	}},
	{"LEDGER_REMOTE_TIMEOUT", dur(func(c *Config) *time.Duration { return &c.RemoteTimeout })},
	{"LEDGER_S3_ACCESS_KEY", str(func(c *Config) *string { return &c.S3AccessKey })},
	{"LEDGER_S3_SECRET_KEY", str(func(c *Config) *string { return &c.S3SecretKey })},
	{"LEDGER_S3_BUCKET", str(func(c *Config) *string { return &c.S3Bucket })},
	{"LEDGER_S3_REGION", str(func(c *Config) *string { return &c.S3Region })},
	{"LEDGER_S3_ENDPOINT", str(func(c *Config) *string { return &c.S3BaseEndpoint })},
	{"LEDGER_S3_PREFIX", str(func(c *Config) *string { return &c.S3Prefix })},
	{"LEDGER_REDIS_ADDR", str(func(c *Config) *string { return &c.RedisAddr })},
	{"LEDGER_REDIS_PASSWORD", str(func(c *Config) *string { return &c.RedisPassword })},
	{"LEDGER_REDIS_DB", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.RedisDB = n
		return nil
	}},
}

// parseEnv applies every LEDGER_* variable that lookup finds.
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	for _, e := range envVars {
		v, ok := lookup(e.name)
		if !ok {
			continue
		}
		if err := e.set(config, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%s: %w", e.name, err)
		}
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
