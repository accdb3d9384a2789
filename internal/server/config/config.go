// Package config handles configuration for the ledger server: defaults, an
// optional .env file, a JSON or YAML config file, LEDGER_* environment
// variables and finally command-line flags, each layer overriding the last.
package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/sampleledger/internal/auth"
	"github.com/dmitrijs2005/sampleledger/internal/flagx"
	"github.com/dmitrijs2005/sampleledger/internal/snapshot"
)

// DefaultSpreadsheetID is the request-form response sheet.
const DefaultSpreadsheetID = "12C5nfRZVfakXGm6tWx9vbRmM36LtsjWBnQUR_VjAz2s"

// Config holds runtime settings for the ledger server.
//
// Snapshot* select the local store (json, sqlite or postgres). Spreadsheet*
// locate the remote sheet; an empty SpreadsheetID runs the server on the
// local snapshot only. S3* enable backup archives when S3Bucket is set, and
// RedisAddr switches sessions from memory to Redis.
type Config struct {
	HTTPAddr                    string
	GRPCAddr                    string
	LogFormat                   string
	LogLevel                    string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	ShutdownTimeout             time.Duration
	CORSOrigins                 []string

	SnapshotDriver string
	SnapshotDSN    string
	DataFile       string
	TrashFile      string

	SpreadsheetID   string
	Worksheet       string
	CredentialsFile string
	CSVFallback     bool
	RemoteTimeout   time.Duration

	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3Prefix       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Accounts []auth.AccountConfig
}

// LoadDefaults populates Config with development defaults. The secret key
// and the built-in passwords must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.LogFormat = "json"
	c.LogLevel = "info"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 12 * time.Hour
	c.ShutdownTimeout = 10 * time.Second
	c.CORSOrigins = []string{"*"}

	c.SnapshotDriver = string(snapshot.DriverJSON)
	c.DataFile = snapshot.DefaultDataFile
	c.TrashFile = snapshot.DefaultTrashFile

	c.SpreadsheetID = DefaultSpreadsheetID
	c.CSVFallback = true
	c.RemoteTimeout = 15 * time.Second

	c.S3Region = "us-east-1"
	c.S3Prefix = "backups"

	c.Accounts = auth.DefaultAccountConfigs()
}

// LoadConfig builds a Config from defaults and then overlays, in order, the
// dotenv file (-env-file, default ".env"), the config file (-c/-config),
// LEDGER_* variables and the flags in args.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(flagx.EnvFileFlag(args, "")); err != nil {
		return nil, err
	}
	if err := parseFile(cfg, flagx.ConfigFileFlag(args)); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
