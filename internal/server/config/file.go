package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/sampleledger/internal/auth"
	"github.com/dmitrijs2005/sampleledger/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config. Durations use timex.Duration so
// files may say "15s" or give nanoseconds. Fields left out of the file keep
// their current value.
type FileConfig struct {
	HTTPAddr                    *string         `json:"http_addr" yaml:"http_addr"`
	GRPCAddr                    *string         `json:"grpc_addr" yaml:"grpc_addr"`
	LogFormat                   *string         `json:"log_format" yaml:"log_format"`
	LogLevel                    *string         `json:"log_level" yaml:"log_level"`
	SecretKey                   *string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	ShutdownTimeout             *timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	CORSOrigins                 []string        `json:"cors_origins" yaml:"cors_origins"`

	Snapshot struct {
		Driver    *string `json:"driver" yaml:"driver"`
		DSN       *string `json:"dsn" yaml:"dsn"`
		DataFile  *string `json:"data_file" yaml:"data_file"`
		TrashFile *string `json:"trash_file" yaml:"trash_file"`
	} `json:"snapshot" yaml:"snapshot"`

	Sheets struct {
		SpreadsheetID   *string         `json:"spreadsheet_id" yaml:"spreadsheet_id"`
		Worksheet       *string         `json:"worksheet" yaml:"worksheet"`
		CredentialsFile *string         `json:"credentials_file" yaml:"credentials_file"`
		CSVFallback     *bool           `json:"csv_fallback" yaml:"csv_fallback"`
		Timeout         *timex.Duration `json:"timeout" yaml:"timeout"`
	} `json:"sheets" yaml:"sheets"`

	S3 struct {
		AccessKey    *string `json:"access_key" yaml:"access_key"`
		SecretKey    *string `json:"secret_key" yaml:"secret_key"`
		Bucket       *string `json:"bucket" yaml:"bucket"`
		Region       *string `json:"region" yaml:"region"`
		BaseEndpoint *string `json:"base_endpoint" yaml:"base_endpoint"`
		Prefix       *string `json:"prefix" yaml:"prefix"`
	} `json:"s3" yaml:"s3"`

	Redis struct {
		Addr     *string `json:"addr" yaml:"addr"`
		Password *string `json:"password" yaml:"password"`
		DB       *int    `json:"db" yaml:"db"`
	} `json:"redis" yaml:"redis"`

	Accounts []auth.AccountConfig `json:"accounts" yaml:"accounts"`
}

// parseFile overlays the config file at path onto config. The format is
// picked by extension: .yaml/.yml is YAML, anything else JSON. An empty
// path loads nothing.
func parseFile(config *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.CORSOrigins != nil {
		config.CORSOrigins = c.CORSOrigins
	}

	setString(&config.SnapshotDriver, c.Snapshot.Driver)
	setString(&config.SnapshotDSN, c.Snapshot.DSN)
	setString(&config.DataFile, c.Snapshot.DataFile)
	setString(&config.TrashFile, c.Snapshot.TrashFile)

	setString(&config.SpreadsheetID, c.Sheets.SpreadsheetID)
	setString(&config.Worksheet, c.Sheets.Worksheet)
	setString(&config.CredentialsFile, c.Sheets.CredentialsFile)
	if c.Sheets.CSVFallback != nil {
		config.CSVFallback = *c.Sheets.CSVFallback
	}
	if c.Sheets.Timeout != nil {
		config.RemoteTimeout = c.Sheets.Timeout.Duration
	}

	setString(&config.S3AccessKey, c.S3.AccessKey)
	setString(&config.S3SecretKey, c.S3.SecretKey)
	setString(&config.S3Bucket, c.S3.Bucket)
	setString(&config.S3Region, c.S3.Region)
	setString(&config.S3BaseEndpoint, c.S3.BaseEndpoint)
	setString(&config.S3Prefix, c.S3.Prefix)

	setString(&config.RedisAddr, c.Redis.Addr)
	setString(&config.RedisPassword, c.Redis.Password)
	if c.Redis.DB != nil {
		config.RedisDB = *c.Redis.DB
	}

	if len(c.Accounts) > 0 {
		config.Accounts = c.Accounts
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
