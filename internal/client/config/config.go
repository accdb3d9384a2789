package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for ledgerctl.
type Config struct {
	// ServerAddr is host:port of the gRPC endpoint.
	ServerAddr string
	// HTTPBase is the base URL of the HTTP API, used for file downloads.
	HTTPBase string
	// TokenFile keeps the session token between invocations.
	TokenFile string
	Timeout   time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerAddr = "127.0.0.1:50051"
	c.HTTPBase = "http://127.0.0.1:8080"
	c.TokenFile = defaultTokenFile()
	c.Timeout = 10 * time.Second
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ledgerctl-token"
	}
	return filepath.Join(home, ".ledgerctl", "token")
}

// LoadConfig applies defaults, then the file at path (if any), then the
// environment read through lookup.
func LoadConfig(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := parseEnv(cfg, lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}
