package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/sampleledger/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config. Missing fields keep their value.
type FileConfig struct {
	Server    *string         `json:"server" yaml:"server"`
	HTTP      *string         `json:"http" yaml:"http"`
	TokenFile *string         `json:"token_file" yaml:"token_file"`
	Timeout   *timex.Duration `json:"timeout" yaml:"timeout"`
}

func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.Server != nil {
		cfg.ServerAddr = *fc.Server
	}
	if fc.HTTP != nil {
		cfg.HTTPBase = *fc.HTTP
	}
	if fc.TokenFile != nil {
		cfg.TokenFile = expandHome(*fc.TokenFile)
	}
	if fc.Timeout != nil {
		cfg.Timeout = fc.Timeout.Duration
	}
	return nil
}

func expandHome(p string) string {
	rest, ok := strings.CutPrefix(p, "~/")
	if !ok {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}
