package config

import (
	"fmt"
	"time"
)

func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}
	if v, ok := lookup("LEDGERCTL_SERVER"); ok {
		cfg.ServerAddr = v
	}
	if v, ok := lookup("LEDGERCTL_HTTP"); ok {
		cfg.HTTPBase = v
	}
	if v, ok := lookup("LEDGERCTL_TOKEN_FILE"); ok {
		cfg.TokenFile = expandHome(v)
	}
	if v, ok := lookup("LEDGERCTL_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LEDGERCTL_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	return nil
}
