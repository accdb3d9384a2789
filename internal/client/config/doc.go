// Package config loads settings for the ledgerctl command-line client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file named by --config.
//  3. LEDGERCTL_* environment variables.
//  4. Command-line flags, bound by the cli package on top of the result.
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds:
//
//	server: 127.0.0.1:50051
//	http: http://127.0.0.1:8080
//	token_file: ~/.ledgerctl/token
//	timeout: 10s
package config
