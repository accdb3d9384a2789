package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/sampleledger/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-g string     gRPC bind address (e.g., ":50051")
//	-s string     JWT HMAC secret key
//	-t duration   access token validity (e.g., "12h")
//	-k string     snapshot driver: json, sqlite or postgres
//	-d string     snapshot DSN for the SQL drivers
//	-sheet string spreadsheet id ("" for local-only)
//	-b string     S3 bucket for backup archives
//	-r string     Redis address for sessions
//	-l string     log level
//
// args is filtered with flagx.FilterArgs first so the -c and -env-file
// flags of the other layers do not trip the parser.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-s", "-t", "-k", "-d", "-sheet", "-b", "-r", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC address")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "access token validity")
	fs.StringVar(&config.SnapshotDriver, "k", config.SnapshotDriver, "snapshot driver")
	fs.StringVar(&config.SnapshotDSN, "d", config.SnapshotDSN, "snapshot DSN")
	fs.StringVar(&config.SpreadsheetID, "sheet", config.SpreadsheetID, "spreadsheet id")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "Redis address")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(args)
}
