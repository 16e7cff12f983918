package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/learnhub/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   token signing key
//	-i string   token issuer
//	-x int      token lifetime, days
//	-f string   default profile picture URL
//	-t int      store timeout, seconds
//	-l string   log level
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-dev        development mode
//
// os.Args is filtered with flagx.FilterArgs first so that flags owned by
// other components (-c/-config) do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-i", "-x", "-f", "-t", "-l", "-u", "-p", "-b", "-g", "-e", "-dev"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing key")
	fs.StringVar(&config.TokenIssuer, "i", config.TokenIssuer, "token issuer and audience")
	fs.IntVar(&config.TokenExpireDays, "x", config.TokenExpireDays, "token lifetime (in days)")
	fs.StringVar(&config.DefaultProfilePictureURL, "f", config.DefaultProfilePictureURL, "default profile picture URL")

	storeTimeout := fs.Int("t", int(config.StoreTimeout.Seconds()), "store timeout (in seconds)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.BoolVar(&config.Dev, "dev", config.Dev, "development mode")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -t only overrides when given; its seconds resolution would truncate
	// a sub-second value from JSON or the environment.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.StoreTimeout = time.Duration(*storeTimeout) * time.Second
		}
	})
}
