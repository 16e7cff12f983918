package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvPrefix prefixes every environment variable read by parseEnv.
const EnvPrefix = "LEARNHUB_"

// parseEnv overlays config with LEARNHUB_* variables. cmd/server loads a
// .env file into the environment before this runs. Malformed numbers panic,
// like malformed flags.
func parseEnv(config *Config) {
	lookupString("GRPC_ADDRESS", &config.EndpointAddrGRPC)
	lookupString("DATABASE_DSN", &config.DatabaseDSN)
	lookupString("SECRET_KEY", &config.SecretKey)
	lookupString("TOKEN_ISSUER", &config.TokenIssuer)
	lookupString("DEFAULT_PROFILE_PICTURE_URL", &config.DefaultProfilePictureURL)
	lookupString("LOG_LEVEL", &config.LogLevel)
	lookupString("S3_ROOT_USER", &config.S3RootUser)
	lookupString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	lookupString("S3_BUCKET", &config.S3Bucket)
	lookupString("S3_REGION", &config.S3Region)
	lookupString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if v, ok := os.LookupEnv(EnvPrefix + "TOKEN_EXPIRE_DAYS"); ok {
		days, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("%sTOKEN_EXPIRE_DAYS: %w", EnvPrefix, err))
		}
		config.TokenExpireDays = days
	}

	if v, ok := os.LookupEnv(EnvPrefix + "DEV"); ok {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%sDEV: %w", EnvPrefix, err))
		}
		config.Dev = dev
	}

	// accepts "5s" style durations or plain seconds
	if v, ok := os.LookupEnv(EnvPrefix + "STORE_TIMEOUT"); ok {
		config.StoreTimeout = parseSeconds(EnvPrefix+"STORE_TIMEOUT", v)
	}
}

func lookupString(name string, dst *string) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
		*dst = v
	}
}

func parseSeconds(name, v string) time.Duration {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", name, err))
	}
	return d
}
