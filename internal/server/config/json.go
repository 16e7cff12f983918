package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/learnhub/internal/flagx"
	"github.com/dmitrijs2005/learnhub/internal/timex"
)

// JsonConfig is the on-disk shape of Config. StoreTimeout uses
// timex.Duration so both "5s" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC         string         `json:"endpoint_addr_grpc"`
	DatabaseDSN              string         `json:"database_dsn"`
	SecretKey                string         `json:"secret_key"`
	TokenIssuer              string         `json:"token_issuer"`
	TokenExpireDays          int            `json:"token_expire_days"`
	DefaultProfilePictureURL string         `json:"default_profile_picture_url"`
	StoreTimeout             timex.Duration `json:"store_timeout"`
	LogLevel                 string         `json:"log_level"`
	S3RootUser               string         `json:"s3_root_user"`
	S3RootPassword           string         `json:"s3_root_password"`
	S3Bucket                 string         `json:"s3_bucket"`
	S3Region                 string         `json:"s3_region"`
	S3BaseEndpoint           string         `json:"s3_base_endpoint"`
	Dev                      bool           `json:"dev"`
}

// parseJson overlays config with the JSON file named by -c or -config.
// Without the flag nothing is loaded. Keys missing from the file keep their
// current values. An unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.TokenIssuer, c.TokenIssuer)
	if c.TokenExpireDays != 0 {
		config.TokenExpireDays = c.TokenExpireDays
	}
	setString(&config.DefaultProfilePictureURL, c.DefaultProfilePictureURL)
	if c.StoreTimeout.Duration != 0 {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.Dev {
		config.Dev = true
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
