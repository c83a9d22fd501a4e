package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces variables, e.g. MESSAGELY_SECRET_KEY.
const envPrefix = "messagely"

// EnvConfig mirrors Config for envconfig. Pointer fields stay nil when the
// variable is unset so only present variables override earlier layers.
type EnvConfig struct {
	EndpointAddrHTTP      *string        `envconfig:"ENDPOINT_ADDR_HTTP"`
	DatabaseDSN           *string        `envconfig:"DATABASE_DSN"`
	SecretKey             *string        `envconfig:"SECRET_KEY"`
	TokenValidityDuration *time.Duration `envconfig:"TOKEN_VALIDITY_DURATION"`
	BcryptWorkFactor      *int           `envconfig:"BCRYPT_WORK_FACTOR"`
	LogLevel              *string        `envconfig:"LOG_LEVEL"`
}

// parseEnv overlays MESSAGELY_* environment variables. Malformed values panic.
func parseEnv(config *Config) {
	var e EnvConfig
	if err := envconfig.Process(envPrefix, &e); err != nil {
		panic(err)
	}

	if e.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *e.EndpointAddrHTTP
	}
	if e.DatabaseDSN != nil {
		config.DatabaseDSN = *e.DatabaseDSN
	}
	if e.SecretKey != nil {
		config.SecretKey = *e.SecretKey
	}
	if e.TokenValidityDuration != nil {
		config.TokenValidityDuration = *e.TokenValidityDuration
	}
	if e.BcryptWorkFactor != nil {
		config.BcryptWorkFactor = *e.BcryptWorkFactor
	}
	if e.LogLevel != nil {
		config.LogLevel = *e.LogLevel
	}
}
