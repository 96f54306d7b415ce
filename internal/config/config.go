// Package config loads the migrator settings from the environment and an
// optional .env file. Command-line flags override these values.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	// DebugMode indicates the tool runs in debug mode.
	DebugMode = "debug"
	// ReleaseMode indicates the tool runs in release mode.
	ReleaseMode = "release"

	DefaultBatchSize   = 100
	DefaultLabelLocale = "en_US"
)

type Config struct {
	Environment string
	ServiceName string
	LogLevel    string

	APIURL          string
	APIUsername     string
	APIPassword     string
	APIClientID     string
	APIClientSecret string
	APITimeout      time.Duration

	BatchSize       int
	LabelLocale     string
	AlwaysSummarize bool
}

func Load() Config {
	envFileName := cast.ToString(getOrReturnDefault("ENV_FILE_PATH", "./.env"))

	// A missing .env file is fine, the environment may carry everything.
	_ = godotenv.Load(envFileName)

	config := Config{}

	config.Environment = cast.ToString(getOrReturnDefault("ENVIRONMENT", ReleaseMode))
	config.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "measurement-migrator"))
	config.LogLevel = cast.ToString(getOrReturnDefault("LOG_LEVEL", "info"))

	config.APIURL = cast.ToString(getOrReturnDefault("AKENEO_API_URL", ""))
	config.APIUsername = cast.ToString(getOrReturnDefault("AKENEO_API_USERNAME", ""))
	config.APIPassword = cast.ToString(getOrReturnDefault("AKENEO_API_PASSWORD", ""))
	config.APIClientID = cast.ToString(getOrReturnDefault("AKENEO_API_CLIENT_ID", ""))
	config.APIClientSecret = cast.ToString(getOrReturnDefault("AKENEO_API_CLIENT_SECRET", ""))
	config.APITimeout = cast.ToDuration(getOrReturnDefault("AKENEO_API_TIMEOUT", "60s"))

	config.BatchSize = cast.ToInt(getOrReturnDefault("BATCH_SIZE", DefaultBatchSize))
	config.LabelLocale = cast.ToString(getOrReturnDefault("LABEL_LOCALE", DefaultLabelLocale))
	config.AlwaysSummarize = cast.ToBool(getOrReturnDefault("ALWAYS_SUMMARIZE", false))

	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}

	return config
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.APIPassword != "" {
		c.APIPassword = "******"
	}

	if c.APIClientSecret != "" {
		c.APIClientSecret = "******"
	}

	return c
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	_, exists := os.LookupEnv(key)

	if exists {
		return os.Getenv(key)
	}

	return defaultValue
}
