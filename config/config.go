package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL  string
	SeedDemoData bool

	RedisURL string

	JWTSecret    string
	JWTExpiresIn time.Duration

	AdminUsername string
	AdminPassword string

	UploadDir      string
	MaxUploadBytes int64

	LogFile string

	OTelServiceName string
	OTelEndpoint    string
	OTelSampleRatio float64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SeedDemoData:    cast.ToBool(getEnv("SEED_DEMO_DATA", "false")),
		RedisURL:        getEnv("REDIS_URL", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		UploadDir:       getEnv("UPLOAD_DIR", "static"),
		LogFile:         getEnv("LOG_FILE", ""),
		OTelServiceName: getEnv("OTEL_SERVICE_NAME", "inventory-sales-tracker"),
		OTelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
	}

	expiresIn := getEnv("JWT_EXPIRES_IN", "168h")
	duration, err := time.ParseDuration(expiresIn)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}
	cfg.JWTExpiresIn = duration

	maxUpload, err := cast.ToInt64E(getEnv("MAX_UPLOAD_BYTES", "5242880"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
	}
	cfg.MaxUploadBytes = maxUpload

	sampleRatio, err := cast.ToFloat64E(getEnv("OTEL_TRACES_SAMPLER_ARG", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_TRACES_SAMPLER_ARG: %w", err)
	}
	cfg.OTelSampleRatio = sampleRatio

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// JobsEnabled reports whether a Redis backend is configured for background jobs.
func (c *Config) JobsEnabled() bool {
	return c.RedisURL != ""
}

// RedisAddr strips the redis:// scheme asynq does not expect.
func (c *Config) RedisAddr() string {
	return strings.TrimPrefix(c.RedisURL, "redis://")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
