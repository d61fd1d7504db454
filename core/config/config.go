package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	OTel      OTelConfig
	ArangoDB  ArangoDBConfig
	Activity  ActivityConfig
	Typesense TypesenseConfig
	Auth      AuthConfig
	Env       string
	Port      string
	// TraceHeaderName is read for an inbound request id and echoed back.
	TraceHeaderName string
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
	SampleRatio    float64
}

type ArangoDBConfig struct {
	URL      string
	Username string
	Password string
	Database string
}

// ActivityConfig describes the Redis stream carrying activity events.
type ActivityConfig struct {
	RedisURL    string
	Stream      string
	Group       string
	DLQStream   string
	Consumer    string
	MaxAttempts int
}

type TypesenseConfig struct {
	URL                string
	APIKey             string
	ArticlesCollection string
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

type ServiceType string

const (
	ServiceTypeServer ServiceType = "server"
	ServiceTypeWorker ServiceType = "worker"
)

// Load loads configuration from environment variables.
// In development, it loads from service-specific .env files:
//   - .env.server for the API server
//   - .env.worker for the activity worker
//
// Falls back to .env if service-specific file doesn't exist.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("APP_ENV", "development") == "development" {
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:             getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		TraceHeaderName: getEnv("TRACE_HEADER_NAME", "X-Request-Id"),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "needsnet-"+string(serviceType)),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
			SampleRatio:    getEnvFloat("OTEL_TRACES_SAMPLER_RATIO", 1),
		},
		ArangoDB: ArangoDBConfig{
			URL:      getEnv("ARANGO_URL", "http://localhost:8529"),
			Username: getEnv("ARANGO_USERNAME", "root"),
			Password: getEnv("ARANGO_PASSWORD", ""),
			Database: getEnv("ARANGO_DATABASE", "needsnet"),
		},
		Activity: ActivityConfig{
			RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
			Stream:      getEnv("ACTIVITY_STREAM", "needsnet_activity"),
			Group:       getEnv("ACTIVITY_GROUP", "needsnet_workers"),
			DLQStream:   getEnv("ACTIVITY_DLQ_STREAM", "needsnet_activity_dlq"),
			Consumer:    getEnv("ACTIVITY_CONSUMER", hostnameOr("worker")),
			MaxAttempts: getEnvInt("ACTIVITY_MAX_ATTEMPTS", 3),
		},
		Typesense: TypesenseConfig{
			URL:                getEnv("TYPESENSE_URL", ""),
			APIKey:             getEnv("TYPESENSE_API_KEY", ""),
			ArticlesCollection: getEnv("TYPESENSE_ARTICLES_COLLECTION", "articles"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", ""),
		},
	}

	if !cfg.ArangoDB.Enabled() {
		return Config{}, fmt.Errorf("ARANGO_URL, ARANGO_USERNAME and ARANGO_DATABASE are required")
	}

	if serviceType == ServiceTypeServer && cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c ArangoDBConfig) Enabled() bool {
	return c.URL != "" && c.Username != "" && c.Database != ""
}

func (c TypesenseConfig) Enabled() bool {
	return c.URL != "" && c.APIKey != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func hostnameOr(fallback string) string {
	if h, err := os.Hostname(); err == nil && strings.TrimSpace(h) != "" {
		return h
	}
	return fallback
}
