package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// APIConfig configures the HTTP binary (auth + command + query).
type APIConfig struct {
	Port           string
	Env            string
	JWTSecret      string
	AdminUsername  string
	AdminPassword  string
	KafkaBrokers   []string
	RedisURL       string
	IdempotencyTTL time.Duration
}

// SettlementConfig configures the settlement worker binary.
type SettlementConfig struct {
	Env             string
	KafkaBrokers    []string
	ConsumerGroup   string
	StripeSecretKey string
	MetricsPort     string
	Postgres        Postgres
}

// ProjectionConfig configures the status projection worker binary.
type ProjectionConfig struct {
	Env           string
	KafkaBrokers  []string
	ConsumerGroup string
	RedisURL      string
	MetricsPort   string
}

type Postgres struct {
	User     string
	Password string
	DB       string
	Host     string
	Port     string
	SSLMode  string
	TimeZone string
}

func LoadAPI() (*APIConfig, error) {
	_ = godotenv.Load()

	cfg := &APIConfig{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		KafkaBrokers:   brokers(),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		IdempotencyTTL: 24 * time.Hour,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD not set")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS not set")
	}
	return cfg, nil
}

func LoadSettlement() (*SettlementConfig, error) {
	_ = godotenv.Load()

	cfg := &SettlementConfig{
		Env:             getEnv("APP_ENV", "development"),
		KafkaBrokers:    brokers(),
		ConsumerGroup:   getEnv("SETTLEMENT_CONSUMER_GROUP", "stripe-payment-processor"),
		StripeSecretKey: os.Getenv("STRIPE_API_KEY"),
		MetricsPort:     getEnv("METRICS_PORT", "9101"),
		Postgres:        loadPostgres(),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS not set")
	}
	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_API_KEY not set")
	}
	if cfg.Postgres.User == "" || cfg.Postgres.Password == "" || cfg.Postgres.DB == "" {
		return nil, fmt.Errorf("missing required POSTGRES_* environment variables")
	}
	return cfg, nil
}

func LoadProjection() (*ProjectionConfig, error) {
	_ = godotenv.Load()

	cfg := &ProjectionConfig{
		Env:           getEnv("APP_ENV", "development"),
		KafkaBrokers:  brokers(),
		ConsumerGroup: getEnv("PROJECTION_CONSUMER_GROUP", "payment-status-consumer"),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		MetricsPort:   getEnv("METRICS_PORT", "9102"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS not set")
	}
	return cfg, nil
}

func loadPostgres() Postgres {
	return Postgres{
		User:     os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		DB:       os.Getenv("POSTGRES_DB"),
		Host:     getEnv("POSTGRES_HOST", "localhost"),
		Port:     getEnv("POSTGRES_PORT", "5432"),
		SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
	}
}

func brokers() []string {
	raw := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if raw == "" {
		return nil
	}
	var out []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
