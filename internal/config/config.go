package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN          string
	RedisAddr      string
	RedisPassword  string
	RabbitMQURL    string
	HTTPPort       string
	Environment    string
	MigrationsPath string

	// Video session tokens are signed locally with this secret.
	SessionTokenSecret string

	// Scheduling constants. These are system-wide, not per provider.
	BlockDuration   time.Duration
	MaxSearchDays   int
	RateLimitPerSec int
}

func Load() (*Config, error) {
	// Load .env if present; plain environment variables work without it.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:              os.Getenv("DB_DSN"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RabbitMQURL:        os.Getenv("RABBITMQ_URL"),
		HTTPPort:           os.Getenv("HTTP_PORT"),
		Environment:        os.Getenv("ENV"),
		MigrationsPath:     os.Getenv("MIGRATIONS_PATH"),
		SessionTokenSecret: os.Getenv("SESSION_TOKEN_SECRET"),
		BlockDuration:      time.Duration(envInt("APPOINTMENT_BLOCK_MINUTES", 30)) * time.Minute,
		MaxSearchDays:      envInt("MAX_SEARCH_DAYS", 7),
		RateLimitPerSec:    envInt("RATE_LIMIT_PER_SECOND", 50),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = "8080"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.SessionTokenSecret == "" {
		return nil, fmt.Errorf("SESSION_TOKEN_SECRET is required but not set")
	}

	return cfg, nil
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, def)
		return def
	}
	return v
}
