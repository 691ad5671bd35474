package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	AppPort       string
	UIPort        string
	DatabaseURL   string
	WebhookSecret string
	RateRPS       float64
	RateBurst     int
}

// Load reads environment variables and returns a populated Config.
// DATABASE_URL may be empty: the service then runs without a store and
// every intent degrades to its offline response.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		UIPort:        getEnv("UI_PORT", "8081"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		RateRPS:       getEnvFloat("RATE_RPS", 20),
		RateBurst:     getEnvInt("RATE_BURST", 40),
	}

	if cfg.WebhookSecret == "" {
		log.Fatal("WEBHOOK_SECRET must be set")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
