package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	LogLevel string
	Env      string

	JWTSecret string

	// Seed fills an empty store with demo data on startup. Dev only.
	Seed bool

	// RateLimit is requests per second per client; RateBurst the burst size.
	RateLimit float64
	RateBurst int
}

func LoadConfig() (*Config, error) {
	// A missing .env is fine; the deployment may set the environment itself.
	_ = godotenv.Load()

	return &Config{
		Port:      GetEnv("PORT", "8081"),
		Env:       GetEnv("ENV", "development"),
		LogLevel:  GetEnv("LOG_LEVEL", "info"),
		JWTSecret: GetEnv("JWT_SECRET", "dev-secret-change-me"),
		Seed:      GetEnv("SEED", "false") == "true",
		RateLimit: getFloat("RATE_LIMIT", 10),
		RateBurst: getInt("RATE_BURST", 20),
	}, nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
